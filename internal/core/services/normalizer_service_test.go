package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/finpost/glcore/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

type NormalizerServiceTestSuite struct {
	suite.Suite
	mockOrgReader   *MockOrganizationReader
	mockAccountRepo *MockAccountRepository
	mockPrefsStore  *MockPreferencesStore
	mockConverter   *MockCurrencyConverter
	mockResolver    *MockResolverService
	service         portssvc.NormalizerSvc
	orgID           string
	trans           domain.Transaction
}

func (suite *NormalizerServiceTestSuite) SetupTest() {
	suite.mockOrgReader = new(MockOrganizationReader)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPrefsStore = new(MockPreferencesStore)
	suite.mockConverter = new(MockCurrencyConverter)
	suite.mockResolver = new(MockResolverService)
	suite.service = services.NewNormalizerService(
		suite.mockOrgReader,
		suite.mockAccountRepo,
		suite.mockPrefsStore,
		suite.mockConverter,
		suite.mockResolver,
	)
	suite.orgID = "ORG-1"
	suite.trans = domain.Transaction{
		TransactionID:   "TX-1",
		TransactionType: domain.TransTypeSalesInvoice,
		TransactionDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *NormalizerServiceTestSuite) enableAccounting() {
	suite.mockOrgReader.On("IsInternalOrganization", mock.Anything, suite.orgID).Return(true, nil)
	suite.mockPrefsStore.On("GetPreferences", mock.Anything, suite.orgID).Return(&domain.AccountingPreferences{
		OrganizationID:    suite.orgID,
		BaseCurrencyCode:  "USD",
		AccountingEnabled: true,
	}, nil)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_BaseCurrencyAmountDerived() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Debit,
		OrigAmount:     decPtr(decimal.NewFromInt(100)),
		AccountID:      "ACC-1",
		OrganizationID: suite.orgID,
	}}

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Require().Len(normalized, 1)
	suite.True(normalized[0].Amount.Equal(decimal.NewFromInt(100)))
	suite.True(normalized[0].OrigAmount.Equal(decimal.NewFromInt(100)))
	suite.Equal(domain.Debit, normalized[0].Side)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_ForeignCurrencyConverted() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Credit,
		OrigAmount:     decPtr(decimal.NewFromInt(100)),
		OrigCurrency:   strPtr("EUR"),
		AccountID:      "ACC-1",
		OrganizationID: suite.orgID,
	}}

	suite.mockConverter.On("Convert", ctx, "EUR", "USD", suite.trans.TransactionDate, decimal.NewFromInt(100)).
		Return(decimal.RequireFromString("108.50"), nil).Once()

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Require().Len(normalized, 1)
	suite.True(normalized[0].Amount.Equal(decimal.RequireFromString("108.50")))
	// The pre-conversion figure survives alongside the base amount.
	suite.True(normalized[0].OrigAmount.Equal(decimal.NewFromInt(100)))
	suite.Equal("EUR", *normalized[0].OrigCurrency)
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *NormalizerServiceTestSuite) TestNormalize_ConversionFailureDropsLeg() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{
		{
			SeqID:          1,
			Side:           domain.Debit,
			OrigAmount:     decPtr(decimal.NewFromInt(100)),
			OrigCurrency:   strPtr("XXX"),
			AccountID:      "ACC-1",
			OrganizationID: suite.orgID,
		},
		{
			SeqID:          2,
			Side:           domain.Credit,
			OrigAmount:     decPtr(decimal.NewFromInt(100)),
			AccountID:      "ACC-2",
			OrganizationID: suite.orgID,
		},
	}

	suite.mockConverter.On("Convert", ctx, "XXX", "USD", suite.trans.TransactionDate, decimal.NewFromInt(100)).
		Return(nil, assert.AnError).Once()

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Require().Len(normalized, 1)
	suite.Equal(2, normalized[0].SeqID)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_NonInternalOrganizationDropped() {
	ctx := context.Background()

	suite.mockOrgReader.On("IsInternalOrganization", mock.Anything, "EXTERNAL-ORG").Return(false, nil).Once()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Debit,
		OrigAmount:     decPtr(decimal.NewFromInt(10)),
		AccountID:      "ACC-1",
		OrganizationID: "EXTERNAL-ORG",
	}}

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Empty(normalized)
	suite.mockPrefsStore.AssertNotCalled(suite.T(), "GetPreferences", mock.Anything, mock.Anything)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_AccountingDisabledAbortsBatch() {
	ctx := context.Background()

	suite.mockOrgReader.On("IsInternalOrganization", mock.Anything, suite.orgID).Return(true, nil)
	suite.mockPrefsStore.On("GetPreferences", mock.Anything, suite.orgID).Return(&domain.AccountingPreferences{
		OrganizationID:    suite.orgID,
		BaseCurrencyCode:  "USD",
		AccountingEnabled: false,
	}, nil)

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Debit,
		OrigAmount:     decPtr(decimal.NewFromInt(10)),
		AccountID:      "ACC-1",
		OrganizationID: suite.orgID,
	}}

	_, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAccountingDisabled)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_MissingAccountResolved() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Credit,
		OrigAmount:     decPtr(decimal.NewFromInt(75)),
		OrganizationID: suite.orgID,
	}}

	suite.mockResolver.On("ResolveAccount", ctx, mock.AnythingOfType("domain.ResolutionContext")).Return("ACC-RESOLVED", nil).Once()

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Require().Len(normalized, 1)
	suite.Equal("ACC-RESOLVED", normalized[0].AccountID)
	suite.mockResolver.AssertExpectations(suite.T())
}

func (suite *NormalizerServiceTestSuite) TestNormalize_UnresolvableLegDropped() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Credit,
		OrigAmount:     decPtr(decimal.NewFromInt(75)),
		OrganizationID: suite.orgID,
	}}

	suite.mockResolver.On("ResolveAccount", ctx, mock.AnythingOfType("domain.ResolutionContext")).
		Return("", apperrors.ErrAccountNotResolvable).Once()

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Empty(normalized)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_NegativeAmountFlipsSide() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Debit,
		OrigAmount:     decPtr(decimal.NewFromInt(-50)),
		AccountID:      "ACC-1",
		OrganizationID: suite.orgID,
	}}

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Require().Len(normalized, 1)
	suite.Equal(domain.Credit, normalized[0].Side)
	suite.True(normalized[0].Amount.Equal(decimal.NewFromInt(50)))
	suite.True(normalized[0].OrigAmount.Equal(decimal.NewFromInt(50)))
}

func (suite *NormalizerServiceTestSuite) TestNormalize_OrigAmountBackfilled() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Debit,
		Amount:         decPtr(decimal.NewFromInt(30)),
		AccountID:      "ACC-1",
		OrganizationID: suite.orgID,
	}}

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Require().Len(normalized, 1)
	suite.Require().NotNil(normalized[0].OrigAmount)
	suite.True(normalized[0].OrigAmount.Equal(decimal.NewFromInt(30)))
	suite.Equal("USD", *normalized[0].OrigCurrency)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_UnknownTagCleared() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Debit,
		OrigAmount:     decPtr(decimal.NewFromInt(20)),
		AccountID:      "ACC-1",
		AccountTypeTag: "BOGUS_TAG",
		OrganizationID: suite.orgID,
	}}

	suite.mockAccountRepo.On("FindAccountTypeByID", ctx, "BOGUS_TAG").Return(nil, apperrors.ErrNotFound).Once()

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Require().Len(normalized, 1)
	suite.Empty(normalized[0].AccountTypeTag)
}

func (suite *NormalizerServiceTestSuite) TestNormalize_NoAmountAtAllDropped() {
	ctx := context.Background()
	suite.enableAccounting()

	entries := []domain.Entry{{
		SeqID:          1,
		Side:           domain.Debit,
		AccountID:      "ACC-1",
		OrganizationID: suite.orgID,
	}}

	normalized, err := suite.service.NormalizeEntries(ctx, suite.trans, entries)

	suite.Require().NoError(err)
	suite.Empty(normalized)
}

func TestNormalizerService(t *testing.T) {
	suite.Run(t, new(NormalizerServiceTestSuite))
}
