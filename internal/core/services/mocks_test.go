package services_test

import (
	"context"
	"time"

	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountIDsByClass(ctx context.Context, classIDs []string) ([]string, error) {
	args := m.Called(ctx, classIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsForOrganization(ctx context.Context, organizationID string, from, thru time.Time) ([]domain.Account, error) {
	args := m.Called(ctx, organizationID, from, thru)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountTypeByID(ctx context.Context, accountTypeID string) (*domain.AccountType, error) {
	args := m.Called(ctx, accountTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountType), args.Error(1)
}

func (m *MockAccountRepository) FindClassByID(ctx context.Context, classID string) (*domain.AccountClass, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountClass), args.Error(1)
}

func (m *MockAccountRepository) ListChildClassIDs(ctx context.Context, classID string) ([]string, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

func (m *MockLedgerRepository) SaveTransaction(ctx context.Context, trans domain.Transaction, entries []domain.Entry) error {
	args := m.Called(ctx, trans, entries)
	return args.Error(0)
}

func (m *MockLedgerRepository) LockTransaction(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func (m *MockLedgerRepository) MarkPosted(ctx context.Context, transactionID string, postedDate time.Time, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, postedDate, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockLedgerRepository) RedirectToErrorJournal(ctx context.Context, transactionID, journalID string, redirectedAt time.Time, updatedBy string) error {
	args := m.Called(ctx, transactionID, journalID, redirectedAt, updatedBy)
	return args.Error(0)
}

func (m *MockLedgerRepository) SumPostedPerAccount(ctx context.Context, organizationID string, accountIDs []string, side domain.EntrySide, before time.Time) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountIDs, side, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) SumPostedRange(ctx context.Context, organizationID string, accountIDs []string, side domain.EntrySide, from, thru time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, organizationID, accountIDs, side, from, thru)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock PeriodRepository ---

type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.TimePeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimePeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOpenPeriodCovering(ctx context.Context, organizationID string, date time.Time, types []domain.PeriodType) (*domain.TimePeriod, error) {
	args := m.Called(ctx, organizationID, date, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimePeriod), args.Error(1)
}

func (m *MockPeriodRepository) HasOpenChildPeriods(ctx context.Context, periodID string) (bool, error) {
	args := m.Called(ctx, periodID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodRepository) FindLastClosedPeriod(ctx context.Context, organizationID string, onOrBefore time.Time) (*domain.TimePeriod, error) {
	args := m.Called(ctx, organizationID, onOrBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimePeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindEarliestPeriodOfType(ctx context.Context, organizationID string, periodType domain.PeriodType) (*domain.TimePeriod, error) {
	args := m.Called(ctx, organizationID, periodType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimePeriod), args.Error(1)
}

func (m *MockPeriodRepository) MarkPeriodClosed(ctx context.Context, periodID, updatedBy string, at time.Time) error {
	args := m.Called(ctx, periodID, updatedBy, at)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindSnapshot(ctx context.Context, organizationID, periodID, accountID string) (*domain.AccountHistory, error) {
	args := m.Called(ctx, organizationID, periodID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountHistory), args.Error(1)
}

func (m *MockPeriodRepository) ListSnapshotsForPeriod(ctx context.Context, organizationID, periodID string) ([]domain.AccountHistory, error) {
	args := m.Called(ctx, organizationID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountHistory), args.Error(1)
}

func (m *MockPeriodRepository) UpsertSnapshot(ctx context.Context, snapshot domain.AccountHistory) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

// --- Mock MappingRepository ---

type MockMappingRepository struct {
	mock.Mock
}

var _ portsrepo.MappingRepository = (*MockMappingRepository)(nil)

func (m *MockMappingRepository) stringPtrResult(args mock.Arguments) (*string, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockMappingRepository) FindVarianceReasonAccount(ctx context.Context, organizationID, varianceReasonID string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, varianceReasonID))
}

func (m *MockMappingRepository) FindFixedAssetAccounts(ctx context.Context, fixedAssetID string) (*domain.FixedAssetAccounts, error) {
	args := m.Called(ctx, fixedAssetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedAssetAccounts), args.Error(1)
}

func (m *MockMappingRepository) FindFixedAssetTypeAccounts(ctx context.Context, fixedAssetTypeID string) (*domain.FixedAssetAccounts, error) {
	args := m.Called(ctx, fixedAssetTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedAssetAccounts), args.Error(1)
}

func (m *MockMappingRepository) FindPartyAccount(ctx context.Context, organizationID, partyID, roleTypeID, accountTypeTag string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, partyID, roleTypeID, accountTypeTag))
}

func (m *MockMappingRepository) FindPaymentMethodAccount(ctx context.Context, organizationID, paymentMethodID string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, paymentMethodID))
}

func (m *MockMappingRepository) FindCreditCardTypeAccount(ctx context.Context, organizationID, creditCardTypeID string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, creditCardTypeID))
}

func (m *MockMappingRepository) FindPaymentMethodTypeAccount(ctx context.Context, organizationID, paymentMethodTypeID string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, paymentMethodTypeID))
}

func (m *MockMappingRepository) FindProductAccount(ctx context.Context, organizationID, productID, accountTypeTag string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, productID, accountTypeTag))
}

func (m *MockMappingRepository) ListProductCategoryIDs(ctx context.Context, productID string) ([]string, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMappingRepository) FindProductCategoryAccount(ctx context.Context, organizationID, categoryID, accountTypeTag string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, categoryID, accountTypeTag))
}

func (m *MockMappingRepository) FindInvoiceItemTypeAccount(ctx context.Context, organizationID, invoiceItemTypeID string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, invoiceItemTypeID))
}

func (m *MockMappingRepository) FindDefaultAccount(ctx context.Context, organizationID, accountTypeTag string) (*string, error) {
	return m.stringPtrResult(m.Called(ctx, organizationID, accountTypeTag))
}

// --- Mock OrganizationReader ---

type MockOrganizationReader struct {
	mock.Mock
}

var _ portsrepo.OrganizationReader = (*MockOrganizationReader)(nil)

func (m *MockOrganizationReader) IsInternalOrganization(ctx context.Context, organizationID string) (bool, error) {
	args := m.Called(ctx, organizationID)
	return args.Bool(0), args.Error(1)
}

// --- Mock PreferencesStore ---

type MockPreferencesStore struct {
	mock.Mock
}

var _ portssvc.PreferencesStore = (*MockPreferencesStore)(nil)

func (m *MockPreferencesStore) GetPreferences(ctx context.Context, organizationID string) (*domain.AccountingPreferences, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPreferences), args.Error(1)
}

// --- Mock CurrencyConverter ---

type MockCurrencyConverter struct {
	mock.Mock
}

var _ portssvc.CurrencyConverter = (*MockCurrencyConverter)(nil)

func (m *MockCurrencyConverter) Convert(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, fromCurrency, toCurrency, asOf, amount)
	if args.Get(0) == nil {
		return decimal.Zero, args.Error(1)
	}
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock SequenceGenerator ---

type MockSequenceGenerator struct {
	mock.Mock
}

var _ portssvc.SequenceGenerator = (*MockSequenceGenerator)(nil)

func (m *MockSequenceGenerator) NextID(ctx context.Context, entityName string) (string, error) {
	args := m.Called(ctx, entityName)
	return args.String(0), args.Error(1)
}

// --- Mock PaymentReader ---

type MockPaymentReader struct {
	mock.Mock
}

var _ portssvc.PaymentReader = (*MockPaymentReader)(nil)

func (m *MockPaymentReader) GetPaymentAccountInfo(ctx context.Context, paymentID string) (*domain.PaymentAccountInfo, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentAccountInfo), args.Error(1)
}

// --- Mock ClassifierSvc ---

type MockClassifierService struct {
	mock.Mock
}

var _ portssvc.ClassifierSvc = (*MockClassifierService)(nil)

func (m *MockClassifierService) DescendantClassIDs(ctx context.Context, rootClassID string) ([]string, error) {
	args := m.Called(ctx, rootClassID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Mock ResolverSvc ---

type MockResolverService struct {
	mock.Mock
}

var _ portssvc.ResolverSvc = (*MockResolverService)(nil)

func (m *MockResolverService) ResolveAccount(ctx context.Context, rc domain.ResolutionContext) (string, error) {
	args := m.Called(ctx, rc)
	return args.String(0), args.Error(1)
}

// --- Mock NormalizerSvc ---

type MockNormalizerService struct {
	mock.Mock
}

var _ portssvc.NormalizerSvc = (*MockNormalizerService)(nil)

func (m *MockNormalizerService) NormalizeEntries(ctx context.Context, trans domain.Transaction, entries []domain.Entry) ([]domain.Entry, error) {
	args := m.Called(ctx, trans, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entry), args.Error(1)
}

// --- Mock BalanceSvc ---

type MockBalanceService struct {
	mock.Mock
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

func (m *MockBalanceService) AccountBalance(ctx context.Context, organizationID, periodID, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, organizationID, periodID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

func (m *MockBalanceService) AccountBalances(ctx context.Context, organizationID, periodID string, accounts []domain.Account) ([]domain.AccountBalance, error) {
	args := m.Called(ctx, organizationID, periodID, accounts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountBalance), args.Error(1)
}

// --- Fake unit of work ---

// fakeTxRepositories hands the test's mocks to code running inside a unit of
// work.
type fakeTxRepositories struct {
	ledger   *MockLedgerRepository
	periods  *MockPeriodRepository
	accounts *MockAccountRepository
}

var _ portsrepo.TxRepositories = fakeTxRepositories{}

func (f fakeTxRepositories) Ledger() portsrepo.LedgerRepositoryFacade   { return f.ledger }
func (f fakeTxRepositories) Periods() portsrepo.PeriodRepositoryFacade { return f.periods }
func (f fakeTxRepositories) Accounts() portsrepo.AccountRepositoryFacade {
	return f.accounts
}

// fakeUnitOfWork runs fn against the test's mocks with no real transaction.
type fakeUnitOfWork struct {
	repos fakeTxRepositories
}

var _ portsrepo.UnitOfWork = fakeUnitOfWork{}

func (f fakeUnitOfWork) WithinTx(ctx context.Context, fn func(portsrepo.TxRepositories) error) error {
	return fn(f.repos)
}
