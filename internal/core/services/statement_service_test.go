package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finpost/glcore/internal/core/domain"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/finpost/glcore/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StatementServiceTestSuite struct {
	suite.Suite
	mockBalanceSvc  *MockBalanceService
	mockClassifier  *MockClassifierService
	mockAccountRepo *MockAccountRepository
	mockPeriodRepo  *MockPeriodRepository
	service         portssvc.StatementSvc
	orgID           string
	period          *domain.TimePeriod
}

func (suite *StatementServiceTestSuite) SetupTest() {
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.mockClassifier = new(MockClassifierService)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewStatementService(
		suite.mockBalanceSvc,
		suite.mockClassifier,
		suite.mockAccountRepo,
		suite.mockPeriodRepo,
	)
	suite.orgID = "ORG-1"
	suite.period = &domain.TimePeriod{
		PeriodID:       "PER-2026-03",
		OrganizationID: suite.orgID,
		PeriodType:     domain.PeriodFiscalMonth,
		FromDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ThruDate:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

// singletonClasses maps every well-known root to just itself, which keeps
// the section assignment observable without a deep tree.
func (suite *StatementServiceTestSuite) singletonClasses(roots ...string) {
	for _, root := range roots {
		root := root
		suite.mockClassifier.On("DescendantClassIDs", mock.Anything, root).Return([]string{root}, nil)
	}
}

func (suite *StatementServiceTestSuite) expectLines(periodID string, accounts []domain.Account, balances []domain.AccountBalance) {
	suite.mockAccountRepo.On("ListAccountsForOrganization", mock.Anything, suite.orgID, suite.period.FromDate, suite.period.ThruDate).Return(accounts, nil)
	suite.mockBalanceSvc.On("AccountBalances", mock.Anything, suite.orgID, periodID, accounts).Return(balances, nil)
}

func balanceFor(accountID string, opening, ending, debits, credits int64) domain.AccountBalance {
	return domain.AccountBalance{
		AccountID:     accountID,
		Opening:       decimal.NewFromInt(opening),
		Ending:        decimal.NewFromInt(ending),
		PostedDebits:  decimal.NewFromInt(debits),
		PostedCredits: decimal.NewFromInt(credits),
	}
}

func (suite *StatementServiceTestSuite) TestTrialBalance_SkipsZeroActivity() {
	ctx := context.Background()
	accounts := []domain.Account{
		{AccountID: "ACC-CASH", AccountCode: "1000", Name: "Cash", AccountTypeID: "ASSET", ClassID: domain.ClassAsset},
		{AccountID: "ACC-IDLE", AccountCode: "1900", Name: "Idle", AccountTypeID: "ASSET", ClassID: domain.ClassAsset},
		{AccountID: "ACC-SALES", AccountCode: "4000", Name: "Sales", AccountTypeID: "REVENUE", ClassID: domain.ClassRevenue},
	}
	balances := []domain.AccountBalance{
		balanceFor("ACC-CASH", 0, 100, 120, 20),
		balanceFor("ACC-IDLE", 50, 50, 0, 0),
		balanceFor("ACC-SALES", 0, 120, 0, 120),
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(suite.period, nil).Once()
	suite.expectLines(suite.period.PeriodID, accounts, balances)

	report, err := suite.service.TrialBalance(ctx, suite.orgID, suite.period.PeriodID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Rows, 2)
	suite.Equal("ACC-CASH", report.Rows[0].AccountID)
	suite.Equal("ACC-SALES", report.Rows[1].AccountID)
	suite.True(report.TotalDebits.Equal(decimal.NewFromInt(120)))
	suite.True(report.TotalCredits.Equal(decimal.NewFromInt(140)))
}

func (suite *StatementServiceTestSuite) TestIncomeStatement_SectionFormulas() {
	ctx := context.Background()
	suite.singletonClasses(
		domain.ClassContraRevenue, domain.ClassRevenue, domain.ClassCOGSExpense,
		domain.ClassSGAExpense, domain.ClassDepreciation, domain.ClassIncome, domain.ClassExpense,
	)

	accounts := []domain.Account{
		{AccountID: "ACC-SALES", AccountCode: "4000", Name: "Sales", ClassID: domain.ClassRevenue},
		{AccountID: "ACC-RETURNS", AccountCode: "4100", Name: "Returns", ClassID: domain.ClassContraRevenue},
		{AccountID: "ACC-COGS", AccountCode: "5000", Name: "COGS", ClassID: domain.ClassCOGSExpense},
		{AccountID: "ACC-SGA", AccountCode: "6000", Name: "Salaries", ClassID: domain.ClassSGAExpense},
		{AccountID: "ACC-DEP", AccountCode: "6500", Name: "Depreciation", ClassID: domain.ClassDepreciation},
		{AccountID: "ACC-INT", AccountCode: "7000", Name: "Interest Income", ClassID: domain.ClassIncome},
		{AccountID: "ACC-MISC", AccountCode: "8000", Name: "Misc Expense", ClassID: domain.ClassExpense},
	}
	balances := []domain.AccountBalance{
		balanceFor("ACC-SALES", 0, 1000, 0, 1000),
		balanceFor("ACC-RETURNS", 0, 50, 50, 0),
		balanceFor("ACC-COGS", 0, 400, 400, 0),
		balanceFor("ACC-SGA", 0, 100, 100, 0),
		balanceFor("ACC-DEP", 0, 30, 30, 0),
		balanceFor("ACC-INT", 0, 20, 0, 20),
		balanceFor("ACC-MISC", 0, 10, 10, 0),
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(suite.period, nil).Once()
	suite.expectLines(suite.period.PeriodID, accounts, balances)

	report, err := suite.service.IncomeStatement(ctx, suite.orgID, suite.period.PeriodID)

	suite.Require().NoError(err)
	suite.Len(report.Revenues, 1)
	suite.Len(report.ContraRevenues, 1)
	suite.Len(report.CostOfGoodsSold, 1)
	suite.Len(report.SellingGeneralAdmin, 1)
	suite.Len(report.Depreciation, 1)
	suite.Len(report.Incomes, 1)
	suite.Len(report.Expenses, 1)

	suite.True(report.NetSales.Equal(decimal.NewFromInt(950)), "net sales %s", report.NetSales)
	suite.True(report.GrossMargin.Equal(decimal.NewFromInt(550)), "gross margin %s", report.GrossMargin)
	suite.True(report.OperatingIncome.Equal(decimal.NewFromInt(450)), "operating income %s", report.OperatingIncome)
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(430)), "net income %s", report.NetIncome)
}

func (suite *StatementServiceTestSuite) TestBalanceSheet_SyntheticNetIncome() {
	ctx := context.Background()
	suite.singletonClasses(
		domain.ClassAsset, domain.ClassLiability, domain.ClassEquity,
		domain.ClassRevenue, domain.ClassContraRevenue, domain.ClassIncome, domain.ClassExpense,
	)

	accounts := []domain.Account{
		{AccountID: "ACC-CASH", AccountCode: "1000", Name: "Cash", AccountTypeID: "ASSET", ClassID: domain.ClassAsset},
		{AccountID: "ACC-AP", AccountCode: "2000", Name: "Payables", AccountTypeID: "LIABILITY", ClassID: domain.ClassLiability},
		{AccountID: "ACC-STOCK", AccountCode: "3000", Name: "Common Stock", AccountTypeID: "EQUITY", ClassID: domain.ClassEquity},
		{AccountID: "ACC-SALES", AccountCode: "4000", Name: "Sales", AccountTypeID: "REVENUE", ClassID: domain.ClassRevenue},
		{AccountID: "ACC-RENT", AccountCode: "6000", Name: "Rent", AccountTypeID: "EXPENSE", ClassID: domain.ClassExpense},
	}
	balances := []domain.AccountBalance{
		balanceFor("ACC-CASH", 0, 1000, 1000, 0),
		balanceFor("ACC-AP", 0, 400, 0, 400),
		balanceFor("ACC-STOCK", 0, 500, 0, 500),
		balanceFor("ACC-SALES", 0, 150, 0, 150),
		balanceFor("ACC-RENT", 0, 50, 50, 0),
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(suite.period, nil).Once()
	suite.expectLines(suite.period.PeriodID, accounts, balances)
	suite.mockAccountRepo.On("FindAccountTypeByID", ctx, "REVENUE").Return(&domain.AccountType{AccountTypeID: "REVENUE", DebitBased: false}, nil).Once()
	suite.mockAccountRepo.On("FindAccountTypeByID", ctx, "EXPENSE").Return(&domain.AccountType{AccountTypeID: "EXPENSE", DebitBased: true}, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.orgID, suite.period.PeriodID)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(1000)))
	suite.True(report.TotalLiabilities.Equal(decimal.NewFromInt(400)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(500)))
	// Unclosed revenue 150 less expense 50 rolls into the synthetic line.
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(100)), "net income %s", report.NetIncome)
	suite.True(report.OutOfBalance.IsZero(), "out of balance %s", report.OutOfBalance)
}

func (suite *StatementServiceTestSuite) TestCashFlowStatement() {
	ctx := context.Background()
	suite.mockClassifier.On("DescendantClassIDs", mock.Anything, domain.ClassCashEquivalent).Return([]string{domain.ClassCashEquivalent}, nil).Once()

	accounts := []domain.Account{
		{AccountID: "ACC-CASH", AccountCode: "1000", Name: "Cash", AccountTypeID: "ASSET", ClassID: domain.ClassCashEquivalent},
		{AccountID: "ACC-INV", AccountCode: "1400", Name: "Inventory", AccountTypeID: "ASSET", ClassID: domain.ClassAsset},
	}
	balances := []domain.AccountBalance{
		balanceFor("ACC-CASH", 100, 300, 500, 300),
		balanceFor("ACC-INV", 0, 700, 700, 0),
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, suite.period.PeriodID).Return(suite.period, nil).Once()
	suite.expectLines(suite.period.PeriodID, accounts, balances)
	suite.mockAccountRepo.On("FindAccountTypeByID", ctx, "ASSET").Return(&domain.AccountType{AccountTypeID: "ASSET", DebitBased: true}, nil).Once()

	report, err := suite.service.CashFlowStatement(ctx, suite.orgID, suite.period.PeriodID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Accounts, 1)
	suite.True(report.OpeningCash.Equal(decimal.NewFromInt(100)))
	suite.True(report.Increases.Equal(decimal.NewFromInt(500)))
	suite.True(report.Decreases.Equal(decimal.NewFromInt(300)))
	suite.True(report.EndingCash.Equal(decimal.NewFromInt(300)))
	suite.True(report.Accounts[0].NetAmount.Equal(decimal.NewFromInt(200)))
}

func (suite *StatementServiceTestSuite) TestComparativeBalanceSheet_OuterJoin() {
	ctx := context.Background()
	period2 := &domain.TimePeriod{
		PeriodID:       "PER-2026-04",
		OrganizationID: suite.orgID,
		PeriodType:     domain.PeriodFiscalMonth,
		FromDate:       suite.period.ThruDate,
		ThruDate:       time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	suite.singletonClasses(
		domain.ClassAsset, domain.ClassLiability, domain.ClassEquity,
		domain.ClassRevenue, domain.ClassContraRevenue, domain.ClassIncome, domain.ClassExpense,
	)

	cash := domain.Account{AccountID: "ACC-CASH", AccountCode: "1000", Name: "Cash", AccountTypeID: "ASSET", ClassID: domain.ClassAsset}
	truck := domain.Account{AccountID: "ACC-TRUCK", AccountCode: "1500", Name: "Truck", AccountTypeID: "ASSET", ClassID: domain.ClassAsset}

	accounts1 := []domain.Account{cash}
	accounts2 := []domain.Account{cash, truck}

	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, suite.period.PeriodID).Return(suite.period, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, period2.PeriodID).Return(period2, nil).Once()
	suite.mockAccountRepo.On("ListAccountsForOrganization", mock.Anything, suite.orgID, suite.period.FromDate, suite.period.ThruDate).Return(accounts1, nil).Once()
	suite.mockAccountRepo.On("ListAccountsForOrganization", mock.Anything, suite.orgID, period2.FromDate, period2.ThruDate).Return(accounts2, nil).Once()
	suite.mockBalanceSvc.On("AccountBalances", mock.Anything, suite.orgID, suite.period.PeriodID, accounts1).Return([]domain.AccountBalance{
		balanceFor("ACC-CASH", 0, 100, 100, 0),
	}, nil).Once()
	suite.mockBalanceSvc.On("AccountBalances", mock.Anything, suite.orgID, period2.PeriodID, accounts2).Return([]domain.AccountBalance{
		balanceFor("ACC-CASH", 100, 250, 150, 0),
		balanceFor("ACC-TRUCK", 0, 900, 900, 0),
	}, nil).Once()

	report, err := suite.service.ComparativeBalanceSheet(ctx, suite.orgID, suite.period.PeriodID, period2.PeriodID)

	suite.Require().NoError(err)
	suite.Require().Len(report.Assets, 2)

	suite.Equal("ACC-CASH", report.Assets[0].Key)
	suite.True(report.Assets[0].Period1.Equal(decimal.NewFromInt(100)))
	suite.True(report.Assets[0].Period2.Equal(decimal.NewFromInt(250)))

	// The truck only exists in the second period; the first side is zero.
	suite.Equal("ACC-TRUCK", report.Assets[1].Key)
	suite.True(report.Assets[1].Period1.IsZero())
	suite.True(report.Assets[1].Period2.Equal(decimal.NewFromInt(900)))

	suite.Require().Len(report.Totals, 4)
	suite.Equal("totalAssets", report.Totals[0].Key)
	suite.True(report.Totals[0].Period1.Equal(decimal.NewFromInt(100)))
	suite.True(report.Totals[0].Period2.Equal(decimal.NewFromInt(1150)))
}

func TestStatementService(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
