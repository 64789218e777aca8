package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// statementService composes the balance calculator and the class tree walker
// into the standard financial reports. Every report is an aggregation of
// per-account balances; no report introduces new ledger arithmetic.
type statementService struct {
	BaseService
	balanceSvc    portssvc.BalanceSvc
	classifierSvc portssvc.ClassifierSvc
	accountRepo   portsrepo.AccountRepositoryFacade
	periodRepo    portsrepo.PeriodReader
}

// NewStatementService creates a new StatementSvc.
func NewStatementService(
	balanceSvc portssvc.BalanceSvc,
	classifierSvc portssvc.ClassifierSvc,
	accountRepo portsrepo.AccountRepositoryFacade,
	periodRepo portsrepo.PeriodReader,
) portssvc.StatementSvc {
	return &statementService{
		balanceSvc:    balanceSvc,
		classifierSvc: classifierSvc,
		accountRepo:   accountRepo,
		periodRepo:    periodRepo,
	}
}

var _ portssvc.StatementSvc = (*statementService)(nil)

// accountLine pairs an account with its computed period balance.
type accountLine struct {
	account domain.Account
	balance domain.AccountBalance
}

// periodLines loads every account assigned to the organization during the
// period together with its computed balance, sorted by account code.
func (s *statementService) periodLines(ctx context.Context, organizationID, periodID string) ([]accountLine, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find time period %s: %w", periodID, err)
	}
	if period.OrganizationID != organizationID {
		return nil, fmt.Errorf("%w: time period %s does not belong to organization %s", apperrors.ErrNotFound, periodID, organizationID)
	}

	accounts, err := s.accountRepo.ListAccountsForOrganization(ctx, organizationID, period.FromDate, period.ThruDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned accounts: %w", err)
	}
	balances, err := s.balanceSvc.AccountBalances(ctx, organizationID, periodID, accounts)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.AccountBalance, len(balances))
	for _, b := range balances {
		byID[b.AccountID] = b
	}
	lines := make([]accountLine, 0, len(accounts))
	for _, account := range accounts {
		lines = append(lines, accountLine{account: account, balance: byID[account.AccountID]})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].account.AccountCode < lines[j].account.AccountCode
	})
	return lines, nil
}

// classSet returns the set of class ids under the given roots.
func (s *statementService) classSet(ctx context.Context, roots ...string) (map[string]bool, error) {
	set := make(map[string]bool)
	for _, root := range roots {
		ids, err := s.classifierSvc.DescendantClassIDs(ctx, root)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			set[id] = true
		}
	}
	return set, nil
}

// debitBased looks up the polarity of the account's type, memoized in cache.
func (s *statementService) debitBased(ctx context.Context, cache map[string]bool, account domain.Account) (bool, error) {
	if v, ok := cache[account.AccountTypeID]; ok {
		return v, nil
	}
	accountType, err := s.accountRepo.FindAccountTypeByID(ctx, account.AccountTypeID)
	if err != nil {
		return false, fmt.Errorf("%w: account type %s for account %s: %v",
			apperrors.ErrStructuralData, account.AccountTypeID, account.AccountID, err)
	}
	cache[account.AccountTypeID] = accountType.DebitBased
	return accountType.DebitBased, nil
}

// TrialBalance sums posted period activity per account. Accounts with no
// activity in the period are left off the report.
func (s *statementService) TrialBalance(ctx context.Context, organizationID, periodID string) (*domain.TrialBalanceReport, error) {
	lines, err := s.periodLines(ctx, organizationID, periodID)
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalanceReport{
		OrganizationID: organizationID,
		PeriodID:       periodID,
		Rows:           make([]domain.TrialBalanceRow, 0, len(lines)),
	}
	for _, line := range lines {
		if line.balance.PostedDebits.IsZero() && line.balance.PostedCredits.IsZero() {
			continue
		}
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:   line.account.AccountID,
			AccountCode: line.account.AccountCode,
			AccountName: line.account.Name,
			Debit:       line.balance.PostedDebits,
			Credit:      line.balance.PostedCredits,
		})
		report.TotalDebits = report.TotalDebits.Add(line.balance.PostedDebits)
		report.TotalCredits = report.TotalCredits.Add(line.balance.PostedCredits)
	}
	return report, nil
}

// IncomeStatement classifies the period's activity into the standard income
// statement sections. Each line's net amount is the period change in the
// account's own polarity, so revenues and expenses both read as positive
// magnitudes and the section formulas subtract.
func (s *statementService) IncomeStatement(ctx context.Context, organizationID, periodID string) (*domain.IncomeStatementReport, error) {
	lines, err := s.periodLines(ctx, organizationID, periodID)
	if err != nil {
		return nil, err
	}

	sections := []struct {
		roots  []string
		target *[]domain.AccountAmount
	}{
		{[]string{domain.ClassContraRevenue}, nil},
		{[]string{domain.ClassRevenue}, nil},
		{[]string{domain.ClassCOGSExpense}, nil},
		{[]string{domain.ClassSGAExpense}, nil},
		{[]string{domain.ClassDepreciation}, nil},
		{[]string{domain.ClassIncome}, nil},
		{[]string{domain.ClassExpense}, nil},
	}
	report := &domain.IncomeStatementReport{}
	sections[0].target = &report.ContraRevenues
	sections[1].target = &report.Revenues
	sections[2].target = &report.CostOfGoodsSold
	sections[3].target = &report.SellingGeneralAdmin
	sections[4].target = &report.Depreciation
	sections[5].target = &report.Incomes
	sections[6].target = &report.Expenses

	// Sections are matched most specific first: contra revenue before the
	// revenue tree, COGS/SGA/depreciation before the general expense tree.
	sets := make([]map[string]bool, len(sections))
	for i, section := range sections {
		set, err := s.classSet(ctx, section.roots...)
		if err != nil {
			return nil, err
		}
		sets[i] = set
	}

	for _, line := range lines {
		net := line.balance.Ending.Sub(line.balance.Opening)
		for i := range sections {
			if sets[i][line.account.ClassID] {
				*sections[i].target = append(*sections[i].target, domain.AccountAmount{
					AccountID:   line.account.AccountID,
					AccountCode: line.account.AccountCode,
					Name:        line.account.Name,
					NetAmount:   net,
				})
				break
			}
		}
	}

	revenue := sumAmounts(report.Revenues)
	contra := sumAmounts(report.ContraRevenues)
	cogs := sumAmounts(report.CostOfGoodsSold)
	sga := sumAmounts(report.SellingGeneralAdmin)
	depreciation := sumAmounts(report.Depreciation)
	income := sumAmounts(report.Incomes)
	expense := sumAmounts(report.Expenses)

	report.NetSales = revenue.Sub(contra)
	report.GrossMargin = report.NetSales.Sub(cogs)
	report.OperatingIncome = report.GrossMargin.Sub(sga)
	report.NetIncome = report.NetSales.Sub(cogs).Sub(sga).Sub(depreciation).Add(income).Sub(expense)
	return report, nil
}

// BalanceSheet reports ending balances for the asset, liability and equity
// class trees and inserts unclosed net income as a synthetic retained
// earnings line. Assets == Liabilities + Equity is reported as a diagnostic,
// not enforced; a non-zero OutOfBalance signals an upstream data problem.
func (s *statementService) BalanceSheet(ctx context.Context, organizationID, periodID string) (*domain.BalanceSheetReport, error) {
	lines, err := s.periodLines(ctx, organizationID, periodID)
	if err != nil {
		return nil, err
	}

	assetSet, err := s.classSet(ctx, domain.ClassAsset)
	if err != nil {
		return nil, err
	}
	liabilitySet, err := s.classSet(ctx, domain.ClassLiability)
	if err != nil {
		return nil, err
	}
	equitySet, err := s.classSet(ctx, domain.ClassEquity)
	if err != nil {
		return nil, err
	}
	profitLossSet, err := s.classSet(ctx, domain.ClassRevenue, domain.ClassContraRevenue, domain.ClassIncome, domain.ClassExpense)
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheetReport{}
	polarity := make(map[string]bool)
	for _, line := range lines {
		amount := domain.AccountAmount{
			AccountID:   line.account.AccountID,
			AccountCode: line.account.AccountCode,
			Name:        line.account.Name,
			NetAmount:   line.balance.Ending,
		}
		switch {
		case assetSet[line.account.ClassID]:
			report.Assets = append(report.Assets, amount)
			report.TotalAssets = report.TotalAssets.Add(amount.NetAmount)
		case liabilitySet[line.account.ClassID]:
			report.Liabilities = append(report.Liabilities, amount)
			report.TotalLiabilities = report.TotalLiabilities.Add(amount.NetAmount)
		case equitySet[line.account.ClassID]:
			report.Equity = append(report.Equity, amount)
			report.TotalEquity = report.TotalEquity.Add(amount.NetAmount)
		case profitLossSet[line.account.ClassID]:
			// Unclosed profit and loss rolls into the synthetic retained
			// earnings line. Credit-based balances add, debit-based subtract.
			isDebitBased, err := s.debitBased(ctx, polarity, line.account)
			if err != nil {
				return nil, err
			}
			if isDebitBased {
				report.NetIncome = report.NetIncome.Sub(line.balance.Ending)
			} else {
				report.NetIncome = report.NetIncome.Add(line.balance.Ending)
			}
		}
	}

	report.OutOfBalance = report.TotalAssets.Sub(report.TotalLiabilities).Sub(report.TotalEquity).Sub(report.NetIncome)
	return report, nil
}

// CashFlowStatement tracks the cash-equivalent class tree with debit=increase
// and credit=decrease polarity regardless of each account's nominal type.
func (s *statementService) CashFlowStatement(ctx context.Context, organizationID, periodID string) (*domain.CashFlowReport, error) {
	lines, err := s.periodLines(ctx, organizationID, periodID)
	if err != nil {
		return nil, err
	}
	cashSet, err := s.classSet(ctx, domain.ClassCashEquivalent)
	if err != nil {
		return nil, err
	}

	report := &domain.CashFlowReport{}
	polarity := make(map[string]bool)
	for _, line := range lines {
		if !cashSet[line.account.ClassID] {
			continue
		}
		isDebitBased, err := s.debitBased(ctx, polarity, line.account)
		if err != nil {
			return nil, err
		}
		opening := line.balance.Opening
		if !isDebitBased {
			opening = opening.Neg()
		}
		change := line.balance.PostedDebits.Sub(line.balance.PostedCredits)

		report.OpeningCash = report.OpeningCash.Add(opening)
		report.Increases = report.Increases.Add(line.balance.PostedDebits)
		report.Decreases = report.Decreases.Add(line.balance.PostedCredits)
		report.Accounts = append(report.Accounts, domain.AccountAmount{
			AccountID:   line.account.AccountID,
			AccountCode: line.account.AccountCode,
			Name:        line.account.Name,
			NetAmount:   change,
		})
	}
	report.EndingCash = report.OpeningCash.Add(report.Increases).Sub(report.Decreases)
	return report, nil
}

// ComparativeBalanceSheet runs the single-period balance sheet twice and
// outer-joins the account lists on account id, defaulting a missing side to
// zero. Summary rows join on fixed total-line keys.
func (s *statementService) ComparativeBalanceSheet(ctx context.Context, organizationID, period1ID, period2ID string) (*domain.ComparativeBalanceSheetReport, error) {
	first, err := s.BalanceSheet(ctx, organizationID, period1ID)
	if err != nil {
		return nil, err
	}
	second, err := s.BalanceSheet(ctx, organizationID, period2ID)
	if err != nil {
		return nil, err
	}

	report := &domain.ComparativeBalanceSheetReport{
		Period1ID:   period1ID,
		Period2ID:   period2ID,
		Assets:      joinAmounts(first.Assets, second.Assets),
		Liabilities: joinAmounts(first.Liabilities, second.Liabilities),
		Equity:      joinAmounts(first.Equity, second.Equity),
		Totals: []domain.ComparativeRow{
			{Key: "totalAssets", Name: "Total Assets", Period1: first.TotalAssets, Period2: second.TotalAssets},
			{Key: "totalLiabilities", Name: "Total Liabilities", Period1: first.TotalLiabilities, Period2: second.TotalLiabilities},
			{Key: "totalEquity", Name: "Total Equity", Period1: first.TotalEquity, Period2: second.TotalEquity},
			{Key: "netIncome", Name: "Net Income", Period1: first.NetIncome, Period2: second.NetIncome},
		},
	}
	return report, nil
}

// joinAmounts outer-joins two report sections on account id; an account
// present on only one side gets zero on the other. Rows come out sorted by
// account code.
func joinAmounts(first, second []domain.AccountAmount) []domain.ComparativeRow {
	type pair struct {
		code    string
		name    string
		period1 decimal.Decimal
		period2 decimal.Decimal
	}
	byID := make(map[string]*pair, len(first)+len(second))
	for _, a := range first {
		byID[a.AccountID] = &pair{code: a.AccountCode, name: a.Name, period1: a.NetAmount}
	}
	for _, a := range second {
		if p, ok := byID[a.AccountID]; ok {
			p.period2 = a.NetAmount
		} else {
			byID[a.AccountID] = &pair{code: a.AccountCode, name: a.Name, period2: a.NetAmount}
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if byID[ids[i]].code != byID[ids[j]].code {
			return byID[ids[i]].code < byID[ids[j]].code
		}
		return ids[i] < ids[j]
	})

	rows := make([]domain.ComparativeRow, 0, len(ids))
	for _, id := range ids {
		p := byID[id]
		rows = append(rows, domain.ComparativeRow{Key: id, Name: p.name, Period1: p.period1, Period2: p.period2})
	}
	return rows
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.NetAmount)
	}
	return total
}
