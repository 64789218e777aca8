package domain

import (
	"github.com/shopspring/decimal"
)

// TrialBalanceRow is one account line of a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport sums posted activity per account for one period.
type TrialBalanceReport struct {
	OrganizationID string            `json:"organizationID"`
	PeriodID       string            `json:"periodID"`
	Rows           []TrialBalanceRow `json:"rows"`
	TotalDebits    decimal.Decimal   `json:"totalDebits"`
	TotalCredits   decimal.Decimal   `json:"totalCredits"`
}

// AccountAmount is an account with its net amount for a report line.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	NetAmount   decimal.Decimal `json:"netAmount"`
}

// IncomeStatementReport classifies accounts into the standard income
// statement sections and nets them.
type IncomeStatementReport struct {
	Revenues            []AccountAmount `json:"revenues"`
	ContraRevenues      []AccountAmount `json:"contraRevenues"`
	CostOfGoodsSold     []AccountAmount `json:"costOfGoodsSold"`
	SellingGeneralAdmin []AccountAmount `json:"sellingGeneralAdmin"`
	Depreciation        []AccountAmount `json:"depreciation"`
	Incomes             []AccountAmount `json:"incomes"`
	Expenses            []AccountAmount `json:"expenses"`

	NetSales        decimal.Decimal `json:"netSales"`        // Revenue - ContraRevenue
	GrossMargin     decimal.Decimal `json:"grossMargin"`     // NetSales - COGS
	OperatingIncome decimal.Decimal `json:"operatingIncome"` // GrossMargin - SGA
	NetIncome       decimal.Decimal `json:"netIncome"`       // NetSales + Income - Expense
}

// BalanceSheetReport is a point-in-time statement of financial position.
// OutOfBalance is a diagnostic only: a non-zero value signals an upstream
// data problem, not a bug in the aggregator.
type BalanceSheetReport struct {
	Assets      []AccountAmount `json:"assets"`
	Liabilities []AccountAmount `json:"liabilities"`
	Equity      []AccountAmount `json:"equity"`

	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	NetIncome        decimal.Decimal `json:"netIncome"` // Synthetic retained-earnings equity line
	OutOfBalance     decimal.Decimal `json:"outOfBalance"`
}

// CashFlowReport tracks cash-equivalent accounts with debit=increase,
// credit=decrease polarity regardless of the account's nominal type.
type CashFlowReport struct {
	OpeningCash decimal.Decimal `json:"openingCash"`
	Increases   decimal.Decimal `json:"increases"`
	Decreases   decimal.Decimal `json:"decreases"`
	EndingCash  decimal.Decimal `json:"endingCash"`
	Accounts    []AccountAmount `json:"accounts"`
}

// ComparativeRow is one outer-joined line of a comparative balance sheet.
// Key is the account id, or a named total-line key for summary rows; a side
// with no data defaults to zero.
type ComparativeRow struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Period1 decimal.Decimal `json:"period1"`
	Period2 decimal.Decimal `json:"period2"`
}

// ComparativeBalanceSheetReport is two balance sheets joined account by
// account.
type ComparativeBalanceSheetReport struct {
	Period1ID   string           `json:"period1ID"`
	Period2ID   string           `json:"period2ID"`
	Assets      []ComparativeRow `json:"assets"`
	Liabilities []ComparativeRow `json:"liabilities"`
	Equity      []ComparativeRow `json:"equity"`
	Totals      []ComparativeRow `json:"totals"`
}
