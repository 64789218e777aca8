package domain

import "time"

// Well-known account class identifiers used by the statement aggregators and
// the period closing engine. Classes form a tree; these are the roots the
// aggregators walk.
const (
	ClassAsset          = "ASSET"
	ClassLiability      = "LIABILITY"
	ClassEquity         = "EQUITY"
	ClassRevenue        = "REVENUE"
	ClassContraRevenue  = "CONTRA_REVENUE"
	ClassIncome         = "INCOME"
	ClassExpense        = "EXPENSE"
	ClassCOGSExpense    = "COGS_EXPENSE"
	ClassSGAExpense     = "SGA_EXPENSE"
	ClassDepreciation   = "DEPRECIATION"
	ClassCashEquivalent = "CASH_EQUIVALENT"
)

// Well-known account type tags. A tag names a role an account plays for an
// organization (the resolver's "what kind of account do I need" key), as
// opposed to a concrete account id.
const (
	TagProfitLossAccount  = "PROFIT_LOSS_ACCOUNT"
	TagRetainedEarnings   = "RETAINED_EARNINGS"
	TagSalesAccount       = "SALES_ACCOUNT"
	TagSalesReturns       = "SALES_RETURNS"
	TagUninvoicedReceipts = "UNINVOICED_RECEIPTS"
)

// Account represents a ledger account. Immutable once referenced by a posted
// entry.
type Account struct {
	AccountID     string `json:"accountID"`     // Primary Key (e.g., UUID)
	AccountCode   string `json:"accountCode"`   // Human code, e.g. "4000"
	Name          string `json:"name"`          // Human name
	ClassID       string `json:"classID"`       // FK -> account_classes.class_id
	AccountTypeID string `json:"accountTypeID"` // FK -> account_types.account_type_id; determines polarity
	AuditFields
}

// AccountClass is one node of the account classification tree. A class has at
// most one parent; the tree is used only to aggregate accounts into report
// lines, never mutated during posting.
type AccountClass struct {
	ClassID       string  `json:"classID"`
	ParentClassID *string `json:"parentClassID"` // Nullable; nil means root
	Description   string  `json:"description"`
}

// AccountType carries the polarity of the accounts that reference it: a
// debit-based account shows a positive balance when debits exceed credits
// (assets, expenses); a credit-based one is the reverse.
type AccountType struct {
	AccountTypeID string  `json:"accountTypeID"`
	ParentTypeID  *string `json:"parentTypeID"`
	Description   string  `json:"description"`
	DebitBased    bool    `json:"debitBased"`
}

// AccountOrganization is a time-bounded assignment of an account to an
// organization. An account is a posting candidate for an organization only
// while the assignment is in effect.
type AccountOrganization struct {
	AccountID      string     `json:"accountID"`
	OrganizationID string     `json:"organizationID"`
	FromDate       time.Time  `json:"fromDate"`
	ThruDate       *time.Time `json:"thruDate"` // Nullable; nil means open-ended
}

// OverlapsRange reports whether the assignment is in effect during any part
// of [from, thru).
func (a AccountOrganization) OverlapsRange(from, thru time.Time) bool {
	if !a.FromDate.Before(thru) {
		return false
	}
	if a.ThruDate != nil && !a.ThruDate.After(from) {
		return false
	}
	return true
}
