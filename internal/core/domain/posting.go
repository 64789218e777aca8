package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Posting failure codes. Every guard failure carries one of these so callers
// never see a bare boolean.
const (
	FailureAlreadyPosted         = "ALREADY_POSTED"
	FailureTrialBalance          = "TRIAL_BALANCE_FAILED"
	FailureOneSided              = "ONE_SIDED_TRANSACTION"
	FailureEntryIncomplete       = "ENTRY_INCOMPLETE"
	FailurePeriodClosedOrMissing = "PERIOD_CLOSED_OR_MISSING"
	FailureNotYetScheduled       = "NOT_YET_SCHEDULED"
)

// PostingFailure is one guard failure with a machine code and a
// human-readable message.
type PostingFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PostingResult reports the outcome of a posting attempt. Failures holds
// every guard that failed, not just the first.
type PostingResult struct {
	TransactionID  string           `json:"transactionID"`
	Posted         bool             `json:"posted"`
	PostedDate     *time.Time       `json:"postedDate"`
	ErrorJournalID *string          `json:"errorJournalID"` // Set when the failure was absorbed into an error journal
	VerifyOnly     bool             `json:"verifyOnly"`
	Failures       []PostingFailure `json:"failures,omitempty"`
}

// TrialBalanceResult is the leg-sum check for a single transaction.
type TrialBalanceResult struct {
	TransactionID string          `json:"transactionID"`
	DebitTotal    decimal.Decimal `json:"debitTotal"`
	CreditTotal   decimal.Decimal `json:"creditTotal"`
	Difference    decimal.Decimal `json:"difference"` // DebitTotal - CreditTotal
}

// AccountBalance holds the four figures the time-period balance calculator
// produces for one account over one period.
type AccountBalance struct {
	AccountID      string          `json:"accountID"`
	OrganizationID string          `json:"organizationID"`
	PeriodID       string          `json:"periodID"`
	Opening        decimal.Decimal `json:"opening"`
	Ending         decimal.Decimal `json:"ending"`
	PostedDebits   decimal.Decimal `json:"postedDebits"`
	PostedCredits  decimal.Decimal `json:"postedCredits"`
}
