package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether an entry is a Debit or a Credit leg.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Valid reports whether the side is one of the two legal values. Anything
// else is a data-integrity error, never silently ignored.
func (s EntrySide) Valid() bool {
	return s == Debit || s == Credit
}

// Flip returns the opposite side.
func (s EntrySide) Flip() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// FiscalType distinguishes actual postings from budget/forecast variants.
// Only ACTUAL entries participate in balances and statements.
type FiscalType string

const (
	FiscalActual   FiscalType = "ACTUAL"
	FiscalBudget   FiscalType = "BUDGET"
	FiscalForecast FiscalType = "FORECAST"
)

// Ledger transaction types. The list is open-ended (upstream builders may
// define more); these are the ones this core treats specially.
const (
	TransTypePeriodClosing     = "PERIOD_CLOSING"
	TransTypeInventoryVariance = "INVENTORY_VARIANCE"
	TransTypeDepreciation      = "DEPRECIATION"
	TransTypeSalesInvoice      = "SALES_INVOICE"
	TransTypePurchaseInvoice   = "PURCHASE_INVOICE"
	TransTypeCustomerReturn    = "CUSTOMER_RETURN_INVOICE"
	TransTypeIncomingPayment   = "INCOMING_PAYMENT"
	TransTypeOutgoingPayment   = "OUTGOING_PAYMENT"
	TransTypeShipmentReceipt   = "SHIPMENT_RECEIPT"
	TransTypeManufacturingCost = "MANUFACTURING_COST"
)

// IsPaymentTransactionType reports whether the payment-method resolution rule
// applies to the given transaction type.
func IsPaymentTransactionType(transactionType string) bool {
	return transactionType == TransTypeIncomingPayment || transactionType == TransTypeOutgoingPayment
}

// Transaction is one atomic double-entry posting event with two or more
// balanced legs. Lifecycle: created unposted, legs normalized and attached,
// validated, then posted (terminal) or redirected to an error journal.
type Transaction struct {
	TransactionID        string     `json:"transactionID"`   // Primary Key
	TransactionType      string     `json:"transactionType"` // e.g. SALES_INVOICE
	FiscalType           FiscalType `json:"fiscalType"`
	Description          string     `json:"description"`
	TransactionDate      time.Time  `json:"transactionDate"`
	Posted               bool       `json:"posted"`
	PostedDate           *time.Time `json:"postedDate"`           // Set when Posted flips true
	ScheduledPostingDate *time.Time `json:"scheduledPostingDate"` // Nullable; posting waits for this date
	ErrorJournalID       *string    `json:"errorJournalID"`       // Set when redirected to an error journal
	RedirectedAt         *time.Time `json:"redirectedAt"`

	// Optional links to the originating business documents.
	InvoiceID           *string `json:"invoiceID"`
	PaymentID           *string `json:"paymentID"`
	ShipmentID          *string `json:"shipmentID"`
	WorkEffortID        *string `json:"workEffortID"`
	PhysicalInventoryID *string `json:"physicalInventoryID"`

	AuditFields
	Entries []Entry `json:"entries,omitempty"`
}

// Entry is a single debit or credit leg within a transaction, tied to exactly
// one account. SeqID is unique within the owning transaction. Amount is in
// the organization's base currency; OrigAmount/OrigCurrency preserve the
// pre-conversion figure.
type Entry struct {
	TransactionID  string           `json:"transactionID"`
	SeqID          int              `json:"seqID"`
	Side           EntrySide        `json:"side"`
	Amount         *decimal.Decimal `json:"amount"`         // Nil until normalized
	OrigAmount     *decimal.Decimal `json:"origAmount"`     // Nil means same as Amount
	OrigCurrency   *string          `json:"origCurrency"`   // Nil means base currency
	AccountID      string           `json:"accountID"`      // Empty until resolved
	AccountTypeTag string           `json:"accountTypeTag"` // Resolver key; cleared if bogus
	OrganizationID string           `json:"organizationID"`
	PartyID        *string          `json:"partyID"`
	RoleTypeID     *string          `json:"roleTypeID"`
	ProductID      *string          `json:"productID"`
	Description    string           `json:"description"`
	AuditFields
}

// IsMultiCurrency reports whether the entry carries a converted amount from a
// foreign original currency.
func (e Entry) IsMultiCurrency() bool {
	return e.OrigAmount != nil && e.OrigCurrency != nil
}
