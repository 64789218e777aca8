package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finpost/glcore/internal/core/domain"
)

// EntryRequest is one leg of a transaction to create. Amount is the figure in
// OrigCurrency (or the organization's base currency when omitted); a negative
// amount flips the side during normalization. AccountID may be left empty for
// the resolver to fill in.
type EntryRequest struct {
	Side           domain.EntrySide `json:"side" binding:"required,debitorcredit"`
	Amount         decimal.Decimal  `json:"amount" binding:"required"`
	Currency       *string          `json:"currency"`
	AccountID      string           `json:"accountID"`
	AccountTypeTag string           `json:"accountTypeTag"`
	OrganizationID string           `json:"organizationID" binding:"required"`
	PartyID        *string          `json:"partyID"`
	RoleTypeID     *string          `json:"roleTypeID"`
	ProductID      *string          `json:"productID"`
	Description    string           `json:"description"`
}

// CreateTransactionRequest defines the data needed to create (and optionally
// immediately post) a ledger transaction.
type CreateTransactionRequest struct {
	TransactionType      string            `json:"transactionType" binding:"required"`
	FiscalType           domain.FiscalType `json:"fiscalType"`
	Description          string            `json:"description"`
	TransactionDate      time.Time         `json:"transactionDate" binding:"required"`
	ScheduledPostingDate *time.Time        `json:"scheduledPostingDate"`
	InvoiceID            *string           `json:"invoiceID"`
	PaymentID            *string           `json:"paymentID"`
	ShipmentID           *string           `json:"shipmentID"`
	WorkEffortID         *string           `json:"workEffortID"`
	PhysicalInventoryID  *string           `json:"physicalInventoryID"`
	Entries              []EntryRequest    `json:"entries" binding:"required,min=1,dive"`
}

// ToDomainTransaction converts the request header to a domain.Transaction.
func (r CreateTransactionRequest) ToDomainTransaction() domain.Transaction {
	return domain.Transaction{
		TransactionType:      r.TransactionType,
		FiscalType:           r.FiscalType,
		Description:          r.Description,
		TransactionDate:      r.TransactionDate,
		ScheduledPostingDate: r.ScheduledPostingDate,
		InvoiceID:            r.InvoiceID,
		PaymentID:            r.PaymentID,
		ShipmentID:           r.ShipmentID,
		WorkEffortID:         r.WorkEffortID,
		PhysicalInventoryID:  r.PhysicalInventoryID,
	}
}

// ToDomainEntries converts the request legs to domain entries.
func (r CreateTransactionRequest) ToDomainEntries() []domain.Entry {
	entries := make([]domain.Entry, len(r.Entries))
	for i, e := range r.Entries {
		amount := e.Amount
		entries[i] = domain.Entry{
			SeqID:          i + 1,
			Side:           e.Side,
			OrigAmount:     &amount,
			OrigCurrency:   e.Currency,
			AccountID:      e.AccountID,
			AccountTypeTag: e.AccountTypeTag,
			OrganizationID: e.OrganizationID,
			PartyID:        e.PartyID,
			RoleTypeID:     e.RoleTypeID,
			ProductID:      e.ProductID,
			Description:    e.Description,
		}
	}
	return entries
}

// EntryResponse defines the data returned for a transaction leg.
type EntryResponse struct {
	SeqID          int              `json:"seqID"`
	Side           domain.EntrySide `json:"side"`
	Amount         *decimal.Decimal `json:"amount"`
	OrigAmount     *decimal.Decimal `json:"origAmount,omitempty"`
	OrigCurrency   *string          `json:"origCurrency,omitempty"`
	AccountID      string           `json:"accountID"`
	OrganizationID string           `json:"organizationID"`
	Description    string           `json:"description,omitempty"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID        string            `json:"transactionID"`
	TransactionType      string            `json:"transactionType"`
	FiscalType           domain.FiscalType `json:"fiscalType"`
	Description          string            `json:"description"`
	TransactionDate      time.Time         `json:"transactionDate"`
	Posted               bool              `json:"posted"`
	PostedDate           *time.Time        `json:"postedDate,omitempty"`
	ScheduledPostingDate *time.Time        `json:"scheduledPostingDate,omitempty"`
	ErrorJournalID       *string           `json:"errorJournalID,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	CreatedBy            string            `json:"createdBy"`
	Entries              []EntryResponse   `json:"entries,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID:        t.TransactionID,
		TransactionType:      t.TransactionType,
		FiscalType:           t.FiscalType,
		Description:          t.Description,
		TransactionDate:      t.TransactionDate,
		Posted:               t.Posted,
		PostedDate:           t.PostedDate,
		ScheduledPostingDate: t.ScheduledPostingDate,
		ErrorJournalID:       t.ErrorJournalID,
		CreatedAt:            t.CreatedAt,
		CreatedBy:            t.CreatedBy,
	}
	for _, e := range t.Entries {
		resp.Entries = append(resp.Entries, EntryResponse{
			SeqID:          e.SeqID,
			Side:           e.Side,
			Amount:         e.Amount,
			OrigAmount:     e.OrigAmount,
			OrigCurrency:   e.OrigCurrency,
			AccountID:      e.AccountID,
			OrganizationID: e.OrganizationID,
			Description:    e.Description,
		})
	}
	return resp
}

// PostingFailureResponse is one guard failure on a posting attempt.
type PostingFailureResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PostingResultResponse defines the outcome of a posting or verification.
type PostingResultResponse struct {
	TransactionID  string                   `json:"transactionID"`
	Posted         bool                     `json:"posted"`
	PostedDate     *time.Time               `json:"postedDate,omitempty"`
	ErrorJournalID *string                  `json:"errorJournalID,omitempty"`
	VerifyOnly     bool                     `json:"verifyOnly"`
	Failures       []PostingFailureResponse `json:"failures,omitempty"`
}

// ToPostingResultResponse converts a domain.PostingResult to its response DTO.
func ToPostingResultResponse(r *domain.PostingResult) PostingResultResponse {
	resp := PostingResultResponse{
		TransactionID:  r.TransactionID,
		Posted:         r.Posted,
		PostedDate:     r.PostedDate,
		ErrorJournalID: r.ErrorJournalID,
		VerifyOnly:     r.VerifyOnly,
	}
	for _, f := range r.Failures {
		resp.Failures = append(resp.Failures, PostingFailureResponse{Code: f.Code, Message: f.Message})
	}
	return resp
}

// TrialBalanceCheckResponse defines the per-transaction trial balance totals.
type TrialBalanceCheckResponse struct {
	TransactionID string          `json:"transactionID"`
	DebitTotal    decimal.Decimal `json:"debitTotal"`
	CreditTotal   decimal.Decimal `json:"creditTotal"`
	Difference    decimal.Decimal `json:"difference"`
}

// ToTrialBalanceCheckResponse converts a domain.TrialBalanceResult.
func ToTrialBalanceCheckResponse(r *domain.TrialBalanceResult) TrialBalanceCheckResponse {
	return TrialBalanceCheckResponse{
		TransactionID: r.TransactionID,
		DebitTotal:    r.DebitTotal,
		CreditTotal:   r.CreditTotal,
		Difference:    r.Difference,
	}
}
