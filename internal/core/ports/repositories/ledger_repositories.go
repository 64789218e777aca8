package repositories

import (
	"context"
	"time"

	"github.com/finpost/glcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction header, or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindEntriesByTransactionID retrieves all entries of a transaction,
	// ordered by sequence id.
	FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error)
}

// TransactionWriter defines write operations for ledger transactions.
type TransactionWriter interface {
	// SaveTransaction persists a transaction header and its entries.
	SaveTransaction(ctx context.Context, trans domain.Transaction, entries []domain.Entry) error

	// LockTransaction takes a row-level lock on the transaction, serializing
	// concurrent posting attempts on the same id. Only meaningful inside
	// WithTransaction.
	LockTransaction(ctx context.Context, transactionID string) error

	// MarkPosted flips the posted flag and stamps the posted date.
	MarkPosted(ctx context.Context, transactionID string, postedDate time.Time, updatedBy string, updatedAt time.Time) error

	// RedirectToErrorJournal stamps the error journal id on the transaction;
	// the transaction stays unposted.
	RedirectToErrorJournal(ctx context.Context, transactionID, journalID string, redirectedAt time.Time, updatedBy string) error
}

// EntrySummer defines the cumulative-sum queries the balance calculator and
// the closing engine are built on. All sums cover only posted entries of
// ACTUAL fiscal type and exclude period-closing transactions.
type EntrySummer interface {
	// SumPostedPerAccount returns, per account id, the total of entries on the
	// given side with transaction date strictly before the cutoff. Accounts
	// with no entries are absent from the map.
	SumPostedPerAccount(ctx context.Context, organizationID string, accountIDs []string, side domain.EntrySide, before time.Time) (map[string]decimal.Decimal, error)

	// SumPostedRange returns the total of entries on the given side with
	// transaction date in [from, thru), across all the given accounts.
	SumPostedRange(ctx context.Context, organizationID string, accountIDs []string, side domain.EntrySide, from, thru time.Time) (decimal.Decimal, error)
}

// LedgerRepositoryFacade combines all ledger repository interfaces.
type LedgerRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	EntrySummer
}
