package services

import (
	"context"

	"github.com/finpost/glcore/internal/core/domain"
)

// ClassifierSvc resolves the transitive closure of the account class tree.
type ClassifierSvc interface {
	// DescendantClassIDs returns the root and every class under it. An
	// unknown root yields just the root itself.
	DescendantClassIDs(ctx context.Context, rootClassID string) ([]string, error)
}

// ResolverSvc finds the concrete ledger account for a transaction leg via
// the ordered fallback chain. Pure lookup, no side effects.
type ResolverSvc interface {
	// ResolveAccount returns an account id or apperrors.ErrAccountNotResolvable.
	ResolveAccount(ctx context.Context, rc domain.ResolutionContext) (string, error)
}

// NormalizerSvc fills in missing entry fields and canonicalizes signs/sides.
type NormalizerSvc interface {
	// NormalizeEntries returns the normalized legs. Individually rejected legs
	// are dropped with a logged warning; apperrors.ErrAccountingDisabled
	// aborts the whole batch.
	NormalizeEntries(ctx context.Context, trans domain.Transaction, entries []domain.Entry) ([]domain.Entry, error)
}

// PostingSvc is the posting state machine plus the trial balance validator.
type PostingSvc interface {
	// CreateTransaction allocates ids, normalizes the legs and persists the
	// transaction unposted.
	CreateTransaction(ctx context.Context, trans domain.Transaction, entries []domain.Entry, creatorUserID string) (*domain.Transaction, error)

	// PostTransaction evaluates all guards and, if they pass, marks the
	// transaction posted. Guard failures are collected wholesale; when the
	// organization has an error journal configured the transaction is
	// redirected there.
	PostTransaction(ctx context.Context, transactionID string, userID string) (*domain.PostingResult, error)

	// VerifyTransaction evaluates every posting guard without mutating state.
	VerifyTransaction(ctx context.Context, transactionID string) (*domain.PostingResult, error)

	// ValidateTrialBalance sums the transaction's legs by side.
	ValidateTrialBalance(ctx context.Context, transactionID string) (*domain.TrialBalanceResult, error)

	// CreateAndPost is the single funnel for business-event builders: create
	// the transaction with normalized legs and attempt immediate posting.
	CreateAndPost(ctx context.Context, trans domain.Transaction, entries []domain.Entry, userID string) (*domain.PostingResult, error)

	// GetTransaction retrieves a transaction header with its entries attached.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

// BalanceSvc is the time-period balance calculator.
type BalanceSvc interface {
	// AccountBalance computes opening/ending balances and posted totals for
	// one account over one period.
	AccountBalance(ctx context.Context, organizationID, periodID, accountID string) (*domain.AccountBalance, error)

	// AccountBalances computes balances for many accounts over one period in
	// a single pass.
	AccountBalances(ctx context.Context, organizationID, periodID string, accounts []domain.Account) ([]domain.AccountBalance, error)
}

// ClosingSvc transitions a time period from open to closed.
type ClosingSvc interface {
	// ClosePeriod validates, posts the closing entry, snapshots every
	// assigned account and flips the closed flag, atomically. Re-closing an
	// already-closed period with unchanged data is a no-op.
	ClosePeriod(ctx context.Context, organizationID, periodID, userID string) error
}

// StatementSvc generates the standard financial reports.
type StatementSvc interface {
	TrialBalance(ctx context.Context, organizationID, periodID string) (*domain.TrialBalanceReport, error)
	IncomeStatement(ctx context.Context, organizationID, periodID string) (*domain.IncomeStatementReport, error)
	BalanceSheet(ctx context.Context, organizationID, periodID string) (*domain.BalanceSheetReport, error)
	CashFlowStatement(ctx context.Context, organizationID, periodID string) (*domain.CashFlowReport, error)
	ComparativeBalanceSheet(ctx context.Context, organizationID, period1ID, period2ID string) (*domain.ComparativeBalanceSheetReport, error)
}
