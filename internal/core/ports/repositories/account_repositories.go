package repositories

import (
	"context"
	"time"

	"github.com/finpost/glcore/internal/core/domain"
)

// AccountReader defines read operations for ledger accounts.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts, keyed by account id.
	// Missing ids are simply absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountIDsByClass returns the ids of all accounts whose class is one
	// of the given class ids.
	ListAccountIDsByClass(ctx context.Context, classIDs []string) ([]string, error)

	// ListAccountsForOrganization returns the accounts assigned to the
	// organization during any part of [from, thru).
	ListAccountsForOrganization(ctx context.Context, organizationID string, from, thru time.Time) ([]domain.Account, error)
}

// AccountTypeReader defines read operations for account types (polarity).
type AccountTypeReader interface {
	// FindAccountTypeByID retrieves an account type, or apperrors.ErrNotFound.
	FindAccountTypeByID(ctx context.Context, accountTypeID string) (*domain.AccountType, error)
}

// AccountClassReader defines read operations over the class tree.
type AccountClassReader interface {
	// FindClassByID retrieves a class node, or apperrors.ErrNotFound.
	FindClassByID(ctx context.Context, classID string) (*domain.AccountClass, error)

	// ListChildClassIDs returns the ids of the direct children of a class.
	ListChildClassIDs(ctx context.Context, classID string) ([]string, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountTypeReader
	AccountClassReader
}
