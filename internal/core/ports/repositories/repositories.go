package repositories

import "context"

// OrganizationReader defines read operations for internal organizations.
type OrganizationReader interface {
	// IsInternalOrganization reports whether the id names a valid internal
	// accounting organization.
	IsInternalOrganization(ctx context.Context, organizationID string) (bool, error)
}

// TxRepositories is the bundle of repositories bound to one database
// transaction, handed to the function passed to UnitOfWork.WithinTx.
type TxRepositories interface {
	Ledger() LedgerRepositoryFacade
	Periods() PeriodRepositoryFacade
	Accounts() AccountRepositoryFacade
}

// UnitOfWork runs a function with repositories bound to a single database
// transaction; the transaction commits when fn returns nil and rolls back
// otherwise. The posting state machine and the period closing engine each
// run as one unit of work.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r TxRepositories) error) error
}

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo      AccountRepositoryFacade
	MappingRepo      MappingRepository
	LedgerRepo       LedgerRepositoryFacade
	PeriodRepo       PeriodRepositoryFacade
	OrganizationRepo OrganizationReader
	UoW              UnitOfWork
}
