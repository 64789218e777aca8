package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
)

// PgxUnitOfWork runs a function with repositories bound to one database
// transaction. The posting state machine and the period closing engine each
// run as one unit of work, so their guard checks and state flips commit or
// roll back together.
type PgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPgxUnitOfWork creates a unit of work over the pool.
func NewPgxUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &PgxUnitOfWork{pool: pool}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// txRepositories bundles repositories sharing one pgx transaction.
type txRepositories struct {
	ledger   portsrepo.LedgerRepositoryFacade
	periods  portsrepo.PeriodRepositoryFacade
	accounts portsrepo.AccountRepositoryFacade
}

func (t txRepositories) Ledger() portsrepo.LedgerRepositoryFacade    { return t.ledger }
func (t txRepositories) Periods() portsrepo.PeriodRepositoryFacade   { return t.periods }
func (t txRepositories) Accounts() portsrepo.AccountRepositoryFacade { return t.accounts }

// WithinTx begins a transaction, hands transaction-bound repositories to fn,
// and commits when fn returns nil. Any error, including a context
// cancellation mid-flight, rolls everything back.
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(r portsrepo.TxRepositories) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	repos := txRepositories{
		ledger:   newPgxLedgerRepository(tx),
		periods:  newPgxPeriodRepository(tx),
		accounts: newPgxAccountRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
