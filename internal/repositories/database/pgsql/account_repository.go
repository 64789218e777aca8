package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account, account type
// and account class data.
func newPgxAccountRepository(db Querier) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, account_code, name, class_id, account_type_id, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.AccountCode,
		&a.Name,
		&a.ClassID,
		&a.AccountTypeID,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	return a, err
}

// FindAccountByID retrieves a specific account by its unique identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_id = $1;`

	account, err := scanAccount(r.db.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by id; missing ids are
// absent from the map.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return accounts, nil
	}

	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE account_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts[account.AccountID] = account
	}
	return accounts, rows.Err()
}

// ListAccountIDsByClass returns the ids of all accounts in any of the classes.
func (r *PgxAccountRepository) ListAccountIDsByClass(ctx context.Context, classIDs []string) ([]string, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}

	query := `SELECT account_id FROM gl_accounts WHERE class_id = ANY($1) ORDER BY account_id;`
	rows, err := r.db.Query(ctx, query, classIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by class: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListAccountsForOrganization returns the accounts assigned to the
// organization during any part of [from, thru). Assignment rows carry an
// effective range; a NULL thru-date means the assignment is still active.
func (r *PgxAccountRepository) ListAccountsForOrganization(ctx context.Context, organizationID string, from, thru time.Time) ([]domain.Account, error) {
	query := `
		SELECT a.account_id, a.account_code, a.name, a.class_id, a.account_type_id,
		       a.created_at, a.created_by, a.last_updated_at, a.last_updated_by
		FROM gl_accounts a
		JOIN gl_account_organizations ao ON ao.account_id = a.account_id
		WHERE ao.organization_id = $1
		  AND ao.from_date < $3
		  AND (ao.thru_date IS NULL OR ao.thru_date > $2)
		ORDER BY a.account_code;
	`
	rows, err := r.db.Query(ctx, query, organizationID, from, thru)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for organization %s: %w", organizationID, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// FindAccountTypeByID retrieves an account type, or apperrors.ErrNotFound.
func (r *PgxAccountRepository) FindAccountTypeByID(ctx context.Context, accountTypeID string) (*domain.AccountType, error) {
	query := `SELECT account_type_id, parent_type_id, description, debit_based FROM gl_account_types WHERE account_type_id = $1;`

	var t domain.AccountType
	err := r.db.QueryRow(ctx, query, accountTypeID).Scan(&t.AccountTypeID, &t.ParentTypeID, &t.Description, &t.DebitBased)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account type %s", apperrors.ErrNotFound, accountTypeID)
		}
		return nil, fmt.Errorf("failed to find account type %s: %w", accountTypeID, err)
	}
	return &t, nil
}

// FindClassByID retrieves a class node, or apperrors.ErrNotFound.
func (r *PgxAccountRepository) FindClassByID(ctx context.Context, classID string) (*domain.AccountClass, error) {
	query := `SELECT class_id, parent_class_id, description FROM gl_account_classes WHERE class_id = $1;`

	var c domain.AccountClass
	err := r.db.QueryRow(ctx, query, classID).Scan(&c.ClassID, &c.ParentClassID, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account class %s", apperrors.ErrNotFound, classID)
		}
		return nil, fmt.Errorf("failed to find account class %s: %w", classID, err)
	}
	return &c, nil
}

// ListChildClassIDs returns the ids of the direct children of a class.
func (r *PgxAccountRepository) ListChildClassIDs(ctx context.Context, classID string) ([]string, error) {
	query := `SELECT class_id FROM gl_account_classes WHERE parent_class_id = $1 ORDER BY class_id;`

	rows, err := r.db.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query child classes of %s: %w", classID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan class id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
