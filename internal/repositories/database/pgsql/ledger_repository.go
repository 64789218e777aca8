package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for transaction and entry data.
func newPgxLedgerRepository(db Querier) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const transactionColumns = `transaction_id, transaction_type, fiscal_type, description, transaction_date,
	posted, posted_date, scheduled_posting_date, error_journal_id, redirected_at,
	invoice_id, payment_id, shipment_id, work_effort_id, physical_inventory_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(
		&t.TransactionID,
		&t.TransactionType,
		&t.FiscalType,
		&t.Description,
		&t.TransactionDate,
		&t.Posted,
		&t.PostedDate,
		&t.ScheduledPostingDate,
		&t.ErrorJournalID,
		&t.RedirectedAt,
		&t.InvoiceID,
		&t.PaymentID,
		&t.ShipmentID,
		&t.WorkEffortID,
		&t.PhysicalInventoryID,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	return t, err
}

// FindTransactionByID retrieves a transaction header, or apperrors.ErrNotFound.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM gl_transactions WHERE transaction_id = $1;`

	trans, err := scanTransaction(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	return &trans, nil
}

// FindEntriesByTransactionID retrieves all entries of a transaction in
// sequence order.
func (r *PgxLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.Entry, error) {
	query := `
		SELECT transaction_id, seq_id, side, amount, orig_amount, orig_currency,
		       account_id, account_type_tag, organization_id, party_id, role_type_id, product_id,
		       description, created_at, created_by, last_updated_at, last_updated_by
		FROM gl_entries
		WHERE transaction_id = $1
		ORDER BY seq_id;
	`
	rows, err := r.db.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries of transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		err := rows.Scan(
			&e.TransactionID,
			&e.SeqID,
			&e.Side,
			&e.Amount,
			&e.OrigAmount,
			&e.OrigCurrency,
			&e.AccountID,
			&e.AccountTypeTag,
			&e.OrganizationID,
			&e.PartyID,
			&e.RoleTypeID,
			&e.ProductID,
			&e.Description,
			&e.CreatedAt,
			&e.CreatedBy,
			&e.LastUpdatedAt,
			&e.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveTransaction persists a transaction header and its entries in one batch.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, trans domain.Transaction, entries []domain.Entry) error {
	headerQuery := `
		INSERT INTO gl_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.db.Exec(ctx, headerQuery,
		trans.TransactionID,
		trans.TransactionType,
		trans.FiscalType,
		trans.Description,
		trans.TransactionDate,
		trans.Posted,
		trans.PostedDate,
		trans.ScheduledPostingDate,
		trans.ErrorJournalID,
		trans.RedirectedAt,
		trans.InvoiceID,
		trans.PaymentID,
		trans.ShipmentID,
		trans.WorkEffortID,
		trans.PhysicalInventoryID,
		trans.CreatedAt,
		trans.CreatedBy,
		trans.LastUpdatedAt,
		trans.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s already exists", apperrors.ErrDuplicate, trans.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", trans.TransactionID, err)
	}

	entryQuery := `
		INSERT INTO gl_entries (
			transaction_id, seq_id, side, amount, orig_amount, orig_currency,
			account_id, account_type_tag, organization_id, party_id, role_type_id, product_id,
			description, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(entryQuery,
			e.TransactionID,
			e.SeqID,
			e.Side,
			e.Amount,
			e.OrigAmount,
			e.OrigCurrency,
			e.AccountID,
			e.AccountTypeTag,
			e.OrganizationID,
			e.PartyID,
			e.RoleTypeID,
			e.ProductID,
			e.Description,
			e.CreatedAt,
			e.CreatedBy,
			e.LastUpdatedAt,
			e.LastUpdatedBy,
		)
	}
	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert entries of transaction %s: %w", trans.TransactionID, err)
		}
	}
	return nil
}

// LockTransaction takes a row-level lock on the transaction, serializing
// concurrent posting attempts on the same id.
func (r *PgxLedgerRepository) LockTransaction(ctx context.Context, transactionID string) error {
	query := `SELECT transaction_id FROM gl_transactions WHERE transaction_id = $1 FOR UPDATE;`

	var id string
	if err := r.db.QueryRow(ctx, query, transactionID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return nil
}

// MarkPosted flips the posted flag and stamps the posted date.
func (r *PgxLedgerRepository) MarkPosted(ctx context.Context, transactionID string, postedDate time.Time, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE gl_transactions
		SET posted = TRUE, posted_date = $2, last_updated_by = $3, last_updated_at = $4
		WHERE transaction_id = $1 AND posted = FALSE;
	`
	tag, err := r.db.Exec(ctx, query, transactionID, postedDate, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s posted: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyPosted, transactionID)
	}
	return nil
}

// RedirectToErrorJournal stamps the error journal id; the transaction stays
// unposted.
func (r *PgxLedgerRepository) RedirectToErrorJournal(ctx context.Context, transactionID, journalID string, redirectedAt time.Time, updatedBy string) error {
	query := `
		UPDATE gl_transactions
		SET error_journal_id = $2, redirected_at = $3, last_updated_by = $4, last_updated_at = $3
		WHERE transaction_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, transactionID, journalID, redirectedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to redirect transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// sumFilter is the shared predicate of both summing queries: posted actual
// entries only, period-closing transactions excluded.
const sumFilter = `
	t.posted = TRUE
	AND t.fiscal_type = 'ACTUAL'
	AND t.transaction_type <> 'PERIOD_CLOSING'
	AND e.organization_id = $1
	AND e.account_id = ANY($2)
	AND e.side = $3
`

// SumPostedPerAccount returns per-account totals of entries on the given side
// with transaction date strictly before the cutoff.
func (r *PgxLedgerRepository) SumPostedPerAccount(ctx context.Context, organizationID string, accountIDs []string, side domain.EntrySide, before time.Time) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal, len(accountIDs))
	if len(accountIDs) == 0 {
		return sums, nil
	}

	query := `
		SELECT e.account_id, COALESCE(SUM(e.amount), 0)
		FROM gl_entries e
		JOIN gl_transactions t ON t.transaction_id = e.transaction_id
		WHERE ` + sumFilter + `
		  AND t.transaction_date < $4
		GROUP BY e.account_id;
	`
	rows, err := r.db.Query(ctx, query, organizationID, accountIDs, side, before)
	if err != nil {
		return nil, fmt.Errorf("failed to sum posted entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var accountID string
		var total decimal.Decimal
		if err := rows.Scan(&accountID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan posted sum: %w", err)
		}
		sums[accountID] = total
	}
	return sums, rows.Err()
}

// SumPostedRange returns the total of entries on the given side with
// transaction date in [from, thru), across all the given accounts.
func (r *PgxLedgerRepository) SumPostedRange(ctx context.Context, organizationID string, accountIDs []string, side domain.EntrySide, from, thru time.Time) (decimal.Decimal, error) {
	if len(accountIDs) == 0 {
		return decimal.Zero, nil
	}

	query := `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM gl_entries e
		JOIN gl_transactions t ON t.transaction_id = e.transaction_id
		WHERE ` + sumFilter + `
		  AND t.transaction_date >= $4
		  AND t.transaction_date < $5;
	`
	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, organizationID, accountIDs, side, from, thru).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted range: %w", err)
	}
	return total, nil
}
