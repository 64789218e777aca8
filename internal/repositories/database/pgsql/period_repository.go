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

type PgxPeriodRepository struct {
	BaseRepository
}

// newPgxPeriodRepository creates a new repository for time period and
// snapshot data.
func newPgxPeriodRepository(db Querier) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

const periodColumns = `period_id, organization_id, period_type, from_date, thru_date, closed, parent_period_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPeriod(row pgx.Row) (domain.TimePeriod, error) {
	var p domain.TimePeriod
	err := row.Scan(
		&p.PeriodID,
		&p.OrganizationID,
		&p.PeriodType,
		&p.FromDate,
		&p.ThruDate,
		&p.Closed,
		&p.ParentPeriodID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	return p, err
}

// findOne runs a single-period query and maps pgx.ErrNoRows to a nil period.
func (r *PgxPeriodRepository) findOne(ctx context.Context, query string, args ...any) (*domain.TimePeriod, error) {
	period, err := scanPeriod(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &period, nil
}

// FindPeriodByID retrieves a period, or apperrors.ErrNotFound.
func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.TimePeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM gl_time_periods WHERE period_id = $1;`

	period, err := r.findOne(ctx, query, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find time period %s: %w", periodID, err)
	}
	if period == nil {
		return nil, fmt.Errorf("%w: time period %s", apperrors.ErrNotFound, periodID)
	}
	return period, nil
}

// FindOpenPeriodCovering returns an open period of one of the given types
// whose [from, thru) range contains the date, or nil when none exists. The
// narrowest matching period wins.
func (r *PgxPeriodRepository) FindOpenPeriodCovering(ctx context.Context, organizationID string, date time.Time, types []domain.PeriodType) (*domain.TimePeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM gl_time_periods
		WHERE organization_id = $1
		  AND closed = FALSE
		  AND period_type = ANY($2)
		  AND from_date <= $3
		  AND thru_date > $3
		ORDER BY thru_date - from_date, period_id
		LIMIT 1;
	`
	period, err := r.findOne(ctx, query, organizationID, types, date)
	if err != nil {
		return nil, fmt.Errorf("failed to find open period covering %s: %w", date.Format(time.RFC3339), err)
	}
	return period, nil
}

// HasOpenChildPeriods reports whether any period nested under the given one
// is still open.
func (r *PgxPeriodRepository) HasOpenChildPeriods(ctx context.Context, periodID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM gl_time_periods WHERE parent_period_id = $1 AND closed = FALSE);`

	var open bool
	if err := r.db.QueryRow(ctx, query, periodID).Scan(&open); err != nil {
		return false, fmt.Errorf("failed to check child periods of %s: %w", periodID, err)
	}
	return open, nil
}

// FindLastClosedPeriod returns the most recently closed period of the
// organization with thru-date on or before the cutoff, or nil.
func (r *PgxPeriodRepository) FindLastClosedPeriod(ctx context.Context, organizationID string, onOrBefore time.Time) (*domain.TimePeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM gl_time_periods
		WHERE organization_id = $1
		  AND closed = TRUE
		  AND thru_date <= $2
		ORDER BY thru_date DESC, period_id
		LIMIT 1;
	`
	period, err := r.findOne(ctx, query, organizationID, onOrBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to find last closed period: %w", err)
	}
	return period, nil
}

// FindEarliestPeriodOfType returns the organization's earliest period of the
// given type, or nil.
func (r *PgxPeriodRepository) FindEarliestPeriodOfType(ctx context.Context, organizationID string, periodType domain.PeriodType) (*domain.TimePeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM gl_time_periods
		WHERE organization_id = $1
		  AND period_type = $2
		ORDER BY from_date, period_id
		LIMIT 1;
	`
	period, err := r.findOne(ctx, query, organizationID, periodType)
	if err != nil {
		return nil, fmt.Errorf("failed to find earliest %s period: %w", periodType, err)
	}
	return period, nil
}

// MarkPeriodClosed flips the closed flag.
func (r *PgxPeriodRepository) MarkPeriodClosed(ctx context.Context, periodID, updatedBy string, at time.Time) error {
	query := `
		UPDATE gl_time_periods
		SET closed = TRUE, last_updated_by = $2, last_updated_at = $3
		WHERE period_id = $1;
	`
	tag, err := r.db.Exec(ctx, query, periodID, updatedBy, at)
	if err != nil {
		return fmt.Errorf("failed to mark period %s closed: %w", periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: time period %s", apperrors.ErrNotFound, periodID)
	}
	return nil
}

// FindSnapshot retrieves the snapshot for one (org, period, account) triple,
// or nil when none has been written.
func (r *PgxPeriodRepository) FindSnapshot(ctx context.Context, organizationID, periodID, accountID string) (*domain.AccountHistory, error) {
	query := `
		SELECT account_id, organization_id, period_id, opening_balance, ending_balance, posted_debits, posted_credits
		FROM gl_account_history
		WHERE organization_id = $1 AND period_id = $2 AND account_id = $3;
	`
	var h domain.AccountHistory
	err := r.db.QueryRow(ctx, query, organizationID, periodID, accountID).Scan(
		&h.AccountID,
		&h.OrganizationID,
		&h.PeriodID,
		&h.OpeningBalance,
		&h.EndingBalance,
		&h.PostedDebits,
		&h.PostedCredits,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find snapshot for account %s in period %s: %w", accountID, periodID, err)
	}
	return &h, nil
}

// ListSnapshotsForPeriod retrieves all snapshots of a period.
func (r *PgxPeriodRepository) ListSnapshotsForPeriod(ctx context.Context, organizationID, periodID string) ([]domain.AccountHistory, error) {
	query := `
		SELECT account_id, organization_id, period_id, opening_balance, ending_balance, posted_debits, posted_credits
		FROM gl_account_history
		WHERE organization_id = $1 AND period_id = $2
		ORDER BY account_id;
	`
	rows, err := r.db.Query(ctx, query, organizationID, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots of period %s: %w", periodID, err)
	}
	defer rows.Close()

	var snapshots []domain.AccountHistory
	for rows.Next() {
		var h domain.AccountHistory
		err := rows.Scan(
			&h.AccountID,
			&h.OrganizationID,
			&h.PeriodID,
			&h.OpeningBalance,
			&h.EndingBalance,
			&h.PostedDebits,
			&h.PostedCredits,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, h)
	}
	return snapshots, rows.Err()
}

// UpsertSnapshot creates or overwrites the snapshot row.
func (r *PgxPeriodRepository) UpsertSnapshot(ctx context.Context, snapshot domain.AccountHistory) error {
	query := `
		INSERT INTO gl_account_history (account_id, organization_id, period_id, opening_balance, ending_balance, posted_debits, posted_credits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (account_id, organization_id, period_id) DO UPDATE
		SET opening_balance = EXCLUDED.opening_balance,
		    ending_balance = EXCLUDED.ending_balance,
		    posted_debits = EXCLUDED.posted_debits,
		    posted_credits = EXCLUDED.posted_credits;
	`
	_, err := r.db.Exec(ctx, query,
		snapshot.AccountID,
		snapshot.OrganizationID,
		snapshot.PeriodID,
		snapshot.OpeningBalance,
		snapshot.EndingBalance,
		snapshot.PostedDebits,
		snapshot.PostedCredits,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for account %s in period %s: %w", snapshot.AccountID, snapshot.PeriodID, err)
	}
	return nil
}
