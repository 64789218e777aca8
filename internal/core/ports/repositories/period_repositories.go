package repositories

import (
	"context"
	"time"

	"github.com/finpost/glcore/internal/core/domain"
)

// PeriodReader defines read operations for time periods.
type PeriodReader interface {
	// FindPeriodByID retrieves a period, or apperrors.ErrNotFound.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.TimePeriod, error)

	// FindOpenPeriodCovering returns an open period of one of the given types
	// whose [from, thru) range contains the date, or nil when none exists.
	FindOpenPeriodCovering(ctx context.Context, organizationID string, date time.Time, types []domain.PeriodType) (*domain.TimePeriod, error)

	// HasOpenChildPeriods reports whether any period nested under the given
	// one is still open.
	HasOpenChildPeriods(ctx context.Context, periodID string) (bool, error)

	// FindLastClosedPeriod returns the most recently closed period of the
	// organization with thru-date on or before the cutoff, or nil.
	FindLastClosedPeriod(ctx context.Context, organizationID string, onOrBefore time.Time) (*domain.TimePeriod, error)

	// FindEarliestPeriodOfType returns the organization's earliest period of
	// the given type, or nil.
	FindEarliestPeriodOfType(ctx context.Context, organizationID string, periodType domain.PeriodType) (*domain.TimePeriod, error)
}

// PeriodWriter defines write operations for time periods.
type PeriodWriter interface {
	// MarkPeriodClosed flips the closed flag.
	MarkPeriodClosed(ctx context.Context, periodID, updatedBy string, at time.Time) error
}

// SnapshotReader defines read operations for account history snapshots.
type SnapshotReader interface {
	// FindSnapshot retrieves the snapshot for one (org, period, account)
	// triple, or nil when none has been written.
	FindSnapshot(ctx context.Context, organizationID, periodID, accountID string) (*domain.AccountHistory, error)

	// ListSnapshotsForPeriod retrieves all snapshots of a period.
	ListSnapshotsForPeriod(ctx context.Context, organizationID, periodID string) ([]domain.AccountHistory, error)
}

// SnapshotWriter defines write operations for account history snapshots.
type SnapshotWriter interface {
	// UpsertSnapshot creates or overwrites the snapshot row. Snapshots are
	// rebuilt, not appended.
	UpsertSnapshot(ctx context.Context, snapshot domain.AccountHistory) error
}

// PeriodRepositoryFacade combines all period-related repository interfaces.
type PeriodRepositoryFacade interface {
	PeriodReader
	PeriodWriter
	SnapshotReader
	SnapshotWriter
}
