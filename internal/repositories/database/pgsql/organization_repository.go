package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

type PgxOrganizationRepository struct {
	BaseRepository
}

// newPgxOrganizationRepository creates a new repository for organization and
// accounting preference data.
func newPgxOrganizationRepository(db Querier) *PgxOrganizationRepository {
	return &PgxOrganizationRepository{BaseRepository: BaseRepository{db: db}}
}

var (
	_ portsrepo.OrganizationReader = (*PgxOrganizationRepository)(nil)
	_ portssvc.PreferencesStore    = (*PgxOrganizationRepository)(nil)
)

// IsInternalOrganization reports whether the id names a valid internal
// accounting organization.
func (r *PgxOrganizationRepository) IsInternalOrganization(ctx context.Context, organizationID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM internal_organizations WHERE organization_id = $1);`

	var internal bool
	if err := r.db.QueryRow(ctx, query, organizationID).Scan(&internal); err != nil {
		return false, fmt.Errorf("failed to check organization %s: %w", organizationID, err)
	}
	return internal, nil
}

// GetPreferences reads the organization's accounting preferences, or
// apperrors.ErrNotFound when none are configured.
func (r *PgxOrganizationRepository) GetPreferences(ctx context.Context, organizationID string) (*domain.AccountingPreferences, error) {
	query := `
		SELECT organization_id, base_currency_code, accounting_enabled, error_journal_id, cogs_method
		FROM gl_accounting_preferences
		WHERE organization_id = $1;
	`
	var prefs domain.AccountingPreferences
	err := r.db.QueryRow(ctx, query, organizationID).Scan(
		&prefs.OrganizationID,
		&prefs.BaseCurrencyCode,
		&prefs.AccountingEnabled,
		&prefs.ErrorJournalID,
		&prefs.CogsMethod,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: accounting preferences for organization %s", apperrors.ErrNotFound, organizationID)
		}
		return nil, fmt.Errorf("failed to load accounting preferences for %s: %w", organizationID, err)
	}
	return &prefs, nil
}
