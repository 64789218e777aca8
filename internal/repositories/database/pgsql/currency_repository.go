package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/finpost/glcore/internal/apperrors"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// PgxCurrencyConverter converts amounts using the stored exchange rate whose
// effective date is the latest one on or before the requested date.
type PgxCurrencyConverter struct {
	BaseRepository
}

// newPgxCurrencyConverter creates a new rate-table-backed converter.
func newPgxCurrencyConverter(db Querier) portssvc.CurrencyConverter {
	return &PgxCurrencyConverter{BaseRepository: BaseRepository{db: db}}
}

var _ portssvc.CurrencyConverter = (*PgxCurrencyConverter)(nil)

// Convert converts the amount between currencies at the given date. A missing
// rate is apperrors.ErrNotFound; callers treat it as a normalization failure
// for the affected leg.
func (r *PgxCurrencyConverter) Convert(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time, amount decimal.Decimal) (decimal.Decimal, error) {
	if fromCurrency == toCurrency {
		return amount, nil
	}

	query := `
		SELECT rate FROM exchange_rates
		WHERE from_currency = $1 AND to_currency = $2 AND effective_date <= $3
		ORDER BY effective_date DESC
		LIMIT 1;
	`
	var rate decimal.Decimal
	err := r.db.QueryRow(ctx, query, fromCurrency, toCurrency, asOf).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: no exchange rate from %s to %s as of %s",
				apperrors.ErrNotFound, fromCurrency, toCurrency, asOf.Format("2006-01-02"))
		}
		return decimal.Zero, fmt.Errorf("failed to load exchange rate: %w", err)
	}
	return amount.Mul(rate), nil
}
