package services

import (
	"context"
	"time"

	"github.com/finpost/glcore/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyConverter converts an amount between currencies at a date. A
// conversion failure propagates as a normalization failure for that leg.
type CurrencyConverter interface {
	Convert(ctx context.Context, fromCurrency, toCurrency string, asOf time.Time, amount decimal.Decimal) (decimal.Decimal, error)
}

// PreferencesStore reads an organization's accounting preferences.
type PreferencesStore interface {
	GetPreferences(ctx context.Context, organizationID string) (*domain.AccountingPreferences, error)
}

// SequenceGenerator allocates identifiers ahead of a batch insert.
type SequenceGenerator interface {
	NextID(ctx context.Context, entityName string) (string, error)
}

// PaymentReader is the read-only slice of the payments subsystem the account
// resolver consumes.
type PaymentReader interface {
	GetPaymentAccountInfo(ctx context.Context, paymentID string) (*domain.PaymentAccountInfo, error)
}
