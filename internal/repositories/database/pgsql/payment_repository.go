package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// PgxPaymentReader is the read-only slice of the payments tables the account
// resolver's payment-method rule consumes.
type PgxPaymentReader struct {
	BaseRepository
}

// newPgxPaymentReader creates a new reader over payment documents.
func newPgxPaymentReader(db Querier) portssvc.PaymentReader {
	return &PgxPaymentReader{BaseRepository: BaseRepository{db: db}}
}

var _ portssvc.PaymentReader = (*PgxPaymentReader)(nil)

// GetPaymentAccountInfo loads the payment fields the resolver needs: the
// optional explicit account override and the method / card-type / method-type
// keys.
func (r *PgxPaymentReader) GetPaymentAccountInfo(ctx context.Context, paymentID string) (*domain.PaymentAccountInfo, error) {
	query := `
		SELECT p.payment_id, p.override_account_id, p.payment_method_id, pm.card_type_id, p.payment_method_type_id
		FROM payments p
		LEFT JOIN payment_methods pm ON pm.payment_method_id = p.payment_method_id
		WHERE p.payment_id = $1;
	`
	var info domain.PaymentAccountInfo
	err := r.db.QueryRow(ctx, query, paymentID).Scan(
		&info.PaymentID,
		&info.OverrideAccountID,
		&info.PaymentMethodID,
		&info.CreditCardTypeID,
		&info.PaymentMethodTypeID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, paymentID)
		}
		return nil, fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	return &info, nil
}
