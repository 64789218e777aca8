package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
)

// PgxMappingRepository reads the account mapping tables the resolver rule
// chain consults. Every finder returns nil on a missing row; the resolver
// treats that as a miss and falls through.
type PgxMappingRepository struct {
	BaseRepository
}

// newPgxMappingRepository creates a new repository for account mapping data.
func newPgxMappingRepository(db Querier) portsrepo.MappingRepository {
	return &PgxMappingRepository{BaseRepository: BaseRepository{db: db}}
}

// Ensure PgxMappingRepository implements portsrepo.MappingRepository
var _ portsrepo.MappingRepository = (*PgxMappingRepository)(nil)

func (r *PgxMappingRepository) FindVarianceReasonAccount(ctx context.Context, organizationID, varianceReasonID string) (*string, error) {
	query := `SELECT account_id FROM gl_variance_reason_accounts WHERE organization_id = $1 AND variance_reason_id = $2;`

	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, varianceReasonID))
	if err != nil {
		return nil, fmt.Errorf("failed to find variance reason account: %w", err)
	}
	return id, nil
}

func (r *PgxMappingRepository) FindFixedAssetAccounts(ctx context.Context, fixedAssetID string) (*domain.FixedAssetAccounts, error) {
	query := `SELECT accum_depreciation_account_id, depreciation_expense_account_id FROM gl_fixed_asset_accounts WHERE fixed_asset_id = $1;`
	return r.scanFixedAssetAccounts(ctx, query, fixedAssetID)
}

func (r *PgxMappingRepository) FindFixedAssetTypeAccounts(ctx context.Context, fixedAssetTypeID string) (*domain.FixedAssetAccounts, error) {
	query := `SELECT accum_depreciation_account_id, depreciation_expense_account_id FROM gl_fixed_asset_type_accounts WHERE fixed_asset_type_id = $1;`
	return r.scanFixedAssetAccounts(ctx, query, fixedAssetTypeID)
}

func (r *PgxMappingRepository) scanFixedAssetAccounts(ctx context.Context, query, key string) (*domain.FixedAssetAccounts, error) {
	var fa domain.FixedAssetAccounts
	err := r.db.QueryRow(ctx, query, key).Scan(&fa.AccumulatedDepreciationAccountID, &fa.DepreciationExpenseAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find fixed asset accounts: %w", err)
	}
	return &fa, nil
}

func (r *PgxMappingRepository) FindPartyAccount(ctx context.Context, organizationID, partyID, roleTypeID, accountTypeTag string) (*string, error) {
	query := `
		SELECT account_id FROM gl_party_accounts
		WHERE organization_id = $1 AND party_id = $2 AND role_type_id = $3 AND account_type_tag = $4;
	`
	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, partyID, roleTypeID, accountTypeTag))
	if err != nil {
		return nil, fmt.Errorf("failed to find party account: %w", err)
	}
	return id, nil
}

func (r *PgxMappingRepository) FindPaymentMethodAccount(ctx context.Context, organizationID, paymentMethodID string) (*string, error) {
	query := `SELECT account_id FROM gl_payment_method_accounts WHERE organization_id = $1 AND payment_method_id = $2;`

	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, paymentMethodID))
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method account: %w", err)
	}
	return id, nil
}

func (r *PgxMappingRepository) FindCreditCardTypeAccount(ctx context.Context, organizationID, creditCardTypeID string) (*string, error) {
	query := `SELECT account_id FROM gl_credit_card_type_accounts WHERE organization_id = $1 AND card_type_id = $2;`

	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, creditCardTypeID))
	if err != nil {
		return nil, fmt.Errorf("failed to find credit card type account: %w", err)
	}
	return id, nil
}

func (r *PgxMappingRepository) FindPaymentMethodTypeAccount(ctx context.Context, organizationID, paymentMethodTypeID string) (*string, error) {
	query := `SELECT account_id FROM gl_payment_method_type_accounts WHERE organization_id = $1 AND payment_method_type_id = $2;`

	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, paymentMethodTypeID))
	if err != nil {
		return nil, fmt.Errorf("failed to find payment method type account: %w", err)
	}
	return id, nil
}

func (r *PgxMappingRepository) FindProductAccount(ctx context.Context, organizationID, productID, accountTypeTag string) (*string, error) {
	query := `
		SELECT account_id FROM gl_product_accounts
		WHERE organization_id = $1 AND product_id = $2 AND account_type_tag = $3;
	`
	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, productID, accountTypeTag))
	if err != nil {
		return nil, fmt.Errorf("failed to find product account: %w", err)
	}
	return id, nil
}

// ListProductCategoryIDs returns the categories the product belongs to, most
// recently effective membership first.
func (r *PgxMappingRepository) ListProductCategoryIDs(ctx context.Context, productID string) ([]string, error) {
	query := `
		SELECT category_id FROM product_category_members
		WHERE product_id = $1
		ORDER BY from_date DESC, category_id;
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories of product %s: %w", productID, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PgxMappingRepository) FindProductCategoryAccount(ctx context.Context, organizationID, categoryID, accountTypeTag string) (*string, error) {
	query := `
		SELECT account_id FROM gl_product_category_accounts
		WHERE organization_id = $1 AND category_id = $2 AND account_type_tag = $3;
	`
	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, categoryID, accountTypeTag))
	if err != nil {
		return nil, fmt.Errorf("failed to find product category account: %w", err)
	}
	return id, nil
}

func (r *PgxMappingRepository) FindInvoiceItemTypeAccount(ctx context.Context, organizationID, invoiceItemTypeID string) (*string, error) {
	query := `SELECT account_id FROM gl_invoice_item_type_accounts WHERE organization_id = $1 AND invoice_item_type_id = $2;`

	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, invoiceItemTypeID))
	if err != nil {
		return nil, fmt.Errorf("failed to find invoice item type account: %w", err)
	}
	return id, nil
}

func (r *PgxMappingRepository) FindDefaultAccount(ctx context.Context, organizationID, accountTypeTag string) (*string, error) {
	query := `SELECT account_id FROM gl_default_accounts WHERE organization_id = $1 AND account_type_tag = $2;`

	id, err := scanNullableID(r.db.QueryRow(ctx, query, organizationID, accountTypeTag))
	if err != nil {
		return nil, fmt.Errorf("failed to find default account: %w", err)
	}
	return id, nil
}
