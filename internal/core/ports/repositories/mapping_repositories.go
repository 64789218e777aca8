package repositories

import (
	"context"

	"github.com/finpost/glcore/internal/core/domain"
)

// MappingRepository exposes the lookup tables the account resolver's rule
// chain consults. Every Find method returns a nil pointer when no mapping
// row exists; that is a miss, not an error, and the resolver falls through
// to the next rule.
type MappingRepository interface {
	// FindVarianceReasonAccount maps an inventory-variance reason code to an
	// account for the organization.
	FindVarianceReasonAccount(ctx context.Context, organizationID, varianceReasonID string) (*string, error)

	// FindFixedAssetAccounts returns the depreciation account pair mapped to a
	// specific fixed asset.
	FindFixedAssetAccounts(ctx context.Context, fixedAssetID string) (*domain.FixedAssetAccounts, error)

	// FindFixedAssetTypeAccounts returns the depreciation account pair mapped
	// at the asset-type level.
	FindFixedAssetTypeAccounts(ctx context.Context, fixedAssetTypeID string) (*domain.FixedAssetAccounts, error)

	// FindPartyAccount returns a party-specific account override.
	FindPartyAccount(ctx context.Context, organizationID, partyID, roleTypeID, accountTypeTag string) (*string, error)

	// FindPaymentMethodAccount maps a concrete payment method to an account.
	FindPaymentMethodAccount(ctx context.Context, organizationID, paymentMethodID string) (*string, error)

	// FindCreditCardTypeAccount maps a credit-card type to an account.
	FindCreditCardTypeAccount(ctx context.Context, organizationID, creditCardTypeID string) (*string, error)

	// FindPaymentMethodTypeAccount maps a payment-method type to an account.
	FindPaymentMethodTypeAccount(ctx context.Context, organizationID, paymentMethodTypeID string) (*string, error)

	// FindProductAccount maps a product directly to an account for the tag.
	FindProductAccount(ctx context.Context, organizationID, productID, accountTypeTag string) (*string, error)

	// ListProductCategoryIDs returns the ids of the categories the product
	// belongs to, most recently effective membership first.
	ListProductCategoryIDs(ctx context.Context, productID string) ([]string, error)

	// FindProductCategoryAccount maps a product category to an account.
	FindProductCategoryAccount(ctx context.Context, organizationID, categoryID, accountTypeTag string) (*string, error)

	// FindInvoiceItemTypeAccount maps an invoice item type to an account.
	FindInvoiceItemTypeAccount(ctx context.Context, organizationID, invoiceItemTypeID string) (*string, error)

	// FindDefaultAccount is the organization-wide catch-all keyed by tag.
	FindDefaultAccount(ctx context.Context, organizationID, accountTypeTag string) (*string, error)
}
