package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// resolutionRule is one step of the resolver's fallback chain. It returns a
// nil pointer on a miss, which sends the resolver to the next rule.
type resolutionRule struct {
	name  string
	apply func(ctx context.Context, rc domain.ResolutionContext) (*string, error)
}

// resolverService resolves the concrete ledger account for a transaction leg
// through an ordered, first-match-wins chain of pure lookups.
type resolverService struct {
	BaseService
	mappingRepo   portsrepo.MappingRepository
	paymentReader portssvc.PaymentReader
	rules         []resolutionRule
}

// ResolverServiceOption is a functional option for configuring the resolver.
type ResolverServiceOption func(*resolverService)

// WithPaymentReader supplies the payments lookup used by the payment-method
// rule. Without it, that rule always misses.
func WithPaymentReader(pr portssvc.PaymentReader) ResolverServiceOption {
	return func(s *resolverService) {
		s.paymentReader = pr
	}
}

// NewResolverService creates a new ResolverSvc.
func NewResolverService(mappingRepo portsrepo.MappingRepository, options ...ResolverServiceOption) portssvc.ResolverSvc {
	svc := &resolverService{mappingRepo: mappingRepo}
	for _, option := range options {
		option(svc)
	}
	// Rule order is the contract: later rules run only when earlier ones miss.
	svc.rules = []resolutionRule{
		{name: "variance_reason", apply: svc.resolveVarianceReason},
		{name: "fixed_asset", apply: svc.resolveFixedAsset},
		{name: "party_override", apply: svc.resolveParty},
		{name: "payment_method", apply: svc.resolvePaymentMethod},
		{name: "product", apply: svc.resolveProduct},
		{name: "invoice_item_type", apply: svc.resolveInvoiceItemType},
		{name: "organization_default", apply: svc.resolveDefault},
	}
	return svc
}

var _ portssvc.ResolverSvc = (*resolverService)(nil)

// ResolveAccount walks the rule chain and returns the first hit.
func (s *resolverService) ResolveAccount(ctx context.Context, rc domain.ResolutionContext) (string, error) {
	logger := s.GetLogger(ctx)
	for _, rule := range s.rules {
		accountID, err := rule.apply(ctx, rc)
		if err != nil {
			return "", fmt.Errorf("account resolution rule %s failed: %w", rule.name, err)
		}
		if accountID != nil && *accountID != "" {
			logger.Debug("Account resolved",
				slog.String("rule", rule.name),
				slog.String("account_id", *accountID),
				slog.String("account_type_tag", rc.AccountTypeTag))
			return *accountID, nil
		}
	}
	return "", fmt.Errorf("%w: organization %s, tag %s, transaction type %s",
		apperrors.ErrAccountNotResolvable, rc.OrganizationID, rc.AccountTypeTag, rc.TransactionType)
}

// resolveVarianceReason maps an inventory-variance reason code to an account.
// Applies only to variance-type transactions.
func (s *resolverService) resolveVarianceReason(ctx context.Context, rc domain.ResolutionContext) (*string, error) {
	if rc.TransactionType != domain.TransTypeInventoryVariance || rc.VarianceReasonID == nil {
		return nil, nil
	}
	return s.mappingRepo.FindVarianceReasonAccount(ctx, rc.OrganizationID, *rc.VarianceReasonID)
}

// resolveFixedAsset maps a depreciation leg to its account: credit side to
// accumulated depreciation, debit side to depreciation expense. Falls back
// from the asset-specific mapping to the asset-type-level one.
func (s *resolverService) resolveFixedAsset(ctx context.Context, rc domain.ResolutionContext) (*string, error) {
	if rc.FixedAssetID == nil && rc.FixedAssetTypeID == nil {
		return nil, nil
	}

	var accounts *domain.FixedAssetAccounts
	if rc.FixedAssetID != nil {
		found, err := s.mappingRepo.FindFixedAssetAccounts(ctx, *rc.FixedAssetID)
		if err != nil {
			return nil, err
		}
		accounts = found
	}
	if accounts == nil && rc.FixedAssetTypeID != nil {
		found, err := s.mappingRepo.FindFixedAssetTypeAccounts(ctx, *rc.FixedAssetTypeID)
		if err != nil {
			return nil, err
		}
		accounts = found
	}
	if accounts == nil {
		return nil, nil
	}

	if rc.Side == domain.Credit {
		if accounts.AccumulatedDepreciationAccountID == "" {
			return nil, nil
		}
		return &accounts.AccumulatedDepreciationAccountID, nil
	}
	if accounts.DepreciationExpenseAccountID == "" {
		return nil, nil
	}
	return &accounts.DepreciationExpenseAccountID, nil
}

// resolveParty finds a party-specific account override.
func (s *resolverService) resolveParty(ctx context.Context, rc domain.ResolutionContext) (*string, error) {
	if rc.PartyID == nil || rc.RoleTypeID == nil {
		return nil, nil
	}
	return s.mappingRepo.FindPartyAccount(ctx, rc.OrganizationID, *rc.PartyID, *rc.RoleTypeID, rc.AccountTypeTag)
}

// resolvePaymentMethod walks the payment mapping chain: explicit override on
// the payment, then payment-method, credit-card-type and payment-method-type
// tables. Applies only to payment transaction types.
func (s *resolverService) resolvePaymentMethod(ctx context.Context, rc domain.ResolutionContext) (*string, error) {
	if !domain.IsPaymentTransactionType(rc.TransactionType) || rc.PaymentID == nil || s.paymentReader == nil {
		return nil, nil
	}

	info, err := s.paymentReader.GetPaymentAccountInfo(ctx, *rc.PaymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if info.OverrideAccountID != nil && *info.OverrideAccountID != "" {
		return info.OverrideAccountID, nil
	}
	if info.PaymentMethodID != nil {
		accountID, err := s.mappingRepo.FindPaymentMethodAccount(ctx, rc.OrganizationID, *info.PaymentMethodID)
		if err != nil || accountID != nil {
			return accountID, err
		}
	}
	if info.CreditCardTypeID != nil {
		accountID, err := s.mappingRepo.FindCreditCardTypeAccount(ctx, rc.OrganizationID, *info.CreditCardTypeID)
		if err != nil || accountID != nil {
			return accountID, err
		}
	}
	return s.mappingRepo.FindPaymentMethodTypeAccount(ctx, rc.OrganizationID, info.PaymentMethodTypeID)
}

// resolveProduct maps a product to an account, falling back to the product's
// category chain (most recently effective membership first) when no direct
// mapping exists.
func (s *resolverService) resolveProduct(ctx context.Context, rc domain.ResolutionContext) (*string, error) {
	if rc.ProductID == nil {
		return nil, nil
	}

	accountID, err := s.mappingRepo.FindProductAccount(ctx, rc.OrganizationID, *rc.ProductID, rc.AccountTypeTag)
	if err != nil || accountID != nil {
		return accountID, err
	}

	categoryIDs, err := s.mappingRepo.ListProductCategoryIDs(ctx, *rc.ProductID)
	if err != nil {
		return nil, err
	}
	for _, categoryID := range categoryIDs {
		accountID, err := s.mappingRepo.FindProductCategoryAccount(ctx, rc.OrganizationID, categoryID, rc.AccountTypeTag)
		if err != nil || accountID != nil {
			return accountID, err
		}
	}
	return nil, nil
}

// resolveInvoiceItemType maps an invoice item type to an account, falling
// back to the per-transaction-type default tag.
func (s *resolverService) resolveInvoiceItemType(ctx context.Context, rc domain.ResolutionContext) (*string, error) {
	if rc.InvoiceItemTypeID != nil {
		accountID, err := s.mappingRepo.FindInvoiceItemTypeAccount(ctx, rc.OrganizationID, *rc.InvoiceItemTypeID)
		if err != nil || accountID != nil {
			return accountID, err
		}
	}

	var fallbackTag string
	switch rc.TransactionType {
	case domain.TransTypePurchaseInvoice:
		fallbackTag = domain.TagUninvoicedReceipts
	case domain.TransTypeCustomerReturn:
		fallbackTag = domain.TagSalesReturns
	case domain.TransTypeSalesInvoice:
		fallbackTag = domain.TagSalesAccount
	default:
		return nil, nil
	}
	return s.mappingRepo.FindDefaultAccount(ctx, rc.OrganizationID, fallbackTag)
}

// resolveDefault is the organization-wide catch-all keyed by account type tag.
func (s *resolverService) resolveDefault(ctx context.Context, rc domain.ResolutionContext) (*string, error) {
	if rc.AccountTypeTag == "" {
		return nil, nil
	}
	return s.mappingRepo.FindDefaultAccount(ctx, rc.OrganizationID, rc.AccountTypeTag)
}
