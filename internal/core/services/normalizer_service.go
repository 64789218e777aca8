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
	"github.com/shopspring/decimal"
)

// normalizerService fills in missing entry fields so that raw legs from the
// business-event builders become complete, correctly-signed ledger legs.
type normalizerService struct {
	BaseService
	orgRepo     portsrepo.OrganizationReader
	typeRepo    portsrepo.AccountTypeReader
	prefsStore  portssvc.PreferencesStore
	converter   portssvc.CurrencyConverter
	resolverSvc portssvc.ResolverSvc
}

// NewNormalizerService creates a new NormalizerSvc.
func NewNormalizerService(
	orgRepo portsrepo.OrganizationReader,
	typeRepo portsrepo.AccountTypeReader,
	prefsStore portssvc.PreferencesStore,
	converter portssvc.CurrencyConverter,
	resolverSvc portssvc.ResolverSvc,
) portssvc.NormalizerSvc {
	return &normalizerService{
		orgRepo:     orgRepo,
		typeRepo:    typeRepo,
		prefsStore:  prefsStore,
		converter:   converter,
		resolverSvc: resolverSvc,
	}
}

var _ portssvc.NormalizerSvc = (*normalizerService)(nil)

// NormalizeEntries normalizes the legs of a transaction. Legs that cannot be
// normalized are dropped with a logged warning; a disabled organization
// aborts the whole batch with apperrors.ErrAccountingDisabled.
func (s *normalizerService) NormalizeEntries(ctx context.Context, trans domain.Transaction, entries []domain.Entry) ([]domain.Entry, error) {
	logger := s.GetLogger(ctx)

	prefsByOrg := make(map[string]*domain.AccountingPreferences)
	normalized := make([]domain.Entry, 0, len(entries))

	for _, entry := range entries {
		isInternal, err := s.orgRepo.IsInternalOrganization(ctx, entry.OrganizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to check organization %s: %w", entry.OrganizationID, err)
		}
		if !isInternal {
			logger.Warn("Dropping entry for non-internal organization",
				slog.String("transaction_id", trans.TransactionID),
				slog.Int("seq_id", entry.SeqID),
				slog.String("organization_id", entry.OrganizationID))
			continue
		}

		prefs, ok := prefsByOrg[entry.OrganizationID]
		if !ok {
			prefs, err = s.prefsStore.GetPreferences(ctx, entry.OrganizationID)
			if err != nil {
				return nil, fmt.Errorf("failed to load accounting preferences for %s: %w", entry.OrganizationID, err)
			}
			prefsByOrg[entry.OrganizationID] = prefs
		}
		if !prefs.AccountingEnabled {
			return nil, fmt.Errorf("%w: organization %s", apperrors.ErrAccountingDisabled, entry.OrganizationID)
		}

		if entry.Amount == nil {
			amount, derived := s.deriveAmount(ctx, trans, entry, prefs)
			if !derived {
				continue
			}
			entry.Amount = amount
		}

		if entry.AccountID == "" {
			accountID, err := s.resolverSvc.ResolveAccount(ctx, s.resolutionContext(trans, entry))
			if err != nil {
				if errors.Is(err, apperrors.ErrAccountNotResolvable) {
					logger.Warn("Dropping entry with unresolvable account",
						slog.String("transaction_id", trans.TransactionID),
						slog.Int("seq_id", entry.SeqID),
						slog.String("account_type_tag", entry.AccountTypeTag))
					continue
				}
				return nil, err
			}
			entry.AccountID = accountID
		}

		if entry.OrigAmount == nil {
			amount := *entry.Amount
			entry.OrigAmount = &amount
			baseCurrency := prefs.BaseCurrencyCode
			entry.OrigCurrency = &baseCurrency
		}

		if entry.AccountTypeTag != "" {
			if _, err := s.typeRepo.FindAccountTypeByID(ctx, entry.AccountTypeTag); err != nil {
				if !errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("failed to validate account type tag %s: %w", entry.AccountTypeTag, err)
				}
				logger.Warn("Clearing unknown account type tag",
					slog.String("transaction_id", trans.TransactionID),
					slog.Int("seq_id", entry.SeqID),
					slog.String("account_type_tag", entry.AccountTypeTag))
				entry.AccountTypeTag = ""
			}
		}

		// Negative original amounts are the canonical way upstream
		// calculators express contra postings: flip sign and side.
		if entry.OrigAmount.IsNegative() {
			flippedOrig := entry.OrigAmount.Neg()
			entry.OrigAmount = &flippedOrig
			flippedAmount := entry.Amount.Neg()
			entry.Amount = &flippedAmount
			entry.Side = entry.Side.Flip()
		}

		normalized = append(normalized, entry)
	}

	return normalized, nil
}

// deriveAmount computes the base-currency amount from the original amount,
// converting when the original currency differs. Returns false when the leg
// must be dropped.
func (s *normalizerService) deriveAmount(ctx context.Context, trans domain.Transaction, entry domain.Entry, prefs *domain.AccountingPreferences) (*decimal.Decimal, bool) {
	logger := s.GetLogger(ctx)

	if entry.OrigAmount == nil {
		logger.Warn("Dropping entry with neither amount nor original amount",
			slog.String("transaction_id", trans.TransactionID),
			slog.Int("seq_id", entry.SeqID))
		return nil, false
	}
	if entry.OrigCurrency == nil || *entry.OrigCurrency == prefs.BaseCurrencyCode {
		amount := *entry.OrigAmount
		return &amount, true
	}

	converted, err := s.converter.Convert(ctx, *entry.OrigCurrency, prefs.BaseCurrencyCode, trans.TransactionDate, *entry.OrigAmount)
	if err != nil {
		logger.Warn("Dropping entry after currency conversion failure",
			slog.String("transaction_id", trans.TransactionID),
			slog.Int("seq_id", entry.SeqID),
			slog.String("from_currency", *entry.OrigCurrency),
			slog.String("to_currency", prefs.BaseCurrencyCode),
			slog.String("error", err.Error()))
		return nil, false
	}
	return &converted, true
}

// resolutionContext assembles the resolver input from the fields a raw leg
// and its transaction header carry.
func (s *normalizerService) resolutionContext(trans domain.Transaction, entry domain.Entry) domain.ResolutionContext {
	return domain.ResolutionContext{
		OrganizationID:  entry.OrganizationID,
		TransactionType: trans.TransactionType,
		AccountTypeTag:  entry.AccountTypeTag,
		Side:            entry.Side,
		ProductID:       entry.ProductID,
		PartyID:         entry.PartyID,
		RoleTypeID:      entry.RoleTypeID,
		PaymentID:       trans.PaymentID,
	}
}
