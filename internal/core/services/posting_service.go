package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// trialBalanceTolerance is the hard posting tolerance on the debit/credit
// difference. It does not scale with the configured ledger decimals.
var trialBalanceTolerance = decimal.RequireFromString("0.01")

// postingService is the posting lifecycle controller: it creates unposted
// transactions with normalized legs and drives them to Posted or to an
// error-journal redirect.
type postingService struct {
	BaseService
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	periodRepo    portsrepo.PeriodReader
	uow           portsrepo.UnitOfWork
	normalizerSvc portssvc.NormalizerSvc
	prefsStore    portssvc.PreferencesStore
	sequences     portssvc.SequenceGenerator
}

// NewPostingService creates a new PostingSvc.
func NewPostingService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	periodRepo portsrepo.PeriodReader,
	uow portsrepo.UnitOfWork,
	normalizerSvc portssvc.NormalizerSvc,
	prefsStore portssvc.PreferencesStore,
	sequences portssvc.SequenceGenerator,
) portssvc.PostingSvc {
	return &postingService{
		ledgerRepo:    ledgerRepo,
		periodRepo:    periodRepo,
		uow:           uow,
		normalizerSvc: normalizerSvc,
		prefsStore:    prefsStore,
		sequences:     sequences,
	}
}

var _ portssvc.PostingSvc = (*postingService)(nil)

// CreateTransaction allocates ids, normalizes the raw legs and persists the
// transaction unposted.
func (s *postingService) CreateTransaction(ctx context.Context, trans domain.Transaction, entries []domain.Entry, creatorUserID string) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx)
	now := time.Now().UTC()

	if trans.TransactionID == "" {
		id, err := s.sequences.NextID(ctx, "LedgerTransaction")
		if err != nil {
			return nil, fmt.Errorf("failed to allocate transaction id: %w", err)
		}
		trans.TransactionID = id
	}
	if trans.FiscalType == "" {
		trans.FiscalType = domain.FiscalActual
	}
	trans.Posted = false
	trans.PostedDate = nil
	trans.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	normalized, err := s.normalizerSvc.NormalizeEntries(ctx, trans, entries)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		return nil, fmt.Errorf("%w: no postable entries after normalization", apperrors.ErrValidation)
	}

	for i := range normalized {
		normalized[i].TransactionID = trans.TransactionID
		if normalized[i].SeqID == 0 {
			normalized[i].SeqID = i + 1
		}
		normalized[i].AuditFields = trans.AuditFields
	}

	if err := s.ledgerRepo.SaveTransaction(ctx, trans, normalized); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_id", trans.TransactionID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", trans.TransactionID),
		slog.String("transaction_type", trans.TransactionType),
		slog.Int("entry_count", len(normalized)))
	trans.Entries = normalized
	return &trans, nil
}

// ValidateTrialBalance sums the transaction's legs by side. An entry with an
// unknown side is a fatal data-integrity error.
func (s *postingService) ValidateTrialBalance(ctx context.Context, transactionID string) (*domain.TrialBalanceResult, error) {
	entries, err := s.ledgerRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries for %s: %w", transactionID, err)
	}
	return trialBalanceOf(transactionID, entries)
}

// trialBalanceOf computes the debit/credit totals of a set of legs.
func trialBalanceOf(transactionID string, entries []domain.Entry) (*domain.TrialBalanceResult, error) {
	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, entry := range entries {
		if !entry.Side.Valid() {
			return nil, fmt.Errorf("%w: entry %d of transaction %s has side %q",
				apperrors.ErrStructuralData, entry.SeqID, transactionID, entry.Side)
		}
		if entry.Amount == nil {
			continue
		}
		if entry.Side == domain.Debit {
			debitTotal = debitTotal.Add(*entry.Amount)
		} else {
			creditTotal = creditTotal.Add(*entry.Amount)
		}
	}
	return &domain.TrialBalanceResult{
		TransactionID: transactionID,
		DebitTotal:    debitTotal,
		CreditTotal:   creditTotal,
		Difference:    debitTotal.Sub(creditTotal),
	}, nil
}

// PostTransaction runs every guard and flips the transaction to posted when
// all pass; on failure it redirects to the organization's error journal if
// one is configured. The whole check-then-post sequence is one unit of work
// serialized per transaction id.
func (s *postingService) PostTransaction(ctx context.Context, transactionID string, userID string) (*domain.PostingResult, error) {
	logger := s.GetLogger(ctx)

	var result *domain.PostingResult
	err := s.uow.WithinTx(ctx, func(r portsrepo.TxRepositories) error {
		if err := r.Ledger().LockTransaction(ctx, transactionID); err != nil {
			return err
		}

		trans, entries, err := s.loadTransaction(ctx, r.Ledger(), transactionID)
		if err != nil {
			return err
		}
		if trans.Posted {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyPosted, transactionID)
		}

		failures, err := s.evaluateGuards(ctx, r.Periods(), trans, entries)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		result = &domain.PostingResult{TransactionID: transactionID, Failures: failures}

		if len(failures) == 0 {
			if err := r.Ledger().MarkPosted(ctx, transactionID, now, userID, now); err != nil {
				return fmt.Errorf("failed to mark transaction posted: %w", err)
			}
			result.Posted = true
			result.PostedDate = &now
			return nil
		}

		// Guards failed: absorb into the error journal when one is
		// configured, otherwise leave the transaction unposted for the
		// operator.
		journalID, err := s.errorJournalFor(ctx, entries)
		if err != nil {
			return err
		}
		if journalID != nil {
			if err := r.Ledger().RedirectToErrorJournal(ctx, transactionID, *journalID, now, userID); err != nil {
				return fmt.Errorf("failed to redirect transaction to error journal: %w", err)
			}
			result.ErrorJournalID = journalID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Posted {
		logger.Info("Transaction posted", slog.String("transaction_id", transactionID))
	} else {
		logger.Warn("Transaction failed posting guards",
			slog.String("transaction_id", transactionID),
			slog.Int("failure_count", len(result.Failures)),
			slog.Bool("redirected", result.ErrorJournalID != nil))
	}
	return result, nil
}

// VerifyTransaction evaluates every posting guard without mutating state.
// The evaluation is re-run in full, never served from a cache.
func (s *postingService) VerifyTransaction(ctx context.Context, transactionID string) (*domain.PostingResult, error) {
	trans, entries, err := s.loadTransaction(ctx, s.ledgerRepo, transactionID)
	if err != nil {
		return nil, err
	}
	if trans.Posted {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrAlreadyPosted, transactionID)
	}

	failures, err := s.evaluateGuards(ctx, s.periodRepo, trans, entries)
	if err != nil {
		return nil, err
	}
	return &domain.PostingResult{
		TransactionID: transactionID,
		VerifyOnly:    true,
		Failures:      failures,
	}, nil
}

// CreateAndPost creates the transaction with normalized legs and attempts
// immediate posting. Every business-event builder funnels through here, so
// the double-entry invariants are enforced in exactly one place.
func (s *postingService) CreateAndPost(ctx context.Context, trans domain.Transaction, entries []domain.Entry, userID string) (*domain.PostingResult, error) {
	created, err := s.CreateTransaction(ctx, trans, entries, userID)
	if err != nil {
		return nil, err
	}
	return s.PostTransaction(ctx, created.TransactionID, userID)
}

// GetTransaction retrieves a transaction header with its entries attached.
func (s *postingService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	trans, entries, err := s.loadTransaction(ctx, s.ledgerRepo, transactionID)
	if err != nil {
		return nil, err
	}
	trans.Entries = entries
	return trans, nil
}

func (s *postingService) loadTransaction(ctx context.Context, repo portsrepo.LedgerRepositoryFacade, transactionID string) (*domain.Transaction, []domain.Entry, error) {
	trans, err := repo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	entries, err := repo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load entries for %s: %w", transactionID, err)
	}
	return trans, entries, nil
}

// evaluateGuards collects every failed posting guard; it never short-circuits
// so the caller sees all defects in one pass.
func (s *postingService) evaluateGuards(ctx context.Context, periods portsrepo.PeriodReader, trans *domain.Transaction, entries []domain.Entry) ([]domain.PostingFailure, error) {
	var failures []domain.PostingFailure

	balance, err := trialBalanceOf(trans.TransactionID, entries)
	if err != nil {
		return nil, err
	}
	if balance.Difference.Abs().GreaterThan(trialBalanceTolerance) {
		failures = append(failures, domain.PostingFailure{
			Code:    domain.FailureTrialBalance,
			Message: fmt.Sprintf("debits %s and credits %s differ by %s", balance.DebitTotal, balance.CreditTotal, balance.Difference),
		})
	}
	debitZero := balance.DebitTotal.IsZero()
	creditZero := balance.CreditTotal.IsZero()
	if debitZero != creditZero {
		failures = append(failures, domain.PostingFailure{
			Code:    domain.FailureOneSided,
			Message: fmt.Sprintf("transaction has only one side: debits %s, credits %s", balance.DebitTotal, balance.CreditTotal),
		})
	}

	for _, entry := range entries {
		if entry.AccountID == "" || entry.Amount == nil {
			failures = append(failures, domain.PostingFailure{
				Code:    domain.FailureEntryIncomplete,
				Message: fmt.Sprintf("entry %d is missing an account or amount", entry.SeqID),
			})
		}
	}

	for _, organizationID := range distinctOrganizations(entries) {
		period, err := periods.FindOpenPeriodCovering(ctx, organizationID, trans.TransactionDate, domain.AllowedPostingPeriodTypes)
		if err != nil {
			return nil, fmt.Errorf("failed to look up posting period for %s: %w", organizationID, err)
		}
		if period == nil {
			failures = append(failures, domain.PostingFailure{
				Code:    domain.FailurePeriodClosedOrMissing,
				Message: fmt.Sprintf("no open time period covers %s for organization %s", trans.TransactionDate.Format(time.DateOnly), organizationID),
			})
		}
	}

	if trans.ScheduledPostingDate != nil && trans.ScheduledPostingDate.After(time.Now().UTC()) {
		failures = append(failures, domain.PostingFailure{
			Code:    domain.FailureNotYetScheduled,
			Message: fmt.Sprintf("scheduled posting date %s is in the future", trans.ScheduledPostingDate.Format(time.DateOnly)),
		})
	}

	return failures, nil
}

// errorJournalFor returns the first configured error journal among the
// organizations on the legs, or nil when none is configured.
func (s *postingService) errorJournalFor(ctx context.Context, entries []domain.Entry) (*string, error) {
	for _, organizationID := range distinctOrganizations(entries) {
		prefs, err := s.prefsStore.GetPreferences(ctx, organizationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load accounting preferences for %s: %w", organizationID, err)
		}
		if prefs.ErrorJournalID != nil && *prefs.ErrorJournalID != "" {
			return prefs.ErrorJournalID, nil
		}
	}
	return nil, nil
}

// distinctOrganizations returns the unique organization ids across the legs,
// in first-seen order.
func distinctOrganizations(entries []domain.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.OrganizationID]; ok {
			continue
		}
		seen[entry.OrganizationID] = struct{}{}
		result = append(result, entry.OrganizationID)
	}
	return result
}
