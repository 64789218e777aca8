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

// closingService transitions a time period from open to closed: it posts the
// profit/loss closing entry and snapshots every assigned account, all inside
// one unit of work so a failure at any step leaves the period open.
type closingService struct {
	BaseService
	uow           portsrepo.UnitOfWork
	mappingRepo   portsrepo.MappingRepository
	classifierSvc portssvc.ClassifierSvc
	normalizerSvc portssvc.NormalizerSvc
	prefsStore    portssvc.PreferencesStore
	sequences     portssvc.SequenceGenerator
	rounding      domain.RoundingPolicy
}

// NewClosingService creates a new ClosingSvc.
func NewClosingService(
	uow portsrepo.UnitOfWork,
	mappingRepo portsrepo.MappingRepository,
	classifierSvc portssvc.ClassifierSvc,
	normalizerSvc portssvc.NormalizerSvc,
	prefsStore portssvc.PreferencesStore,
	sequences portssvc.SequenceGenerator,
	rounding domain.RoundingPolicy,
) portssvc.ClosingSvc {
	return &closingService{
		uow:           uow,
		mappingRepo:   mappingRepo,
		classifierSvc: classifierSvc,
		normalizerSvc: normalizerSvc,
		prefsStore:    prefsStore,
		sequences:     sequences,
		rounding:      rounding,
	}
}

var _ portssvc.ClosingSvc = (*closingService)(nil)

// txUnitOfWork wraps repositories already bound to a transaction so that
// services constructed inside a unit of work join it instead of opening a
// nested one.
type txUnitOfWork struct {
	repos portsrepo.TxRepositories
}

func (u txUnitOfWork) WithinTx(ctx context.Context, fn func(portsrepo.TxRepositories) error) error {
	return fn(u.repos)
}

// ClosePeriod runs the closing sequence. Re-closing an already-closed period
// with unchanged data is a no-op; a divergent recomputed balance fails with
// apperrors.ErrDivergentClosingBalance and never overwrites the snapshot.
func (s *closingService) ClosePeriod(ctx context.Context, organizationID, periodID, userID string) error {
	logger := s.GetLogger(ctx)

	err := s.uow.WithinTx(ctx, func(r portsrepo.TxRepositories) error {
		period, err := r.Periods().FindPeriodByID(ctx, periodID)
		if err != nil {
			return fmt.Errorf("failed to find time period %s: %w", periodID, err)
		}
		if period.OrganizationID != organizationID {
			return fmt.Errorf("%w: time period %s does not belong to organization %s", apperrors.ErrNotFound, periodID, organizationID)
		}

		// Step 1: no open child periods.
		hasOpenChildren, err := r.Periods().HasOpenChildPeriods(ctx, periodID)
		if err != nil {
			return fmt.Errorf("failed to check child periods of %s: %w", periodID, err)
		}
		if hasOpenChildren {
			return fmt.Errorf("%w: period %s", apperrors.ErrChildPeriodStillOpen, periodID)
		}

		// Step 2: find the anchor date.
		anchorDate, err := s.anchorDate(ctx, r.Periods(), period)
		if err != nil {
			return err
		}

		// Step 3: net profit/loss over [anchor, thru).
		net, err := s.netProfitLoss(ctx, r, organizationID, anchorDate, period.ThruDate)
		if err != nil {
			return err
		}

		// Step 4: idempotency check against a prior snapshot, then post the
		// closing entry moving profit/loss into retained earnings.
		plAccountID, err := s.designatedAccount(ctx, organizationID, domain.TagProfitLossAccount)
		if err != nil {
			return err
		}
		reAccountID, err := s.designatedAccount(ctx, organizationID, domain.TagRetainedEarnings)
		if err != nil {
			return err
		}

		snapshot, err := r.Periods().FindSnapshot(ctx, organizationID, periodID, plAccountID)
		if err != nil {
			return fmt.Errorf("failed to load closing snapshot: %w", err)
		}
		if snapshot != nil {
			if !snapshot.EndingBalance.Equal(net) {
				return fmt.Errorf("%w: period %s computed %s, snapshot holds %s",
					apperrors.ErrDivergentClosingBalance, periodID, net, snapshot.EndingBalance)
			}
		} else if !period.Closed {
			if err := s.postClosingEntry(ctx, r, period, plAccountID, reAccountID, net, userID); err != nil {
				return err
			}
		}

		if period.Closed {
			logger.Info("Period already closed, nothing to do", slog.String("period_id", periodID))
			return nil
		}

		// Step 5: snapshot every account assigned to the organization during
		// any part of the period.
		accounts, err := r.Accounts().ListAccountsForOrganization(ctx, organizationID, period.FromDate, period.ThruDate)
		if err != nil {
			return fmt.Errorf("failed to list assigned accounts: %w", err)
		}
		txBalance := NewBalanceService(r.Ledger(), r.Periods(), r.Accounts(), s.rounding)
		balances, err := txBalance.AccountBalances(ctx, organizationID, periodID, accounts)
		if err != nil {
			return err
		}
		for _, balance := range balances {
			history := domain.AccountHistory{
				AccountID:      balance.AccountID,
				OrganizationID: organizationID,
				PeriodID:       periodID,
				OpeningBalance: balance.Opening,
				EndingBalance:  balance.Ending,
				PostedDebits:   balance.PostedDebits,
				PostedCredits:  balance.PostedCredits,
			}
			if err := r.Periods().UpsertSnapshot(ctx, history); err != nil {
				return fmt.Errorf("failed to store snapshot for account %s: %w", balance.AccountID, err)
			}
		}

		// Step 6: flip the closed flag, last.
		if err := r.Periods().MarkPeriodClosed(ctx, periodID, userID, time.Now().UTC()); err != nil {
			return fmt.Errorf("failed to mark period closed: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Period closed", slog.String("organization_id", organizationID), slog.String("period_id", periodID))
	return nil
}

// anchorDate finds the baseline date for the closing computation: the
// thru-date of the most recently closed period on or before this one, or the
// from-date of the earliest period of the same type when nothing has been
// closed yet.
func (s *closingService) anchorDate(ctx context.Context, periods portsrepo.PeriodReader, period *domain.TimePeriod) (time.Time, error) {
	anchor, err := periods.FindLastClosedPeriod(ctx, period.OrganizationID, period.ThruDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find last closed period: %w", err)
	}
	if anchor != nil {
		return anchor.ThruDate, nil
	}

	earliest, err := periods.FindEarliestPeriodOfType(ctx, period.OrganizationID, period.PeriodType)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find earliest period: %w", err)
	}
	if earliest == nil {
		return time.Time{}, fmt.Errorf("%w: organization %s", apperrors.ErrNoClosableAnchor, period.OrganizationID)
	}
	return earliest.FromDate, nil
}

// netProfitLoss sums posted actual entries in the expense, revenue and
// income class trees over [from, thru); net is credits minus debits.
func (s *closingService) netProfitLoss(ctx context.Context, r portsrepo.TxRepositories, organizationID string, from, thru time.Time) (decimal.Decimal, error) {
	classIDs := make([]string, 0, 16)
	for _, root := range []string{domain.ClassExpense, domain.ClassRevenue, domain.ClassIncome} {
		descendants, err := s.classifierSvc.DescendantClassIDs(ctx, root)
		if err != nil {
			return decimal.Zero, err
		}
		classIDs = append(classIDs, descendants...)
	}

	accountIDs, err := r.Accounts().ListAccountIDsByClass(ctx, classIDs)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list profit/loss accounts: %w", err)
	}

	credits, err := r.Ledger().SumPostedRange(ctx, organizationID, accountIDs, domain.Credit, from, thru)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum credits: %w", err)
	}
	debits, err := r.Ledger().SumPostedRange(ctx, organizationID, accountIDs, domain.Debit, from, thru)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum debits: %w", err)
	}
	return s.rounding.Apply(credits.Sub(debits)), nil
}

// designatedAccount resolves an organization's configured account for a
// well-known tag, e.g. the profit/loss or retained-earnings account.
func (s *closingService) designatedAccount(ctx context.Context, organizationID, tag string) (string, error) {
	accountID, err := s.mappingRepo.FindDefaultAccount(ctx, organizationID, tag)
	if err != nil {
		return "", fmt.Errorf("failed to look up %s account: %w", tag, err)
	}
	if accountID == nil || *accountID == "" {
		return "", fmt.Errorf("%w: organization %s has no %s account configured", apperrors.ErrNotFound, organizationID, tag)
	}
	return *accountID, nil
}

// postClosingEntry posts the transaction moving the period's net profit/loss
// into retained earnings, dated one second before the period's thru-date so
// it falls inside the period being closed. It goes through the same
// normalize-and-post funnel as every other transaction.
func (s *closingService) postClosingEntry(ctx context.Context, r portsrepo.TxRepositories, period *domain.TimePeriod, plAccountID, reAccountID string, net decimal.Decimal, userID string) error {
	txPosting := NewPostingService(r.Ledger(), r.Periods(), txUnitOfWork{repos: r}, s.normalizerSvc, s.prefsStore, s.sequences)

	trans := domain.Transaction{
		TransactionType: domain.TransTypePeriodClosing,
		FiscalType:      domain.FiscalActual,
		Description:     fmt.Sprintf("Closing entry for period %s", period.PeriodID),
		TransactionDate: period.ThruDate.Add(-time.Second),
	}
	debitAmount := net
	creditAmount := net
	entries := []domain.Entry{
		{
			SeqID:          1,
			Side:           domain.Debit,
			OrigAmount:     &debitAmount,
			AccountID:      plAccountID,
			OrganizationID: period.OrganizationID,
			Description:    "net profit/loss",
		},
		{
			SeqID:          2,
			Side:           domain.Credit,
			OrigAmount:     &creditAmount,
			AccountID:      reAccountID,
			OrganizationID: period.OrganizationID,
			Description:    "retained earnings",
		},
	}

	result, err := txPosting.CreateAndPost(ctx, trans, entries, userID)
	if err != nil {
		return fmt.Errorf("failed to post closing entry for period %s: %w", period.PeriodID, err)
	}
	if !result.Posted {
		return fmt.Errorf("%w: closing entry for period %s rejected: %v",
			apperrors.ErrInternal, period.PeriodID, result.Failures)
	}
	return nil
}
