package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finpost/glcore/internal/apperrors"
	"github.com/finpost/glcore/internal/core/domain"
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// balanceService computes time-windowed account balances from raw posted
// entries. Two cumulative totals and one subtraction: the same figures can
// always be re-derived from scratch, which makes this the correctness oracle
// for the snapshots the closing engine persists.
type balanceService struct {
	BaseService
	ledgerRepo  portsrepo.EntrySummer
	periodRepo  portsrepo.PeriodReader
	accountRepo portsrepo.AccountRepositoryFacade
	rounding    domain.RoundingPolicy
}

// NewBalanceService creates a new BalanceSvc with an explicit rounding
// policy.
func NewBalanceService(
	ledgerRepo portsrepo.EntrySummer,
	periodRepo portsrepo.PeriodReader,
	accountRepo portsrepo.AccountRepositoryFacade,
	rounding domain.RoundingPolicy,
) portssvc.BalanceSvc {
	return &balanceService{
		ledgerRepo:  ledgerRepo,
		periodRepo:  periodRepo,
		accountRepo: accountRepo,
		rounding:    rounding,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// AccountBalance computes the opening/ending balances and posted totals for
// one account over one period.
func (s *balanceService) AccountBalance(ctx context.Context, organizationID, periodID, accountID string) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	balances, err := s.AccountBalances(ctx, organizationID, periodID, []domain.Account{*account})
	if err != nil {
		return nil, err
	}
	return &balances[0], nil
}

// AccountBalances computes balances for many accounts over one period with
// four batch sums.
func (s *balanceService) AccountBalances(ctx context.Context, organizationID, periodID string, accounts []domain.Account) ([]domain.AccountBalance, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to find time period %s: %w", periodID, err)
	}

	accountIDs := make([]string, len(accounts))
	for i, account := range accounts {
		accountIDs[i] = account.AccountID
	}

	debitsToOpening, err := s.ledgerRepo.SumPostedPerAccount(ctx, organizationID, accountIDs, domain.Debit, period.FromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum debits to opening: %w", err)
	}
	creditsToOpening, err := s.ledgerRepo.SumPostedPerAccount(ctx, organizationID, accountIDs, domain.Credit, period.FromDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum credits to opening: %w", err)
	}
	debitsToEnding, err := s.ledgerRepo.SumPostedPerAccount(ctx, organizationID, accountIDs, domain.Debit, period.ThruDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum debits to ending: %w", err)
	}
	creditsToEnding, err := s.ledgerRepo.SumPostedPerAccount(ctx, organizationID, accountIDs, domain.Credit, period.ThruDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum credits to ending: %w", err)
	}

	// Polarity is a property of the account's type, looked up once per type.
	debitBasedByType := make(map[string]bool)
	balances := make([]domain.AccountBalance, len(accounts))
	for i, account := range accounts {
		debitBased, ok := debitBasedByType[account.AccountTypeID]
		if !ok {
			accountType, err := s.accountRepo.FindAccountTypeByID(ctx, account.AccountTypeID)
			if err != nil {
				return nil, fmt.Errorf("%w: account type %s of account %s: %v",
					apperrors.ErrStructuralData, account.AccountTypeID, account.AccountID, err)
			}
			debitBased = accountType.DebitBased
			debitBasedByType[account.AccountTypeID] = debitBased
		}

		dOpen := sumOrZero(debitsToOpening, account.AccountID)
		cOpen := sumOrZero(creditsToOpening, account.AccountID)
		dEnd := sumOrZero(debitsToEnding, account.AccountID)
		cEnd := sumOrZero(creditsToEnding, account.AccountID)

		opening := dOpen.Sub(cOpen)
		ending := dEnd.Sub(cEnd)
		if !debitBased {
			opening = cOpen.Sub(dOpen)
			ending = cEnd.Sub(dEnd)
		}

		balances[i] = domain.AccountBalance{
			AccountID:      account.AccountID,
			OrganizationID: organizationID,
			PeriodID:       periodID,
			Opening:        s.rounding.Apply(opening),
			Ending:         s.rounding.Apply(ending),
			PostedDebits:   s.rounding.Apply(dEnd.Sub(dOpen)),
			PostedCredits:  s.rounding.Apply(cEnd.Sub(cOpen)),
		}
	}
	return balances, nil
}

func sumOrZero(sums map[string]decimal.Decimal, accountID string) decimal.Decimal {
	if sum, ok := sums[accountID]; ok {
		return sum
	}
	return decimal.Zero
}
