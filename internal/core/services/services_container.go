package services

import (
	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/finpost/glcore/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	prefsStore portssvc.PreferencesStore,
	converter portssvc.CurrencyConverter,
	sequences portssvc.SequenceGenerator,
	paymentReader portssvc.PaymentReader,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	rounding := cfg.RoundingPolicy()

	// Classifier and resolver are leaves; everything downstream composes them.
	container.Classifier = NewClassifierService(repos.AccountRepo)
	container.Resolver = NewResolverService(
		repos.MappingRepo,
		WithPaymentReader(paymentReader),
	)
	container.Normalizer = NewNormalizerService(
		repos.OrganizationRepo,
		repos.AccountRepo,
		prefsStore,
		converter,
		container.Resolver,
	)
	container.Posting = NewPostingService(
		repos.LedgerRepo,
		repos.PeriodRepo,
		repos.UoW,
		container.Normalizer,
		prefsStore,
		sequences,
	)
	container.Balance = NewBalanceService(repos.LedgerRepo, repos.PeriodRepo, repos.AccountRepo, rounding)
	container.Closing = NewClosingService(
		repos.UoW,
		repos.MappingRepo,
		container.Classifier,
		container.Normalizer,
		prefsStore,
		sequences,
		rounding,
	)
	container.Statements = NewStatementService(container.Balance, container.Classifier, repos.AccountRepo, repos.PeriodRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ClassifierSvc = (*classifierService)(nil)
	_ portssvc.PostingSvc    = (*postingService)(nil)
	_ portssvc.ClosingSvc    = (*closingService)(nil)
)
