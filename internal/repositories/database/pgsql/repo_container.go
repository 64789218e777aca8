package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finpost/glcore/internal/core/ports/repositories"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
)

// Collaborators are the database-backed implementations of the service-layer
// collaborator ports.
type Collaborators struct {
	Preferences portssvc.PreferencesStore
	Converter   portssvc.CurrencyConverter
	Sequences   portssvc.SequenceGenerator
	Payments    portssvc.PaymentReader
}

func NewRepositoryProvider(dbPool *pgxpool.Pool) (portsrepo.RepositoryProvider, Collaborators) {
	accountRepo := newPgxAccountRepository(dbPool)
	mappingRepo := newPgxMappingRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	organizationRepo := newPgxOrganizationRepository(dbPool)

	provider := portsrepo.RepositoryProvider{
		AccountRepo:      accountRepo,
		MappingRepo:      mappingRepo,
		LedgerRepo:       ledgerRepo,
		PeriodRepo:       periodRepo,
		OrganizationRepo: organizationRepo,
		UoW:              NewPgxUnitOfWork(dbPool),
	}
	collaborators := Collaborators{
		Preferences: organizationRepo,
		Converter:   newPgxCurrencyConverter(dbPool),
		Sequences:   newPgxSequenceGenerator(dbPool),
		Payments:    newPgxPaymentReader(dbPool),
	}
	return provider, collaborators
}
