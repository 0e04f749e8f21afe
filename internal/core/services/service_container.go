package services

import (
	portsrepo "github.com/openledgerhq/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_engine/internal/core/ports/services"
	"github.com/openledgerhq/ledger_engine/pkg/config"
)

// NewServiceContainer wires the repositories into the service facades.
func NewServiceContainer(repos portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	accountSvc := NewAccountService(repos.AccountRepo)

	return &portssvc.ServiceContainer{
		Account:   accountSvc,
		Journal:   NewJournalService(repos.JournalRepo, accountSvc),
		Ledger:    NewLedgerService(repos.JournalRepo, accountSvc),
		Reporting: NewReportingService(repos.ReportingRepo),
		Treasury:  NewTreasuryService(repos.JournalRepo, accountSvc, cfg.Treasury),
	}
}
