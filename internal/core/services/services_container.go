package services

import (
	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
	portssvc "github.com/alnahda/institute-ledger/internal/core/ports/services"
	"github.com/alnahda/institute-ledger/pkg/config"
)

// NewServiceContainer wires all application services against the provided
// repositories. The journal service is constructed first because every
// domain workflow posts through it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	accountSvc := NewAccountService(repos.AccountRepo)
	container.Account = accountSvc

	journalSvc := NewJournalService(repos.JournalRepo, repos.AccountRepo, repos.SequenceRepo)
	container.Journal = journalSvc

	container.Posting = NewPostingService(
		repos.SchoolRepo,
		repos.DocumentRepo,
		repos.PayrollRepo,
		repos.SequenceRepo,
		accountSvc,
		journalSvc,
	)

	container.Payroll = NewPayrollService(
		repos.PayrollRepo,
		repos.DocumentRepo,
		accountSvc,
		journalSvc,
	)

	container.CostCenter = NewCostCenterService(repos.CostCenterRepo, repos.SchoolRepo)

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}
