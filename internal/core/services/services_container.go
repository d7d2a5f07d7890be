package services

import (
	"github.com/openbooks/ledger-engine/internal/core/policy"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
	"github.com/openbooks/ledger-engine/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Settings first: the posting and reversal services read the validation
	// mode through it on every operation.
	defaultMode, err := policy.ParseMode(cfg.DefaultValidationMode)
	if err != nil {
		defaultMode = policy.ModeBeginner
	}
	container.Settings = NewSettingsService(repos.SettingsRepo, defaultMode)

	container.Account = NewAccountService(repos.AccountRepo)
	container.Event = NewEventService(repos.EventRepo)
	container.Posting = NewPostingService(repos.EntryRepo, container.Account, container.Event, container.Settings)
	container.Reversal = NewReversalService(repos.EntryRepo, container.Account, container.Event, container.Settings)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	return container
}
