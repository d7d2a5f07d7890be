package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	eventRepo := newPgxEventRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool, accountRepo)
	settingsRepo := newPgxSettingsRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		EventRepo:     eventRepo,
		EntryRepo:     entryRepo,
		SettingsRepo:  settingsRepo,
		ReportingRepo: reportingRepo,
	}
}
