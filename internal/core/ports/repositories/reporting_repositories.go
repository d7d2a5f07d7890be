package repositories

import (
	"context"
	"time"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// ReportingRepositoryFacade defines read-only aggregation queries. All
// aggregations run over POSTED entries only; draft and void entries never
// contribute to a report.
type ReportingRepositoryFacade interface {
	// GetTrialBalance aggregates debit and credit totals per account over
	// posted entries dated on or before asOf.
	GetTrialBalance(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
}
