package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	portssvc "github.com/openbooks/ledger-engine/internal/core/ports/services"
)

// reportingService produces read-only reports over posted entries.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates a new reporting service.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// GetTrialBalance aggregates per-account debit/credit totals over posted
// entries dated on or before asOf. For a ledger whose every entry passed the
// balance check, TotalDebit and TotalCredit agree within tolerance.
func (s *reportingService) GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error) {
	rows, err := s.reportingRepo.GetTrialBalance(ctx, asOf)
	if err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}

	return &domain.TrialBalance{
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}
