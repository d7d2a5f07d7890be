package services

import (
	"context"
	"time"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// ReportingSvcFacade produces read-only reports over posted entries.
type ReportingSvcFacade interface {
	// GetTrialBalance aggregates per-account debit/credit totals over posted
	// entries dated on or before asOf.
	GetTrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalance, error)
}
