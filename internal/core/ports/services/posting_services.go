package services

import (
	"context"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/dto"
)

// EntryReaderSvc defines read operations for journal entries and lines.
type EntryReaderSvc interface {
	// GetEntry retrieves an entry with its lines populated.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ListLinesByAccount retrieves a paginated list of posted lines for one account.
	ListLinesByAccount(ctx context.Context, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error)
}

// EntryWriterSvc defines the posting protocol operations.
type EntryWriterSvc interface {
	// CreateJournalEntry persists an entry under an existing event. A POSTED
	// request runs the full two-phase protocol; a DRAFT request leaves the
	// entry open for later line insertion. A validation refusal returns a
	// PostingResult with OK=false and the findings; the draft row stays
	// behind with no effect on any balance.
	CreateJournalEntry(ctx context.Context, req dto.CreateEntryRequest, creatorID string) (*dto.PostingResult, error)

	// AddLinesToDraft appends candidate lines to an entry still in DRAFT.
	AddLinesToDraft(ctx context.Context, entryID string, req dto.AddLinesRequest, actorID string) error

	// PostDraftEntry re-reads a draft entry's lines, validates them, applies
	// the policy gate under the actor's mode, and flips the entry to POSTED.
	PostDraftEntry(ctx context.Context, entryID string, actorID string) (*dto.PostingResult, error)
}

// PostingSvcFacade combines the posting protocol interfaces.
type PostingSvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}

// ReversalSvcFacade generates and posts the counter-entry that voids a
// posted entry. Domain-level preconditions (document not settled, not
// already void at the document level) are the calling collaborator's
// responsibility; this service only enforces the entry status machine.
type ReversalSvcFacade interface {
	// ReverseEntry produces and posts the negating entry for a posted
	// original, then flips the original to VOID, atomically.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, actorID string) (*domain.JournalEntry, error)
}
