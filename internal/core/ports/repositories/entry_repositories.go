package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger-engine/internal/core/domain"
)

// EntryReader defines read operations for journal entries.
type EntryReader interface {
	// FindEntryByID retrieves a specific journal entry by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries using token-based pagination.
	// Void entries are included only when includeVoid is set.
	ListEntries(ctx context.Context, limit int, nextToken *string, includeVoid bool) ([]domain.JournalEntry, *string, error)
}

// PostingGuard re-checks a draft entry against its lines as stored, inside
// the posting transaction. A non-nil return aborts the posting and rolls the
// transaction back.
type PostingGuard func(entry domain.JournalEntry, lines []domain.JournalLine) error

// EntryWriter defines write operations for journal entries. All multi-step
// writes run inside a single storage transaction.
type EntryWriter interface {
	// SaveEntry persists an entry and its lines. The entry is always inserted
	// as DRAFT first; when entry.Status is POSTED the same transaction locks
	// the touched accounts, applies balanceChanges and flips the status. When
	// entry.Status is DRAFT, balanceChanges is ignored and the entry stays
	// open for later line insertion.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error

	// AddLines appends lines to an entry that is still DRAFT. Fails with
	// ErrConflict once the entry has posted.
	AddLines(ctx context.Context, entryID string, lines []domain.JournalLine) error

	// MarkEntryPosted transitions a DRAFT entry to POSTED. The entry row is
	// locked and the lines re-read inside the transaction, the guard runs
	// against that line set, and the balance changes are computed from the
	// same set before the status flips. Lines added concurrently are either
	// seen by the guard or blocked until the transaction decides.
	MarkEntryPosted(ctx context.Context, entryID string, actorID string, now time.Time, guard PostingGuard) error

	// SaveReversal persists the reversal event, the reversing entry and its
	// lines as POSTED, and flips the original entry to VOID, all in one
	// transaction. If any step fails the original entry stays POSTED.
	SaveReversal(ctx context.Context, event domain.TransactionEvent, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, originalEntryID string) error
}

// LineReader defines read operations for journal lines.
type LineReader interface {
	// FindLinesByEntryID retrieves all lines of a single entry ordered by position.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
	FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error)

	// ListLinesByAccountID retrieves a paginated list of posted lines for a
	// specific account using token-based pagination.
	ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error)
}

// EntryRepositoryFacade combines all entry-related repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
	LineReader
}

// EntryRepositoryWithTx extends EntryRepositoryFacade with transaction capabilities.
type EntryRepositoryWithTx interface {
	EntryRepositoryFacade
	TransactionManager
}
