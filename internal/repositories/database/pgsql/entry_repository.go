package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger-engine/internal/apperrors"
	"github.com/openbooks/ledger-engine/internal/core/domain"
	portsrepo "github.com/openbooks/ledger-engine/internal/core/ports/repositories"
	"github.com/openbooks/ledger-engine/internal/models"
	"github.com/openbooks/ledger-engine/internal/utils/accounting"
	"github.com/openbooks/ledger-engine/internal/utils/mapping"
	"github.com/openbooks/ledger-engine/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxEntryRepository creates a new repository for journal entry and line data.
func newPgxEntryRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, event_id, entry_date, description, reference, status, posted_at, posted_by, reversed_by_entry_id, reverses_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, description, position, created_at, created_by, last_updated_at, last_updated_by`

// insertEntryTx inserts the entry row in DRAFT status, whatever status the
// caller ultimately wants. The flip to POSTED is a separate, guarded update
// so the draft-then-post sequence is explicit even inside one transaction.
func insertEntryTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelEntry(entry)

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, 'DRAFT', NULL, '', $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EventID,
		m.EntryDate,
		m.Description,
		m.Reference,
		m.ReversedByEntryID,
		m.ReversesEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// insertLinesTx batch-inserts lines for an entry.
func insertLinesTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, line := range lines {
		m := mapping.ToModelLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.Debit,
			m.Credit,
			m.Description,
			m.Position,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute line insert batch: %w", err)
	}
	return nil
}

// markPostedTx flips a DRAFT entry to POSTED. The status guard in the WHERE
// clause is what stops two concurrent callers from transitioning the same
// entry: only one update can see the DRAFT row.
func markPostedTx(ctx context.Context, tx pgx.Tx, entryID string, actorID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to post journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in DRAFT status", apperrors.ErrConflict, entryID)
	}
	return nil
}

// applyBalanceChangesTx locks the touched accounts and applies the net
// signed deltas, in one place so every posting path behaves identically.
func (r *PgxEntryRepository) applyBalanceChangesTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}

	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for posting: %w", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, actorID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

// SaveEntry persists an entry with its lines. When entry.Status is POSTED
// the draft insert, line inserts, balance updates and the status flip all
// commit or roll back together; no reader ever sees a half-posted entry.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := insertLinesTx(ctx, tx, lines); err != nil {
		return err
	}

	if entry.Status == domain.Posted {
		now := entry.CreatedAt
		actorID := entry.CreatedBy
		if entry.PostedAt != nil {
			now = *entry.PostedAt
		}
		if entry.PostedBy != "" {
			actorID = entry.PostedBy
		}
		if err := r.applyBalanceChangesTx(ctx, tx, balanceChanges, actorID, now); err != nil {
			return err
		}
		if err := markPostedTx(ctx, tx, entry.EntryID, actorID, now); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// AddLines appends lines to an entry that is still DRAFT. The entry row is
// locked first so a concurrent posting cannot slip between the status check
// and the inserts.
func (r *PgxEntryRepository) AddLines(ctx context.Context, entryID string, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status models.EntryStatus
	err = tx.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock journal entry %s: %w", entryID, err)
	}
	if domain.EntryStatus(status) != domain.Draft {
		return fmt.Errorf("%w: cannot add lines to entry %s with status %s", apperrors.ErrConflict, entryID, status)
	}

	var nextPosition int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM journal_lines WHERE entry_id = $1;`, entryID).Scan(&nextPosition)
	if err != nil {
		return fmt.Errorf("failed to determine next line position for entry %s: %w", entryID, err)
	}
	for i := range lines {
		lines[i].EntryID = entryID
		lines[i].Position = nextPosition + i
	}

	if err := insertLinesTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// MarkEntryPosted transitions a DRAFT entry to POSTED. The entry row is
// locked first and the lines are re-read under that lock, so the guard and
// the balance deltas both see the line set that actually posts. A concurrent
// AddLines either lands before the lock and gets validated here, or waits
// and then fails the DRAFT status check.
func (r *PgxEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, actorID string, now time.Time, guard portsrepo.PostingGuard) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanEntryRow(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to lock journal entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainEntry(*m)
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry %s is not in DRAFT status", apperrors.ErrConflict, entryID)
	}

	lines, err := queryLinesByEntryID(ctx, tx, entryID)
	if err != nil {
		return err
	}

	if guard != nil {
		if err := guard(entry, lines); err != nil {
			return err
		}
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.AccountID]; !dup {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to lock accounts for posting: %w", err)
	}
	accountTypes := make(map[string]domain.AccountType, len(accounts))
	for id, account := range accounts {
		accountTypes[id] = account.AccountType
	}
	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes)
	if err != nil {
		return err
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, actorID, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	if err := markPostedTx(ctx, tx, entryID, actorID, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// SaveReversal persists the reversal event, the reversing entry and its lines,
// posts the reversal and flips the original entry to VOID in one transaction.
// If any step fails the whole unit rolls back and the original stays POSTED.
func (r *PgxEntryRepository) SaveReversal(ctx context.Context, event domain.TransactionEvent, entry domain.JournalEntry, lines []domain.JournalLine, balanceChanges map[string]decimal.Decimal, originalEntryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	eventQuery := `
		INSERT INTO transaction_events (event_id, event_type, description, reference, metadata, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	me := mapping.ToModelEvent(event)
	_, err = tx.Exec(ctx, eventQuery, me.EventID, me.EventType, me.Description, me.Reference, me.Metadata, me.CreatedAt, me.CreatedBy)
	if err != nil {
		return fmt.Errorf("failed to insert reversal event %s: %w", me.EventID, err)
	}

	if err := insertEntryTx(ctx, tx, entry); err != nil {
		return err
	}
	if err := insertLinesTx(ctx, tx, lines); err != nil {
		return err
	}

	now := entry.CreatedAt
	actorID := entry.CreatedBy
	if err := r.applyBalanceChangesTx(ctx, tx, balanceChanges, actorID, now); err != nil {
		return err
	}
	if err := markPostedTx(ctx, tx, entry.EntryID, actorID, now); err != nil {
		return err
	}

	// Flip the original to VOID last; the guard rejects entries that were
	// voided (or never posted) by a concurrent caller.
	voidQuery := `
		UPDATE journal_entries
		SET status = 'VOID', reversed_by_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED';
	`
	cmdTag, err := tx.Exec(ctx, voidQuery, originalEntryID, entry.EntryID, now, actorID)
	if err != nil {
		return fmt.Errorf("failed to void journal entry %s: %w", originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in POSTED status", apperrors.ErrConflict, originalEntryID)
	}

	return r.Commit(ctx, tx)
}

func scanEntryRow(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EventID,
		&m.EntryDate,
		&m.Description,
		&m.Reference,
		&m.Status,
		&m.PostedAt,
		&m.PostedBy,
		&m.ReversedByEntryID,
		&m.ReversesEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindEntryByID retrieves a journal entry by its ID, without lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntryRow(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry by ID %s: %w", entryID, err)
	}

	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

// ListEntries retrieves a page of entries ordered newest first, using an
// (entry_date, created_at) keyset token.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, limit int, nextToken *string, includeVoid bool) ([]domain.JournalEntry, *string, error) {
	args := []interface{}{limit + 1}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`

	if !includeVoid {
		query += ` AND status != 'VOID'`
	}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, entryDate, createdAt)
	}

	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $1;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntryRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		token = &t
	}

	return entries, token, nil
}

func scanLineRow(row pgx.Row) (*models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.Position,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// lineQuerier is satisfied by both the pool and an open transaction.
type lineQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// queryLinesByEntryID reads the lines of one entry ordered by position,
// through the pool or through an open transaction.
func queryLinesByEntryID(ctx context.Context, q lineQuerier, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY position;`

	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		m, err := scanLineRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}

	return mapping.ToDomainLineSlice(lines), nil
}

// FindLinesByEntryID retrieves the lines of one entry ordered by position.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	return queryLinesByEntryID(ctx, r.Pool, entryID)
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxEntryRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}

	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, position;`

	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string][]domain.JournalLine)
	for rows.Next() {
		m, err := scanLineRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		grouped[m.EntryID] = append(grouped[m.EntryID], mapping.ToDomainLine(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}

	return grouped, nil
}

// ListLinesByAccountID retrieves a page of posted lines for an account,
// newest first, using a (created_at, line_id) keyset token.
func (r *PgxEntryRepository) ListLinesByAccountID(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	args := []interface{}{accountID, limit + 1}
	query := `
		SELECT l.line_id, l.entry_id, l.account_id, l.debit, l.credit, l.description, l.position,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED'`

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token time", apperrors.ErrValidation)
		}
		query += ` AND (l.created_at, l.line_id) < ($3, $4)`
		args = append(args, createdAt, fields[1])
	}

	query += ` ORDER BY l.created_at DESC, l.line_id DESC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		m, err := scanLineRow(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainLine(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}

	var token *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.LineID)
		token = &t
	}

	return lines, token, nil
}
