package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/core/validation"
)

// LineRequest is one candidate journal line. Exactly one of debit and credit
// must be positive; the validator reports a finding per offending line.
type LineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// ToDomainLine converts the request line into a domain line. IDs, entry
// linkage and audit fields are assigned by the posting service.
func (r LineRequest) ToDomainLine() domain.JournalLine {
	return domain.JournalLine{
		AccountID:   r.AccountID,
		Debit:       r.Debit,
		Credit:      r.Credit,
		Description: r.Description,
	}
}

// ToDomainLines converts a slice of request lines, stamping positions.
func ToDomainLines(reqs []LineRequest) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, r := range reqs {
		lines[i] = r.ToDomainLine()
		lines[i].Position = i
	}
	return lines
}

// CreateEntryRequest creates a journal entry under an existing transaction
// event. Status POSTED runs the full two-phase posting protocol; DRAFT leaves
// the entry open for later line insertion.
type CreateEntryRequest struct {
	EventID     string        `json:"eventID" binding:"required"`
	EntryDate   time.Time     `json:"entryDate" binding:"required"`
	Description string        `json:"description"`
	Reference   string        `json:"reference"`
	Status      string        `json:"status" binding:"omitempty,oneof=DRAFT POSTED"`
	Lines       []LineRequest `json:"lines" binding:"omitempty,dive"`
}

// AddLinesRequest appends lines to an entry that is still DRAFT.
type AddLinesRequest struct {
	Lines []LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReverseEntryRequest voids a posted entry by generating and posting an
// exact counter-entry. AsOfDate backdates the reversal when supplied;
// otherwise it is dated at the time of voiding.
type ReverseEntryRequest struct {
	Reason   string     `json:"reason" binding:"required"`
	AsOfDate *time.Time `json:"asOfDate"`
}

// PostingResult is the structured outcome of a posting attempt. OK false
// with findings means validation refused the entry; the draft row is left
// behind for investigation and has no effect on any balance.
type PostingResult struct {
	OK       bool                 `json:"ok"`
	EntryID  string               `json:"entryID,omitempty"`
	Findings []validation.Finding `json:"findings,omitempty"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	Position    int             `json:"position"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID           string         `json:"entryID"`
	EventID           string         `json:"eventID"`
	EntryDate         time.Time      `json:"entryDate"`
	Description       string         `json:"description"`
	Reference         string         `json:"reference,omitempty"`
	Status            string         `json:"status"`
	PostedAt          *time.Time     `json:"postedAt,omitempty"`
	PostedBy          string         `json:"postedBy,omitempty"`
	ReversedByEntryID *string        `json:"reversedByEntryID,omitempty"`
	ReversesEntryID   *string        `json:"reversesEntryID,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	CreatedBy         string         `json:"createdBy"`
	Lines             []LineResponse `json:"lines,omitempty"`
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit        int
	NextToken    *string
	IncludeVoid  bool
	IncludeLines bool
}

// ListEntriesResponse is a page of entries plus the token for the next page.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListLinesParams holds parameters for listing an account's lines.
type ListLinesParams struct {
	Limit     int
	NextToken *string
}

// ListLinesResponse is a page of lines plus the token for the next page.
type ListLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse.
func ToLineResponse(l *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:      l.LineID,
		EntryID:     l.EntryID,
		AccountID:   l.AccountID,
		Debit:       l.Debit,
		Credit:      l.Credit,
		Description: l.Description,
		Position:    l.Position,
	}
}

// ToLineResponses converts a slice of domain lines.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i := range lines {
		responses[i] = ToLineResponse(&lines[i])
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:           e.EntryID,
		EventID:           e.EventID,
		EntryDate:         e.EntryDate,
		Description:       e.Description,
		Reference:         e.Reference,
		Status:            string(e.Status),
		PostedAt:          e.PostedAt,
		PostedBy:          e.PostedBy,
		ReversedByEntryID: e.ReversedByEntryID,
		ReversesEntryID:   e.ReversesEntryID,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
	if e.Lines != nil {
		resp.Lines = ToLineResponses(e.Lines)
	}
	return resp
}
