package mapping

import (
	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/models"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		EventID:           d.EventID,
		EntryDate:         d.EntryDate,
		Description:       d.Description,
		Reference:         d.Reference,
		Status:            models.EntryStatus(d.Status),
		PostedAt:          d.PostedAt,
		PostedBy:          d.PostedBy,
		ReversedByEntryID: d.ReversedByEntryID,
		ReversesEntryID:   d.ReversesEntryID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		EventID:           m.EventID,
		EntryDate:         m.EntryDate,
		Description:       m.Description,
		Reference:         m.Reference,
		Status:            domain.EntryStatus(m.Status),
		PostedAt:          m.PostedAt,
		PostedBy:          m.PostedBy,
		ReversedByEntryID: m.ReversedByEntryID,
		ReversesEntryID:   m.ReversesEntryID,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain JournalLine to a model JournalLine
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		Position:    d.Position,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model JournalLine to a domain JournalLine
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		Position:    m.Position,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}
