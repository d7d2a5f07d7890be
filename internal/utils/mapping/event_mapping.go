package mapping

import (
	"github.com/openbooks/ledger-engine/internal/core/domain"
	"github.com/openbooks/ledger-engine/internal/models"
)

// ToModelEvent converts a domain TransactionEvent to a model TransactionEvent
func ToModelEvent(d domain.TransactionEvent) models.TransactionEvent {
	return models.TransactionEvent{
		EventID:     d.EventID,
		EventType:   d.EventType,
		Description: d.Description,
		Reference:   d.Reference,
		Metadata:    d.Metadata,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
}

// ToDomainEvent converts a model TransactionEvent to a domain TransactionEvent
func ToDomainEvent(m models.TransactionEvent) domain.TransactionEvent {
	return domain.TransactionEvent{
		EventID:     m.EventID,
		EventType:   m.EventType,
		Description: m.Description,
		Reference:   m.Reference,
		Metadata:    m.Metadata,
		CreatedAt:   m.CreatedAt,
		CreatedBy:   m.CreatedBy,
	}
}
