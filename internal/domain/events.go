package domain

import "time"

// Event types
const (
	EventTypePeriodOpened       = "cashbook.opened"
	EventTypePeriodLocked       = "cashbook.locked"
	EventTypeLoanIssued         = "loan.issued"
	EventTypeLoanUpdated        = "loan.updated"
	EventTypeLoanDeleted        = "loan.deleted"
	EventTypeLoanCompleted      = "loan.completed"
	EventTypePaymentReceived    = "payment.received"
	EventTypeExpenseRecorded    = "expense.recorded"
	EventTypeOwnerTxRecorded    = "owner_transaction.recorded"
	EventTypeBorrowerRegistered = "borrower.registered"
)

// Aggregate types
const (
	AggregateTypePeriod   = "cashbook"
	AggregateTypeLoan     = "loan"
	AggregateTypeBorrower = "borrower"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// NewOutboxEvent builds an unpublished event.
func NewOutboxEvent(id, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
	}
}
