package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AggregateType identifies the entity family an event belongs to.
type AggregateType string

const (
	AggregateOperation AggregateType = "operation"
	AggregateTarget    AggregateType = "target"
	AggregateUnit      AggregateType = "unit"
)

// EventType identifies a domain event.
type EventType string

const (
	EventOperationStarted   EventType = "operation.started"
	EventOperationCompleted EventType = "operation.completed"
	EventTargetCreated      EventType = "target.created"
	EventTargetUpdated      EventType = "target.updated"
	EventTargetDeleted      EventType = "target.deleted"
	EventUnitCreated        EventType = "unit.created"
	EventUnitStatusChanged  EventType = "unit.status_changed"
)

// OutboxDraft is an event_outbox row awaiting publication.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"eventId"`
	AggregateType AggregateType   `json:"aggregateType"`
	AggregateID   string          `json:"aggregateId"`
	EventType     EventType       `json:"eventType"`
	PartitionKey  string          `json:"partitionKey"`
	Headers       json.RawMessage `json:"headers"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// OutboxRow is an OutboxDraft plus its serial position, as read back by the
// consumer.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}
