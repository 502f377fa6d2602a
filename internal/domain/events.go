package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func draft(agg AggregateType, aggID string, evt EventType, payload any) OutboxDraft {
	body, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: agg,
		AggregateID:   aggID,
		EventType:     evt,
		PartitionKey:  aggID,
		Headers:       json.RawMessage(`{}`),
		Payload:       body,
		OccurredAt:    time.Now(),
	}
}

// NewOperationStartedEvent announces a decoy-generation run.
func NewOperationStartedEvent(operationID uuid.UUID, eligibleTargets int) OutboxDraft {
	return draft(AggregateOperation, operationID.String(), EventOperationStarted, map[string]any{
		"operation_id":     operationID.String(),
		"eligible_targets": eligibleTargets,
	})
}

// NewOperationCompletedEvent records a finished run.
func NewOperationCompletedEvent(operationID uuid.UUID, decoysCreated int) OutboxDraft {
	return draft(AggregateOperation, operationID.String(), EventOperationCompleted, map[string]any{
		"operation_id":   operationID.String(),
		"decoys_created": decoysCreated,
	})
}

// NewTargetCreatedEvent records a new operation target.
func NewTargetCreatedEvent(t *OperationTarget) OutboxDraft {
	return draft(AggregateTarget, t.ID.String(), EventTargetCreated, t)
}

// NewTargetUpdatedEvent records a target edit.
func NewTargetUpdatedEvent(t *OperationTarget) OutboxDraft {
	return draft(AggregateTarget, t.ID.String(), EventTargetUpdated, t)
}

// NewTargetDeletedEvent records a target removal.
func NewTargetDeletedEvent(targetID uuid.UUID) OutboxDraft {
	return draft(AggregateTarget, targetID.String(), EventTargetDeleted, map[string]string{
		"target_id": targetID.String(),
	})
}

// NewUnitCreatedEvent records a new unit and its paired sub-commander.
func NewUnitCreatedEvent(u *MilitaryUnit) OutboxDraft {
	return draft(AggregateUnit, u.ID.String(), EventUnitCreated, u)
}

// NewUnitStatusChangedEvent records a unit status transition.
func NewUnitStatusChangedEvent(unitID uuid.UUID, status UnitStatus) OutboxDraft {
	return draft(AggregateUnit, unitID.String(), EventUnitStatusChanged, map[string]string{
		"unit_id": unitID.String(),
		"status":  string(status),
	})
}
