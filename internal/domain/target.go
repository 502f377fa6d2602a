package domain

import (
	"time"

	"github.com/google/uuid"
)

// TargetStatus is the lifecycle state of an operation target. Only active
// targets are eligible for decoy generation.
type TargetStatus string

const (
	TargetPending TargetStatus = "pending"
	TargetActive  TargetStatus = "active"
	TargetPassive TargetStatus = "passive"
)

// OperationTarget is an operation_targets row. Position is set once at
// creation (a map placement) and is immutable afterwards; name, assigned
// unit and status may be edited. AssignedUnitID is populated from the unit
// selector and carries no foreign-key constraint.
type OperationTarget struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	AssignedUnitID uuid.UUID    `json:"assigned_unit_id"`
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	Status         TargetStatus `json:"status"`
	MapID          string       `json:"map_id"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
