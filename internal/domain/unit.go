package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnitStatus is the operational state of a military unit.
type UnitStatus string

const (
	UnitOperating UnitStatus = "operating"
	UnitOffline   UnitStatus = "offline"
	UnitAlert     UnitStatus = "alert"
)

// MilitaryUnit is a military_units row. Every unit is created together with
// its sub-commander account in a single transaction; CommanderID references
// that account.
type MilitaryUnit struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	CommanderID uuid.UUID  `json:"commander_id"`
	Status      UnitStatus `json:"status"`
	Latitude    float64    `json:"latitude"`
	Longitude   float64    `json:"longitude"`
	MapID       string     `json:"map_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Unit spawn area. New units are placed at the base position with up to
// one degree of jitter on each axis.
const (
	UnitBaseLatitude  = 40.4093
	UnitBaseLongitude = 49.8671
	UnitSpawnJitter   = 1.0
)
