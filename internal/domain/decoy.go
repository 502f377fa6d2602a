package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Decoy is a decoys row. Decoys are a derived view: every operation run
// deletes all of them and writes one per eligible target. Deleting a target
// does not touch its decoys.
type Decoy struct {
	ID                uuid.UUID `json:"id"`
	OperationTargetID uuid.UUID `json:"operation_target_id"`
	PublicName        string    `json:"public_name"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	CreatedAt         time.Time `json:"created_at"`
}

// decoyPublicNames is the fixed cyclic list of broadcast names. A decoy for
// the i-th eligible target is named after index i modulo the list length.
var decoyPublicNames = []string{"Alfa", "Beta", "Gamma", "Delta", "Epsilon", "Zeta"}

// DecoyPublicName returns the broadcast name for the eligible-target index.
func DecoyPublicName(index int) string {
	return fmt.Sprintf("Bölük %s", decoyPublicNames[index%len(decoyPublicNames)])
}

// DecoyRequest is the generator input schema. The contextual string fields
// are placeholder constants in every caller; they are not sourced from the
// target record.
type DecoyRequest struct {
	Latitude                  float64 `json:"latitude"`
	Longitude                 float64 `json:"longitude"`
	TerrainType               string  `json:"terrainType"`
	ProximityToPopulatedAreas string  `json:"proximityToPopulatedAreas"`
	KnownEnemyPatrolRoutes    string  `json:"knownEnemyPatrolRoutes"`
	RadiusKm                  float64 `json:"radiusKm"`
}

// DecoyPoint is the generator output schema.
type DecoyPoint struct {
	DecoyLatitude  float64 `json:"decoyLatitude"`
	DecoyLongitude float64 `json:"decoyLongitude"`
}
