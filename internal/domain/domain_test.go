package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"simple", "Nicat", false},
		{"with dots and dashes", "unit-1.lead", false},
		{"empty", "", true},
		{"too short", "a", true},
		{"spaces", "two words", true},
		{"unicode", "bölük", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateTargetStatus(t *testing.T) {
	assert.NoError(t, ValidateTargetStatus(TargetPending))
	assert.NoError(t, ValidateTargetStatus(TargetActive))
	assert.NoError(t, ValidateTargetStatus(TargetPassive))
	assert.Error(t, ValidateTargetStatus("completed"))
	assert.Error(t, ValidateTargetStatus(""))
}

func TestValidateUnitStatus(t *testing.T) {
	assert.NoError(t, ValidateUnitStatus(UnitOperating))
	assert.NoError(t, ValidateUnitStatus(UnitOffline))
	assert.NoError(t, ValidateUnitStatus(UnitAlert))
	assert.Error(t, ValidateUnitStatus("destroyed"))
}

func TestValidatePosition(t *testing.T) {
	assert.NoError(t, ValidatePosition(40.4, 49.8))
	assert.NoError(t, ValidatePosition(-90, -180))
	assert.NoError(t, ValidatePosition(90, 180))
	assert.Error(t, ValidatePosition(math.NaN(), 49.8))
	assert.Error(t, ValidatePosition(40.4, math.Inf(-1)))
	assert.Error(t, ValidatePosition(91, 49.8))
	assert.Error(t, ValidatePosition(-91, 49.8))
	assert.Error(t, ValidatePosition(40.4, 181))
	assert.Error(t, ValidatePosition(40.4, -181))
	assert.Error(t, ValidatePosition(240, 49.8))
}

func TestValidateDecoyRequest(t *testing.T) {
	valid := DecoyRequest{
		Latitude:                  40.4,
		Longitude:                 49.8,
		TerrainType:               "mountainous",
		ProximityToPopulatedAreas: "low",
		KnownEnemyPatrolRoutes:    "None reported",
		RadiusKm:                  15,
	}

	t.Run("valid request", func(t *testing.T) {
		require.NoError(t, ValidateDecoyRequest(valid))
	})

	t.Run("non-finite latitude", func(t *testing.T) {
		req := valid
		req.Latitude = math.NaN()
		require.Error(t, ValidateDecoyRequest(req))
	})

	t.Run("infinite longitude", func(t *testing.T) {
		req := valid
		req.Longitude = math.Inf(1)
		require.Error(t, ValidateDecoyRequest(req))
	})

	t.Run("missing terrain", func(t *testing.T) {
		req := valid
		req.TerrainType = ""
		require.Error(t, ValidateDecoyRequest(req))
	})

	t.Run("zero radius", func(t *testing.T) {
		req := valid
		req.RadiusKm = 0
		require.Error(t, ValidateDecoyRequest(req))
	})

	t.Run("negative radius", func(t *testing.T) {
		req := valid
		req.RadiusKm = -5
		require.Error(t, ValidateDecoyRequest(req))
	})
}

// --- Decoy naming ---

func TestDecoyPublicName_CyclesThroughFixedList(t *testing.T) {
	assert.Equal(t, "Bölük Alfa", DecoyPublicName(0))
	assert.Equal(t, "Bölük Beta", DecoyPublicName(1))
	assert.Equal(t, "Bölük Zeta", DecoyPublicName(5))
	assert.Equal(t, "Bölük Alfa", DecoyPublicName(6))
	assert.Equal(t, "Bölük Gamma", DecoyPublicName(8))
}

// --- View scope ---

func TestScopeFor(t *testing.T) {
	unitID := uuid.New()

	t.Run("commander sees all", func(t *testing.T) {
		s := ScopeFor(&UserProfile{Role: RoleCommander})
		assert.True(t, s.AllUnits)
	})

	t.Run("sub-commander with flag sees all", func(t *testing.T) {
		s := ScopeFor(&UserProfile{Role: RoleSubCommander, CanSeeAllUnits: true})
		assert.True(t, s.AllUnits)
	})

	t.Run("sub-commander scoped to assigned unit", func(t *testing.T) {
		s := ScopeFor(&UserProfile{Role: RoleSubCommander, AssignedUnitID: &unitID})
		assert.False(t, s.AllUnits)
		assert.Equal(t, unitID, s.UnitID)
	})

	t.Run("sub-commander without unit sees nothing", func(t *testing.T) {
		s := ScopeFor(&UserProfile{Role: RoleSubCommander})
		assert.False(t, s.AllUnits)
		assert.Equal(t, uuid.Nil, s.UnitID)
	})
}

// --- AppError ---

func TestAppError(t *testing.T) {
	t.Run("error string without cause", func(t *testing.T) {
		err := ErrNotFound("target", "t1")
		assert.Equal(t, "NOT_FOUND: target t1 not found", err.Error())
		assert.Equal(t, 404, err.Status)
	})

	t.Run("no eligible targets", func(t *testing.T) {
		err := ErrNoEligibleTargets()
		assert.Equal(t, "NO_ELIGIBLE_TARGETS", err.Code)
		assert.Equal(t, 409, err.Status)
	})

	t.Run("generation failure wraps cause", func(t *testing.T) {
		cause := assert.AnError
		err := ErrGenerationFailed(cause)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 502, err.Status)
	})
}

// --- Events ---

func TestNewOperationCompletedEvent(t *testing.T) {
	opID := uuid.New()
	evt := NewOperationCompletedEvent(opID, 3)

	assert.Equal(t, AggregateOperation, evt.AggregateType)
	assert.Equal(t, EventOperationCompleted, evt.EventType)
	assert.Equal(t, opID.String(), evt.AggregateID)
	assert.Equal(t, opID.String(), evt.PartitionKey)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(evt.Payload, &payload))
	assert.Equal(t, float64(3), payload["decoys_created"])
}

func TestUserProfileJSON_OmitsPasswordHash(t *testing.T) {
	u := UserProfile{ID: uuid.New(), Username: "scout", PasswordHash: "secret", Role: RoleSubCommander}
	body, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
}
