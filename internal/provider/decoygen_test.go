package provider

import (
	"strings"
	"testing"

	"github.com/geoguard/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoyPrompt(t *testing.T) {
	req := domain.DecoyRequest{
		Latitude:                  40.4093,
		Longitude:                 49.8671,
		TerrainType:               "mountainous",
		ProximityToPopulatedAreas: "low",
		KnownEnemyPatrolRoutes:    "None reported",
		RadiusKm:                  15,
	}

	prompt := decoyPrompt(req)

	assert.Contains(t, prompt, "40.4093")
	assert.Contains(t, prompt, "49.8671")
	assert.Contains(t, prompt, "mountainous")
	assert.Contains(t, prompt, "None reported")
	assert.Contains(t, prompt, "15 kilometers")
	assert.True(t, strings.Contains(prompt, "decoy"))
}

func TestParseDecoyResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		lat     float64
		lng     float64
	}{
		{
			name: "valid point",
			body: `{"decoyLatitude": 40.45, "decoyLongitude": 49.91}`,
			lat:  40.45,
			lng:  49.91,
		},
		{
			name:    "malformed json",
			body:    `{"decoyLatitude": `,
			wantErr: true,
		},
		{
			name:    "out of range latitude",
			body:    `{"decoyLatitude": 240.0, "decoyLongitude": 49.91}`,
			wantErr: true,
		},
		{
			name:    "missing fields decode to origin",
			body:    `{}`,
			lat:     0,
			lng:     0,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := parseDecoyResponse(tt.body)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, point.DecoyLatitude, 1e-9)
			assert.InDelta(t, tt.lng, point.DecoyLongitude, 1e-9)
		})
	}
}

func TestHaversineKm(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, haversineKm(40.4093, 49.8671, 40.4093, 49.8671), 1e-9)

	// One degree of latitude is roughly 111 km.
	d := haversineKm(40.0, 49.0, 41.0, 49.0)
	assert.InDelta(t, 111.2, d, 0.5)

	// Symmetric.
	assert.InDelta(t,
		haversineKm(40.4, 49.8, 40.5, 49.9),
		haversineKm(40.5, 49.9, 40.4, 49.8),
		1e-9)
}

func TestClampDecoyToRadius(t *testing.T) {
	req := domain.DecoyRequest{
		Latitude:  40.4093,
		Longitude: 49.8671,
		RadiusKm:  15,
	}

	t.Run("inside radius untouched", func(t *testing.T) {
		point := &domain.DecoyPoint{DecoyLatitude: 40.45, DecoyLongitude: 49.91}
		want := *point
		clampDecoyToRadius(req, point)
		assert.Equal(t, want, *point)
	})

	t.Run("overshoot pulled back onto radius", func(t *testing.T) {
		point := &domain.DecoyPoint{DecoyLatitude: 41.2, DecoyLongitude: 50.6}
		require.Greater(t, haversineKm(req.Latitude, req.Longitude, point.DecoyLatitude, point.DecoyLongitude), req.RadiusKm)

		clampDecoyToRadius(req, point)

		dist := haversineKm(req.Latitude, req.Longitude, point.DecoyLatitude, point.DecoyLongitude)
		assert.LessOrEqual(t, dist, req.RadiusKm)
		assert.Greater(t, dist, req.RadiusKm*0.9)
	})

	t.Run("bearing preserved", func(t *testing.T) {
		point := &domain.DecoyPoint{DecoyLatitude: 41.4093, DecoyLongitude: 49.8671}
		clampDecoyToRadius(req, point)
		// Due north of the objective stays due north.
		assert.InDelta(t, req.Longitude, point.DecoyLongitude, 1e-9)
		assert.Greater(t, point.DecoyLatitude, req.Latitude)
	})
}
