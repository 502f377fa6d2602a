//go:build integration

package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/geoguard/platform/internal/domain"
)

// StubGenerator stands in for the Gemini decoy generator. It offsets each
// objective by a fixed delta and can be told to fail for specific latitudes.
type StubGenerator struct {
	mu        sync.Mutex
	calls     int
	failFor   map[float64]bool
	OffsetLat float64
	OffsetLng float64
}

// NewStubGenerator creates a stub with a small fixed offset.
func NewStubGenerator() *StubGenerator {
	return &StubGenerator{
		failFor:   make(map[float64]bool),
		OffsetLat: 0.05,
		OffsetLng: 0.05,
	}
}

// GenerateDecoy implements service.DecoyGenerator.
func (g *StubGenerator) GenerateDecoy(_ context.Context, req domain.DecoyRequest) (*domain.DecoyPoint, error) {
	g.mu.Lock()
	g.calls++
	fail := g.failFor[req.Latitude]
	g.mu.Unlock()

	if fail {
		return nil, fmt.Errorf("stubbed generator failure")
	}
	return &domain.DecoyPoint{
		DecoyLatitude:  req.Latitude + g.OffsetLat,
		DecoyLongitude: req.Longitude + g.OffsetLng,
	}, nil
}

// FailFor makes the stub fail whenever it is asked about the given latitude.
func (g *StubGenerator) FailFor(latitude float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failFor[latitude] = true
}

// Reset clears failure injection and the call counter.
func (g *StubGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failFor = make(map[float64]bool)
	g.calls = 0
}

// Calls reports how many generations were requested.
func (g *StubGenerator) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
