package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/guard"
	"github.com/geoguard/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTargetRepo struct {
	targets []domain.OperationTarget
}

func (f *fakeTargetRepo) List(_ context.Context, _ repository.DBTX, scope domain.ViewScope) ([]domain.OperationTarget, error) {
	if scope.AllUnits {
		return f.targets, nil
	}
	var out []domain.OperationTarget
	for _, t := range f.targets {
		if t.AssignedUnitID == scope.UnitID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTargetRepo) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.OperationTarget, error) {
	for i := range f.targets {
		if f.targets[i].ID == id {
			return &f.targets[i], nil
		}
	}
	return nil, nil
}

func (f *fakeTargetRepo) Create(_ context.Context, _ repository.DBTX, t *domain.OperationTarget) error {
	f.targets = append(f.targets, *t)
	return nil
}

func (f *fakeTargetRepo) Update(_ context.Context, _ repository.DBTX, t *domain.OperationTarget) error {
	for i := range f.targets {
		if f.targets[i].ID == t.ID {
			f.targets[i] = *t
			return nil
		}
	}
	return nil
}

func (f *fakeTargetRepo) Delete(_ context.Context, _ repository.DBTX, id uuid.UUID) error {
	for i := range f.targets {
		if f.targets[i].ID == id {
			f.targets = append(f.targets[:i], f.targets[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeDecoyRepo struct {
	mu         sync.Mutex
	decoys     []domain.Decoy
	deleteAlls int
}

func (f *fakeDecoyRepo) List(_ context.Context, _ repository.DBTX) ([]domain.Decoy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Decoy, len(f.decoys))
	copy(out, f.decoys)
	return out, nil
}

func (f *fakeDecoyRepo) Insert(_ context.Context, _ repository.DBTX, d *domain.Decoy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.decoys = append(f.decoys, *d)
	return nil
}

func (f *fakeDecoyRepo) DeleteAll(_ context.Context, _ repository.DBTX) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.decoys))
	f.decoys = nil
	f.deleteAlls++
	return n, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	drafts []domain.OutboxDraft
}

func (f *fakeOutboxRepo) Insert(_ context.Context, _ repository.DBTX, draft domain.OutboxDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, draft)
	return nil
}

func (f *fakeOutboxRepo) FetchUnpublished(_ context.Context, _ repository.DBTX, _ int) ([]domain.OutboxRow, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkPublished(_ context.Context, _ repository.DBTX, _ []int64) error {
	return nil
}

func (f *fakeOutboxRepo) eventTypes() []domain.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]domain.EventType, 0, len(f.drafts))
	for _, d := range f.drafts {
		types = append(types, d.EventType)
	}
	return types
}

// fakeGenerator offsets each objective by a fixed delta, or fails for the
// configured latitude.
type fakeGenerator struct {
	failLatitude float64
	calls        int
	mu           sync.Mutex
}

func (g *fakeGenerator) GenerateDecoy(_ context.Context, req domain.DecoyRequest) (*domain.DecoyPoint, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	if g.failLatitude != 0 && req.Latitude == g.failLatitude {
		return nil, fmt.Errorf("model overloaded")
	}
	return &domain.DecoyPoint{
		DecoyLatitude:  req.Latitude + 0.05,
		DecoyLongitude: req.Longitude + 0.05,
	}, nil
}

func target(name string, status domain.TargetStatus, lat float64) domain.OperationTarget {
	return domain.OperationTarget{
		ID:             uuid.New(),
		Name:           name,
		AssignedUnitID: uuid.New(),
		Latitude:       lat,
		Longitude:      49.87,
		Status:         status,
		MapID:          "map-main",
		CreatedAt:      time.Now(),
	}
}

func newOperationService(targets *fakeTargetRepo, decoys *fakeDecoyRepo, outbox *fakeOutboxRepo, gen DecoyGenerator) *OperationService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOperationService(nil, targets, decoys, outbox, gen, guard.NewIdempotencyGuard(), 15, logger)
}

func TestStartOperationNoEligibleTargets(t *testing.T) {
	targets := &fakeTargetRepo{targets: []domain.OperationTarget{
		target("Obyekt-1", domain.TargetPending, 40.1),
		target("Obyekt-2", domain.TargetPassive, 40.2),
	}}
	decoys := &fakeDecoyRepo{decoys: []domain.Decoy{{ID: uuid.New(), PublicName: "Bölük Alfa"}}}
	svc := newOperationService(targets, decoys, &fakeOutboxRepo{}, &fakeGenerator{})

	report, err := svc.StartOperation(context.Background(), "")

	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NO_ELIGIBLE_TARGETS", appErr.Code)
	assert.Equal(t, 409, appErr.Status)
	assert.Nil(t, report)

	// A rejected run must not touch the existing decoy set.
	assert.Equal(t, 0, decoys.deleteAlls)
	assert.Len(t, decoys.decoys, 1)
}

func TestStartOperationGeneratesOnlyActiveTargets(t *testing.T) {
	t1 := target("Obyekt-1", domain.TargetActive, 40.1)
	t2 := target("Obyekt-2", domain.TargetPending, 40.2)
	t3 := target("Obyekt-3", domain.TargetActive, 40.3)
	targets := &fakeTargetRepo{targets: []domain.OperationTarget{t1, t2, t3}}
	decoys := &fakeDecoyRepo{}
	outbox := &fakeOutboxRepo{}
	gen := &fakeGenerator{}
	svc := newOperationService(targets, decoys, outbox, gen)

	report, err := svc.StartOperation(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, report.EligibleTargets)
	assert.Equal(t, 2, report.DecoysCreated)
	assert.Len(t, decoys.decoys, 2)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, encryptionJournal, report.Journal)

	// Names follow the eligible-target order, skipping ineligible rows.
	byTarget := map[uuid.UUID]domain.Decoy{}
	for _, d := range decoys.decoys {
		byTarget[d.OperationTargetID] = d
	}
	require.Contains(t, byTarget, t1.ID)
	require.Contains(t, byTarget, t3.ID)
	assert.NotContains(t, byTarget, t2.ID)
	assert.Equal(t, "Bölük Alfa", byTarget[t1.ID].PublicName)
	assert.Equal(t, "Bölük Beta", byTarget[t3.ID].PublicName)

	// Generated points carry the fake offset.
	assert.InDelta(t, t1.Latitude+0.05, byTarget[t1.ID].Latitude, 1e-9)

	assert.Equal(t,
		[]domain.EventType{domain.EventOperationStarted, domain.EventOperationCompleted},
		outbox.eventTypes())
}

func TestStartOperationClearsPreviousRun(t *testing.T) {
	t1 := target("Obyekt-1", domain.TargetActive, 40.1)
	targets := &fakeTargetRepo{targets: []domain.OperationTarget{t1}}
	decoys := &fakeDecoyRepo{decoys: []domain.Decoy{
		{ID: uuid.New(), PublicName: "Bölük Alfa"},
		{ID: uuid.New(), PublicName: "Bölük Beta"},
	}}
	svc := newOperationService(targets, decoys, &fakeOutboxRepo{}, &fakeGenerator{})

	report, err := svc.StartOperation(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.DecoysCleared)
	require.Len(t, decoys.decoys, 1)
	assert.Equal(t, t1.ID, decoys.decoys[0].OperationTargetID)
}

func TestStartOperationPartialFailureKeepsWrittenDecoys(t *testing.T) {
	t1 := target("Obyekt-1", domain.TargetActive, 40.1)
	t2 := target("Obyekt-2", domain.TargetActive, 40.2)
	targets := &fakeTargetRepo{targets: []domain.OperationTarget{t1, t2}}
	decoys := &fakeDecoyRepo{}
	svc := newOperationService(targets, decoys, &fakeOutboxRepo{}, &fakeGenerator{failLatitude: t2.Latitude})

	report, err := svc.StartOperation(context.Background(), "")

	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "GENERATION_FAILED", appErr.Code)
	assert.Nil(t, report)

	// The run is not transactional: the decoy written before the failure
	// stays until the next successful run clears it.
	assert.Equal(t, 1, decoys.deleteAlls)
	require.Len(t, decoys.decoys, 1)
	assert.Equal(t, t1.ID, decoys.decoys[0].OperationTargetID)
}

func TestStartOperationIdempotencyKey(t *testing.T) {
	t1 := target("Obyekt-1", domain.TargetActive, 40.1)
	targets := &fakeTargetRepo{targets: []domain.OperationTarget{t1}}
	svc := newOperationService(targets, &fakeDecoyRepo{}, &fakeOutboxRepo{}, &fakeGenerator{})

	_, err := svc.StartOperation(context.Background(), "op-retry-1")
	require.NoError(t, err)

	// Same key replays as a conflict, not a second run.
	_, err = svc.StartOperation(context.Background(), "op-retry-1")
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "IDEMPOTENT", appErr.Code)

	// A different key runs normally.
	_, err = svc.StartOperation(context.Background(), "op-retry-2")
	require.NoError(t, err)
}

func TestStartOperationFailedRunReleasesIdempotencyKey(t *testing.T) {
	t1 := target("Obyekt-1", domain.TargetActive, 40.1)
	targets := &fakeTargetRepo{targets: []domain.OperationTarget{t1}}
	gen := &fakeGenerator{failLatitude: t1.Latitude}
	svc := newOperationService(targets, &fakeDecoyRepo{}, &fakeOutboxRepo{}, gen)

	_, err := svc.StartOperation(context.Background(), "op-retry-1")
	require.Error(t, err)

	// The key is released so the client may retry after a failure.
	gen.failLatitude = 0
	_, err = svc.StartOperation(context.Background(), "op-retry-1")
	require.NoError(t, err)
}

func TestPublicDecoysHideTargetLink(t *testing.T) {
	targetID := uuid.New()
	decoys := &fakeDecoyRepo{decoys: []domain.Decoy{{
		ID:                uuid.New(),
		OperationTargetID: targetID,
		PublicName:        "Bölük Gamma",
		Latitude:          40.45,
		Longitude:         49.91,
	}}}
	svc := newOperationService(&fakeTargetRepo{}, decoys, &fakeOutboxRepo{}, &fakeGenerator{})

	public, err := svc.PublicDecoys(context.Background())
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, PublicDecoy{Name: "Bölük Gamma", Latitude: 40.45, Longitude: 49.91}, public[0])
}
