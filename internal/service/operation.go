package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/guard"
	"github.com/geoguard/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// DecoyGenerator produces one decoy coordinate near an objective.
type DecoyGenerator interface {
	GenerateDecoy(ctx context.Context, req domain.DecoyRequest) (*domain.DecoyPoint, error)
}

// Generator context placeholders. These are fixed inputs, not derived from
// the target record.
const (
	generatorTerrainType  = "mountainous"
	generatorProximity    = "low"
	generatorPatrolRoutes = "None reported"
)

// encryptionJournal is the fixed obfuscation narrative broadcast with every
// run. The stages are theater; the real work is the generator call.
var encryptionJournal = []string{
	"[SİSTEM] Əməliyyat başladı...",
	"1. Collatz Qarışdırması → ilkin koordinatlar qarışdırıldı",
	"2. Prime-Jump Şifrələməsi → sadə ədəd cədvəli tətbiq edildi",
	"3. Fibonaççi Spiralı → spiral ofset tətbiq edildi",
	"4. Lehmer RNG Sürüşdürməsi → təsadüfi, lakin təkrarlanabilən sürüşdürmə",
	"5. Kvant Geo-Sürüşdürmə → yekun təhlükəsizlik layı tətbiq edildi",
	"[SİSTEM] Proses tamamlandı. Yem yayıma hazırdır.",
}

// OperationService runs decoy-generation operations and serves the decoy
// views.
type OperationService struct {
	pool        *pgxpool.Pool
	targets     repository.TargetRepository
	decoys      repository.DecoyRepository
	outbox      repository.OutboxRepository
	generator   DecoyGenerator
	idempotency *guard.IdempotencyGuard
	radiusKm    float64
	logger      *slog.Logger
}

// NewOperationService creates an OperationService.
func NewOperationService(
	pool *pgxpool.Pool,
	targets repository.TargetRepository,
	decoys repository.DecoyRepository,
	outbox repository.OutboxRepository,
	generator DecoyGenerator,
	idempotency *guard.IdempotencyGuard,
	radiusKm float64,
	logger *slog.Logger,
) *OperationService {
	return &OperationService{
		pool:        pool,
		targets:     targets,
		decoys:      decoys,
		outbox:      outbox,
		generator:   generator,
		idempotency: idempotency,
		radiusKm:    radiusKm,
		logger:      logger,
	}
}

// OperationReport summarizes one finished run.
type OperationReport struct {
	OperationID     uuid.UUID      `json:"operation_id"`
	EligibleTargets int            `json:"eligible_targets"`
	DecoysCreated   int            `json:"decoys_created"`
	DecoysCleared   int64          `json:"decoys_cleared"`
	Decoys          []domain.Decoy `json:"decoys"`
	Journal         []string       `json:"journal"`
	StartedAt       time.Time      `json:"started_at"`
	CompletedAt     time.Time      `json:"completed_at"`
}

// StartOperation regenerates the decoy set: it clears all existing decoys,
// then writes one decoy per active target, generated concurrently. Each
// decoy is inserted as soon as its generation succeeds, so a mid-run failure
// leaves the decoys written so far in place; the next successful run clears
// them. Concurrent runs are not serialized; idempotencyKey, when supplied,
// lets a client fence its own retries.
func (s *OperationService) StartOperation(ctx context.Context, idempotencyKey string) (*OperationReport, error) {
	if idempotencyKey != "" {
		if result := s.idempotency.Check(ctx, idempotencyKey); !result.Allowed {
			return nil, domain.ErrIdempotent(result.Reason)
		}
	}

	report, err := s.run(ctx)
	if err != nil && idempotencyKey != "" {
		// A failed run may be retried with the same key.
		s.idempotency.Remove(idempotencyKey)
	}
	return report, err
}

func (s *OperationService) run(ctx context.Context) (*OperationReport, error) {
	startedAt := time.Now()

	targets, err := s.targets.List(ctx, s.pool, domain.ScopeAll())
	if err != nil {
		return nil, domain.ErrInternal("list targets", err)
	}

	var eligible []domain.OperationTarget
	for _, t := range targets {
		if t.Status == domain.TargetActive {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleTargets()
	}

	operationID := uuid.New()
	if err := s.outbox.Insert(ctx, s.pool, domain.NewOperationStartedEvent(operationID, len(eligible))); err != nil {
		return nil, domain.ErrInternal("record event", err)
	}

	cleared, err := s.decoys.DeleteAll(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("clear decoys", err)
	}

	s.logger.Info("operation started",
		"operation_id", operationID,
		"eligible_targets", len(eligible),
		"decoys_cleared", cleared)

	var (
		mu      sync.Mutex
		created []domain.Decoy
	)
	var g errgroup.Group
	for i, target := range eligible {
		g.Go(func() error {
			point, err := s.generator.GenerateDecoy(ctx, domain.DecoyRequest{
				Latitude:                  target.Latitude,
				Longitude:                 target.Longitude,
				TerrainType:               generatorTerrainType,
				ProximityToPopulatedAreas: generatorProximity,
				KnownEnemyPatrolRoutes:    generatorPatrolRoutes,
				RadiusKm:                  s.radiusKm,
			})
			if err != nil {
				return err
			}

			decoy := domain.Decoy{
				ID:                uuid.New(),
				OperationTargetID: target.ID,
				PublicName:        domain.DecoyPublicName(i),
				Latitude:          point.DecoyLatitude,
				Longitude:         point.DecoyLongitude,
				CreatedAt:         time.Now(),
			}
			if err := s.decoys.Insert(ctx, s.pool, &decoy); err != nil {
				return err
			}

			mu.Lock()
			created = append(created, decoy)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("operation failed", "operation_id", operationID, "error", err)
		return nil, domain.ErrGenerationFailed(err)
	}

	if err := s.outbox.Insert(ctx, s.pool, domain.NewOperationCompletedEvent(operationID, len(created))); err != nil {
		return nil, domain.ErrInternal("record event", err)
	}

	s.logger.Info("operation completed", "operation_id", operationID, "decoys_created", len(created))

	return &OperationReport{
		OperationID:     operationID,
		EligibleTargets: len(eligible),
		DecoysCreated:   len(created),
		DecoysCleared:   cleared,
		Decoys:          created,
		Journal:         encryptionJournal,
		StartedAt:       startedAt,
		CompletedAt:     time.Now(),
	}, nil
}

// ListDecoys returns the full decoy set with target references.
func (s *OperationService) ListDecoys(ctx context.Context) ([]domain.Decoy, error) {
	decoys, err := s.decoys.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list decoys", err)
	}
	return decoys, nil
}

// PublicDecoy is the broadcast view of a decoy. It never exposes the linked
// operation target.
type PublicDecoy struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PublicDecoys returns the decoy set projected for unauthenticated
// broadcast.
func (s *OperationService) PublicDecoys(ctx context.Context) ([]PublicDecoy, error) {
	decoys, err := s.decoys.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list decoys", err)
	}

	public := make([]PublicDecoy, 0, len(decoys))
	for _, d := range decoys {
		public = append(public, PublicDecoy{
			Name:      d.PublicName,
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
		})
	}
	return public, nil
}
