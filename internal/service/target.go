package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TargetService handles operation target CRUD.
type TargetService struct {
	pool         *pgxpool.Pool
	targets      repository.TargetRepository
	outbox       repository.OutboxRepository
	defaultMapID string
	logger       *slog.Logger
}

// NewTargetService creates a TargetService.
func NewTargetService(
	pool *pgxpool.Pool,
	targets repository.TargetRepository,
	outbox repository.OutboxRepository,
	defaultMapID string,
	logger *slog.Logger,
) *TargetService {
	return &TargetService{
		pool:         pool,
		targets:      targets,
		outbox:       outbox,
		defaultMapID: defaultMapID,
		logger:       logger,
	}
}

// CreateTargetInput holds the target creation request fields. Position comes
// from a map placement and is immutable after creation.
type CreateTargetInput struct {
	Name           string              `json:"name"`
	AssignedUnitID uuid.UUID           `json:"assigned_unit_id"`
	Latitude       float64             `json:"latitude"`
	Longitude      float64             `json:"longitude"`
	Status         domain.TargetStatus `json:"status"`
	MapID          string              `json:"map_id"`
}

// UpdateTargetInput holds the editable target fields. A nil field is left
// unchanged.
type UpdateTargetInput struct {
	Name           *string              `json:"name"`
	AssignedUnitID *uuid.UUID           `json:"assigned_unit_id"`
	Status         *domain.TargetStatus `json:"status"`
}

// CreateTarget records a new operation target.
func (s *TargetService) CreateTarget(ctx context.Context, input CreateTargetInput) (*domain.OperationTarget, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, domain.ErrValidation("target name is required")
	}
	if input.AssignedUnitID == uuid.Nil {
		return nil, domain.ErrValidation("assigned unit is required")
	}
	if err := domain.ValidatePosition(input.Latitude, input.Longitude); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if input.Status == "" {
		input.Status = domain.TargetPending
	}
	if err := domain.ValidateTargetStatus(input.Status); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if input.MapID == "" {
		input.MapID = s.defaultMapID
	}

	target := &domain.OperationTarget{
		ID:             uuid.New(),
		Name:           input.Name,
		AssignedUnitID: input.AssignedUnitID,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Status:         input.Status,
		MapID:          input.MapID,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.targets.Create(ctx, tx, target); err != nil {
		return nil, domain.ErrInternal("create target", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewTargetCreatedEvent(target)); err != nil {
		return nil, domain.ErrInternal("record event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("target created", "target_id", target.ID, "unit_id", target.AssignedUnitID)

	return target, nil
}

// ListTargets returns targets visible within the given scope.
func (s *TargetService) ListTargets(ctx context.Context, scope domain.ViewScope) ([]domain.OperationTarget, error) {
	targets, err := s.targets.List(ctx, s.pool, scope)
	if err != nil {
		return nil, domain.ErrInternal("list targets", err)
	}
	return targets, nil
}

// GetTarget returns one target. A target outside the caller's scope is
// reported as not found rather than forbidden.
func (s *TargetService) GetTarget(ctx context.Context, scope domain.ViewScope, id uuid.UUID) (*domain.OperationTarget, error) {
	target, err := s.targets.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find target", err)
	}
	if target == nil || (!scope.AllUnits && target.AssignedUnitID != scope.UnitID) {
		return nil, domain.ErrNotFound("target", id.String())
	}
	return target, nil
}

// UpdateTarget edits name, assigned unit and status. Position never changes.
func (s *TargetService) UpdateTarget(ctx context.Context, id uuid.UUID, input UpdateTargetInput) (*domain.OperationTarget, error) {
	target, err := s.targets.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find target", err)
	}
	if target == nil {
		return nil, domain.ErrNotFound("target", id.String())
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.ErrValidation("target name cannot be empty")
		}
		target.Name = name
	}
	if input.AssignedUnitID != nil {
		if *input.AssignedUnitID == uuid.Nil {
			return nil, domain.ErrValidation("assigned unit cannot be empty")
		}
		target.AssignedUnitID = *input.AssignedUnitID
	}
	if input.Status != nil {
		if err := domain.ValidateTargetStatus(*input.Status); err != nil {
			return nil, domain.ErrValidation(err.Error())
		}
		target.Status = *input.Status
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.targets.Update(ctx, tx, target); err != nil {
		return nil, domain.ErrInternal("update target", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewTargetUpdatedEvent(target)); err != nil {
		return nil, domain.ErrInternal("record event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	return target, nil
}

// DeleteTarget removes a target. Decoys referencing it are left alone; the
// next operation run rebuilds the whole decoy set anyway.
func (s *TargetService) DeleteTarget(ctx context.Context, id uuid.UUID) error {
	target, err := s.targets.FindByID(ctx, s.pool, id)
	if err != nil {
		return domain.ErrInternal("find target", err)
	}
	if target == nil {
		return domain.ErrNotFound("target", id.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.targets.Delete(ctx, tx, id); err != nil {
		return domain.ErrInternal("delete target", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewTargetDeletedEvent(id)); err != nil {
		return domain.ErrInternal("record event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("target deleted", "target_id", id)
	return nil
}
