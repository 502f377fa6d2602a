package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/geoguard/platform/internal/domain"
	"github.com/geoguard/platform/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// UnitService handles military unit lifecycle. A unit and its sub-commander
// account are one logical entity and are always created together.
type UnitService struct {
	pool         *pgxpool.Pool
	units        repository.UnitRepository
	users        repository.UserRepository
	outbox       repository.OutboxRepository
	defaultMapID string
	logger       *slog.Logger
}

// NewUnitService creates a UnitService.
func NewUnitService(
	pool *pgxpool.Pool,
	units repository.UnitRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	defaultMapID string,
	logger *slog.Logger,
) *UnitService {
	return &UnitService{
		pool:         pool,
		units:        units,
		users:        users,
		outbox:       outbox,
		defaultMapID: defaultMapID,
		logger:       logger,
	}
}

// CreateUnitInput holds the unit creation request fields.
type CreateUnitInput struct {
	Name                 string `json:"name"`
	SubCommanderUsername string `json:"sub_commander_username"`
	SubCommanderPassword string `json:"sub_commander_password"`
	CanSeeAllUnits       bool   `json:"can_see_all_units"`
	MapID                string `json:"map_id"`
}

// CreateUnitResult pairs the created unit with its sub-commander account.
type CreateUnitResult struct {
	Unit         *domain.MilitaryUnit `json:"unit"`
	SubCommander *domain.UserProfile  `json:"sub_commander"`
}

// CreateUnit creates a unit and its sub-commander account in one transaction.
// The unit spawns near the base position with jitter on both axes.
func (s *UnitService) CreateUnit(ctx context.Context, input CreateUnitInput) (*CreateUnitResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, domain.ErrValidation("unit name is required")
	}
	if err := domain.ValidateUsername(input.SubCommanderUsername); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidatePassword(input.SubCommanderPassword); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if input.MapID == "" {
		input.MapID = s.defaultMapID
	}

	existing, err := s.users.FindByUsername(ctx, s.pool, input.SubCommanderUsername)
	if err != nil {
		return nil, domain.ErrInternal("find user", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.SubCommanderPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.ErrInternal("hash password", err)
	}

	unitID := uuid.New()
	userID := uuid.New()

	user := &domain.UserProfile{
		ID:             userID,
		Username:       input.SubCommanderUsername,
		PasswordHash:   string(hash),
		Role:           domain.RoleSubCommander,
		AssignedUnitID: &unitID,
		CanSeeAllUnits: input.CanSeeAllUnits,
	}

	unit := &domain.MilitaryUnit{
		ID:          unitID,
		Name:        input.Name,
		CommanderID: userID,
		Status:      domain.UnitOperating,
		Latitude:    spawnCoordinate(domain.UnitBaseLatitude),
		Longitude:   spawnCoordinate(domain.UnitBaseLongitude),
		MapID:       input.MapID,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.users.Create(ctx, tx, user); err != nil {
		return nil, domain.ErrInternal("create sub-commander", err)
	}
	if err := s.units.Create(ctx, tx, unit); err != nil {
		return nil, domain.ErrInternal("create unit", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewUnitCreatedEvent(unit)); err != nil {
		return nil, domain.ErrInternal("record event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("unit created", "unit_id", unit.ID, "name", unit.Name, "sub_commander", user.Username)

	return &CreateUnitResult{Unit: unit, SubCommander: user}, nil
}

// ListUnits returns units visible within the given scope.
func (s *UnitService) ListUnits(ctx context.Context, scope domain.ViewScope) ([]domain.MilitaryUnit, error) {
	units, err := s.units.List(ctx, s.pool, scope)
	if err != nil {
		return nil, domain.ErrInternal("list units", err)
	}
	return units, nil
}

// UpdateStatus transitions a unit's status. Sub-commanders without the
// see-all flag may only touch their own unit.
func (s *UnitService) UpdateStatus(ctx context.Context, scope domain.ViewScope, unitID uuid.UUID, status domain.UnitStatus) (*domain.MilitaryUnit, error) {
	if err := domain.ValidateUnitStatus(status); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if !scope.AllUnits && scope.UnitID != unitID {
		return nil, domain.ErrForbidden("cannot update another unit")
	}

	unit, err := s.units.FindByID(ctx, s.pool, unitID)
	if err != nil {
		return nil, domain.ErrInternal("find unit", err)
	}
	if unit == nil {
		return nil, domain.ErrNotFound("unit", unitID.String())
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.units.UpdateStatus(ctx, tx, unitID, status); err != nil {
		return nil, domain.ErrInternal("update unit status", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewUnitStatusChangedEvent(unitID, status)); err != nil {
		return nil, domain.ErrInternal("record event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	unit.Status = status
	return unit, nil
}

// spawnCoordinate jitters a base coordinate by up to one jitter unit on
// either side.
func spawnCoordinate(base float64) float64 {
	return base + (rand.Float64()*2-1)*domain.UnitSpawnJitter
}
