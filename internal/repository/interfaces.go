package repository

import (
	"context"

	"github.com/geoguard/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// UserRepository provides access to users.
type UserRepository interface {
	// FindByUsername returns a user by username, or nil if not found.
	FindByUsername(ctx context.Context, db DBTX, username string) (*domain.UserProfile, error)

	// FindByID returns a user by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.UserProfile, error)

	// Create inserts a new user.
	Create(ctx context.Context, db DBTX, user *domain.UserProfile) error
}

// UnitRepository provides access to military_units.
type UnitRepository interface {
	// List returns units visible within the given scope, ordered by creation.
	List(ctx context.Context, db DBTX, scope domain.ViewScope) ([]domain.MilitaryUnit, error)

	// FindByID returns a unit by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.MilitaryUnit, error)

	// Create inserts a new unit.
	Create(ctx context.Context, db DBTX, unit *domain.MilitaryUnit) error

	// UpdateStatus sets the unit status by identity.
	UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.UnitStatus) error
}

// TargetRepository provides access to operation_targets.
type TargetRepository interface {
	// List returns targets visible within the given scope, ordered by creation.
	List(ctx context.Context, db DBTX, scope domain.ViewScope) ([]domain.OperationTarget, error)

	// FindByID returns a target by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.OperationTarget, error)

	// Create inserts a new target.
	Create(ctx context.Context, db DBTX, target *domain.OperationTarget) error

	// Update mutates name, assigned unit and status. Position is immutable.
	Update(ctx context.Context, db DBTX, target *domain.OperationTarget) error

	// Delete removes a target by identity. Decoys are never cascaded.
	Delete(ctx context.Context, db DBTX, id uuid.UUID) error
}

// DecoyRepository provides access to decoys.
type DecoyRepository interface {
	// List returns all decoys, newest first.
	List(ctx context.Context, db DBTX) ([]domain.Decoy, error)

	// Insert writes one generated decoy.
	Insert(ctx context.Context, db DBTX, decoy *domain.Decoy) error

	// DeleteAll clears the whole collection. Every operation run starts here.
	DeleteAll(ctx context.Context, db DBTX) (int64, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events for the poller.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished removes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
