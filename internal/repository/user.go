package repository

import (
	"context"
	"errors"

	"github.com/geoguard/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgUserRepository implements UserRepository using pgx.
type PgUserRepository struct{}

// NewPgUserRepository creates a new PgUserRepository.
func NewPgUserRepository() *PgUserRepository {
	return &PgUserRepository{}
}

const userColumns = `id, username, password_hash, role, assigned_unit_id, can_see_all_units, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.UserProfile, error) {
	u := &domain.UserProfile{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role,
		&u.AssignedUnitID, &u.CanSeeAllUnits, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByUsername returns a user by username, or nil if not found.
func (r *PgUserRepository) FindByUsername(ctx context.Context, db DBTX, username string) (*domain.UserProfile, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// FindByID returns a user by ID, or nil if not found.
func (r *PgUserRepository) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.UserProfile, error) {
	row := db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// Create inserts a new user.
func (r *PgUserRepository) Create(ctx context.Context, db DBTX, user *domain.UserProfile) error {
	_, err := db.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, role, assigned_unit_id, can_see_all_units)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.PasswordHash, user.Role, user.AssignedUnitID, user.CanSeeAllUnits)
	return err
}
