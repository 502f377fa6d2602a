package repository

import (
	"context"
	"errors"

	"github.com/geoguard/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgUnitRepository implements UnitRepository using pgx.
type PgUnitRepository struct{}

// NewPgUnitRepository creates a new PgUnitRepository.
func NewPgUnitRepository() *PgUnitRepository {
	return &PgUnitRepository{}
}

const unitColumns = `id, name, commander_id, status, latitude, longitude, map_id, created_at, updated_at`

// List returns units visible within the given scope. The scope predicate is
// the same one applied to targets: unscoped for the all-units view, a single
// unit id otherwise.
func (r *PgUnitRepository) List(ctx context.Context, db DBTX, scope domain.ViewScope) ([]domain.MilitaryUnit, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if scope.AllUnits {
		rows, err = db.Query(ctx,
			`SELECT `+unitColumns+` FROM military_units ORDER BY created_at`)
	} else {
		rows, err = db.Query(ctx,
			`SELECT `+unitColumns+` FROM military_units WHERE id = $1 ORDER BY created_at`,
			scope.UnitID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.MilitaryUnit
	for rows.Next() {
		var u domain.MilitaryUnit
		if err := rows.Scan(&u.ID, &u.Name, &u.CommanderID, &u.Status,
			&u.Latitude, &u.Longitude, &u.MapID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// FindByID returns a unit by ID, or nil if not found.
func (r *PgUnitRepository) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.MilitaryUnit, error) {
	row := db.QueryRow(ctx,
		`SELECT `+unitColumns+` FROM military_units WHERE id = $1`, id)

	u := &domain.MilitaryUnit{}
	err := row.Scan(&u.ID, &u.Name, &u.CommanderID, &u.Status,
		&u.Latitude, &u.Longitude, &u.MapID, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new unit.
func (r *PgUnitRepository) Create(ctx context.Context, db DBTX, unit *domain.MilitaryUnit) error {
	_, err := db.Exec(ctx,
		`INSERT INTO military_units (id, name, commander_id, status, latitude, longitude, map_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		unit.ID, unit.Name, unit.CommanderID, unit.Status, unit.Latitude, unit.Longitude, unit.MapID)
	return err
}

// UpdateStatus sets the unit status by identity.
func (r *PgUnitRepository) UpdateStatus(ctx context.Context, db DBTX, id uuid.UUID, status domain.UnitStatus) error {
	tag, err := db.Exec(ctx,
		`UPDATE military_units SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("unit", id.String())
	}
	return nil
}
