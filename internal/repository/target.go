package repository

import (
	"context"
	"errors"

	"github.com/geoguard/platform/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgTargetRepository implements TargetRepository using pgx.
type PgTargetRepository struct{}

// NewPgTargetRepository creates a new PgTargetRepository.
func NewPgTargetRepository() *PgTargetRepository {
	return &PgTargetRepository{}
}

const targetColumns = `id, name, assigned_unit_id, latitude, longitude, status, map_id, created_at, updated_at`

// List returns targets visible within the given scope, ordered by creation.
func (r *PgTargetRepository) List(ctx context.Context, db DBTX, scope domain.ViewScope) ([]domain.OperationTarget, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if scope.AllUnits {
		rows, err = db.Query(ctx,
			`SELECT `+targetColumns+` FROM operation_targets ORDER BY created_at`)
	} else {
		rows, err = db.Query(ctx,
			`SELECT `+targetColumns+` FROM operation_targets WHERE assigned_unit_id = $1 ORDER BY created_at`,
			scope.UnitID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []domain.OperationTarget
	for rows.Next() {
		var t domain.OperationTarget
		if err := rows.Scan(&t.ID, &t.Name, &t.AssignedUnitID, &t.Latitude, &t.Longitude,
			&t.Status, &t.MapID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// FindByID returns a target by ID, or nil if not found.
func (r *PgTargetRepository) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.OperationTarget, error) {
	row := db.QueryRow(ctx,
		`SELECT `+targetColumns+` FROM operation_targets WHERE id = $1`, id)

	t := &domain.OperationTarget{}
	err := row.Scan(&t.ID, &t.Name, &t.AssignedUnitID, &t.Latitude, &t.Longitude,
		&t.Status, &t.MapID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new target.
func (r *PgTargetRepository) Create(ctx context.Context, db DBTX, target *domain.OperationTarget) error {
	_, err := db.Exec(ctx,
		`INSERT INTO operation_targets (id, name, assigned_unit_id, latitude, longitude, status, map_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		target.ID, target.Name, target.AssignedUnitID, target.Latitude, target.Longitude,
		target.Status, target.MapID)
	return err
}

// Update mutates name, assigned unit and status. Position columns are never
// written after creation.
func (r *PgTargetRepository) Update(ctx context.Context, db DBTX, target *domain.OperationTarget) error {
	tag, err := db.Exec(ctx,
		`UPDATE operation_targets
		 SET name = $1, assigned_unit_id = $2, status = $3, updated_at = now()
		 WHERE id = $4`,
		target.Name, target.AssignedUnitID, target.Status, target.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("target", target.ID.String())
	}
	return nil
}

// Delete removes a target by identity. Associated decoys are left alone;
// they are only ever cleared in bulk at the start of an operation run.
func (r *PgTargetRepository) Delete(ctx context.Context, db DBTX, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `DELETE FROM operation_targets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("target", id.String())
	}
	return nil
}
