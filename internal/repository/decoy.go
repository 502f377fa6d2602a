package repository

import (
	"context"

	"github.com/geoguard/platform/internal/domain"
)

// PgDecoyRepository implements DecoyRepository using pgx.
type PgDecoyRepository struct{}

// NewPgDecoyRepository creates a new PgDecoyRepository.
func NewPgDecoyRepository() *PgDecoyRepository {
	return &PgDecoyRepository{}
}

// List returns all decoys, newest first.
func (r *PgDecoyRepository) List(ctx context.Context, db DBTX) ([]domain.Decoy, error) {
	rows, err := db.Query(ctx,
		`SELECT id, operation_target_id, public_name, latitude, longitude, created_at
		 FROM decoys ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decoys []domain.Decoy
	for rows.Next() {
		var d domain.Decoy
		if err := rows.Scan(&d.ID, &d.OperationTargetID, &d.PublicName,
			&d.Latitude, &d.Longitude, &d.CreatedAt); err != nil {
			return nil, err
		}
		decoys = append(decoys, d)
	}
	return decoys, rows.Err()
}

// Insert writes one generated decoy.
func (r *PgDecoyRepository) Insert(ctx context.Context, db DBTX, decoy *domain.Decoy) error {
	_, err := db.Exec(ctx,
		`INSERT INTO decoys (id, operation_target_id, public_name, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5)`,
		decoy.ID, decoy.OperationTargetID, decoy.PublicName, decoy.Latitude, decoy.Longitude)
	return err
}

// DeleteAll clears the whole collection and reports how many rows went.
func (r *PgDecoyRepository) DeleteAll(ctx context.Context, db DBTX) (int64, error) {
	tag, err := db.Exec(ctx, `DELETE FROM decoys`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
