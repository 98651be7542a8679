package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/domain"
)

// DefaultListLimit is also the most rows ListFarmers returns.
const DefaultListLimit = 100

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

func (r *Repos) InsertFarmer(ctx context.Context, f *domain.Farmer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO farmer_inputs(id, latitude, longitude, crop_name, created_at) VALUES ($1,$2,$3,$4,$5)`,
		f.ID, f.Latitude, f.Longitude, f.CropName, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert farmer %s: %w", f.ID, err)
	}
	return nil
}

// ListFarmers returns the newest farmers first. A limit outside 1..DefaultListLimit
// means DefaultListLimit.
func (r *Repos) ListFarmers(ctx context.Context, limit int) ([]domain.Farmer, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	out := []domain.Farmer{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT id, latitude, longitude, crop_name, created_at FROM farmer_inputs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list farmers: %w", err)
	}
	return out, nil
}

func (r *Repos) GetFarmer(ctx context.Context, id string) (domain.Farmer, error) {
	var f domain.Farmer
	err := r.db.GetContext(ctx, &f,
		`SELECT id, latitude, longitude, crop_name, created_at FROM farmer_inputs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return f, fmt.Errorf("%w: %s", domain.ErrFarmerNotFound, id)
	}
	if err != nil {
		return f, fmt.Errorf("failed to get farmer %s: %w", id, err)
	}
	return f, nil
}
