package database

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/aquaguard-farming-api/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS farmer_inputs (
	id         TEXT PRIMARY KEY,
	latitude   DOUBLE PRECISION NOT NULL CHECK (latitude BETWEEN -90 AND 90),
	longitude  DOUBLE PRECISION NOT NULL CHECK (longitude BETWEEN -180 AND 180),
	crop_name  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS farmer_inputs_created_at_idx ON farmer_inputs (created_at DESC);
`

func Connect() (*sqlx.DB, error) {
	return sqlx.Connect("pgx", config.DBDSN())
}

// EnsureSchema creates the farmer tables when they are missing.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
