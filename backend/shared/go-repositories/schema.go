package repositories

import "context"

const unitsSchema = `
CREATE TABLE IF NOT EXISTS units (
	unit_id                   TEXT PRIMARY KEY,
	typology                  TEXT NOT NULL,
	net_area                  DOUBLE PRECISION NOT NULL CHECK (net_area > 0),
	gross_area                DOUBLE PRECISION NOT NULL CHECK (gross_area >= net_area),
	floor_number              INTEGER NOT NULL,
	block_name                TEXT NOT NULL,
	total_building_gross_area DOUBLE PRECISION NOT NULL CHECK (total_building_gross_area > 0),
	allocated                 BOOLEAN NOT NULL DEFAULT FALSE,
	owner                     TEXT NOT NULL DEFAULT '',
	created_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at                TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	row_version               BIGINT NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS units_block_name_idx ON units (block_name);
CREATE INDEX IF NOT EXISTS units_allocated_idx ON units (allocated);
`

// EnsureSchema creates the units table and its indexes when missing.
func EnsureSchema(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, unitsSchema)
	return err
}
