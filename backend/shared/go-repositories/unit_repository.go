package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

/* ───────────── public interface ───────────── */

// UnitRepository is the unit store used by the submission, allocation,
// audit and report services.
type UnitRepository interface {
	CreateMany(ctx context.Context, list []*models.Unit) error

	GetByID(ctx context.Context, unitID string) (*models.Unit, error)
	ListAll(ctx context.Context) ([]*models.Unit, error)
	ListUnallocated(ctx context.Context) ([]*models.Unit, error)
	ListAllocated(ctx context.Context) ([]*models.Unit, error)
	ListByBlock(ctx context.Context, blockName string) ([]*models.Unit, error)

	MarkAllocated(ctx context.Context, unitID string, owner models.Owner) error
	MarkPendingNegotiation(ctx context.Context, unitID string) error

	Ping(ctx context.Context) error
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	db    DB
	table versionedTable[*models.Unit]
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	r.table = versionedTable[*models.Unit]{
		db:         db,
		selectByID: baseSelectUnit() + " WHERE unit_id=$1",
		scan:       r.scanUnit,
	}
	return r
}

/* ---------- create ---------- */

// CreateMany inserts the whole batch in one transaction.
func (r *unitRepo) CreateMany(ctx context.Context, list []*models.Unit) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, u := range list {
		_, err := tx.Exec(ctx, `
			INSERT INTO units (
				unit_id, typology, net_area, gross_area, floor_number,
				block_name, total_building_gross_area, allocated, owner,
				created_at, updated_at, row_version
			) VALUES ($1,$2,$3,$4,$5,$6,$7,FALSE,'', NOW(), NOW(), 1)
		`, u.UnitID, string(u.Typology), u.NetArea, u.GrossArea, u.FloorNumber,
			u.BlockName, u.TotalBuildingGrossArea)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", utils.ErrDuplicateUnit, u.UnitID)
			}
			return err
		}
	}
	return tx.Commit(ctx)
}

/* ---------- reads ---------- */

func (r *unitRepo) GetByID(ctx context.Context, unitID string) (*models.Unit, error) {
	return r.table.getByID(ctx, unitID)
}

func (r *unitRepo) ListAll(ctx context.Context) ([]*models.Unit, error) {
	return r.list(ctx, "")
}

func (r *unitRepo) ListUnallocated(ctx context.Context) ([]*models.Unit, error) {
	return r.list(ctx, " WHERE allocated=FALSE")
}

func (r *unitRepo) ListAllocated(ctx context.Context) ([]*models.Unit, error) {
	return r.list(ctx, " WHERE allocated=TRUE")
}

func (r *unitRepo) ListByBlock(ctx context.Context, blockName string) ([]*models.Unit, error) {
	return r.list(ctx, " WHERE block_name=$1", blockName)
}

func (r *unitRepo) list(ctx context.Context, where string, args ...any) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+where+` ORDER BY block_name COLLATE "C", unit_id COLLATE "C"`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanUnits(rows)
}

/* ---------- updates ---------- */

// MarkAllocated sets the final owner. Already allocated units are rejected.
func (r *unitRepo) MarkAllocated(ctx context.Context, unitID string, owner models.Owner) error {
	if !owner.IsFinal() {
		return fmt.Errorf("cannot allocate unit %s to owner %q", unitID, owner)
	}
	return r.updateWithRetry(ctx, unitID, func(u *models.Unit) error {
		if u.Allocated {
			return fmt.Errorf("%w: %s", utils.ErrUnitAlreadyAllocated, unitID)
		}
		u.Allocated = true
		u.Owner = owner
		return nil
	})
}

func (r *unitRepo) MarkPendingNegotiation(ctx context.Context, unitID string) error {
	return r.updateWithRetry(ctx, unitID, func(u *models.Unit) error {
		if u.Allocated {
			return fmt.Errorf("%w: %s", utils.ErrUnitAlreadyAllocated, unitID)
		}
		u.Owner = models.OwnerPendingNegotiation
		return nil
	})
}

func (r *unitRepo) updateWithRetry(ctx context.Context, unitID string, mutate func(*models.Unit) error) error {
	err := r.table.update(ctx, unitID, mutate, r.updateIfVersion)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", utils.ErrUnitNotFound, unitID)
	}
	return err
}

func (r *unitRepo) updateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE units
		SET allocated=$1, owner=$2, updated_at=NOW(), row_version=row_version+1
		WHERE unit_id=$3 AND row_version=$4
	`, u.Allocated, string(u.Owner), u.UnitID, expected)
}

func (r *unitRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

/* ---------- internals ---------- */

func baseSelectUnit() string {
	return `
		SELECT unit_id, typology, net_area, gross_area, floor_number,
		block_name, total_building_gross_area, allocated, owner,
		created_at, updated_at, row_version
		FROM units`
}

func (r *unitRepo) scanUnit(row pgx.Row) (*models.Unit, error) {
	var (
		u        models.Unit
		typology string
		owner    string
	)
	if err := row.Scan(
		&u.UnitID, &typology, &u.NetArea, &u.GrossArea, &u.FloorNumber,
		&u.BlockName, &u.TotalBuildingGrossArea, &u.Allocated, &owner,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.Typology = models.Typology(typology)
	u.Owner = models.Owner(owner)
	return &u, nil
}

func (r *unitRepo) scanUnits(rows pgx.Rows) ([]*models.Unit, error) {
	var out []*models.Unit
	for rows.Next() {
		u, err := r.scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
