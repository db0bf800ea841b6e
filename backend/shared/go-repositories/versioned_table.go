package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

const defaultUpdateAttempts = 3

// EntityWithVersion is a row guarded by an optimistic row_version column.
// T must be comparable so a nil pointer can signal a missing row.
type EntityWithVersion interface {
	comparable
	GetID() string
	GetRowVersion() int64
	SetRowVersion(int64)
}

// CompareAndSwapFunc writes entity only if the stored row_version still
// equals expectedVersion. Zero affected rows means another writer won.
type CompareAndSwapFunc[T EntityWithVersion] func(
	ctx context.Context,
	entity T,
	expectedVersion int64,
) (pgconn.CommandTag, error)

/*
WithRetry loads, mutates and conditionally writes one row, reloading on a
lost race. A missing row yields pgx.ErrNoRows; a mutate error aborts as is;
losing every attempt yields utils.ErrRowVersionConflict.
*/
func WithRetry[T EntityWithVersion](
	ctx context.Context,
	attempts int,
	load func(ctx context.Context) (T, error),
	cas CompareAndSwapFunc[T],
	mutate func(T) error,
) error {
	var zero T
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		current, err := load(ctx)
		if err != nil {
			return err
		}
		if current == zero {
			return pgx.ErrNoRows
		}

		seen := current.GetRowVersion()
		if err := mutate(current); err != nil {
			return err
		}

		tag, err := cas(ctx, current, seen)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			current.SetRowVersion(seen + 1)
			return nil
		}
		utils.Logger.WithField("id", current.GetID()).Debugf("row_version %d is stale, reloading", seen)
	}
	return fmt.Errorf("%w: lost %d update races", utils.ErrRowVersionConflict, attempts)
}

// versionedTable binds WithRetry to one table's select-by-id and scanner.
type versionedTable[T EntityWithVersion] struct {
	db         DB
	selectByID string
	scan       func(pgx.Row) (T, error)
}

func (t versionedTable[T]) getByID(ctx context.Context, id string) (T, error) {
	return t.scan(t.db.QueryRow(ctx, t.selectByID, id))
}

func (t versionedTable[T]) update(ctx context.Context, id string, mutate func(T) error, cas CompareAndSwapFunc[T]) error {
	load := func(ctx context.Context) (T, error) { return t.getByID(ctx, id) }
	return WithRetry(ctx, defaultUpdateAttempts, load, cas, mutate)
}
