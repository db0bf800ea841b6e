package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

func TestWithRetryRetriesOnStaleVersion(t *testing.T) {
	ctx := context.Background()
	stored := unit("A", "A-1", 100)
	stored.RowVersion = 4

	attempts := 0
	get := func(ctx context.Context) (*models.Unit, error) {
		cp := *stored
		return &cp, nil
	}
	update := func(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
		attempts++
		if attempts == 1 {
			return pgconn.CommandTag("UPDATE 0"), nil
		}
		assert.EqualValues(t, 4, expected)
		return pgconn.CommandTag("UPDATE 1"), nil
	}

	err := WithRetry(ctx, 3, get, update, func(u *models.Unit) error {
		u.Allocated = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetryGivesUp(t *testing.T) {
	ctx := context.Background()
	get := func(ctx context.Context) (*models.Unit, error) {
		return unit("A", "A-1", 100), nil
	}
	update := func(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
		return pgconn.CommandTag("UPDATE 0"), nil
	}

	err := WithRetry(ctx, 3, get, update, func(*models.Unit) error { return nil })
	assert.ErrorIs(t, err, utils.ErrRowVersionConflict)
}

func TestWithRetryMissingRowAndMutateError(t *testing.T) {
	ctx := context.Background()
	missing := func(ctx context.Context) (*models.Unit, error) { return nil, nil }
	update := func(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
		t.Fatal("update must not be called")
		return nil, nil
	}

	err := WithRetry(ctx, 3, missing, update, func(*models.Unit) error { return nil })
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	boom := errors.New("boom")
	found := func(ctx context.Context) (*models.Unit, error) { return unit("A", "A-1", 100), nil }
	err = WithRetry(ctx, 3, found, update, func(*models.Unit) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestWithRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	load := func(ctx context.Context) (*models.Unit, error) {
		t.Fatal("load must not be called")
		return nil, nil
	}
	update := func(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
		return pgconn.CommandTag("UPDATE 1"), nil
	}
	err := WithRetry(ctx, 3, load, update, func(*models.Unit) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
