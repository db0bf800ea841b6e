package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

func unit(block, id string, gross float64) *models.Unit {
	return &models.Unit{
		UnitID:                 id,
		Typology:               models.Typology1BR,
		NetArea:                gross - 10,
		GrossArea:              gross,
		FloorNumber:            1,
		BlockName:              block,
		TotalBuildingGrossArea: 1000,
	}
}

func TestMemoryCreateManyAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()

	require.NoError(t, repo.CreateMany(ctx, []*models.Unit{
		unit("B", "B-2", 100), unit("A", "A-2", 100), unit("A", "A-1", 100),
	}))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A-1", "A-2", "B-2"}, ids(all))
	for _, u := range all {
		assert.False(t, u.Allocated)
		assert.Equal(t, models.OwnerUnset, u.Owner)
		assert.EqualValues(t, 1, u.RowVersion)
		assert.False(t, u.CreatedAt.IsZero())
	}

	blockA, err := repo.ListByBlock(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1", "A-2"}, ids(blockA))
}

func TestMemoryCreateManyRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()
	require.NoError(t, repo.CreateMany(ctx, []*models.Unit{unit("A", "A-1", 100)}))

	err := repo.CreateMany(ctx, []*models.Unit{unit("A", "A-2", 100), unit("A", "A-1", 100)})
	assert.ErrorIs(t, err, utils.ErrDuplicateUnit)

	err = repo.CreateMany(ctx, []*models.Unit{unit("A", "A-3", 100), unit("A", "A-3", 100)})
	assert.ErrorIs(t, err, utils.ErrDuplicateUnit)

	// Nothing from the rejected batches was stored.
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1"}, ids(all))
}

func TestMemoryMarkAllocated(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()
	require.NoError(t, repo.CreateMany(ctx, []*models.Unit{unit("A", "A-1", 100), unit("A", "A-2", 100)}))

	require.NoError(t, repo.MarkAllocated(ctx, "A-1", models.OwnerAuthority))

	got, err := repo.GetByID(ctx, "A-1")
	require.NoError(t, err)
	assert.True(t, got.Allocated)
	assert.Equal(t, models.OwnerAuthority, got.Owner)
	assert.EqualValues(t, 2, got.RowVersion)

	err = repo.MarkAllocated(ctx, "A-1", models.OwnerDeveloper)
	assert.ErrorIs(t, err, utils.ErrUnitAlreadyAllocated)

	err = repo.MarkAllocated(ctx, "missing", models.OwnerDeveloper)
	assert.ErrorIs(t, err, utils.ErrUnitNotFound)

	err = repo.MarkAllocated(ctx, "A-2", models.OwnerPendingNegotiation)
	assert.Error(t, err)

	allocated, err := repo.ListAllocated(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-1"}, ids(allocated))

	unallocated, err := repo.ListUnallocated(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A-2"}, ids(unallocated))
}

func TestMemoryMarkPendingNegotiation(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()
	require.NoError(t, repo.CreateMany(ctx, []*models.Unit{unit("A", "S-1", 100)}))

	require.NoError(t, repo.MarkPendingNegotiation(ctx, "S-1"))
	got, err := repo.GetByID(ctx, "S-1")
	require.NoError(t, err)
	assert.True(t, got.IsPendingNegotiation())

	// Pending units stay in the unallocated pool until resolved.
	unallocated, err := repo.ListUnallocated(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"S-1"}, ids(unallocated))

	require.NoError(t, repo.MarkAllocated(ctx, "S-1", models.OwnerDeveloper))
	assert.ErrorIs(t, repo.MarkPendingNegotiation(ctx, "S-1"), utils.ErrUnitAlreadyAllocated)
	assert.ErrorIs(t, repo.MarkPendingNegotiation(ctx, "nope"), utils.ErrUnitNotFound)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUnitRepository()
	require.NoError(t, repo.CreateMany(ctx, []*models.Unit{unit("A", "A-1", 100)}))

	got, err := repo.GetByID(ctx, "A-1")
	require.NoError(t, err)
	got.Allocated = true

	again, err := repo.GetByID(ctx, "A-1")
	require.NoError(t, err)
	assert.False(t, again.Allocated)

	missing, err := repo.GetByID(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func ids(units []*models.Unit) []string {
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.UnitID)
	}
	return out
}
