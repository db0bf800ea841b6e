package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-models"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

// memoryUnitRepo keeps units in process memory. Used for development
// and tests when no DATABASE_URL is configured.
type memoryUnitRepo struct {
	mu    sync.RWMutex
	units map[string]*models.Unit
	now   func() time.Time
}

func NewMemoryUnitRepository() UnitRepository {
	return &memoryUnitRepo{
		units: make(map[string]*models.Unit),
		now:   time.Now,
	}
}

func (r *memoryUnitRepo) CreateMany(ctx context.Context, list []*models.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(list))
	for _, u := range list {
		if _, ok := r.units[u.UnitID]; ok {
			return fmt.Errorf("%w: %s", utils.ErrDuplicateUnit, u.UnitID)
		}
		if _, ok := seen[u.UnitID]; ok {
			return fmt.Errorf("%w: %s", utils.ErrDuplicateUnit, u.UnitID)
		}
		seen[u.UnitID] = struct{}{}
	}

	now := r.now().UTC()
	for _, u := range list {
		cp := *u
		cp.Allocated = false
		cp.Owner = models.OwnerUnset
		cp.CreatedAt = now
		cp.UpdatedAt = now
		cp.RowVersion = 1
		r.units[cp.UnitID] = &cp
	}
	return nil
}

func (r *memoryUnitRepo) GetByID(ctx context.Context, unitID string) (*models.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.units[unitID]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUnitRepo) ListAll(ctx context.Context) ([]*models.Unit, error) {
	return r.filter(func(*models.Unit) bool { return true }), nil
}

func (r *memoryUnitRepo) ListUnallocated(ctx context.Context) ([]*models.Unit, error) {
	return r.filter(func(u *models.Unit) bool { return !u.Allocated }), nil
}

func (r *memoryUnitRepo) ListAllocated(ctx context.Context) ([]*models.Unit, error) {
	return r.filter(func(u *models.Unit) bool { return u.Allocated }), nil
}

func (r *memoryUnitRepo) ListByBlock(ctx context.Context, blockName string) ([]*models.Unit, error) {
	return r.filter(func(u *models.Unit) bool { return u.BlockName == blockName }), nil
}

func (r *memoryUnitRepo) MarkAllocated(ctx context.Context, unitID string, owner models.Owner) error {
	if !owner.IsFinal() {
		return fmt.Errorf("cannot allocate unit %s to owner %q", unitID, owner)
	}
	return r.update(unitID, func(u *models.Unit) error {
		if u.Allocated {
			return fmt.Errorf("%w: %s", utils.ErrUnitAlreadyAllocated, unitID)
		}
		u.Allocated = true
		u.Owner = owner
		return nil
	})
}

func (r *memoryUnitRepo) MarkPendingNegotiation(ctx context.Context, unitID string) error {
	return r.update(unitID, func(u *models.Unit) error {
		if u.Allocated {
			return fmt.Errorf("%w: %s", utils.ErrUnitAlreadyAllocated, unitID)
		}
		u.Owner = models.OwnerPendingNegotiation
		return nil
	})
}

func (r *memoryUnitRepo) Ping(ctx context.Context) error {
	return nil
}

func (r *memoryUnitRepo) update(unitID string, mutate func(*models.Unit) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.units[unitID]
	if !ok {
		return fmt.Errorf("%w: %s", utils.ErrUnitNotFound, unitID)
	}
	cp := *u
	if err := mutate(&cp); err != nil {
		return err
	}
	cp.UpdatedAt = r.now().UTC()
	cp.RowVersion++
	r.units[unitID] = &cp
	return nil
}

// filter returns copies ordered by block then unit id, like the SQL store.
func (r *memoryUnitRepo) filter(keep func(*models.Unit) bool) []*models.Unit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Unit, 0, len(r.units))
	for _, u := range r.units {
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BlockName != out[j].BlockName {
			return out[i].BlockName < out[j].BlockName
		}
		return out[i].UnitID < out[j].UnitID
	})
	return out
}
