package locking

import (
	"context"
	"errors"
	"sync"
)

// ErrLockBusy is returned by WithLock when another holder owns the key.
var ErrLockBusy = errors.New("lock_busy")

// ErrLockLost is returned by Refresh when the lock expired or was taken
// over by another holder.
var ErrLockLost = errors.New("lock_lost")

// LockHandle represents an acquired lock. Release it with Unlock. Long
// holders call Refresh to push the expiry out again.
type LockHandle interface {
	Refresh(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// LockManager serialises work on a key. TryLock never waits: it returns
// acquired=false when the key is held.
type LockManager interface {
	TryLock(ctx context.Context, lockKey string) (LockHandle, bool, error)
	WithLock(ctx context.Context, lockKey string, fn func(context.Context) error) error
}

// withLock is the shared WithLock body for both implementations.
func withLock(ctx context.Context, m LockManager, lockKey string, fn func(context.Context) error) error {
	handle, acquired, err := m.TryLock(ctx, lockKey)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrLockBusy
	}
	defer handle.Unlock(context.WithoutCancel(ctx))
	return fn(ctx)
}

/* ───────────── in-process ───────────── */

// LocalLockManager keeps held keys in memory. Suitable for a single
// instance of the service.
type LocalLockManager struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ LockManager = (*LocalLockManager)(nil)

func NewLocalLockManager() *LocalLockManager {
	return &LocalLockManager{held: make(map[string]struct{})}
}

func (m *LocalLockManager) TryLock(ctx context.Context, lockKey string) (LockHandle, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.held[lockKey]; busy {
		return nil, false, nil
	}
	m.held[lockKey] = struct{}{}
	return &localHandle{m: m, key: lockKey}, true, nil
}

func (m *LocalLockManager) WithLock(ctx context.Context, lockKey string, fn func(context.Context) error) error {
	return withLock(ctx, m, lockKey, fn)
}

type localHandle struct {
	m        *LocalLockManager
	key      string
	once     sync.Once
	released bool // guarded by m.mu
}

// Refresh reports ErrLockLost once the handle was unlocked. Local locks
// never expire.
func (h *localHandle) Refresh(ctx context.Context) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.released {
		return ErrLockLost
	}
	return nil
}

func (h *localHandle) Unlock(ctx context.Context) error {
	h.once.Do(func() {
		h.m.mu.Lock()
		delete(h.m.held, h.key)
		h.released = true
		h.m.mu.Unlock()
	})
	return nil
}
