package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/allocation"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/config"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/constants"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/locking"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-repositories"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	DB     *pgxpool.Pool // nil with the memory store

	UnitRepo repositories.UnitRepository
	Locker   locking.LockManager
	Engine   *allocation.Engine

	redisLocker *locking.RedisLockManager
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	switch cfg.StoreBackend {
	case constants.StoreBackendPostgres:
		utils.Logger.Infof("Using postgres unit store at %s", utils.RedactURL(cfg.DBUrl))
		dbPool, err := connectWithRetry(cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		a.DB = dbPool

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := repositories.EnsureSchema(ctx, dbPool); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to ensure units schema: %w", err)
		}
		a.UnitRepo = repositories.NewUnitRepository(dbPool)
	default:
		utils.Logger.Warn("Using in-memory unit store; data is lost on restart")
		a.UnitRepo = repositories.NewMemoryUnitRepository()
	}

	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		rl, err := locking.NewRedisLockManagerFromURL(ctx, cfg.RedisURL, cfg.AllocationLockTTL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect run lock to redis: %w", err)
		}
		a.redisLocker = rl
		a.Locker = rl
		utils.Logger.Infof("Allocation runs serialised through Redis lock at %s", utils.RedactURL(cfg.RedisURL))
	} else {
		a.Locker = locking.NewLocalLockManager()
		utils.Logger.Info("Allocation runs serialised through in-process lock")
	}

	a.Engine = allocation.NewEngine(engineOptions(cfg))
	return a, nil
}

func engineOptions(cfg *config.Config) allocation.Options {
	opts := allocation.Options{
		TargetShare: cfg.AuthorityTargetShare,
		Tolerance:   cfg.ComplianceTolerance,
		Epsilon:     cfg.AllocationEpsilon,
	}
	if cfg.AllocationRandomSeed != nil {
		utils.Logger.Warnf("Allocation lottery seeded with %d; draws are reproducible", *cfg.AllocationRandomSeed)
		opts.Rand = rand.New(rand.NewSource(*cfg.AllocationRandomSeed))
	}
	return opts
}

func connectWithRetry(databaseURL string) (*pgxpool.Pool, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = newDBPool(ctx, databaseURL)
		cancel()
		if err == nil {
			utils.Logger.Infof("allocation-service connected to DB on attempt %d", i)
			return dbPool, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			break
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
}

func (a *App) Close() {
	if a.redisLocker != nil {
		if err := a.redisLocker.Close(); err != nil {
			utils.Logger.WithError(err).Warn("Failed to close redis lock client")
		}
	}
	if a.DB != nil {
		a.DB.Close()
		utils.Logger.Info("allocation-service DB connection closed.")
	}
}

func newDBPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	return pgxpool.ConnectConfig(ctx, cfg)
}
