package testhelpers

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-repositories"
)

// TestHelper encapsulates all necessary components for running integration tests across services.
type TestHelper struct {
	T       *testing.T
	Ctx     context.Context
	BaseURL string
	DB      *pgxpool.Pool

	AppName string

	// Repositories
	UnitRepo repositories.UnitRepository
}

// NewTestHelper reads the running service's URL and, when DATABASE_URL is
// set, connects to the same database so tests can inspect persisted state.
// It's designed to be called once from a TestMain function.
func NewTestHelper(t *testing.T, appName string) *TestHelper {
	baseURL := os.Getenv("APP_URL_FROM_ANYWHERE")
	if baseURL == "" {
		log.Fatal("APP_URL_FROM_ANYWHERE env var is missing")
	}

	ctx := context.Background()
	h := &TestHelper{
		T:       t,
		Ctx:     ctx,
		BaseURL: baseURL,
		AppName: appName,
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbPool, err := pgxpool.Connect(ctx, dbURL)
		require.NoError(t, err)
		require.NoError(t, repositories.EnsureSchema(ctx, dbPool))
		t.Cleanup(func() { dbPool.Close() })

		h.DB = dbPool
		h.UnitRepo = repositories.NewUnitRepository(dbPool)
	}

	return h
}

// RequireDB skips the calling test when no database is configured.
func (h *TestHelper) RequireDB() {
	if h.DB == nil {
		h.T.Skip("DATABASE_URL not set; skipping database assertions")
	}
}
