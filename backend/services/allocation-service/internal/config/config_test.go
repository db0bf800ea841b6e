package config

import (
	"errors"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/constants"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := loadFromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultAppName, cfg.AppName)
	assert.Equal(t, "5000", cfg.AppPort)
	assert.Equal(t, "http://localhost:3000", cfg.AppUrl)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, constants.StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, 2*time.Minute, cfg.AllocationLockTTL)
	assert.Equal(t, 0.20, cfg.AuthorityTargetShare)
	assert.Equal(t, 0.05, cfg.ComplianceTolerance)
	assert.Equal(t, 1e-6, cfg.AllocationEpsilon)
	assert.Nil(t, cfg.AllocationRandomSeed)
	assert.Equal(t, "0 2 * * *", cfg.ComplianceAuditSchedule)
	assert.False(t, cfg.LDFlag_SeedDbWithTestData)
	assert.False(t, cfg.LDFlag_CORSHighSecurity)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	cfg, err := loadFromEnv(envMap(map[string]string{
		"APP_PORT":                  "8080",
		"APP_URL_FROM_ANYWHERE":     "https://aahdc-lottery.example.org",
		"ENV":                       "staging",
		"DATABASE_URL":              "postgres://u:p@localhost:5432/aahdc",
		"REDIS_URL":                 "redis://localhost:6379/0",
		"ALLOCATION_LOCK_TTL":       "45s",
		"AUTHORITY_TARGET_SHARE":    "0.25",
		"COMPLIANCE_TOLERANCE":      "0.02",
		"ALLOCATION_EPSILON":        "1e-9",
		"ALLOCATION_RANDOM_SEED":    "1234",
		"COMPLIANCE_AUDIT_SCHEDULE": "@hourly",
		"SEED_DB_WITH_TEST_DATA":    "true",
		"CORS_HIGH_SECURITY":        "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, constants.StoreBackendPostgres, cfg.StoreBackend, "postgres is implied by DATABASE_URL")
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 45*time.Second, cfg.AllocationLockTTL)
	assert.Equal(t, 0.25, cfg.AuthorityTargetShare)
	assert.Equal(t, 0.02, cfg.ComplianceTolerance)
	assert.Equal(t, 1e-9, cfg.AllocationEpsilon)
	require.NotNil(t, cfg.AllocationRandomSeed)
	assert.EqualValues(t, 1234, *cfg.AllocationRandomSeed)
	assert.Equal(t, "@hourly", cfg.ComplianceAuditSchedule)
	assert.True(t, cfg.LDFlag_SeedDbWithTestData)
	assert.True(t, cfg.LDFlag_CORSHighSecurity)
}

func TestLoadFromEnvExplicitMemoryStoreWithDatabaseURL(t *testing.T) {
	cfg, err := loadFromEnv(envMap(map[string]string{
		"STORE_BACKEND": "Memory",
		"DATABASE_URL":  "postgres://localhost/aahdc",
	}))
	require.NoError(t, err)
	assert.Equal(t, constants.StoreBackendMemory, cfg.StoreBackend)
}

func TestLoadFromEnvEmptyScheduleDisablesAudit(t *testing.T) {
	cfg, err := loadFromEnv(envMap(map[string]string{"COMPLIANCE_AUDIT_SCHEDULE": ""}))
	require.NoError(t, err)
	assert.Empty(t, cfg.ComplianceAuditSchedule)

	cfg, err = loadFromEnv(envMap(map[string]string{"COMPLIANCE_AUDIT_SCHEDULE": "off"}))
	require.NoError(t, err)
	assert.Empty(t, cfg.ComplianceAuditSchedule)
}

func TestLoadFromEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"port":             {"APP_PORT": "http"},
		"app url":          {"APP_URL_FROM_ANYWHERE": "not a url"},
		"store backend":    {"STORE_BACKEND": "sqlite"},
		"postgres no url":  {"STORE_BACKEND": "postgres"},
		"lock ttl":         {"ALLOCATION_LOCK_TTL": "soon"},
		"negative ttl":     {"ALLOCATION_LOCK_TTL": "-1s"},
		"target share":     {"AUTHORITY_TARGET_SHARE": "1.5"},
		"target not float": {"AUTHORITY_TARGET_SHARE": "twenty"},
		"tolerance":        {"COMPLIANCE_TOLERANCE": "0"},
		"epsilon":          {"ALLOCATION_EPSILON": "-1"},
		"seed":             {"ALLOCATION_RANDOM_SEED": "abc"},
		"schedule":         {"COMPLIANCE_AUDIT_SCHEDULE": "every day"},
		"seed flag":        {"SEED_DB_WITH_TEST_DATA": "maybe"},
		"cors flag":        {"CORS_HIGH_SECURITY": "strict"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loadFromEnv(envMap(env))
			assert.Error(t, err)
		})
	}
}

type fakeFlags map[string]bool

func (f fakeFlags) BoolVariation(key string, _ ldcontext.Context, def bool) (bool, error) {
	if key == "broken" {
		return def, errors.New("flag not found")
	}
	if v, ok := f[key]; ok {
		return v, nil
	}
	return def, nil
}

func TestApplyFlags(t *testing.T) {
	cfg, err := loadFromEnv(envMap(map[string]string{"SEED_DB_WITH_TEST_DATA": "true"}))
	require.NoError(t, err)

	ctx := ldContext(func(string) string { return "" })
	require.NoError(t, cfg.applyFlags(fakeFlags{"cors_high_security": true}, ctx))
	assert.True(t, cfg.LDFlag_SeedDbWithTestData, "unset flag keeps the env default")
	assert.True(t, cfg.LDFlag_CORSHighSecurity)

	require.NoError(t, cfg.applyFlags(fakeFlags{"seed_db_with_test_data": false}, ctx))
	assert.False(t, cfg.LDFlag_SeedDbWithTestData)
}

func TestLDContextUsesEnvOverrides(t *testing.T) {
	ctx := ldContext(func(key string) string {
		return map[string]string{"LD_CONTEXT_KIND": "environment", "LD_CONTEXT_KEY": "aahdc-dev"}[key]
	})
	assert.Equal(t, ldcontext.Kind("environment"), ctx.Kind())
	assert.Equal(t, "aahdc-dev", ctx.Key())

	def := ldContext(func(string) string { return "" })
	assert.Equal(t, ldcontext.Kind("service"), def.Kind())
	assert.Equal(t, DefaultAppName, def.Key())
}
