package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/robfig/cron/v3"

	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/allocation"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/services/allocation-service/internal/constants"
	"github.com/Swiftminale/aahdc-lottery-platform/backend/shared/go-utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	// Storage
	StoreBackend string
	DBUrl        string

	// Run lock
	RedisURL          string
	AllocationLockTTL time.Duration

	// Allocation parameters
	AuthorityTargetShare float64
	ComplianceTolerance  float64
	AllocationEpsilon    float64
	AllocationRandomSeed *int64

	ComplianceAuditSchedule string

	// Feature flags (LaunchDarkly when LD_SDK_KEY is set, env otherwise)
	LDFlag_SeedDbWithTestData bool
	LDFlag_CORSHighSecurity   bool

	ldClient *ld.LDClient
}

const (
	OrganizationName    = utils.OrganizationName
	DefaultAppName      = "allocation-service"
	LDConnectionTimeout = 5 * time.Second
)

// build-time overrides, set with -ldflags
var (
	AppName             string
	LDServerContextKey  string
	LDServerContextKind string
)

// boolFlagSource is the part of *ld.LDClient used for flags.
type boolFlagSource interface {
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
}

// LoadConfig reads .env (if present) and the environment. Invalid values are fatal.
func LoadConfig() *Config {
	if AppName == "" {
		AppName = DefaultAppName
	}
	utils.Logger.Info("Loading config for app: ", AppName)

	if err := godotenv.Load(); err != nil {
		utils.Logger.Debug("No .env file loaded; using process environment only")
	}

	cfg, err := loadFromEnv(os.LookupEnv)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Invalid configuration")
	}

	if sdkKey := os.Getenv("LD_SDK_KEY"); sdkKey != "" {
		ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
		}
		if !ldClient.Initialized() {
			ldClient.Close()
			utils.Logger.Fatal("LaunchDarkly client failed to initialize")
		}
		cfg.ldClient = ldClient

		if err := cfg.applyFlags(ldClient, ldContext(os.Getenv)); err != nil {
			ldClient.Close()
			utils.Logger.WithError(err).Fatal("Failed to read LaunchDarkly flags")
		}
	} else {
		utils.Logger.Info("LD_SDK_KEY not set; feature flags read from environment")
	}

	utils.Logger.Infof("Loaded config for %s (%s, store=%s)", cfg.AppName, cfg.Env, cfg.StoreBackend)
	return cfg
}

func loadFromEnv(lookupEnv func(string) (string, bool)) (*Config, error) {
	getenv := func(key string) string {
		v, _ := lookupEnv(key)
		return v
	}
	appName := AppName
	if appName == "" {
		appName = DefaultAppName
	}

	cfg := &Config{
		OrganizationName:        OrganizationName,
		AppName:                 appName,
		AppPort:                 orDefault(getenv("APP_PORT"), constants.DefaultAppPort),
		AppUrl:                  orDefault(getenv("APP_URL_FROM_ANYWHERE"), utils.CORSLowSecurityAllowedOriginLocalhost),
		Env:                     orDefault(getenv("ENV"), "dev"),
		DBUrl:                   getenv("DATABASE_URL"),
		RedisURL:                getenv("REDIS_URL"),
		ComplianceAuditSchedule: constants.DefaultComplianceAuditSchedule,
	}

	if _, err := strconv.Atoi(cfg.AppPort); err != nil {
		return nil, fmt.Errorf("APP_PORT must be numeric, got %q", cfg.AppPort)
	}
	if _, err := url.ParseRequestURI(cfg.AppUrl); err != nil {
		return nil, fmt.Errorf("APP_URL_FROM_ANYWHERE is not a valid URL: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(getenv("STORE_BACKEND"))
	switch cfg.StoreBackend {
	case "":
		if cfg.DBUrl != "" {
			cfg.StoreBackend = constants.StoreBackendPostgres
		} else {
			cfg.StoreBackend = constants.StoreBackendMemory
		}
	case constants.StoreBackendPostgres:
		if cfg.DBUrl == "" {
			return nil, fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL")
		}
	case constants.StoreBackendMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q",
			constants.StoreBackendPostgres, constants.StoreBackendMemory, cfg.StoreBackend)
	}

	var err error
	if cfg.AllocationLockTTL, err = durationEnv(getenv, "ALLOCATION_LOCK_TTL", constants.DefaultAllocationLockTTL); err != nil {
		return nil, err
	}
	if cfg.AuthorityTargetShare, err = floatEnv(getenv, "AUTHORITY_TARGET_SHARE", allocation.DefaultTargetShare); err != nil {
		return nil, err
	}
	if cfg.AuthorityTargetShare <= 0 || cfg.AuthorityTargetShare >= 1 {
		return nil, fmt.Errorf("AUTHORITY_TARGET_SHARE must be between 0 and 1, got %v", cfg.AuthorityTargetShare)
	}
	if cfg.ComplianceTolerance, err = floatEnv(getenv, "COMPLIANCE_TOLERANCE", allocation.DefaultTolerance); err != nil {
		return nil, err
	}
	if cfg.ComplianceTolerance <= 0 || cfg.ComplianceTolerance >= 1 {
		return nil, fmt.Errorf("COMPLIANCE_TOLERANCE must be between 0 and 1, got %v", cfg.ComplianceTolerance)
	}
	if cfg.AllocationEpsilon, err = floatEnv(getenv, "ALLOCATION_EPSILON", allocation.DefaultEpsilon); err != nil {
		return nil, err
	}
	if cfg.AllocationEpsilon <= 0 {
		return nil, fmt.Errorf("ALLOCATION_EPSILON must be positive, got %v", cfg.AllocationEpsilon)
	}

	if raw := getenv("ALLOCATION_RANDOM_SEED"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ALLOCATION_RANDOM_SEED must be an integer: %w", err)
		}
		cfg.AllocationRandomSeed = utils.Ptr(seed)
	}

	// An explicitly empty schedule disables the audit.
	if raw, ok := lookupEnv("COMPLIANCE_AUDIT_SCHEDULE"); ok {
		cfg.ComplianceAuditSchedule = strings.TrimSpace(raw)
	}
	if cfg.ComplianceAuditSchedule != "" && !strings.EqualFold(cfg.ComplianceAuditSchedule, "off") {
		if _, err := cron.ParseStandard(cfg.ComplianceAuditSchedule); err != nil {
			return nil, fmt.Errorf("COMPLIANCE_AUDIT_SCHEDULE is not a valid cron spec: %w", err)
		}
	} else {
		cfg.ComplianceAuditSchedule = ""
	}

	if cfg.LDFlag_SeedDbWithTestData, err = boolEnv(getenv, "SEED_DB_WITH_TEST_DATA"); err != nil {
		return nil, err
	}
	if cfg.LDFlag_CORSHighSecurity, err = boolEnv(getenv, "CORS_HIGH_SECURITY"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyFlags overrides the env-derived flags with LaunchDarkly values.
func (c *Config) applyFlags(src boolFlagSource, ctx ldcontext.Context) error {
	seed, err := src.BoolVariation("seed_db_with_test_data", ctx, c.LDFlag_SeedDbWithTestData)
	if err != nil {
		return fmt.Errorf("seed_db_with_test_data flag error: %w", err)
	}
	utils.Logger.Debugf("seed_db_with_test_data flag: %t", seed)

	cors, err := src.BoolVariation("cors_high_security", ctx, c.LDFlag_CORSHighSecurity)
	if err != nil {
		return fmt.Errorf("cors_high_security flag error: %w", err)
	}
	utils.Logger.Debugf("cors_high_security flag: %t", cors)

	c.LDFlag_SeedDbWithTestData = seed
	c.LDFlag_CORSHighSecurity = cors
	return nil
}

func ldContext(getenv func(string) string) ldcontext.Context {
	kind := orDefault(getenv("LD_CONTEXT_KIND"), orDefault(LDServerContextKind, "service"))
	key := orDefault(getenv("LD_CONTEXT_KEY"), orDefault(LDServerContextKey, DefaultAppName))
	return ldcontext.NewWithKind(ldcontext.Kind(kind), key)
}

func (c *Config) Close() {
	if c.ldClient != nil {
		c.ldClient.Close()
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func floatEnv(getenv func(string) string, key string, def float64) (float64, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return v, nil
}

func durationEnv(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 2m, got %q", key, raw)
	}
	return v, nil
}

func boolEnv(getenv func(string) string, key string) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false: %w", key, err)
	}
	return v, nil
}
