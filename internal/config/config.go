package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nestorsdelgado/fantasy-market/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// DBURL selects the storage backend: empty runs the in-memory store,
	// anything else is a postgres connection string.
	DBURL                   string
	DBDisablePreparedBinary bool

	SeedDemoData bool

	CacheEnabled bool
	CacheTTL     time.Duration

	CORSAllowedOrigins []string

	AuthGatewayBaseURL          string
	AuthGatewayIntrospectPath   string
	AuthGatewayTimeout          time.Duration
	AuthGatewayCacheTTL         time.Duration
	AuthGatewayCircuitEnabled   bool
	AuthGatewayCircuitFailures  int
	AuthGatewayCircuitOpenDelay time.Duration
	AuthGatewayCircuitHalfOpen  int

	EsportsBaseURL          string
	EsportsAPIKey           string
	EsportsHomeLeague       string
	EsportsLocale           string
	EsportsTimeout          time.Duration
	EsportsMaxRetries       int
	EsportsCircuitEnabled   bool
	EsportsCircuitFailures  int
	EsportsCircuitOpenDelay time.Duration
	EsportsCircuitHalfOpen  int

	AuditWebhookEnabled bool
	AuditWebhookURL     string
	AuditWebhookToken   string
	AuditWebhookTimeout time.Duration

	TranslogWorkers int

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	seedDefault := "true"
	if appEnv == EnvProd {
		seedDefault = "false"
	}
	seedDemoData, err := strconv.ParseBool(getEnv("SEED_DEMO_DATA", seedDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEED_DEMO_DATA: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	authTimeout, err := time.ParseDuration(getEnv("AUTHGW_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTHGW_TIMEOUT: %w", err)
	}
	authCacheTTL, err := time.ParseDuration(getEnv("AUTHGW_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTHGW_CACHE_TTL: %w", err)
	}
	authCircuitEnabled, err := strconv.ParseBool(getEnv("AUTHGW_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTHGW_CIRCUIT_ENABLED: %w", err)
	}
	authCircuitFailures, err := getEnvAsInt("AUTHGW_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTHGW_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if authCircuitFailures < 1 {
		return Config{}, fmt.Errorf("AUTHGW_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	authCircuitOpenDelay, err := time.ParseDuration(getEnv("AUTHGW_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTHGW_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if authCircuitOpenDelay <= 0 {
		return Config{}, fmt.Errorf("AUTHGW_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	authCircuitHalfOpen, err := getEnvAsInt("AUTHGW_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTHGW_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if authCircuitHalfOpen < 1 {
		return Config{}, fmt.Errorf("AUTHGW_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	esportsTimeout, err := time.ParseDuration(getEnv("LOLESPORTS_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOLESPORTS_TIMEOUT: %w", err)
	}
	if esportsTimeout <= 0 {
		return Config{}, fmt.Errorf("LOLESPORTS_TIMEOUT must be > 0")
	}
	esportsMaxRetries, err := getEnvAsInt("LOLESPORTS_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOLESPORTS_MAX_RETRIES: %w", err)
	}
	if esportsMaxRetries < 0 {
		return Config{}, fmt.Errorf("LOLESPORTS_MAX_RETRIES must be >= 0")
	}
	esportsCircuitEnabled, err := strconv.ParseBool(getEnv("LOLESPORTS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOLESPORTS_CIRCUIT_ENABLED: %w", err)
	}
	esportsCircuitFailures, err := getEnvAsInt("LOLESPORTS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOLESPORTS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if esportsCircuitFailures < 1 {
		return Config{}, fmt.Errorf("LOLESPORTS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	esportsCircuitOpenDelay, err := time.ParseDuration(getEnv("LOLESPORTS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOLESPORTS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if esportsCircuitOpenDelay <= 0 {
		return Config{}, fmt.Errorf("LOLESPORTS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	esportsCircuitHalfOpen, err := getEnvAsInt("LOLESPORTS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOLESPORTS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if esportsCircuitHalfOpen < 1 {
		return Config{}, fmt.Errorf("LOLESPORTS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	auditEnabled, err := strconv.ParseBool(getEnv("AUDIT_WEBHOOK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_WEBHOOK_ENABLED: %w", err)
	}
	auditURL := strings.TrimSpace(getEnv("AUDIT_WEBHOOK_URL", ""))
	if auditEnabled && auditURL == "" {
		return Config{}, fmt.Errorf("AUDIT_WEBHOOK_URL is required when AUDIT_WEBHOOK_ENABLED=true")
	}
	auditTimeout, err := time.ParseDuration(getEnv("AUDIT_WEBHOOK_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUDIT_WEBHOOK_TIMEOUT: %w", err)
	}
	if auditTimeout <= 0 {
		return Config{}, fmt.Errorf("AUDIT_WEBHOOK_TIMEOUT must be > 0")
	}

	translogWorkers, err := getEnvAsInt("TRANSLOG_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse TRANSLOG_WORKERS: %w", err)
	}
	if translogWorkers < 1 {
		return Config{}, fmt.Errorf("TRANSLOG_WORKERS must be >= 1")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "fantasy-market-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		SeedDemoData: seedDemoData,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		AuthGatewayBaseURL:          getEnv("AUTHGW_BASE_URL", "http://localhost:8081"),
		AuthGatewayIntrospectPath:   getEnv("AUTHGW_INTROSPECT_PATH", "/v1/auth/introspect"),
		AuthGatewayTimeout:          authTimeout,
		AuthGatewayCacheTTL:         authCacheTTL,
		AuthGatewayCircuitEnabled:   authCircuitEnabled,
		AuthGatewayCircuitFailures:  authCircuitFailures,
		AuthGatewayCircuitOpenDelay: authCircuitOpenDelay,
		AuthGatewayCircuitHalfOpen:  authCircuitHalfOpen,

		EsportsBaseURL:          getEnv("LOLESPORTS_BASE_URL", "https://esports-api.lolesports.com/persisted/gw"),
		EsportsAPIKey:           strings.TrimSpace(getEnv("LOLESPORTS_API_KEY", "")),
		EsportsHomeLeague:       getEnv("LOLESPORTS_HOME_LEAGUE", "LEC"),
		EsportsLocale:           getEnv("LOLESPORTS_LOCALE", "en-US"),
		EsportsTimeout:          esportsTimeout,
		EsportsMaxRetries:       esportsMaxRetries,
		EsportsCircuitEnabled:   esportsCircuitEnabled,
		EsportsCircuitFailures:  esportsCircuitFailures,
		EsportsCircuitOpenDelay: esportsCircuitOpenDelay,
		EsportsCircuitHalfOpen:  esportsCircuitHalfOpen,

		AuditWebhookEnabled: auditEnabled,
		AuditWebhookURL:     auditURL,
		AuditWebhookToken:   strings.TrimSpace(getEnv("AUDIT_WEBHOOK_TOKEN", "")),
		AuditWebhookTimeout: auditTimeout,

		TranslogWorkers: translogWorkers,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
