package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-history/internal/platform/logging"
	"github.com/riskibarqy/football-history/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// History store backends.
const (
	StoreCSV      = "csv"
	StoreS3       = "s3"
	StorePostgres = "postgres"
)

// TokenKey names the football-data.org API token secret.
const TokenKey = "FOOTBALL_DATA_TOKEN"

const MaxRequestDelay = 60 * time.Second

// Config stores runtime configuration. The API token is not part of it; the
// client resolves it through a SecretProvider on first use.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level

	FootballDataBaseURL      string
	FootballDataTimeout      time.Duration
	FootballDataRequestDelay time.Duration
	FootballDataDefaultCodes []string
	FootballDataCircuit      resilience.CircuitBreakerConfig
	CompetitionsCacheTTL     time.Duration

	HistoryStore       string
	HistoryCachePath   string
	HistoryS3Bucket    string
	HistoryS3Key       string
	HistoryS3Region    string
	HistoryS3Endpoint  string
	HistoryS3PathStyle bool
	// HistoryReadCacheTTL keeps remote store loads in memory; zero disables.
	HistoryReadCacheTTL time.Duration

	DBURL                   string
	DBDisablePreparedBinary bool

	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("APP_SERVICE_NAME", "football-history"),
		ServiceVersion:     getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	// Ingesting several seasons sleeps between every request, so the write
	// timeout has to cover the whole batch.
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "30m"); err != nil {
		return Config{}, err
	}

	if err := loadFootballData(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadHistoryStore(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadFootballData(cfg *Config) error {
	var err error

	cfg.FootballDataBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4")), "/")
	if cfg.FootballDataTimeout, err = getEnvAsPositiveDuration("FOOTBALL_DATA_TIMEOUT", "30s"); err != nil {
		return err
	}

	cfg.FootballDataRequestDelay, err = time.ParseDuration(getEnv("FOOTBALL_DATA_REQUEST_DELAY", "6.5s"))
	if err != nil {
		return fmt.Errorf("parse FOOTBALL_DATA_REQUEST_DELAY: %w", err)
	}
	if cfg.FootballDataRequestDelay < 0 || cfg.FootballDataRequestDelay > MaxRequestDelay {
		return fmt.Errorf("FOOTBALL_DATA_REQUEST_DELAY must be between 0s and %s", MaxRequestDelay)
	}

	cfg.FootballDataDefaultCodes = splitCSV(strings.ToUpper(getEnv("FOOTBALL_DATA_DEFAULT_CODES", "PL,PD,BL1,SA,FL1,CL,BSA,MLS")))

	circuit := resilience.DefaultCircuitBreakerConfig()
	if circuit.Enabled, err = strconv.ParseBool(getEnv("FOOTBALL_DATA_CIRCUIT_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_ENABLED: %w", err)
	}
	if circuit.FailureThreshold, err = getEnvAsInt("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", circuit.FailureThreshold); err != nil {
		return fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuit.FailureThreshold < 1 {
		return fmt.Errorf("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if circuit.OpenTimeout, err = getEnvAsPositiveDuration("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", circuit.OpenTimeout.String()); err != nil {
		return err
	}
	if circuit.HalfOpenMaxReq, err = getEnvAsInt("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ", circuit.HalfOpenMaxReq); err != nil {
		return fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuit.HalfOpenMaxReq < 1 {
		return fmt.Errorf("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.FootballDataCircuit = circuit

	if cfg.CompetitionsCacheTTL, err = getEnvAsPositiveDuration("COMPETITIONS_CACHE_TTL", "15m"); err != nil {
		return err
	}
	return nil
}

func loadHistoryStore(cfg *Config) error {
	cfg.HistoryStore = strings.ToLower(strings.TrimSpace(getEnv("HISTORY_STORE", StoreCSV)))
	cfg.HistoryCachePath = strings.TrimSpace(getEnv("HISTORY_CACHE_PATH", "fd_history.csv"))
	cfg.HistoryS3Bucket = strings.TrimSpace(getEnv("HISTORY_S3_BUCKET", ""))
	cfg.HistoryS3Key = strings.TrimSpace(getEnv("HISTORY_S3_KEY", "fd_history.csv"))
	cfg.HistoryS3Region = strings.TrimSpace(getEnv("HISTORY_S3_REGION", ""))
	cfg.HistoryS3Endpoint = strings.TrimSpace(getEnv("HISTORY_S3_ENDPOINT", ""))
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))

	var err error
	if cfg.HistoryS3PathStyle, err = strconv.ParseBool(getEnv("HISTORY_S3_PATH_STYLE", "false")); err != nil {
		return fmt.Errorf("parse HISTORY_S3_PATH_STYLE: %w", err)
	}
	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")); err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	if cfg.HistoryReadCacheTTL, err = time.ParseDuration(getEnv("HISTORY_READ_CACHE_TTL", "2m")); err != nil {
		return fmt.Errorf("parse HISTORY_READ_CACHE_TTL: %w", err)
	}
	if cfg.HistoryReadCacheTTL < 0 {
		return fmt.Errorf("HISTORY_READ_CACHE_TTL must be >= 0")
	}

	switch cfg.HistoryStore {
	case StoreCSV:
		if cfg.HistoryCachePath == "" {
			return fmt.Errorf("HISTORY_CACHE_PATH is required when HISTORY_STORE=csv")
		}
	case StoreS3:
		if cfg.HistoryS3Bucket == "" {
			return fmt.Errorf("HISTORY_S3_BUCKET is required when HISTORY_STORE=s3")
		}
		if cfg.HistoryS3Key == "" {
			return fmt.Errorf("HISTORY_S3_KEY cannot be empty when HISTORY_STORE=s3")
		}
	case StorePostgres:
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when HISTORY_STORE=postgres")
		}
	default:
		return fmt.Errorf("invalid HISTORY_STORE %q: valid values are %s, %s, %s", cfg.HistoryStore, StoreCSV, StoreS3, StorePostgres)
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
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

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
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
