package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Store        StoreConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Reservation  ReservationConfig
	Seed         SeedConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StoreConfig selects and tunes the resource store.
type StoreConfig struct {
	Driver         string
	DSN            string
	SQLitePath     string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	StatsPrefix string
	StatsTTL    time.Duration
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines identity token parameters.
type AuthConfig struct {
	JWTSecret       string
	Issuer          string
	TokenTTLMinutes int
}

// ReservationConfig tunes the allocation engine.
type ReservationConfig struct {
	HoldTTL    time.Duration
	OfferSize  int
	OfferRPS   float64
	OfferBurst int
}

// SeedConfig points at the ghost name inventory.
type SeedConfig struct {
	Source      string
	BatchSize   int
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	holdTTL, err := getEnvAsDuration("RESERVATION_HOLD_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	statsTTL, err := getEnvAsDuration("REDIS_STATS_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	offerRPS, err := strconv.ParseFloat(getEnv("RESERVATION_OFFER_RPS", "2"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RESERVATION_OFFER_RPS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ghostname-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Store: StoreConfig{
			Driver:         strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
			DSN:            os.Getenv("POSTGRES_DSN"),
			SQLitePath:     getEnv("SQLITE_PATH", "ghostnames.db"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("STORE_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Enabled:     getEnvAsBool("REDIS_ENABLED", false),
			Addr:        getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:    os.Getenv("REDIS_PASSWORD"),
			DB:          redisDB,
			StatsPrefix: getEnv("REDIS_STATS_PREFIX", "ghostnames:stats"),
			StatsTTL:    statsTTL,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret"),
			Issuer:          getEnv("AUTH_ISSUER", "ghostname-identity"),
			TokenTTLMinutes: getEnvAsInt("AUTH_TOKEN_TTL_MINUTES", 30),
		},
		Reservation: ReservationConfig{
			HoldTTL:    holdTTL,
			OfferSize:  getEnvAsInt("RESERVATION_OFFER_SIZE", 3),
			OfferRPS:   offerRPS,
			OfferBurst: getEnvAsInt("RESERVATION_OFFER_BURST", 5),
		},
		Seed: SeedConfig{
			Source:      os.Getenv("DATA_GHOSTS_FILE"),
			BatchSize:   getEnvAsInt("SEED_BATCH_SIZE", 500),
			S3Region:    getEnv("SEED_S3_REGION", "us-east-1"),
			S3Endpoint:  os.Getenv("SEED_S3_ENDPOINT"),
			S3AccessKey: os.Getenv("SEED_S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("SEED_S3_SECRET_KEY"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Reservation.HoldTTL <= 0 {
		return fmt.Errorf("RESERVATION_HOLD_TTL must be positive")
	}
	if c.Reservation.OfferSize <= 0 {
		return fmt.Errorf("RESERVATION_OFFER_SIZE must be positive")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TokenTTL returns the identity token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
