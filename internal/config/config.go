package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Stage identifies the deployment environment. It only influences whether
// auth cookies are marked Secure.
type Stage string

const (
	StageLocal       Stage = "local"
	StageDevelopment Stage = "development"
	StageProduction  Stage = "production"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Announce AnnounceConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Stage                 Stage
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SecretPair holds the signing secrets for one principal role. Access and
// refresh tokens are signed under separate keys so one can never stand in
// for the other.
type SecretPair struct {
	AccessSecret  string
	RefreshSecret string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	AdventurerSecrets     SecretPair
	GuildCommanderSecrets SecretPair
	AccessTokenTTLHours   int
	RefreshTokenTTLHours  int
}

// AnnounceConfig holds the optional quest announcement webhook endpoint.
type AnnounceConfig struct {
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults
// where possible. Missing or invalid signing secrets make Load fail so the
// process never starts serving with a broken secret domain.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "quest-board"),
			Stage:                 Stage(getEnv("STAGE", string(StageLocal))),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			AdventurerSecrets: SecretPair{
				AccessSecret:  os.Getenv("ADVENTURER_ACCESS_SECRET"),
				RefreshSecret: os.Getenv("ADVENTURER_REFRESH_SECRET"),
			},
			GuildCommanderSecrets: SecretPair{
				AccessSecret:  os.Getenv("GUILD_COMMANDER_ACCESS_SECRET"),
				RefreshSecret: os.Getenv("GUILD_COMMANDER_REFRESH_SECRET"),
			},
			AccessTokenTTLHours:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_HOURS", 24),
			RefreshTokenTTLHours: getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_HOURS", 24*7),
		},
		Announce: AnnounceConfig{
			WebhookURL: getEnv("ANNOUNCE_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces startup invariants on the loaded configuration.
func (c *Config) Validate() error {
	switch c.App.Stage {
	case StageLocal, StageDevelopment, StageProduction:
	default:
		return fmt.Errorf("invalid STAGE: %q", c.App.Stage)
	}
	if err := c.Auth.AdventurerSecrets.validate("ADVENTURER"); err != nil {
		return err
	}
	if err := c.Auth.GuildCommanderSecrets.validate("GUILD_COMMANDER"); err != nil {
		return err
	}
	if c.Auth.AccessTokenTTLHours <= 0 || c.Auth.RefreshTokenTTLHours <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}

func (p SecretPair) validate(prefix string) error {
	if p.AccessSecret == "" {
		return fmt.Errorf("%s_ACCESS_SECRET is required", prefix)
	}
	if p.RefreshSecret == "" {
		return fmt.Errorf("%s_REFRESH_SECRET is required", prefix)
	}
	if p.AccessSecret == p.RefreshSecret {
		return fmt.Errorf("%s access and refresh secrets must differ", prefix)
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

// AccessTokenTTL returns the access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLHours) * time.Hour
}

// RefreshTokenTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLHours) * time.Hour
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
