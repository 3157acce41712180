package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends accepted by TOKEN_STORE_BACKEND.
const (
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

// Config aggregates runtime configuration shared by the auth and resource services.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	TokenStore TokenStoreConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	AuthPort              string
	ResourcePort          string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values for the resource service.
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

// AuthConfig defines token signing parameters.
type AuthConfig struct {
	AccessTokenSecret     string
	RefreshTokenSecret    string
	AccessTokenTTLSeconds int
	// Users maps usernames to bcrypt hashes. Empty means logins are not password checked.
	Users map[string]string
}

// TokenStoreConfig selects where refresh tokens are kept.
type TokenStoreConfig struct {
	Backend string
	Key     string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	users, err := parseUsers(os.Getenv("AUTH_USERS"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_USERS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "token-auth"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			AuthPort:              getEnv("AUTH_PORT", "4000"),
			ResourcePort:          getEnv("RESOURCE_PORT", "3000"),
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
			AccessTokenSecret:     os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshTokenSecret:    os.Getenv("REFRESH_TOKEN_SECRET"),
			AccessTokenTTLSeconds: getEnvAsInt("ACCESS_TOKEN_TTL_SECONDS", 15),
			Users:                 users,
		},
		TokenStore: TokenStoreConfig{
			Backend: strings.ToLower(getEnv("TOKEN_STORE_BACKEND", StoreBackendMemory)),
			Key:     getEnv("TOKEN_STORE_KEY", "auth:refresh_tokens"),
		},
	}

	return cfg, nil
}

// ValidateIssuer checks what the auth service needs: both secrets, and distinct ones.
func (a AuthConfig) ValidateIssuer() error {
	if err := a.ValidateVerifier(); err != nil {
		return err
	}
	if a.RefreshTokenSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if a.RefreshTokenSecret == a.AccessTokenSecret {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ")
	}
	return nil
}

// ValidateVerifier checks what the resource service needs to verify access tokens.
func (a AuthConfig) ValidateVerifier() error {
	if a.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	return nil
}

// AccessTokenTTL returns the access token lifetime, defaulting to 15 seconds.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	if a.AccessTokenTTLSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(a.AccessTokenTTLSeconds) * time.Second
}

// Validate checks the selected backend.
func (t TokenStoreConfig) Validate() error {
	switch t.Backend {
	case StoreBackendMemory, StoreBackendRedis:
		return nil
	default:
		return fmt.Errorf("unknown TOKEN_STORE_BACKEND %q", t.Backend)
	}
}

// AuthAddr returns the bind address of the auth service.
func (a AppConfig) AuthAddr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.AuthPort)
}

// ResourceAddr returns the bind address of the resource service.
func (a AppConfig) ResourceAddr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.ResourcePort)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// parseUsers reads "name:hash,name:hash". Bcrypt hashes contain '$' but never ':' or ','.
func parseUsers(raw string) (map[string]string, error) {
	users := map[string]string{}
	if strings.TrimSpace(raw) == "" {
		return users, nil
	}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, hash, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		hash = strings.TrimSpace(hash)
		if !ok || name == "" || hash == "" {
			return nil, fmt.Errorf("malformed entry %q", entry)
		}
		users[name] = hash
	}
	return users, nil
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
