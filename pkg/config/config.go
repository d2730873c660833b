package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hadfield/catalog/pkg/observability"
	"github.com/hadfield/catalog/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Storage storage.Config

	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	// JWTSecret signs every issued token. Loaded once at startup,
	// never rotated at runtime.
	JWTSecret string
	TokenTTL  time.Duration
	// BcryptCost <= 0 uses the bcrypt default.
	BcryptCost int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:         loadServerConfig(),
		Auth:           loadAuthConfig(),
		Storage:        loadStorageConfig(),
		LogLevel:       observability.ParseLogLevel(getEnv("CATALOG_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("CATALOG_METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("CATALOG_HOST", "0.0.0.0"),
		Port:            getEnv("CATALOG_PORT", "5000"),
		ReadTimeout:     getEnvDuration("CATALOG_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("CATALOG_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("CATALOG_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("CATALOG_SHUTDOWN_TIMEOUT", 30*time.Second),
		CORSOrigins:     strings.Split(getEnv("CATALOG_CORS_ORIGINS", "*"), ","),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:  os.Getenv("CATALOG_JWT_SECRET"),
		TokenTTL:   getEnvDuration("CATALOG_TOKEN_TTL", time.Hour),
		BcryptCost: getEnvInt("CATALOG_BCRYPT_COST", 0),
	}
}

func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if storageType := getEnv("CATALOG_STORAGE_TYPE", ""); storageType != "" {
		cfg.Type = storageType
	}

	cfg.MongoURL = getEnv("CATALOG_MONGO_URL", "")
	if db := getEnv("CATALOG_MONGO_DATABASE", ""); db != "" {
		cfg.MongoDatabase = db
	}
	if timeout := getEnvDuration("CATALOG_MONGO_TIMEOUT", 0); timeout > 0 {
		cfg.MongoTimeout = timeout
	}

	cfg.RedisURL = getEnv("CATALOG_REDIS_URL", "")
	cfg.RedisPassword = getEnv("CATALOG_REDIS_PASSWORD", "")
	if redisDB := getEnvInt("CATALOG_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}
	if poolSize := getEnvInt("CATALOG_REDIS_POOL_SIZE", 0); poolSize > 0 {
		cfg.RedisPoolSize = poolSize
	}

	if enabled := getEnv("CATALOG_CACHE_ENABLED", ""); enabled != "" {
		cfg.CacheEnabled = strings.ToLower(enabled) == "true"
	}
	if ttl := getEnvDuration("CATALOG_CACHE_TTL", 0); ttl > 0 {
		cfg.CacheTTL = ttl
	}

	return cfg
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("CATALOG_JWT_SECRET is required")
	}

	switch c.Storage.Type {
	case "mongo":
		if c.Storage.MongoURL == "" {
			return fmt.Errorf("mongo URL is required for mongo storage")
		}
	case "memory":
		// no further config
	default:
		return fmt.Errorf("invalid storage type: %s (must be mongo or memory)", c.Storage.Type)
	}

	if c.Storage.CacheEnabled && c.Storage.RedisURL == "" {
		return fmt.Errorf("redis URL is required when the cache is enabled")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
