package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string
	// Storage
	DBUrl         string
	StoreDriver   string // postgres | memory
	DBAutoMigrate bool
	// HTTP
	CORSOrigins []string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitFailClosed      bool
	// Events
	KafkaBrokers        []string
	KafkaCandidateTopic string
	ShutdownTimeoutSec  int
}

func LoadConfig() (*Config, error) {
	// Load .env when present; real environment variables win.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", "")),
		DBAutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		CORSOrigins:   getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitFailClosed:      getEnvBool("RATE_LIMIT_FAIL_CLOSED", false),
		// Events
		KafkaBrokers:        getEnvList("KAFKA_BROKERS", nil),
		KafkaCandidateTopic: getEnv("KAFKA_CANDIDATE_TOPIC", "candidate-events"),
		ShutdownTimeoutSec:  getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5),
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreDriverPostgres
		if cfg.DBUrl == "" {
			cfg.StoreDriver = StoreDriverMemory
		}
	}
	if cfg.StoreDriver != StoreDriverPostgres && cfg.StoreDriver != StoreDriverMemory {
		log.Printf("WARNING: unknown STORE_DRIVER %q, falling back to memory", cfg.StoreDriver)
		cfg.StoreDriver = StoreDriverMemory
	}

	if cfg.StoreDriver == StoreDriverPostgres && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blank entries.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
