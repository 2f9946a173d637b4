package config

import (
	"fmt"
	"os"
	"strconv"
)

// Query strategies for relationship lookups. The policy is fixed per
// deployment, not decided per call.
const (
	StrategyIndexFirst   = "index-first"   // GSI only; index errors propagate
	StrategyScanOnly     = "scan-only"     // base-table scans only
	StrategyScanFallback = "scan-fallback" // GSI first, scan when the index errors
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion        string
	TableName        string
	RelatedIndexName string // GSI keyed by relatedId, for relationship lookups
	GeohashIndexName string // GSI keyed by geohash_prefix, venue rows only
	EventBusName     string

	// Query routing
	QueryStrategy string

	// Cache
	RedisAddr    string
	CacheTTLSecs int

	// Lambda configuration
	IsLambda bool

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		TableName:     getEnv("TABLE_NAME", "gatherly"),

		RelatedIndexName: getEnv("RELATED_INDEX_NAME", "related-index"),
		GeohashIndexName: getEnv("GEOHASH_INDEX_NAME", "geohash-index"),
		EventBusName:     getEnv("EVENT_BUS_NAME", "gatherly-events"),

		QueryStrategy: getEnv("QUERY_STRATEGY", StrategyScanFallback),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		CacheTTLSecs: getEnvInt("CACHE_TTL_SECONDS", 300),

		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "gatherly-backend"),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present and coherent.
func (c *Config) Validate() error {
	switch c.QueryStrategy {
	case StrategyIndexFirst, StrategyScanOnly, StrategyScanFallback:
	default:
		return fmt.Errorf("QUERY_STRATEGY must be one of %s, %s, %s",
			StrategyIndexFirst, StrategyScanOnly, StrategyScanFallback)
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.TableName == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
