// Package config loads service configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the rescue backend.
type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// HTTP server
	Port string

	// Feed
	FeedRadiusMeters float64
	FeedLimit        int

	// Identity provider (code-for-identity exchange). Mock mode when the
	// secret is empty.
	IdentityAppID   string
	IdentitySecret  string
	IdentityBaseURL string
	IdentityTimeout time.Duration

	// Text analysis
	AnalysisAPIKey  string
	AnalysisModel   string
	AnalysisTimeout time.Duration

	// Uploads. Object store is used when UploadEndpoint is set, otherwise
	// files land on local disk under UploadDir.
	UploadEndpoint   string
	UploadAPIKey     string
	UploadKeyPrefix  string
	UploadDir        string
	UploadPublicBase string
	UploadTimeout    time.Duration
	UploadRetries    int
	UploadRetryDelay time.Duration

	// Admin sessions
	JWTSecret string
	JWTTTL    time.Duration

	// Rate limiting (per client IP, writes only)
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
}

// Load reads configuration from the environment with defaults suitable for
// local development.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Skipping .env file: %v", err)
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "server"),
		DBPassword: getEnv("DB_PASSWORD", "secret_app"),
		DBName:     getEnv("DB_NAME", "pawrescue"),

		Port: getEnv("PORT", "8080"),

		FeedRadiusMeters: getFloatEnv("FEED_RADIUS_METERS", 10000),
		FeedLimit:        getIntEnv("FEED_LIMIT", 100),

		IdentityAppID:   getEnv("IDENTITY_APP_ID", ""),
		IdentitySecret:  getEnv("IDENTITY_APP_SECRET", ""),
		IdentityBaseURL: getEnv("IDENTITY_BASE_URL", "https://api.weixin.qq.com/sns/jscode2session"),
		IdentityTimeout: getDurationEnv("IDENTITY_TIMEOUT", 10*time.Second),

		AnalysisAPIKey:  getEnv("ANALYSIS_API_KEY", ""),
		AnalysisModel:   getEnv("ANALYSIS_MODEL", "gemini-2.0-flash"),
		AnalysisTimeout: getDurationEnv("ANALYSIS_TIMEOUT", 15*time.Second),

		UploadEndpoint:   getEnv("UPLOAD_ENDPOINT", ""),
		UploadAPIKey:     getEnv("UPLOAD_API_KEY", ""),
		UploadKeyPrefix:  getEnv("UPLOAD_KEY_PREFIX", "rescue/"),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		UploadPublicBase: getEnv("UPLOAD_PUBLIC_BASE", "http://localhost:8080"),
		UploadTimeout:    getDurationEnv("UPLOAD_TIMEOUT", 30*time.Second),
		UploadRetries:    getIntEnv("UPLOAD_RETRIES", 3),
		UploadRetryDelay: getDurationEnv("UPLOAD_RETRY_DELAY", 1500*time.Millisecond),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:    getDurationEnv("JWT_TTL", 24*time.Hour),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 10),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets an integer environment variable or returns a default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv gets a float environment variable or returns a default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
