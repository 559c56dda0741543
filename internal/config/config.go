package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Verification VerificationConfig
	SMS          SMSConfig
	Security     SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// VerificationConfig controls token issuance and redemption behavior
type VerificationConfig struct {
	// TokenLength is the number of digits in a generated token, capped at 10.
	TokenLength int
	// TokenLifetime is how long a token stays redeemable. Zero means tokens
	// never expire.
	TokenLifetime time.Duration
	// InvalidatePrevious deletes a mobile number's earlier tokens whenever a
	// new one is issued.
	InvalidatePrevious bool
	// VerifiedURL is where redirect-flow callers land after verifying.
	VerifiedURL string
	// CleanupInterval is how often expired tokens are purged.
	CleanupInterval time.Duration
}

// SMSConfig holds SMS delivery configuration
type SMSConfig struct {
	// Enabled switches between the SNS notifier and log-only delivery.
	Enabled  bool
	Region   string
	SenderID string
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "mobileverify"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Verification: VerificationConfig{
			TokenLength:        getEnvAsInt("VERIFICATION_TOKEN_LENGTH", 5),
			TokenLifetime:      getEnvAsDuration("VERIFICATION_TOKEN_LIFETIME", 5*time.Minute),
			InvalidatePrevious: getEnvAsBool("VERIFICATION_INVALIDATE_PREVIOUS", false),
			VerifiedURL:        getEnv("VERIFICATION_VERIFIED_URL", "/mobile/verified"),
			CleanupInterval:    getEnvAsDuration("VERIFICATION_CLEANUP_INTERVAL", 10*time.Minute),
		},
		SMS: SMSConfig{
			Enabled:  getEnvAsBool("SMS_ENABLED", false),
			Region:   getEnv("AWS_REGION", "us-east-1"),
			SenderID: getEnv("SMS_SENDER_ID", ""),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
