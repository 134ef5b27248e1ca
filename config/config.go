package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Database configuration
	DBDriver     string
	DatabasePath string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// File storage
	StorageBackend string
	UploadDir      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string

	// Mail
	MailProvider string
	MailFrom     string
	MailFromName string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	ResendAPIKey string
	FrontendURL  string

	// Schedules
	NotifyCron    string
	ReconcileCron string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the process environment wins either way.
	_ = godotenv.Load()

	env := GetEnvironment()
	cfg := &Config{
		ServerPort:  getValue("SERVER_PORT", "5000"),
		ServerHost:  getValue("SERVER_HOST", "0.0.0.0"),
		CORSOrigins: splitList(getValue("CORS_ORIGINS", "http://localhost:3000")),
		LogLevel:    getValue("LOG_LEVEL", "info"),

		DBDriver:     strings.ToLower(getValue("DB_DRIVER", "sqlite")),
		DatabasePath: getValue("DATABASE_PATH", "./recipeshare.db"),
		DBHost:       getValue("DB_HOST", "localhost"),
		DBPort:       getValue("DB_PORT", "5432"),
		DBUser:       getValue("DB_USER", ""),
		DBPassword:   getValue("DB_PASSWORD", ""),
		DBName:       getValue("DB_NAME", "recipeshare"),
		DBSSLMode:    getValue("DB_SSL_MODE", "disable"),

		RedisHost:     getValue("REDIS_HOST", ""),
		RedisPort:     getValue("REDIS_PORT", "6379"),
		RedisPassword: getValue("REDIS_PASSWORD", ""),
		RedisURL:      getValue("REDIS_URL", ""),

		JWTSecret: getValue("JWT_SECRET", ""),

		StorageBackend: strings.ToLower(getValue("STORAGE_BACKEND", "local")),
		UploadDir:      getValue("UPLOAD_DIR", "./uploads"),
		S3Bucket:       getValue("S3_BUCKET_NAME", ""),
		S3Region:       getValue("AWS_REGION", "us-east-1"),
		S3Endpoint:     getValue("S3_ENDPOINT", ""),
		S3AccessKey:    getValue("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:    getValue("S3_SECRET_ACCESS_KEY", ""),

		MailProvider: strings.ToLower(getValue("MAIL_PROVIDER", "log")),
		MailFrom:     getValue("EMAIL_FROM", ""),
		MailFromName: getValue("EMAIL_FROM_NAME", "Recipe Share"),
		SMTPHost:     getValue("SMTP_HOST", ""),
		SMTPPort:     getValue("SMTP_PORT", "587"),
		SMTPUsername: getValue("SMTP_USERNAME", ""),
		SMTPPassword: getValue("SMTP_PASSWORD", ""),
		ResendAPIKey: getValue("RESEND_API_KEY", ""),
		FrontendURL:  getValue("FRONTEND_URL", "http://localhost:3000"),

		NotifyCron:    getValue("NOTIFY_CRON", "25 11 * * 6"),
		ReconcileCron: getValue("RECONCILE_CRON", "0 3 * * *"),
	}

	redisDB, err := strconv.Atoi(getValue("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	if cfg.JWTSecret == "" && env != Production {
		cfg.JWTSecret = "dev-secret-change-me"
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedisEnabled reports whether a Redis endpoint was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN builds the connection string for the postgres driver
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// getValue looks up key in the environment, then in the Docker secrets
// directory under the lowercased key, then falls back.
func getValue(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if value := readSecret(strings.ToLower(key)); value != "" {
		return value
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
