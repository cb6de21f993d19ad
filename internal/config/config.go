// Package config provides configuration management for the Citizen Hub application.
//
// This package handles loading configuration from environment variables,
// validating settings, and providing sensible defaults for optional
// parameters. Configuration is loaded once at startup and is not mutated
// afterwards.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. External .env file in the working directory
//  3. Embedded .env file (fallback, included in binary)
//  4. Hard-coded defaults (lowest priority)
package config

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// embeddedEnv contains the .env template embedded at build time.
//
// It only carries non-secret defaults. Credentials must come from the
// environment or an external .env file.
//
//go:embed .env
var embeddedEnv string

// Store drivers accepted by STORE_DRIVER.
const (
	DriverCSV    = "csv"
	DriverPgx    = "pgx"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Sentiment label sets accepted by SENTIMENT_LABELS.
const (
	LabelsStandard = "standard"
	LabelsMood     = "mood"
)

// Config holds all application configuration.
type Config struct {
	// HTTP server
	Port           string        // Port for the REST API and health endpoint
	AllowedOrigins []string      // CORS origins for the web front end
	ReadTimeout    time.Duration // http.Server read timeout
	WriteTimeout   time.Duration // http.Server write timeout
	MaxUploadBytes int64         // Upper bound for multipart submissions

	// Complaint store
	StoreDriver    string // csv, pgx, mysql or sqlite
	ComplaintsFile string // CSV path when StoreDriver is csv
	DatabaseURL    string // DSN for the SQL drivers

	// Redis read cache (optional, disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Upload side-channel
	UploadDir   string // Local directory for attachments
	S3Bucket    string // When set, attachments go to S3 instead
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Telegram (optional)
	TelegramBotToken     string
	TelegramChatID       string
	TelegramMessagesFile string // CSV index of posted messages, edited on resolve

	// Debug mode - Telegram calls are logged instead of sent
	DebugMode bool

	// Google Cloud Translation (optional)
	TranslateAPIKey string

	// Classification
	SentimentLabels string // standard (Negative/Neutral/Positive) or mood (Angry/Neutral/Calm)

	// Notifications
	NotifyWorkers int // Number of concurrent notification workers

	// Outbound HTTP
	HTTPTimeout time.Duration

	// Receipts
	ReceiptPDFEnabled bool // Requires a Chrome/Chromium binary on the host
}

// envFile is the external .env read from the working directory.
const envFile = ".env"

// LoadConfig loads configuration from environment variables with defaults.
//
// Loading process:
//  1. Apply the external .env file, then the embedded one, to unset keys
//  2. Read environment variables and apply defaults
//  3. Validate
func LoadConfig() (*Config, error) {
	applyEnvFiles(envFile)

	cfg := &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		ReadTimeout:    getEnvDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:   getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		StoreDriver:    strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverCSV)),
		ComplaintsFile: getEnvOrDefault("COMPLAINTS_FILE", "complaints.csv"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 10*time.Minute),

		UploadDir:   getEnvOrDefault("UPLOAD_DIR", "uploads"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		TelegramMessagesFile: getEnvOrDefault("TELEGRAM_MESSAGES_FILE", "telegram_messages.csv"),

		DebugMode: getEnvOrDefault("DEBUG_MODE", "false") == "true",

		TranslateAPIKey: os.Getenv("GOOGLE_TRANSLATE_API_KEY"),

		SentimentLabels: strings.ToLower(getEnvOrDefault("SENTIMENT_LABELS", LabelsStandard)),

		NotifyWorkers: getEnvInt("NOTIFY_WORKERS", 2),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		ReceiptPDFEnabled: getEnvOrDefault("RECEIPT_PDF_ENABLED", "false") == "true",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are consistent.
//
// Validation rules:
//   - StoreDriver must be one of csv, pgx, mysql, sqlite
//   - SQL drivers require DATABASE_URL, csv requires COMPLAINTS_FILE
//   - SentimentLabels must be standard or mood
//   - Numeric limits must be positive
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverCSV:
		if c.ComplaintsFile == "" {
			return fmt.Errorf("COMPLAINTS_FILE cannot be empty when STORE_DRIVER=csv")
		}
	case DriverPgx, DriverMySQL, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want csv, pgx, mysql or sqlite)", c.StoreDriver)
	}

	if c.SentimentLabels != LabelsStandard && c.SentimentLabels != LabelsMood {
		return fmt.Errorf("unknown SENTIMENT_LABELS %q (want standard or mood)", c.SentimentLabels)
	}

	if c.S3Bucket == "" && c.UploadDir == "" {
		return fmt.Errorf("UPLOAD_DIR cannot be empty when S3_BUCKET is not set")
	}

	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be at least 1, got %d", c.NotifyWorkers)
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be at least 1, got %d", c.MaxUploadBytes)
	}

	return nil
}

// TelegramEnabled reports whether both Telegram settings are present.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// applyEnvFiles fills unset variables from the external file at path, then
// from the embedded template. Keys already present in the process
// environment are never touched, and the external file wins over the
// embedded one.
func applyEnvFiles(path string) {
	var sources []map[string]string

	external, err := godotenv.Read(path)
	switch {
	case err == nil:
		sources = append(sources, external)
	case !os.IsNotExist(err):
		log.Printf("⚠️  Ignoring %s: %v", path, err)
	}

	if embedded, err := godotenv.Unmarshal(embeddedEnv); err == nil {
		sources = append(sources, embedded)
	}

	for _, envMap := range sources {
		for k, v := range envMap {
			if _, set := os.LookupEnv(k); set {
				continue
			}
			os.Setenv(k, v)
		}
	}
}

// Helper functions for environment variable parsing

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an integer or a default if not set/invalid
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default if not set/invalid.
//
// Accepts standard Go duration strings like "5s", "10m", "1h30m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
