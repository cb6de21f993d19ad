package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	origEmbeddedEnv := embeddedEnv
	embeddedEnv = ""
	defer func() { embeddedEnv = origEmbeddedEnv }()

	t.Setenv("STORE_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")

	_, err := LoadConfig()
	if err == nil {
		t.Error("expected error for pgx driver without DATABASE_URL")
	}

	t.Setenv("STORE_DRIVER", "csv")
	t.Setenv("COMPLAINTS_FILE", "test.csv")
	t.Setenv("SENTIMENT_LABELS", "MOOD")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, ,http://b.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	if cfg.ComplaintsFile != "test.csv" {
		t.Errorf("expected complaints file 'test.csv' but got %q", cfg.ComplaintsFile)
	}

	if cfg.SentimentLabels != LabelsMood {
		t.Errorf("expected labels %q but got %q", LabelsMood, cfg.SentimentLabels)
	}

	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.example" {
		t.Errorf("unexpected allowed origins: %v", cfg.AllowedOrigins)
	}

	// Defaults
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected default CacheTTL=10m but got %v", cfg.CacheTTL)
	}

	if cfg.MaxUploadBytes != 10<<20 {
		t.Errorf("expected default MaxUploadBytes=10MiB but got %d", cfg.MaxUploadBytes)
	}
}

// unsetEnv clears keys for the duration of the test and restores them afterwards.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestExternalEnvOverridesEmbedded(t *testing.T) {
	unsetEnv(t, "STORE_DRIVER", "DATABASE_URL", "PORT", "UPLOAD_DIR", "NOTIFY_WORKERS")
	t.Setenv("NOTIFY_WORKERS", "5")

	dir := t.TempDir()
	content := "STORE_DRIVER=sqlite\nDATABASE_URL=file::memory:\nPORT=9999\nNOTIFY_WORKERS=3\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}

	if cfg.StoreDriver != DriverSQLite {
		t.Errorf("expected external .env driver %q but got %q", DriverSQLite, cfg.StoreDriver)
	}
	if cfg.Port != "9999" {
		t.Errorf("expected external .env port 9999 but got %q", cfg.Port)
	}
	if cfg.DatabaseURL != "file::memory:" {
		t.Errorf("expected DATABASE_URL from .env but got %q", cfg.DatabaseURL)
	}
	// process environment beats the file
	if cfg.NotifyWorkers != 5 {
		t.Errorf("expected NOTIFY_WORKERS=5 from the environment but got %d", cfg.NotifyWorkers)
	}
	// keys missing from the file fall back to the embedded template
	if cfg.UploadDir != "uploads" {
		t.Errorf("expected embedded UPLOAD_DIR 'uploads' but got %q", cfg.UploadDir)
	}
}

func TestMissingExternalEnvUsesEmbedded(t *testing.T) {
	unsetEnv(t, "STORE_DRIVER", "PORT", "COMPLAINTS_FILE")
	t.Chdir(t.TempDir())

	origEmbeddedEnv := embeddedEnv
	embeddedEnv = "PORT=7070\nSTORE_DRIVER=csv\nCOMPLAINTS_FILE=embedded.csv\n"
	defer func() { embeddedEnv = origEmbeddedEnv }()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("expected no error but got: %v", err)
	}
	if cfg.Port != "7070" || cfg.ComplaintsFile != "embedded.csv" {
		t.Errorf("expected embedded values but got port=%q file=%q", cfg.Port, cfg.ComplaintsFile)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "env var set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			expected:     "custom",
		},
		{
			name:         "env var not set",
			key:          "NONEXISTENT_VAR",
			defaultValue: "default",
			envValue:     "",
			expected:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnvOrDefault(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected %q but got %q", tt.expected, result)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		expected     int
	}{
		{"valid int", "TEST_INT", 10, "25", 25},
		{"invalid int uses default", "TEST_INT_INVALID", 10, "notanumber", 10},
		{"empty uses default", "TEST_INT_EMPTY", 10, "", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.key, tt.envValue)
			}

			result := getEnvInt(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("expected %d but got %d", tt.expected, result)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver:     DriverCSV,
			ComplaintsFile:  "complaints.csv",
			UploadDir:       "uploads",
			SentimentLabels: LabelsStandard,
			NotifyWorkers:   1,
			MaxUploadBytes:  1024,
		}
	}

	tests := []struct {
		name      string
		mutate    func(c *Config)
		expectErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mongo" }, true},
		{"sqlite without url", func(c *Config) { c.StoreDriver = DriverSQLite }, true},
		{"mysql with url", func(c *Config) { c.StoreDriver = DriverMySQL; c.DatabaseURL = "u:p@/db" }, false},
		{"bad labels", func(c *Config) { c.SentimentLabels = "emoji" }, true},
		{"zero workers", func(c *Config) { c.NotifyWorkers = 0 }, true},
		{"no upload target", func(c *Config) { c.UploadDir = "" }, true},
		{"s3 without dir", func(c *Config) { c.UploadDir = ""; c.S3Bucket = "bucket" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("expected no error but got: %v", err)
			}
		})
	}
}
