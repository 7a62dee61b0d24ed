package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithRequiredVars(t *testing.T) {
	os.Setenv("BIGQUERY_PROJECT", "test-project")
	defer os.Unsetenv("BIGQUERY_PROJECT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.BigQueryProject != "test-project" {
		t.Errorf("expected BigQueryProject to be set, got %s", cfg.BigQueryProject)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("BIGQUERY_PROJECT")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required vars, got nil")
	}
}

func TestConfig_Defaults(t *testing.T) {
	os.Setenv("BIGQUERY_PROJECT", "test-project")
	defer os.Unsetenv("BIGQUERY_PROJECT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}

	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}

	if cfg.BigQueryDataset != "spendlens" {
		t.Errorf("expected default BigQueryDataset 'spendlens', got %s", cfg.BigQueryDataset)
	}

	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("expected default GeminiModel 'gemini-2.5-flash', got %s", cfg.GeminiModel)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel 'info', got %s", cfg.LogLevel)
	}

	if cfg.WriteTimeout != 90*time.Second {
		t.Errorf("expected default WriteTimeout 90s, got %s", cfg.WriteTimeout)
	}

	if cfg.MaxUploadBytes != 10485760 {
		t.Errorf("expected default MaxUploadBytes 10485760, got %d", cfg.MaxUploadBytes)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
}

func TestConfig_ArchiveEnabled(t *testing.T) {
	cfg := &Config{}
	if cfg.ArchiveEnabled() {
		t.Error("expected ArchiveEnabled to return false without a bucket")
	}

	cfg.GCSBucket = "spendlens-receipts"
	if !cfg.ArchiveEnabled() {
		t.Error("expected ArchiveEnabled to return true with a bucket")
	}
}

func TestConfig_GetCORSAllowedOrigins(t *testing.T) {
	tests := []struct {
		name    string
		origins string
		want    []string
	}{
		{name: "empty", origins: "", want: nil},
		{name: "single", origins: "https://example.com", want: []string{"https://example.com"}},
		{name: "multiple with spaces", origins: "https://example.com, https://app.example.com", want: []string{"https://example.com", "https://app.example.com"}},
		{name: "trailing comma", origins: "https://example.com,", want: []string{"https://example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{CORSAllowedOrigins: tt.origins}
			got := cfg.GetCORSAllowedOrigins()

			if len(got) != len(tt.want) {
				t.Fatalf("expected %d origins, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("origin %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
