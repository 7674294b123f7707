package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"API_PORT", "LOG_LEVEL", "POSTGRES_DSN", "NATS_URL", "NATS_SUBJECT",
		"GEMINI_API_KEY", "GEMINI_MODEL", "STORAGE_PATH",
		"KNOWLEDGE_PENAL_CODE_PATH", "KNOWLEDGE_CONSTITUTION_PATH", "MAX_UPLOAD_BYTES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.APIPort != "8080" {
		t.Fatalf("APIPort = %q", cfg.APIPort)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.NATSSubject != "analyses.completed" {
		t.Fatalf("NATSSubject = %q", cfg.NATSSubject)
	}
	if cfg.GeminiModel != "gemini-1.5-flash" {
		t.Fatalf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")

	cfg := Load()
	if cfg.APIPort != "9090" {
		t.Fatalf("APIPort = %q", cfg.APIPort)
	}
	if cfg.GeminiModel != "gemini-1.5-pro" {
		t.Fatalf("GeminiModel = %q", cfg.GeminiModel)
	}
	if cfg.MaxUploadBytes != 1<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadInvalidUploadLimitFallsBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")

	cfg := Load()
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("MaxUploadBytes = %d, want default", cfg.MaxUploadBytes)
	}
}

func TestValidateReportsAllMissingKeys(t *testing.T) {
	cfg := Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"GEMINI_API_KEY", "POSTGRES_DSN", "NATS_URL"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("validation error missing %q: %v", want, err)
		}
	}
}

func TestValidateOK(t *testing.T) {
	cfg := Config{
		GeminiAPIKey: "key",
		PostgresDSN:  "postgres://localhost/db",
		NATSURL:      "nats://localhost:4222",
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
