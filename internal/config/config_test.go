package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: \"123:abc\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logger.Level != "info" || !cfg.Logger.JSON {
		t.Errorf("logger defaults = %+v", cfg.Logger)
	}
	if cfg.Gemini.ModelName != "gemini-1.5-flash" {
		t.Errorf("gemini model default = %q", cfg.Gemini.ModelName)
	}
	if cfg.Gemini.Temperature != 0.3 {
		t.Errorf("gemini temperature default = %f", cfg.Gemini.Temperature)
	}
	if cfg.Weather.Timeout != 15*time.Second {
		t.Errorf("weather timeout default = %v, want 15s", cfg.Weather.Timeout)
	}
	if cfg.Weather.BaseURL != "http://api.openweathermap.org/data/2.5/forecast" {
		t.Errorf("weather base URL default = %q", cfg.Weather.BaseURL)
	}
	if !cfg.Speech.Enabled {
		t.Error("speech should default to enabled")
	}
	if task, ok := cfg.Scheduler.Tasks["sql_maintenance"]; !ok || !task.Enabled {
		t.Errorf("sql_maintenance task default = %+v", cfg.Scheduler.Tasks)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  json: false
telegram:
  token: "123:abc"
gemini:
  api_key: test-key
  temperature: 0.7
weather:
  api_key: weather-key
  timeout: 5s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logger.Level != "debug" || cfg.Logger.JSON {
		t.Errorf("logger = %+v", cfg.Logger)
	}
	if cfg.Gemini.APIKey != "test-key" || cfg.Gemini.Temperature != 0.7 {
		t.Errorf("gemini = %+v", cfg.Gemini)
	}
	if cfg.Weather.Timeout != 5*time.Second {
		t.Errorf("weather timeout = %v, want 5s", cfg.Weather.Timeout)
	}
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("SAHAYAK_TELEGRAM_TOKEN", "456:def")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Telegram.Token != "456:def" {
		t.Errorf("telegram token = %q, want env value", cfg.Telegram.Token)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing telegram token", "logger:\n  level: info\n"},
		{"bad log level", "logger:\n  level: loud\ntelegram:\n  token: \"1:a\"\n"},
		{"temperature out of range", "telegram:\n  token: \"1:a\"\ngemini:\n  temperature: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want validation failure")
			}
		})
	}
}
