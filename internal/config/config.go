// Package config provides configuration loading and validation for the
// Krishi-Sahayak advisory bot. Values come from defaults, an optional
// config.yaml, and SAHAYAK_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the full application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// TelegramConfig holds chat surface settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// GeminiConfig holds model backend settings. The API key may be empty at
// load time: a missing credential surfaces as a per-turn error rather than
// a startup failure.
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	ModelName   string        `mapstructure:"model_name" validate:"required"`
	Temperature float32       `mapstructure:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `mapstructure:"timeout" validate:"required"`
}

// WeatherConfig holds forecast feed settings. A missing API key degrades to
// a per-request error, same as Gemini.
type WeatherConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

// SpeechConfig holds speech synthesis settings.
type SpeechConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// Load reads configuration from the given file path, applies defaults and
// environment overrides, and validates the result. A missing config file is
// not an error; defaults and environment variables carry the load.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SAHAYAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("database.path", "sahayak.db")

	// Secrets default to empty so viper registers the keys and the
	// SAHAYAK_* environment variables can populate them.
	v.SetDefault("telegram.token", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("weather.api_key", "")

	v.SetDefault("gemini.model_name", "gemini-1.5-flash")
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("gemini.timeout", 2*time.Minute)

	v.SetDefault("weather.base_url", "http://api.openweathermap.org/data/2.5/forecast")
	v.SetDefault("weather.timeout", 15*time.Second)

	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.base_url", "https://translate.google.com/translate_tts")

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
	v.SetDefault("scheduler.tasks.weather_alerts.enabled", false)
	v.SetDefault("scheduler.tasks.weather_alerts.schedule", "0 0 6 * * *")
}
