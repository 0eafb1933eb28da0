package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "HANZI"

var defaults = map[string]any{
	"server.port":                8080,
	"server.log_level":           "info",
	"server.shutdown_timeout":    "10s",
	"database.url":               "",
	"database.max_open_conns":    10,
	"practice.default_profile":   "flexible",
	"practice.simplify_epsilon":  0.02,
	"practice.stroke_data_path":  "data/characters.json",
	"practice.word_list_path":    "data/words.json",
	"practice.due_limit":         20,
	"srs.min_ease_factor":        0.0,
	"srs.max_ease_factor":        0.0,
	"srs.max_interval_days":      0,
	"srs.hard_interval_modifier": 0.0,
	"srs.easy_bonus":             0.0,
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit path that does not exist is an error; the implicit
		// config.yaml is optional.
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key := range defaults {
		envVar := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.SRS.MinEaseFactor > 0 && cfg.SRS.MaxEaseFactor > 0 && cfg.SRS.MaxEaseFactor < cfg.SRS.MinEaseFactor {
		return nil, fmt.Errorf("configuration validation failed: srs.max_ease_factor %v is below srs.min_ease_factor %v",
			cfg.SRS.MaxEaseFactor, cfg.SRS.MinEaseFactor)
	}

	return &cfg, nil
}
