package config

import (
	"time"

	"github.com/phrazzld/hanzi-strokes/internal/domain/srs"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Practice PracticeConfig `mapstructure:"practice" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"omitempty,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
}

// PracticeConfig contains the stroke judging defaults and data locations.
type PracticeConfig struct {
	DefaultProfile  string  `mapstructure:"default_profile" validate:"required,oneof=flexible strict"`
	SimplifyEpsilon float64 `mapstructure:"simplify_epsilon" validate:"gt=0,lte=0.5"`
	StrokeDataPath  string  `mapstructure:"stroke_data_path" validate:"required"`
	WordListPath    string  `mapstructure:"word_list_path" validate:"required"`
	DueLimit        int     `mapstructure:"due_limit" validate:"gt=0,lte=1000"`
}

// SRSConfig holds optional overrides of the scheduler parameters.
// Zero values keep the scheduler defaults.
type SRSConfig struct {
	MinEaseFactor        float64 `mapstructure:"min_ease_factor" validate:"omitempty,gt=1"`
	MaxEaseFactor        float64 `mapstructure:"max_ease_factor" validate:"omitempty,gt=1"`
	MaxIntervalDays      int     `mapstructure:"max_interval_days" validate:"gte=0"`
	HardIntervalModifier float64 `mapstructure:"hard_interval_modifier" validate:"omitempty,gte=1"`
	EasyBonus            float64 `mapstructure:"easy_bonus" validate:"omitempty,gte=1"`
}

// ParamsConfig converts the overrides for srs.NewParams.
func (c SRSConfig) ParamsConfig() srs.ParamsConfig {
	return srs.ParamsConfig{
		MinEaseFactor:        c.MinEaseFactor,
		MaxEaseFactor:        c.MaxEaseFactor,
		MaxIntervalDays:      c.MaxIntervalDays,
		HardIntervalModifier: c.HardIntervalModifier,
		EasyBonus:            c.EasyBonus,
	}
}
