// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/javajack/docfill"
)

// Config holds every setting of the docfill service and CLI.
type Config struct {
	Addr            string        `env:"DOCFILL_ADDR" envDefault:":5000"`
	DBPath          string        `env:"DOCFILL_DB_PATH" envDefault:"database.db"`
	TemplatePath    string        `env:"DOCFILL_TEMPLATE_PATH" envDefault:"templates/counseling.docx"`
	MappingPath     string        `env:"DOCFILL_MAPPING_PATH"` // empty selects the built-in mapping
	LogLevel        string        `env:"DOCFILL_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"DOCFILL_LOG_FORMAT" envDefault:"json"`
	FontName        string        `env:"DOCFILL_FONT_NAME" envDefault:"Times New Roman"`
	FontSize        float64       `env:"DOCFILL_FONT_SIZE" envDefault:"9"`
	ShutdownTimeout time.Duration `env:"DOCFILL_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MaxUploadBytes  int64         `env:"DOCFILL_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Font returns the configured style for rewritten cells.
func (c Config) Font() docfill.Font {
	return docfill.Font{Name: c.FontName, Size: c.FontSize}
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("DOCFILL_ADDR is required"))
	}
	if err := docfill.CheckFont(c.Font()); err != nil {
		errs = append(errs, fmt.Errorf("DOCFILL_FONT_NAME/DOCFILL_FONT_SIZE: %w", err))
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("DOCFILL_LOG_FORMAT must be json or console, got %q", c.LogFormat))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("DOCFILL_SHUTDOWN_TIMEOUT must not be negative"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("DOCFILL_MAX_UPLOAD_BYTES must be positive"))
	}
	return errors.Join(errs...)
}
