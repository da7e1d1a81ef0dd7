package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/folio/internal/feed"
	"github.com/starford/folio/internal/site"
)

// Generator is written into the feed's generator element.
const Generator = "folio"

// Config represents the repository configuration (config.yaml at the root).
type Config struct {
	DatetimeFormat string      `yaml:"datetime_format"`
	Timezone       float64     `yaml:"timezone"`
	ArtifactsDir   string      `yaml:"artifacts_dir"`
	Converter      string      `yaml:"converter"`
	PandocArgs     []string    `yaml:"pandoc_args"`
	PeekLength     int         `yaml:"peek_length"`
	LogLevel       slog.Level  `yaml:"log_level"`
	RSS            RSSConfig   `yaml:"rss"`
	Serve          ServeConfig `yaml:"serve"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.DatetimeFormat, validation.Required),
		validation.Field(&c.Timezone, validation.Min(-12.0), validation.Max(14.0)),
		validation.Field(&c.ArtifactsDir, validation.Required, validation.By(artifactsDirRule)),
		validation.Field(&c.Converter, validation.Required),
		validation.Field(&c.PeekLength, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if err := c.RSS.Validate(); err != nil {
		return fmt.Errorf("rss: %w", err)
	}
	if err := c.Serve.Validate(); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// artifactsDirRule rejects output directories that would make the
// destroy-and-recreate build step delete sources.
func artifactsDirRule(value any) error {
	dir, _ := value.(string)
	cleaned := filepath.Clean(dir)
	if filepath.IsAbs(cleaned) || cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return errors.New("must be a subdirectory of the repository root")
	}
	switch strings.Split(filepath.ToSlash(cleaned), "/")[0] {
	case site.DocumentsDir, site.TemplatesDir, site.StaticDir:
		return fmt.Errorf("must not overlap the %s directory", cleaned)
	}
	return nil
}

// RSSConfig holds the feed channel fields.
type RSSConfig struct {
	Title  string `yaml:"title"`
	Domain string `yaml:"domain"`
	Desc   string `yaml:"desc"`
	Lang   string `yaml:"lang"`
}

// Validate validates the feed configuration.
func (c *RSSConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Domain, validation.Required),
	)
}

// ServeConfig holds preview server configuration.
type ServeConfig struct {
	Port int `yaml:"port"`
}

// Address returns the preview server address.
func (c *ServeConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the preview configuration.
func (c *ServeConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Settings maps the configuration onto build settings.
func (c *Config) Settings() site.Settings {
	return site.Settings{
		DatetimeFormat: c.DatetimeFormat,
		Timezone:       c.Timezone,
		ArtifactsDir:   c.ArtifactsDir,
		Converter:      c.Converter,
		ConverterArgs:  c.PandocArgs,
		PeekLength:     c.PeekLength,
		Feed: feed.Config{
			Title:       c.RSS.Title,
			Domain:      c.RSS.Domain,
			Description: c.RSS.Desc,
			Language:    c.RSS.Lang,
			Generator:   Generator,
		},
	}
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		DatetimeFormat: "%Y-%m-%d %H:%M",
		ArtifactsDir:   "artifacts",
		Converter:      "pandoc",
		PeekLength:     150,
		LogLevel:       slog.LevelInfo,
		Serve: ServeConfig{
			Port: 8080,
		},
	}
}
