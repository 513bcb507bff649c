package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-legalnotices/internal/adapters/storage"
	"github.com/goliatone/go-legalnotices/internal/navigation"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

const (
	DefaultTablePrefix = "legalnotices_"
	DefaultLanguage    = "en_US"
	DefaultDSN         = "file:legalnotices.db?cache=shared"
)

var (
	ErrTablePrefixInvalid     = errors.New("legalnotices config: table prefix may only contain letters, digits and underscores")
	ErrDefaultLanguageMissing = errors.New("legalnotices config: default language is required")
	ErrDefaultLanguageUnknown = errors.New("legalnotices config: default language must be one of the configured languages")
	ErrLoggingProviderUnknown = errors.New("legalnotices config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("legalnotices config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("legalnotices config: logging format is invalid")
)

// Config aggregates every runtime setting of the legal notices module.
type Config struct {
	TablePrefix     string                  `json:"table_prefix" yaml:"table_prefix"`
	DefaultLanguage string                  `json:"default_language" yaml:"default_language"`
	Languages       []string                `json:"languages" yaml:"languages"`
	CatalogPath     string                  `json:"catalog_path" yaml:"catalog_path"`
	Storage         storage.Config          `json:"storage" yaml:"storage"`
	Logging         LoggingConfig           `json:"logging" yaml:"logging"`
	Routes          navigation.Config       `json:"routes" yaml:"routes"`
	Commands        CommandsConfig          `json:"commands" yaml:"commands"`
	Organization    interfaces.Organization `json:"organization" yaml:"organization"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `json:"provider" yaml:"provider"`
	Level     string   `json:"level" yaml:"level"`
	Format    string   `json:"format" yaml:"format"`
	AddSource bool     `json:"add_source" yaml:"add_source"`
	Focus     []string `json:"focus" yaml:"focus"`
	File      string   `json:"file" yaml:"file"`
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	AutoRegisterDispatcher bool `json:"auto_register_dispatcher" yaml:"auto_register_dispatcher"`
	MaxRetries             int  `json:"max_retries" yaml:"max_retries"`
}

// DefaultConfig returns a sqlite backed configuration serving en_US.
func DefaultConfig() Config {
	return Config{
		TablePrefix:     DefaultTablePrefix,
		DefaultLanguage: DefaultLanguage,
		Storage: storage.Config{
			Driver: storage.DriverSQLite,
			DSN:    DefaultDSN,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Routes: navigation.DefaultConfig(),
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !validPrefix(cfg.TablePrefix) {
		return fmt.Errorf("%w: %q", ErrTablePrefixInvalid, cfg.TablePrefix)
	}
	defaultLanguage := strings.TrimSpace(cfg.DefaultLanguage)
	if defaultLanguage == "" {
		return ErrDefaultLanguageMissing
	}
	if len(cfg.Languages) > 0 && !containsFold(cfg.Languages, defaultLanguage) {
		return fmt.Errorf("%w: %s", ErrDefaultLanguageUnknown, defaultLanguage)
	}
	if err := cfg.Storage.Validate(); err != nil {
		return fmt.Errorf("legalnotices config: %w", err)
	}
	if strings.TrimSpace(cfg.Routes.BaseURL) == "" {
		return fmt.Errorf("legalnotices config: %w", navigation.ErrBaseURLRequired)
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func validPrefix(prefix string) bool {
	for _, r := range prefix {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(strings.TrimSpace(value), target) {
			return true
		}
	}
	return false
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
