package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LEGALNOTICES_"

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load reads a YAML file over DefaultConfig and applies environment overrides.
// An empty path skips the file.
func Load(path string, lookup LookupFunc) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("legalnotices config: read %q: %w", path, err)
		}
		if err := Decode(bytes.NewReader(data), &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Decode merges YAML from r into cfg. Unknown fields are rejected.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("legalnotices config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with LEGALNOTICES_* variables. A nil lookup reads
// the process environment.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if cfg == nil {
		return nil
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(value), true
	}

	strs := map[string]*string{
		"TABLE_PREFIX":     &cfg.TablePrefix,
		"DEFAULT_LANGUAGE": &cfg.DefaultLanguage,
		"CATALOG_PATH":     &cfg.CatalogPath,
		"DB_DRIVER":        &cfg.Storage.Driver,
		"DB_DSN":           &cfg.Storage.DSN,
		"BASE_URL":         &cfg.Routes.BaseURL,
		"ADMIN_PREFIX":     &cfg.Routes.AdminPrefix,
		"LOG_PROVIDER":     &cfg.Logging.Provider,
		"LOG_LEVEL":        &cfg.Logging.Level,
		"LOG_FORMAT":       &cfg.Logging.Format,
		"LOG_FILE":         &cfg.Logging.File,
	}
	for name, target := range strs {
		if value, ok := get(name); ok {
			*target = value
		}
	}

	if value, ok := get("LANGUAGES"); ok {
		cfg.Languages = splitList(value)
	}
	if value, ok := get("DB_DEBUG"); ok {
		debug, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("legalnotices config: %sDB_DEBUG: %w", EnvPrefix, err)
		}
		cfg.Storage.Debug = debug
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
