package legalnotices

import (
	"github.com/goliatone/go-legalnotices/internal/adapters/storage"
	"github.com/goliatone/go-legalnotices/internal/navigation"
	"github.com/goliatone/go-legalnotices/internal/runtimeconfig"
)

var (
	ErrTablePrefixInvalid     = runtimeconfig.ErrTablePrefixInvalid
	ErrDefaultLanguageMissing = runtimeconfig.ErrDefaultLanguageMissing
	ErrDefaultLanguageUnknown = runtimeconfig.ErrDefaultLanguageUnknown
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrDriverUnsupported      = storage.ErrDriverUnsupported
	ErrDSNRequired            = storage.ErrDSNRequired
)

type (
	Config         = runtimeconfig.Config
	LoggingConfig  = runtimeconfig.LoggingConfig
	CommandsConfig = runtimeconfig.CommandsConfig
	StorageConfig  = storage.Config
	RoutesConfig   = navigation.Config
)

// DefaultConfig returns a sqlite backed configuration serving en_US.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file over DefaultConfig and applies LEGALNOTICES_*
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path, nil)
}
