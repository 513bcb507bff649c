package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

const (
	rootModule       = "legalnotices"
	pagesModule      = "legalnotices.pages"
	settingsModule   = "legalnotices.settings"
	resolutionModule = "legalnotices.resolution"
	httpModule       = "legalnotices.http"
)

const (
	fieldPageName = "page"
	fieldPageLang = "lang"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RootLogger returns the top level module logger.
func RootLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rootModule)
}

// PagesLogger returns the logger namespace reserved for the page repository.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// SettingsLogger returns the logger namespace reserved for the settings store.
func SettingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, settingsModule)
}

// ResolutionLogger returns the logger namespace reserved for public page resolution.
func ResolutionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolutionModule)
}

// HTTPLogger returns the logger namespace reserved for the HTTP adapter.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WithPageContext enriches the logger with the page name and language.
// Empty values are ignored.
func WithPageContext(logger interfaces.Logger, name, lang string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		fields[fieldPageName] = trimmed
	}
	if trimmed := strings.TrimSpace(lang); trimmed != "" {
		fields[fieldPageLang] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
