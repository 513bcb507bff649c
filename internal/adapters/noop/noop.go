package noop

import (
	"context"

	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Viewer returns an anonymous interfaces.Viewer with no privileges.
func Viewer() interfaces.Viewer {
	return viewerAdapter{}
}

type viewerAdapter struct{}

func (viewerAdapter) IsAdmin() bool  { return false }
func (viewerAdapter) IsStaff() bool  { return false }
func (viewerAdapter) IsLogged() bool { return false }

// Flash returns a flash sink that drops every message.
func Flash() interfaces.Flash {
	return flashAdapter{}
}

type flashAdapter struct{}

func (flashAdapter) AddMessage(string, string) {}

// Organization returns a provider serving a fixed organization profile.
func Organization(profile interfaces.Organization) interfaces.OrganizationProvider {
	return organizationAdapter{profile: profile}
}

type organizationAdapter struct {
	profile interfaces.Organization
}

func (o organizationAdapter) Organization(context.Context) (interfaces.Organization, error) {
	return o.profile, nil
}

// LoggerProvider returns a provider whose loggers discard everything.
func LoggerProvider() interfaces.LoggerProvider {
	return loggerProvider{}
}

type loggerProvider struct{}

func (loggerProvider) GetLogger(string) interfaces.Logger {
	return logging.NoOp()
}
