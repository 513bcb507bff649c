package installcmd

import (
	"context"
	"fmt"

	"github.com/goliatone/go-legalnotices/internal/commands"
	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

const installMessageType = "legalnotices.install"

// PageInstaller reseeds or reconciles the page table.
type PageInstaller interface {
	InstallReset(ctx context.Context, force bool) (bool, error)
	Load(ctx context.Context) error
}

// SettingsInstaller reseeds or reconciles the settings table.
type SettingsInstaller interface {
	InstallReset(ctx context.Context) error
	Load(ctx context.Context) error
	Reconcile(ctx context.Context) (bool, error)
}

// InstallCommand seeds both tables. Without Force existing content and
// settings are kept and only gaps are filled.
type InstallCommand struct {
	Force bool `json:"force"`
}

// Type implements command.Message.
func (InstallCommand) Type() string { return installMessageType }

// Validate implements command.Message. Every value of Force is valid.
func (InstallCommand) Validate() error { return nil }

// InstallHandler runs the install hook against both stores.
type InstallHandler struct {
	inner *commands.Handler[InstallCommand]
}

// NewInstallHandler constructs the install handler.
func NewInstallHandler(pagesSvc PageInstaller, settingsStore SettingsInstaller, logger interfaces.Logger, opts ...commands.HandlerOption[InstallCommand]) *InstallHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg InstallCommand) error {
		if _, err := pagesSvc.InstallReset(ctx, msg.Force); err != nil {
			return fmt.Errorf("install pages: %w", err)
		}
		if err := pagesSvc.Load(ctx); err != nil {
			return fmt.Errorf("load pages: %w", err)
		}

		if msg.Force {
			if err := settingsStore.InstallReset(ctx); err != nil {
				return fmt.Errorf("install settings: %w", err)
			}
			return nil
		}
		if err := settingsStore.Load(ctx); err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		if _, err := settingsStore.Reconcile(ctx); err != nil {
			return fmt.Errorf("reconcile settings: %w", err)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[InstallCommand]{
		commands.WithLogger[InstallCommand](baseLogger),
		commands.WithOperation[InstallCommand]("install"),
		commands.WithMessageFields(func(msg InstallCommand) map[string]any {
			return map[string]any{"force": msg.Force}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[InstallCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &InstallHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[InstallCommand].
func (h *InstallHandler) Execute(ctx context.Context, msg InstallCommand) error {
	return h.inner.Execute(ctx, msg)
}
