package settingscmd

import (
	"context"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-legalnotices/internal/commands"
	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/settings"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

const storeSettingsMessageType = "legalnotices.settings.store"

// SettingsWriter persists a submitted form as one step.
type SettingsWriter interface {
	Apply(ctx context.Context, form map[string]string) error
}

// StoreSettingsCommand carries the submitted settings form. Fields outside
// the settings schema are ignored; absent known fields are stored empty.
type StoreSettingsCommand struct {
	Form map[string]string `json:"form"`
}

// Type implements command.Message.
func (StoreSettingsCommand) Type() string { return storeSettingsMessageType }

// Validate checks the integer settings before anything is staged.
func (m StoreSettingsCommand) Validate() error {
	errs := validation.Errors{}
	for _, key := range settings.Keys() {
		if key.Kind() != settings.KindInt {
			continue
		}
		raw := strings.TrimSpace(m.Form[string(key)])
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs[string(key)] = validation.NewError("legalnotices.settings.store.int_invalid", "value must be a non-negative integer")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StoreSettingsHandler applies the form to the settings store and saves it
// in one transaction.
type StoreSettingsHandler struct {
	inner *commands.Handler[StoreSettingsCommand]
}

// NewStoreSettingsHandler constructs a handler wired to writer.
func NewStoreSettingsHandler(writer SettingsWriter, logger interfaces.Logger, opts ...commands.HandlerOption[StoreSettingsCommand]) *StoreSettingsHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg StoreSettingsCommand) error {
		return writer.Apply(ctx, msg.Form)
	}

	handlerOpts := []commands.HandlerOption[StoreSettingsCommand]{
		commands.WithLogger[StoreSettingsCommand](baseLogger),
		commands.WithOperation[StoreSettingsCommand]("settings.store"),
		commands.WithMessageFields(func(msg StoreSettingsCommand) map[string]any {
			return map[string]any{"fields": len(msg.Form)}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[StoreSettingsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &StoreSettingsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[StoreSettingsCommand].
func (h *StoreSettingsHandler) Execute(ctx context.Context, msg StoreSettingsCommand) error {
	return h.inner.Execute(ctx, msg)
}
