package commands

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	installcmd "github.com/goliatone/go-legalnotices/internal/commands/install"
	pagescmd "github.com/goliatone/go-legalnotices/internal/commands/pages"
	settingscmd "github.com/goliatone/go-legalnotices/internal/commands/settings"
	"github.com/goliatone/go-legalnotices/internal/di"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures how handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe releases every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

var ErrUnsupportedHandler = errors.New("commands: handler type is not supported by the dispatcher")

// RegisterContainerCommands registers the container's command handlers with
// the provided registry and dispatcher.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0, 3),
		Subscriptions: make([]CommandSubscription, 0, 3),
	}
	if container == nil {
		return result, nil
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	register(container.EditPageHandler())
	register(container.StoreSettingsHandler())
	register(container.InstallHandler())

	return result, errs
}

// GlobalDispatcher subscribes handlers to the go-command process dispatcher.
type GlobalDispatcher struct {
	MaxRetries int
}

var _ CommandDispatcher = GlobalDispatcher{}

// RegisterCommand subscribes one of the legal notices handlers.
func (d GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	retries := d.MaxRetries
	if retries < 0 {
		retries = 0
	}
	switch h := handler.(type) {
	case *pagescmd.EditPageHandler:
		return dispatcher.SubscribeCommand(h, runner.WithMaxRetries(retries)), nil
	case *settingscmd.StoreSettingsHandler:
		return dispatcher.SubscribeCommand(h, runner.WithMaxRetries(retries)), nil
	case *installcmd.InstallHandler:
		return dispatcher.SubscribeCommand(h, runner.WithMaxRetries(retries)), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHandler, handler)
	}
}
