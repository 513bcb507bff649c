package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type retryTestCommand struct {
	Name string
}

func (retryTestCommand) Type() string { return "legalnotices.test.retry" }

func (retryTestCommand) Validate() error { return nil }

type exhaustTestCommand struct {
	Name string
}

func (exhaustTestCommand) Type() string { return "legalnotices.test.exhaust" }

func (exhaustTestCommand) Validate() error { return nil }

func TestDispatcherRetriesUntilSuccess(t *testing.T) {
	var attempts int
	handler := NewHandler(func(ctx context.Context, _ retryTestCommand) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient failure")
		}
		return nil
	}, WithTimeout[retryTestCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retryTestCommand{Name: "privacy-policy"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts (initial + retry), got %d", attempts)
	}
}

func TestDispatcherRetryExhaustionPropagatesError(t *testing.T) {
	var attempts int
	handler := NewHandler(func(ctx context.Context, _ exhaustTestCommand) error {
		attempts++
		return errors.New("permanent failure")
	}, WithTimeout[exhaustTestCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), exhaustTestCommand{Name: "terms-of-service"})
	if err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts (initial + 2 retries), got %d", attempts)
	}
}
