package console_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/logging/console"
)

func TestConsoleLogger_WritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2024, 3, 14, 15, 9, 26, 535897000, time.UTC)

	minLevel := console.LevelDebug
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return now },
		MinLevel: &minLevel,
	})

	logger := logging.PagesLogger(provider)
	ctx := logging.ContextWithRequestID(context.Background(), "req-1234")
	logger = logger.WithContext(ctx)

	logger.Info("pages.store.success", "page", "privacy-policy", "lang", "fr_FR")

	got := strings.TrimSpace(buf.String())
	want := "2024-03-14T15:09:26.535897Z INFO pages.store.success lang=fr_FR logger=legalnotices.pages module=legalnotices.pages page=privacy-policy request_id=req-1234"
	if got != want {
		t.Fatalf("unexpected log entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	minLevel := console.LevelInfo
	provider := console.NewProvider(console.Options{Writer: &buf, MinLevel: &minLevel})

	logger := provider.GetLogger("legalnotices.test")
	logger.Debug("ignored.debug", "foo", "bar")
	logger.Warn("included.warn", "foo", "bar")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected single log line, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "WARN included.warn") {
		t.Fatalf("expected warn entry, got %s", lines[0])
	}
}

func TestConsoleLogger_FormatsErrorsAndChains(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Unix(0, 0) },
	})

	root := errors.New("disk full")
	logger := provider.GetLogger("legalnotices.settings")
	logger.Error("settings.store.failed", "error", root, "chain", []string{"store failed", "disk full"})

	got := buf.String()
	if !strings.Contains(got, "error=\"disk full\"") {
		t.Fatalf("expected quoted error, got %s", got)
	}
	if !strings.Contains(got, `chain="store failed | disk full"`) {
		t.Fatalf("expected joined chain, got %s", got)
	}
}

func TestConsoleLogger_JSONLines(t *testing.T) {
	var buf bytes.Buffer
	provider := console.NewProvider(console.Options{
		Writer:   &buf,
		TimeFunc: func() time.Time { return time.Unix(0, 0) },
		JSON:     true,
	})

	logger := provider.GetLogger("legalnotices.settings")
	logger.Error("settings.store.failed",
		"error", errors.New("disk full"),
		"chain", []string{"store failed", "disk full"},
		"msg", "shadowed",
	)

	got := strings.TrimSpace(buf.String())
	want := `{"chain":"store failed | disk full","error":"disk full","field.msg":"shadowed","level":"ERROR","logger":"legalnotices.settings","msg":"settings.store.failed","time":"1970-01-01T00:00:00Z"}`
	if got != want {
		t.Fatalf("unexpected json entry\nwant: %s\ngot:  %s", want, got)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]console.Level{
		"trace":   console.LevelTrace,
		"DEBUG":   console.LevelDebug,
		" info ":  console.LevelInfo,
		"warning": console.LevelWarn,
		"error":   console.LevelError,
		"fatal":   console.LevelFatal,
	}
	for name, want := range cases {
		got, ok := console.ParseLevel(name)
		if !ok || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", name, got, ok, want)
		}
	}
	if _, ok := console.ParseLevel("verbose"); ok {
		t.Fatal("expected unknown level to be rejected")
	}
}
