package di_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-legalnotices/internal/admin"
	"github.com/goliatone/go-legalnotices/internal/di"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/internal/resolution"
	"github.com/goliatone/go-legalnotices/internal/runtimeconfig"
	"github.com/goliatone/go-legalnotices/internal/settings"
	"github.com/goliatone/go-legalnotices/pkg/testsupport"
)

type viewer struct{ admin bool }

func (v viewer) IsAdmin() bool  { return v.admin }
func (v viewer) IsStaff() bool  { return v.admin }
func (v viewer) IsLogged() bool { return v.admin }

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.TablePrefix = "bad prefix"

	_, err := di.NewContainer(context.Background(), cfg, di.WithMemoryStorage())
	if !errors.Is(err, runtimeconfig.ErrTablePrefixInvalid) {
		t.Fatalf("expected ErrTablePrefixInvalid, got %v", err)
	}
}

func TestContainerJSONConsoleLogging(t *testing.T) {
	var buf bytes.Buffer
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "json"

	container, err := di.NewContainer(context.Background(), cfg,
		di.WithMemoryStorage(),
		di.WithLogWriter(&buf),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	container.LoggerProvider().GetLogger("legalnotices.test").Info("container.ready", "storage", "memory")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line[strings.LastIndex(line, "\n")+1:]), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", line, err)
	}
	if entry["msg"] != "container.ready" || entry["storage"] != "memory" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestContainerMemoryStorageLifecycle(t *testing.T) {
	ctx := context.Background()
	logger := testsupport.NewRecordingLogger()

	container, err := di.NewContainer(ctx, runtimeconfig.DefaultConfig(),
		di.WithMemoryStorage(),
		di.WithLoggerProvider(logger),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.BunDB() != nil {
		t.Fatal("memory storage must not open a database")
	}

	svc := container.AdminService()
	if err := svc.Install(ctx, false); err != nil {
		t.Fatalf("install: %v", err)
	}

	session := admin.Session{Viewer: viewer{}, Lang: "en_US"}
	result, err := svc.ViewPage(ctx, session, pages.NamePrivacyPolicy)
	if err != nil {
		t.Fatalf("view disabled page: %v", err)
	}
	if result.Outcome != resolution.OutcomeRedirectNotFound {
		t.Fatalf("expected not found redirect, got %s", result.Outcome)
	}
	if result.RedirectURL != "http://localhost:8080/page-not-found" {
		t.Fatalf("unexpected redirect %q", result.RedirectURL)
	}

	store := container.SettingsStore()
	if err := store.Set(string(settings.KeyEnablePrivacyPolicy), "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	result, err = svc.ViewPage(ctx, session, pages.NamePrivacyPolicy)
	if err != nil {
		t.Fatalf("view enabled page: %v", err)
	}
	if result.Outcome != resolution.OutcomeRender {
		t.Fatalf("expected render, got %s", result.Outcome)
	}
	if !result.Public {
		t.Fatal("anonymous viewer should see the public layout")
	}
	if !logger.HasEntry("info", "pages.install.seeded") {
		t.Fatal("expected page seeding to be logged")
	}
}

func TestContainerWithBunDB(t *testing.T) {
	ctx := context.Background()
	db := testsupport.NewBunDB(t)

	container, err := di.NewContainer(ctx, runtimeconfig.DefaultConfig(),
		di.WithBunDB(db),
		di.WithLoggerProvider(testsupport.NewRecordingLogger()),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if err := container.AdminService().Install(ctx, false); err != nil {
		t.Fatalf("install: %v", err)
	}

	names, err := container.PageService().ListNames(ctx, "en_US")
	if err != nil {
		t.Fatalf("list names: %v", err)
	}
	if len(names) != len(pages.Names()) {
		t.Fatalf("expected %d pages, got %d", len(pages.Names()), len(names))
	}

	count, err := db.NewSelect().Table("legalnotices_settings").Count(ctx)
	if err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if count != len(settings.Keys()) {
		t.Fatalf("expected %d settings rows, got %d", len(settings.Keys()), count)
	}

	// The caller owns the database.
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("expected database to stay open, got %v", err)
	}
}

func TestContainerOpensConfiguredDatabase(t *testing.T) {
	ctx := context.Background()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.DSN = "file:di_container_open?mode=memory&cache=shared"

	container, err := di.NewContainer(ctx, cfg, di.WithLoggerProvider(testsupport.NewRecordingLogger()))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.BunDB() == nil {
		t.Fatal("expected container to open the configured database")
	}
	if err := container.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if container.BunDB() != nil {
		t.Fatal("expected database to be released")
	}
}

func TestContainerHandlerServesPublicPages(t *testing.T) {
	ctx := context.Background()
	container, err := di.NewContainer(ctx, runtimeconfig.DefaultConfig(),
		di.WithMemoryStorage(),
		di.WithLoggerProvider(testsupport.NewRecordingLogger()),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if err := container.AdminService().Install(ctx, false); err != nil {
		t.Fatalf("install: %v", err)
	}

	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/"+pages.NameTermsOfService, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 for a disabled page, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "http://localhost:8080/page-not-found" {
		t.Fatalf("unexpected location %q", got)
	}
}
