package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goliatone/go-legalnotices/internal/admin"
	installcmd "github.com/goliatone/go-legalnotices/internal/commands/install"
	pagescmd "github.com/goliatone/go-legalnotices/internal/commands/pages"
	settingscmd "github.com/goliatone/go-legalnotices/internal/commands/settings"
	legalhttp "github.com/goliatone/go-legalnotices/internal/http"
	"github.com/goliatone/go-legalnotices/internal/i18n"
	"github.com/goliatone/go-legalnotices/internal/navigation"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/internal/resolution"
	"github.com/goliatone/go-legalnotices/internal/settings"
)

type viewer struct{ admin, staff, logged bool }

func (v viewer) IsAdmin() bool  { return v.admin }
func (v viewer) IsStaff() bool  { return v.staff }
func (v viewer) IsLogged() bool { return v.logged }

type flashBag struct{ kinds []string }

func (f *flashBag) AddMessage(kind, _ string) { f.kinds = append(f.kinds, kind) }

type harness struct {
	handler  http.Handler
	pages    pages.Service
	settings *settings.Store
	flash    *flashBag
	retained map[string]string
	viewer   viewer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	fx, err := i18n.DefaultFixture()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	catalog := i18n.NewCatalog(fx, "en_US", []string{"en_US", "fr_FR"})
	pageSvc := pages.NewService(pages.NewMemoryRepository(), catalog)
	store := settings.NewStore(settings.NewMemoryRepository())
	if err := pageSvc.Load(ctx); err != nil {
		t.Fatalf("load pages: %v", err)
	}
	if err := store.Load(ctx); err != nil {
		t.Fatalf("load settings: %v", err)
	}
	urls, err := navigation.NewURLs(navigation.Config{BaseURL: "http://notices.test", AdminPrefix: "/plugins/legalnotices"})
	if err != nil {
		t.Fatalf("urls: %v", err)
	}
	svc, err := admin.NewService(admin.Deps{
		Pages:         pageSvc,
		Settings:      store,
		Resolver:      resolution.NewService(pageSvc, store, resolution.WithDefaultLanguage("en_US")),
		URLs:          urls,
		Localizer:     catalog,
		EditPage:      pagescmd.NewEditPageHandler(pageSvc, nil),
		StoreSettings: settingscmd.NewStoreSettingsHandler(store, nil),
		Install:       installcmd.NewInstallHandler(pageSvc, store, nil),
	})
	if err != nil {
		t.Fatalf("service: %v", err)
	}

	h := &harness{pages: pageSvc, settings: store, flash: &flashBag{}, viewer: viewer{admin: true, staff: true, logged: true}}
	api := legalhttp.NewAPI(svc,
		legalhttp.WithSession(func(r *http.Request) admin.Session {
			return admin.Session{Viewer: h.viewer, Flash: h.flash, Lang: "en_US"}
		}),
		legalhttp.WithRetain(func(_ http.ResponseWriter, _ *http.Request, form map[string]string) {
			h.retained = form
		}),
	)
	handler, err := api.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	h.handler = handler
	return h
}

func (h *harness) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func (h *harness) enable(t *testing.T, key settings.Key) {
	t.Helper()
	if err := h.settings.Set(string(key), "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := h.settings.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestViewPageRedirectsWhenDisabled(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/privacy-policy", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/page-not-found" {
		t.Fatalf("unexpected location %q", loc)
	}
	if rec.Header().Get(legalhttp.RequestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestViewPageRedirectsToExternalURL(t *testing.T) {
	h := newHarness(t)
	h.enable(t, settings.KeyEnableTermsOfService)
	if err := h.pages.Store(context.Background(), pages.NameTermsOfService, "en_US", "", "https://example.org/terms"); err != nil {
		t.Fatalf("store: %v", err)
	}

	rec := h.do(t, http.MethodGet, "/terms-of-service", nil)
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://example.org/terms" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestViewPageRenders(t *testing.T) {
	h := newHarness(t)
	h.enable(t, settings.KeyEnableLegalInformation)
	if err := h.pages.Store(context.Background(), pages.NameLegalInformation, "en_US", "<p>Call {ASSO_PHONE_LINK}</p>", ""); err != nil {
		t.Fatalf("store: %v", err)
	}

	rec := h.do(t, http.MethodGet, "/legal-information", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result resolution.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Name != pages.NameLegalInformation || !result.Translated {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestListPagesRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/plugins/legalnotices/pages/fr_FR/terms-of-service", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view admin.PagesView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.CurrentLang != "fr_FR" || view.CurrentName != pages.NameTermsOfService {
		t.Fatalf("unexpected view %+v", view)
	}

	rec = h.do(t, http.MethodGet, "/plugins/legalnotices/pages/en_US/cookies", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown page, got %d", rec.Code)
	}

	h.viewer = viewer{logged: true}
	rec = h.do(t, http.MethodGet, "/plugins/legalnotices/pages", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for members, got %d", rec.Code)
	}
}

func TestChangeAndEditPage(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/plugins/legalnotices/pages/change", url.Values{
		"sel_lang": {"fr_FR"},
		"sel_page": {"privacy-policy"},
	})
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://notices.test/plugins/legalnotices/pages/fr_FR/privacy-policy" {
		t.Fatalf("unexpected location %q", loc)
	}

	rec = h.do(t, http.MethodPost, "/plugins/legalnotices/pages", url.Values{
		"cur_name":     {"privacy-policy"},
		"cur_lang":     {"fr_FR"},
		"page_body":    {"<p>Nouveau</p>"},
		"external_url": {""},
	})
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if len(h.flash.kinds) != 1 || h.flash.kinds[0] != "success_detected" {
		t.Fatalf("unexpected flash %v", h.flash.kinds)
	}
	page, err := h.pages.Get(context.Background(), pages.NamePrivacyPolicy, "fr_FR")
	if err != nil || page.Body != "<p>Nouveau</p>" {
		t.Fatalf("expected stored body, got %+v, %v", page, err)
	}
}

func TestSettingsRoutes(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, http.MethodGet, "/plugins/legalnotices/settings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = h.do(t, http.MethodPost, "/plugins/legalnotices/settings", url.Values{
		"enable_cmp":        {"1"},
		"cookie_expiration": {"45"},
	})
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if got := h.settings.Typed().CookieExpiration; got != 45 {
		t.Fatalf("expected cookie_expiration 45, got %d", got)
	}

	rec = h.do(t, http.MethodPost, "/plugins/legalnotices/settings", url.Values{
		"cookie_expiration": {"soon"},
	})
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if h.retained["cookie_expiration"] != "soon" {
		t.Fatalf("expected form retained, got %v", h.retained)
	}

	h.viewer = viewer{staff: true, logged: true}
	rec = h.do(t, http.MethodGet, "/plugins/legalnotices/settings", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff, got %d", rec.Code)
	}
}
