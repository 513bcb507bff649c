package navigation

import (
	"testing"

	"github.com/goliatone/go-legalnotices/internal/i18n"
	"github.com/goliatone/go-legalnotices/internal/settings"
)

func newURLs(t *testing.T) *URLs {
	t.Helper()
	urls, err := NewURLs(Config{BaseURL: "https://example.com", AdminPrefix: "/plugins/legalnotices"})
	if err != nil {
		t.Fatalf("new urls: %v", err)
	}
	return urls
}

func TestURLsBuildRoutes(t *testing.T) {
	urls := newURLs(t)

	cases := []struct {
		name  string
		build func() (string, error)
		want  string
	}{
		{"settings", urls.Settings, "https://example.com/plugins/legalnotices/settings"},
		{"pages index", urls.PagesIndex, "https://example.com/plugins/legalnotices/pages"},
		{"pages", func() (string, error) { return urls.Pages("fr_FR", "privacy-policy") }, "https://example.com/plugins/legalnotices/pages/fr_FR/privacy-policy"},
		{"change", urls.PageChange, "https://example.com/plugins/legalnotices/pages/change"},
		{"public page", func() (string, error) { return urls.Page("terms-of-service") }, "https://example.com/terms-of-service"},
		{"not found", urls.NotFound, "https://example.com/page-not-found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNewURLsRequiresBaseURL(t *testing.T) {
	if _, err := NewURLs(Config{}); err != ErrBaseURLRequired {
		t.Fatalf("expected ErrBaseURLRequired, got %v", err)
	}
}

type viewer struct{ admin, staff bool }

func (v viewer) IsAdmin() bool  { return v.admin }
func (v viewer) IsStaff() bool  { return v.staff }
func (v viewer) IsLogged() bool { return v.admin || v.staff }

type snapshot settings.Settings

func (s snapshot) Typed() settings.Settings { return settings.Settings(s) }

func newMenus(t *testing.T) *Menus {
	t.Helper()
	fx, err := i18n.DefaultFixture()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return NewMenus(newURLs(t), i18n.NewCatalog(fx, "en_US", []string{"en_US", "fr_FR"}))
}

func TestAdminMenu(t *testing.T) {
	menus := newMenus(t)

	menu, err := menus.Admin(viewer{admin: true}, "fr_FR")
	if err != nil {
		t.Fatalf("admin menu: %v", err)
	}
	if menu == nil || len(menu.Items) != 2 {
		t.Fatalf("expected two admin items, got %+v", menu)
	}
	if menu.Items[0].Route != RouteSettings || menu.Items[0].Label != "Paramètres" {
		t.Fatalf("unexpected settings item %+v", menu.Items[0])
	}

	menu, err = menus.Admin(viewer{staff: true}, "en_US")
	if err != nil {
		t.Fatalf("staff menu: %v", err)
	}
	if len(menu.Items) != 1 || menu.Items[0].Route != RoutePagesIndex {
		t.Fatalf("expected staff to see only pages, got %+v", menu.Items)
	}

	menu, err = menus.Admin(viewer{}, "en_US")
	if err != nil || menu != nil {
		t.Fatalf("expected no menu for members, got %+v, %v", menu, err)
	}
}

func TestPublicMenu(t *testing.T) {
	menus := newMenus(t)

	cases := []struct {
		name     string
		settings settings.Settings
		wantTop  int
		grouped  bool
	}{
		{"links disabled", settings.Settings{EnableTermsOfService: true, EnablePrivacyPolicy: true}, 0, false},
		{"single page", settings.Settings{PublicPageLinks: true, EnablePrivacyPolicy: true}, 1, false},
		{"grouped", settings.Settings{PublicPageLinks: true, EnableTermsOfService: true, EnablePrivacyPolicy: true}, 1, true},
		{"nothing enabled", settings.Settings{PublicPageLinks: true}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, err := menus.Public(snapshot(tc.settings), "en_US")
			if err != nil {
				t.Fatalf("public menu: %v", err)
			}
			if len(items) != tc.wantTop {
				t.Fatalf("expected %d items, got %+v", tc.wantTop, items)
			}
			if tc.grouped {
				if len(items[0].Children) != 2 || items[0].Label != "Legal Notices" {
					t.Fatalf("expected grouped heading, got %+v", items[0])
				}
				if items[0].Children[0].URL != "https://example.com/terms-of-service" {
					t.Fatalf("unexpected child url %q", items[0].Children[0].URL)
				}
			}
		})
	}

	items, err := menus.Public(snapshot(settings.Settings{PublicPageLinks: true, EnablePrivacyPolicy: true}), "en_US")
	if err != nil {
		t.Fatalf("public menu: %v", err)
	}
	if items[0].Label != "Privacy Policy" || items[0].Icon != "lock" {
		t.Fatalf("unexpected single item %+v", items[0])
	}
}
