package navigation

import (
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/internal/settings"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// AdminMenuName identifies the back office menu section.
const AdminMenuName = "plugin_legalnotices"

// Item is one menu entry. Items with children are headings.
type Item struct {
	Label    string `json:"label"`
	Route    string `json:"route,omitempty"`
	URL      string `json:"url,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Children []Item `json:"children,omitempty"`
}

// Menu is a titled group of items.
type Menu struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
	Items []Item `json:"items"`
}

// SettingsSnapshot exposes the typed settings the public menu reads.
type SettingsSnapshot interface {
	Typed() settings.Settings
}

var pageIcons = map[string]string{
	pages.NameLegalInformation: "balance scale left",
	pages.NameTermsOfService:   "handshake outline",
	pages.NamePrivacyPolicy:    "lock",
}

// Menus builds the back office and public menus.
type Menus struct {
	urls      *URLs
	localizer interfaces.Localizer
}

// NewMenus constructs a menu builder.
func NewMenus(urls *URLs, localizer interfaces.Localizer) *Menus {
	return &Menus{urls: urls, localizer: localizer}
}

// Admin returns the back office menu for viewer. Only staff members and
// administrators get one; the settings entry is reserved to administrators.
func (m *Menus) Admin(viewer interfaces.Viewer, lang string) (*Menu, error) {
	if viewer == nil || !(viewer.IsAdmin() || viewer.IsStaff()) {
		return nil, nil
	}

	var items []Item
	if viewer.IsAdmin() {
		url, err := m.urls.Settings()
		if err != nil {
			return nil, err
		}
		items = append(items, Item{Label: m.translate(lang, "Settings"), Route: RouteSettings, URL: url})
	}
	url, err := m.urls.PagesIndex()
	if err != nil {
		return nil, err
	}
	items = append(items, Item{Label: m.translate(lang, "Pages content"), Route: RoutePagesIndex, URL: url})

	return &Menu{
		Name:  AdminMenuName,
		Title: m.translate(lang, "Legal Notices"),
		Icon:  "balance scale",
		Items: items,
	}, nil
}

// Public returns the public menu items for the enabled pages. Nothing is
// listed unless publicpage_links is set; more than one page is grouped under
// a single heading.
func (m *Menus) Public(source SettingsSnapshot, lang string) ([]Item, error) {
	snapshot := source.Typed()
	enabled := map[string]bool{
		pages.NameLegalInformation: snapshot.EnableLegalInformation,
		pages.NameTermsOfService:   snapshot.EnableTermsOfService,
		pages.NamePrivacyPolicy:    snapshot.EnablePrivacyPolicy,
	}

	var children []Item
	for _, name := range pages.Names() {
		if !enabled[name] {
			continue
		}
		url, err := m.urls.Page(name)
		if err != nil {
			return nil, err
		}
		key, _ := pages.LabelKey(name)
		children = append(children, Item{
			Label: m.translate(lang, key),
			Route: RoutePage,
			URL:   url,
			Icon:  pageIcons[name],
		})
	}

	if !snapshot.PublicPageLinks {
		return nil, nil
	}
	if len(children) > 1 {
		return []Item{{
			Label:    m.translate(lang, "Legal Notices"),
			Icon:     "balance scale",
			Children: children,
		}}, nil
	}
	return children, nil
}

func (m *Menus) translate(lang, key string) string {
	if m.localizer == nil {
		return key
	}
	return m.localizer.Translate(lang, key)
}
