package legalnotices

import (
	"context"
	"net/http"

	"github.com/goliatone/go-legalnotices/commands"
	"github.com/goliatone/go-legalnotices/internal/admin"
	pagescmd "github.com/goliatone/go-legalnotices/internal/commands/pages"
	"github.com/goliatone/go-legalnotices/internal/di"
	"github.com/goliatone/go-legalnotices/internal/navigation"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/internal/resolution"
	"github.com/goliatone/go-legalnotices/internal/settings"
)

// Session carries the caller of one operation.
type Session = admin.Session

// PagesView is the page editor screen.
type PagesView = admin.PagesView

// SettingsView is the settings screen.
type SettingsView = admin.SettingsView

// StoreResult tells the caller where to go after a settings submission.
type StoreResult = admin.StoreResult

// PageResult is what a visitor gets for a public page.
type PageResult = resolution.Result

// Settings is the typed settings snapshot.
type Settings = settings.Settings

// Menu and MenuItem describe the admin and public menu entries.
type (
	Menu     = navigation.Menu
	MenuItem = navigation.Item
)

// Page names.
const (
	PageLegalInformation = pages.NameLegalInformation
	PageTermsOfService   = pages.NameTermsOfService
	PagePrivacyPolicy    = pages.NamePrivacyPolicy
)

// Module represents the top level legal notices runtime facade.
type Module struct {
	container *di.Container
}

// New constructs the module using the provided configuration and optional DI
// overrides. Storage is opened and migrated but not seeded; call Install.
func New(ctx context.Context, cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	return m.container.Close()
}

// Install seeds the default pages and settings. Without force existing rows
// are kept and only missing ones are added; force resets both tables.
func (m *Module) Install(ctx context.Context, force bool) error {
	return m.container.AdminService().Install(ctx, force)
}

// Load reads both stores into memory.
func (m *Module) Load(ctx context.Context) error {
	return m.container.Load(ctx)
}

// ListPages prepares the page editor. Empty values select the default
// language and page.
func (m *Module) ListPages(ctx context.Context, session Session, lang, name string) (*PagesView, error) {
	return m.container.AdminService().ListPages(ctx, session, lang, name)
}

// ChangePage returns the editor URL for another language or page.
func (m *Module) ChangePage(ctx context.Context, session Session, lang, name string) (string, error) {
	return m.container.AdminService().ChangePage(ctx, session, lang, name)
}

// EditPage stores a page translation and returns the editor URL to go back to.
func (m *Module) EditPage(ctx context.Context, session Session, name, lang, body, url string) (string, error) {
	return m.container.AdminService().EditPage(ctx, session, pagescmd.EditPageCommand{
		Name: name,
		Lang: lang,
		Body: body,
		URL:  url,
	})
}

// ViewPage resolves what a visitor sees for the named page.
func (m *Module) ViewPage(ctx context.Context, session Session, name string) (*PageResult, error) {
	return m.container.AdminService().ViewPage(ctx, session, name)
}

// Settings prepares the settings screen.
func (m *Module) Settings(ctx context.Context, session Session) (*SettingsView, error) {
	return m.container.AdminService().Settings(ctx, session)
}

// GetSettings returns the typed settings snapshot.
func (m *Module) GetSettings() Settings {
	return m.container.SettingsStore().Typed()
}

// StoreSettings applies a submitted settings form.
func (m *Module) StoreSettings(ctx context.Context, session Session, form map[string]string) (*StoreResult, error) {
	return m.container.AdminService().StoreSettings(ctx, session, form)
}

// AdminMenu returns the back office menu for the session viewer, or nil.
func (m *Module) AdminMenu(session Session) (*Menu, error) {
	return m.container.AdminService().AdminMenu(session)
}

// PublicMenu returns the public menu items for the enabled pages.
func (m *Module) PublicMenu(session Session) ([]MenuItem, error) {
	return m.container.AdminService().PublicMenu(session)
}

// Handler returns the HTTP handler serving every legal notices route.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.Handler()
}

// RegisterCommands registers the module's command handlers with a host
// registry or dispatcher.
func (m *Module) RegisterCommands(opts commands.RegistrationOptions) (*commands.RegistrationResult, error) {
	return commands.RegisterContainerCommands(m.container, opts)
}
