package di

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-legalnotices/internal/adapters/noop"
	"github.com/goliatone/go-legalnotices/internal/adapters/storage"
	"github.com/goliatone/go-legalnotices/internal/admin"
	"github.com/goliatone/go-legalnotices/internal/commands"
	installcmd "github.com/goliatone/go-legalnotices/internal/commands/install"
	pagescmd "github.com/goliatone/go-legalnotices/internal/commands/pages"
	settingscmd "github.com/goliatone/go-legalnotices/internal/commands/settings"
	legalhttp "github.com/goliatone/go-legalnotices/internal/http"
	"github.com/goliatone/go-legalnotices/internal/i18n"
	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/logging/console"
	"github.com/goliatone/go-legalnotices/internal/logging/gologger"
	"github.com/goliatone/go-legalnotices/internal/navigation"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/internal/replacements"
	"github.com/goliatone/go-legalnotices/internal/resolution"
	"github.com/goliatone/go-legalnotices/internal/runtimeconfig"
	"github.com/goliatone/go-legalnotices/internal/settings"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Container wires module dependencies.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	localizer      interfaces.Localizer
	organization   interfaces.OrganizationProvider
	replacements   replacements.Provider

	bunDB       *bun.DB
	ownsDB      bool
	memoryStore bool

	pageRepo     pages.Repository
	settingsRepo settings.Repository

	pageSvc       pages.Service
	settingsStore *settings.Store
	resolver      *resolution.Service
	urls          *navigation.URLs
	menus         *navigation.Menus

	editPage      *pagescmd.EditPageHandler
	storeSettings *settingscmd.StoreSettingsHandler
	install       *installcmd.InstallHandler

	adminSvc *admin.Service
	httpOpts []legalhttp.Option
	api      *legalhttp.API
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLogWriter directs the console logging provider to w.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithBunDB stores pages and settings through db. The caller keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithMemoryStorage keeps pages and settings in process memory.
func WithMemoryStorage() Option {
	return func(c *Container) {
		c.memoryStore = true
	}
}

// WithPageRepository overrides the page repository.
func WithPageRepository(repo pages.Repository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithSettingsRepository overrides the settings repository.
func WithSettingsRepository(repo settings.Repository) Option {
	return func(c *Container) {
		c.settingsRepo = repo
	}
}

// WithLocalizer overrides the catalog built from the embedded fixture.
func WithLocalizer(localizer interfaces.Localizer) Option {
	return func(c *Container) {
		c.localizer = localizer
	}
}

// WithOrganizationProvider overrides the static organization profile.
func WithOrganizationProvider(provider interfaces.OrganizationProvider) Option {
	return func(c *Container) {
		c.organization = provider
	}
}

// WithReplacements overrides the base replacement provider that the page
// markers are layered on.
func WithReplacements(provider replacements.Provider) Option {
	return func(c *Container) {
		c.replacements = provider
	}
}

// WithHTTPOptions forwards options to the HTTP adapter.
func WithHTTPOptions(opts ...legalhttp.Option) Option {
	return func(c *Container) {
		c.httpOpts = append(c.httpOpts, opts...)
	}
}

// NewContainer validates cfg and builds every service. Storage is opened and
// migrated here unless a repository or memory storage was supplied.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureLocalizer(ctx); err != nil {
		return nil, err
	}
	if err := c.configureRepositories(ctx); err != nil {
		return nil, err
	}
	if err := c.configureNavigation(); err != nil {
		c.closeOwned()
		return nil, err
	}
	c.configureServices()
	c.configureCommands()
	if err := c.configureAdmin(); err != nil {
		c.closeOwned()
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{
			Writer: c.logWriter,
			JSON:   strings.EqualFold(strings.TrimSpace(logCfg.Format), "json"),
		}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureLocalizer(ctx context.Context) error {
	if c.localizer != nil {
		return nil
	}
	var (
		fx  *i18n.Fixture
		err error
	)
	if path := strings.TrimSpace(c.Config.CatalogPath); path != "" {
		fx, err = i18n.NewLoader(path).Load(ctx)
	} else {
		fx, err = i18n.DefaultFixture()
	}
	if err != nil {
		return err
	}
	c.localizer = i18n.NewCatalog(fx, c.Config.DefaultLanguage, c.Config.Languages)
	return nil
}

func (c *Container) configureRepositories(ctx context.Context) error {
	if c.pageRepo != nil && c.settingsRepo != nil {
		return nil
	}
	if c.memoryStore {
		if c.pageRepo == nil {
			c.pageRepo = pages.NewMemoryRepository()
		}
		if c.settingsRepo == nil {
			c.settingsRepo = settings.NewMemoryRepository()
		}
		return nil
	}

	if c.bunDB == nil {
		db, err := storage.Open(ctx, c.Config.Storage, logging.RootLogger(c.loggerProvider))
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	pageRepo := pages.NewBunRepository(c.bunDB, c.Config.TablePrefix)
	settingsRepo := settings.NewBunRepository(c.bunDB, c.Config.TablePrefix)
	if err := storage.Migrate(ctx, pageRepo, settingsRepo); err != nil {
		c.closeOwned()
		return fmt.Errorf("di: migrate: %w", err)
	}
	if c.pageRepo == nil {
		c.pageRepo = pageRepo
	}
	if c.settingsRepo == nil {
		c.settingsRepo = settingsRepo
	}
	return nil
}

func (c *Container) configureNavigation() error {
	urls, err := navigation.NewURLs(c.Config.Routes)
	if err != nil {
		return err
	}
	c.urls = urls
	c.menus = navigation.NewMenus(urls, c.localizer)
	return nil
}

func (c *Container) configureServices() {
	if c.organization == nil {
		c.organization = noop.Organization(c.Config.Organization)
	}

	c.pageSvc = pages.NewService(
		c.pageRepo,
		c.localizer,
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
		pages.WithReplacements(replacements.NewPagesProvider(c.replacements, c.organization)),
	)
	c.settingsStore = settings.NewStore(
		c.settingsRepo,
		settings.WithLogger(logging.SettingsLogger(c.loggerProvider)),
	)

	resolverOpts := []resolution.Option{
		resolution.WithLogger(logging.ResolutionLogger(c.loggerProvider)),
		resolution.WithDefaultLanguage(c.localizer.DefaultLanguage()),
	}
	if notFound, err := c.urls.NotFound(); err == nil {
		resolverOpts = append(resolverOpts, resolution.WithNotFoundURL(notFound))
	}
	c.resolver = resolution.NewService(c.pageSvc, c.settingsStore, resolverOpts...)
}

func (c *Container) configureCommands() {
	c.editPage = pagescmd.NewEditPageHandler(c.pageSvc, commands.CommandLogger(c.loggerProvider, "pages"))
	c.storeSettings = settingscmd.NewStoreSettingsHandler(c.settingsStore, commands.CommandLogger(c.loggerProvider, "settings"))
	c.install = installcmd.NewInstallHandler(c.pageSvc, c.settingsStore, commands.CommandLogger(c.loggerProvider, "install"))
}

func (c *Container) configureAdmin() error {
	svc, err := admin.NewService(admin.Deps{
		Pages:         c.pageSvc,
		Settings:      c.settingsStore,
		Resolver:      c.resolver,
		URLs:          c.urls,
		Menus:         c.menus,
		Localizer:     c.localizer,
		EditPage:      c.editPage,
		StoreSettings: c.storeSettings,
		Install:       c.install,
		Logger:        logging.RootLogger(c.loggerProvider),
	})
	if err != nil {
		return err
	}
	c.adminSvc = svc

	httpOpts := []legalhttp.Option{
		legalhttp.WithBasePath(c.Config.Routes.AdminPrefix),
		legalhttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	c.api = legalhttp.NewAPI(svc, append(httpOpts, c.httpOpts...)...)
	return nil
}

// Load reads both stores into memory. Hosts call it once after Install.
func (c *Container) Load(ctx context.Context) error {
	if err := c.pageSvc.Load(ctx); err != nil {
		return err
	}
	return c.settingsStore.Load(ctx)
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if !c.ownsDB || c.bunDB == nil {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	c.ownsDB = false
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (c *Container) closeOwned() {
	if err := c.Close(); err != nil {
		logging.RootLogger(c.loggerProvider).Warn("di.close.failed", "error", err)
	}
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Localizer() interfaces.Localizer { return c.localizer }

func (c *Container) BunDB() *bun.DB { return c.bunDB }

func (c *Container) PageService() pages.Service { return c.pageSvc }

func (c *Container) SettingsStore() *settings.Store { return c.settingsStore }

func (c *Container) Resolver() *resolution.Service { return c.resolver }

func (c *Container) URLs() *navigation.URLs { return c.urls }

func (c *Container) Menus() *navigation.Menus { return c.menus }

func (c *Container) EditPageHandler() *pagescmd.EditPageHandler { return c.editPage }

func (c *Container) StoreSettingsHandler() *settingscmd.StoreSettingsHandler {
	return c.storeSettings
}

func (c *Container) InstallHandler() *installcmd.InstallHandler { return c.install }

func (c *Container) AdminService() *admin.Service { return c.adminSvc }

func (c *Container) API() *legalhttp.API { return c.api }

// Handler returns the HTTP handler serving every legal notices route.
func (c *Container) Handler() (http.Handler, error) { return c.api.Handler() }
