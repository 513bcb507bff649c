package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-legalnotices/internal/admin"
	pagescmd "github.com/goliatone/go-legalnotices/internal/commands/pages"
	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/navigation"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/internal/resolution"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Notices is the operation set the adapter exposes over HTTP.
type Notices interface {
	ListPages(ctx context.Context, session admin.Session, lang, name string) (*admin.PagesView, error)
	ChangePage(ctx context.Context, session admin.Session, lang, name string) (string, error)
	EditPage(ctx context.Context, session admin.Session, cmd pagescmd.EditPageCommand) (string, error)
	ViewPage(ctx context.Context, session admin.Session, name string) (*resolution.Result, error)
	Settings(ctx context.Context, session admin.Session) (*admin.SettingsView, error)
	StoreSettings(ctx context.Context, session admin.Session, form map[string]string) (*admin.StoreResult, error)
}

// SessionFunc extracts the caller of a request.
type SessionFunc func(r *http.Request) admin.Session

// RetainFunc keeps a submitted settings form so the next settings view can
// show it again.
type RetainFunc func(w http.ResponseWriter, r *http.Request, form map[string]string)

// API registers the legal notices endpoints.
type API struct {
	basePath string
	notices  Notices
	session  SessionFunc
	retain   RetainFunc
	logger   interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(notices Notices, opts ...Option) *API {
	api := &API{
		basePath: navigation.DefaultAdminPrefix,
		notices:  notices,
		session:  func(*http.Request) admin.Session { return admin.Session{} },
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the back office prefix.
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithSession wires the host session extractor.
func WithSession(fn SessionFunc) Option {
	return func(api *API) {
		if fn != nil {
			api.session = fn
		}
	}
}

// WithRetain wires the hook keeping a failed settings form.
func WithRetain(fn RetainFunc) Option {
	return func(api *API) {
		api.retain = fn
	}
}

// WithLogger overrides the adapter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil || api.notices == nil {
		return fmt.Errorf("http: notices service is nil")
	}

	base := joinPath(api.basePath, "")
	mux.HandleFunc("GET "+joinPath(base, "settings"), api.handleSettings)
	mux.HandleFunc("POST "+joinPath(base, "settings"), api.handleStoreSettings)
	mux.HandleFunc("GET "+joinPath(base, "pages"), api.handleListPages)
	mux.HandleFunc("GET "+joinPath(base, "pages/{lang}/{name}"), api.handleListPages)
	mux.HandleFunc("POST "+joinPath(base, "pages/change"), api.handleChangePage)
	mux.HandleFunc("POST "+joinPath(base, "pages"), api.handleEditPage)

	for _, name := range pages.Names() {
		mux.HandleFunc("GET "+joinPath("", name), api.handleViewPage(name))
	}
	return nil
}

// Handler returns a mux with the endpoints behind the request id middleware.
func (api *API) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return RequestID(api.logger)(mux), nil
}
