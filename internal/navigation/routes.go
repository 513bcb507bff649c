package navigation

import (
	"errors"
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	groupRoot  = "legalnotices"
	groupAdmin = "admin"
)

// Route names, matching the route names registered by the HTTP adapter.
const (
	RouteSettings   = "legalnotices_settings"
	RoutePagesIndex = "legalnotices_pages_index"
	RoutePages      = "legalnotices_pages"
	RoutePageChange = "legalnotices_page_change"
	RoutePageEdit   = "legalnotices_page_edit"
	RoutePage       = "legalnotices_page"
	RouteNotFound   = "legalnotices_not_found"
)

const (
	DefaultBaseURL     = "http://localhost:8080"
	DefaultAdminPrefix = "/plugins/legalnotices"
	DefaultNotFound    = "/page-not-found"
)

var ErrBaseURLRequired = errors.New("navigation: base url is required")

// Config describes where the legal notice routes are mounted.
type Config struct {
	BaseURL      string `json:"base_url" yaml:"base_url"`
	AdminPrefix  string `json:"admin_prefix" yaml:"admin_prefix"`
	NotFoundPath string `json:"not_found_path" yaml:"not_found_path"`
}

// DefaultConfig returns the routes used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:      DefaultBaseURL,
		AdminPrefix:  DefaultAdminPrefix,
		NotFoundPath: DefaultNotFound,
	}
}

// RouteConfig returns the urlkit configuration for cfg: one root group for
// the public pages with a nested group holding the back office routes.
func (cfg Config) RouteConfig() *urlkit.Config {
	return &urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    groupRoot,
				BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
				Paths: map[string]string{
					RoutePage:     "/:name",
					RouteNotFound: cfg.NotFoundPath,
				},
				Groups: []urlkit.GroupConfig{
					{
						Name: groupAdmin,
						Path: cfg.AdminPrefix,
						Paths: map[string]string{
							RouteSettings:   "/settings",
							RoutePagesIndex: "/pages",
							RoutePages:      "/pages/:lang/:name",
							RoutePageChange: "/pages/change",
							RoutePageEdit:   "/pages",
						},
					},
				},
			},
		},
	}
}

// URLs builds absolute links for every route.
type URLs struct {
	manager *urlkit.RouteManager
	cfg     Config
}

// NewURLs validates cfg and builds the route manager.
func NewURLs(cfg Config) (*URLs, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	if cfg.AdminPrefix == "" {
		cfg.AdminPrefix = DefaultAdminPrefix
	}
	if cfg.NotFoundPath == "" {
		cfg.NotFoundPath = DefaultNotFound
	}
	return &URLs{manager: urlkit.NewRouteManager(cfg.RouteConfig()), cfg: cfg}, nil
}

// Config returns the effective configuration.
func (u *URLs) Config() Config {
	return u.cfg
}

// Settings links the settings screen.
func (u *URLs) Settings() (string, error) {
	return u.build(groupAdmin, RouteSettings, nil)
}

// PagesIndex links the page editor with its default selection.
func (u *URLs) PagesIndex() (string, error) {
	return u.build(groupAdmin, RoutePagesIndex, nil)
}

// Pages links the editor for one page translation.
func (u *URLs) Pages(lang, name string) (string, error) {
	return u.build(groupAdmin, RoutePages, map[string]any{"lang": lang, "name": name})
}

// PageChange links the editor selection form target.
func (u *URLs) PageChange() (string, error) {
	return u.build(groupAdmin, RoutePageChange, nil)
}

// PageEdit links the editor save form target.
func (u *URLs) PageEdit() (string, error) {
	return u.build(groupAdmin, RoutePageEdit, nil)
}

// Page links the public view of a page.
func (u *URLs) Page(name string) (string, error) {
	return u.build("", RoutePage, map[string]any{"name": name})
}

// NotFound links the host's not found page.
func (u *URLs) NotFound() (string, error) {
	return u.build("", RouteNotFound, nil)
}

// Route builds the URL for a route name, looking in the admin group first.
func (u *URLs) Route(name string, params map[string]any) (string, error) {
	switch name {
	case RoutePage, RouteNotFound:
		return u.build("", name, params)
	default:
		return u.build(groupAdmin, name, params)
	}
}

func (u *URLs) build(child, route string, params map[string]any) (url string, err error) {
	if u == nil || u.manager == nil {
		return "", errors.New("navigation: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			url, err = "", fmt.Errorf("navigation: route %q: %v", route, rec)
		}
	}()

	group := u.manager.Group(groupRoot)
	if child != "" {
		group = group.Group(child)
	}
	builder := group.Builder(route)
	for key, value := range params {
		builder.WithParam(key, value)
	}
	return builder.Build()
}
