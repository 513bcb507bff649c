package resolution

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/pages"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// DefaultNotFoundURL is where disabled or unknown pages redirect.
const DefaultNotFoundURL = "/page-not-found"

// Outcome is the terminal state of a resolution.
type Outcome uint8

const (
	OutcomeRender Outcome = iota
	OutcomeRedirectExternal
	OutcomeRedirectNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRender:
		return "render"
	case OutcomeRedirectExternal:
		return "redirect_external"
	case OutcomeRedirectNotFound:
		return "redirect_not_found"
	default:
		return "unknown"
	}
}

var ErrNameRequired = errors.New("resolution: page name is required")

// Request describes a visitor asking for a page. Lang is the visitor's
// current language; an empty value means the default language.
type Request struct {
	Name   string
	Lang   string
	Viewer interfaces.Viewer
}

// Result is what the HTTP layer needs to answer the request.
type Result struct {
	Outcome     Outcome   `json:"outcome"`
	Name        string    `json:"name"`
	Lang        string    `json:"lang"`
	Label       string    `json:"label"`
	Body        string    `json:"body,omitempty"`
	LastUpdate  time.Time `json:"last_update"`
	Translated  bool      `json:"translated"`
	Public      bool      `json:"is_public"`
	RedirectURL string    `json:"redirect_url,omitempty"`
}

// PageSource is the part of the page service resolution needs.
type PageSource interface {
	Get(ctx context.Context, name, lang string) (*pages.Page, error)
	IsTranslated(id int64) bool
	Render(ctx context.Context, page *pages.Page) (string, error)
}

// SettingsSource is the part of the settings store resolution needs.
type SettingsSource interface {
	IsPageEnabled(name string) bool
	FallbackLanguage() string
}

// Option configures the Service.
type Option func(*Service)

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultLanguage sets the language used when a request carries none.
func WithDefaultLanguage(lang string) Option {
	return func(s *Service) {
		s.defaultLang = lang
	}
}

// WithNotFoundURL overrides the not-found redirect target.
func WithNotFoundURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.notFoundURL = url
		}
	}
}

// Service decides what a visitor sees for a legal page.
type Service struct {
	pages       PageSource
	settings    SettingsSource
	logger      interfaces.Logger
	defaultLang string
	notFoundURL string
}

// NewService constructs the resolution service.
func NewService(pageSource PageSource, settingsSource SettingsSource, opts ...Option) *Service {
	s := &Service{
		pages:       pageSource,
		settings:    settingsSource,
		logger:      logging.NoOp(),
		notFoundURL: DefaultNotFoundURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve fetches the page in the requested language, falls back to the
// configured fallback language when it is untranslated, and then gates on
// the enabled flag and the external URL, in that order.
func (s *Service) Resolve(ctx context.Context, req Request) (*Result, error) {
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	lang := req.Lang
	if lang == "" {
		lang = s.defaultLang
	}
	logger := logging.WithPageContext(s.logger, req.Name, lang)

	page, err := s.pages.Get(ctx, req.Name, lang)
	if pages.IsNotFound(err) {
		return s.notFound(req.Name, lang), nil
	}
	if err != nil {
		return nil, err
	}

	translated := true
	fallback := s.settings.FallbackLanguage()
	if !s.pages.IsTranslated(page.ID) && fallback != "" && page.Lang != fallback {
		translated = false
		logger.Debug("resolution.fallback", "fallback", fallback)
		page, err = s.pages.Get(ctx, req.Name, fallback)
		if pages.IsNotFound(err) {
			return s.notFound(req.Name, fallback), nil
		}
		if err != nil {
			return nil, err
		}
	}

	result := &Result{
		Name:       page.Name,
		Lang:       page.Lang,
		Label:      page.Label,
		LastUpdate: page.LastUpdate,
		Translated: translated,
		Public:     req.Viewer == nil || !req.Viewer.IsLogged(),
	}

	if !s.settings.IsPageEnabled(page.Name) {
		logger.Info("resolution.disabled")
		result.Outcome = OutcomeRedirectNotFound
		result.RedirectURL = s.notFoundURL
		return result, nil
	}

	if page.URL != "" {
		result.Outcome = OutcomeRedirectExternal
		result.RedirectURL = page.URL
		return result, nil
	}

	body, err := s.pages.Render(ctx, page)
	if err != nil {
		return nil, err
	}
	result.Outcome = OutcomeRender
	result.Body = body
	return result, nil
}

func (s *Service) notFound(name, lang string) *Result {
	return &Result{
		Outcome:     OutcomeRedirectNotFound,
		Name:        name,
		Lang:        lang,
		RedirectURL: s.notFoundURL,
	}
}
