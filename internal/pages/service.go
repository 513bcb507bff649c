package pages

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/internal/replacements"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Service exposes the legal page use-cases.
type Service interface {
	SeedDefaults(languages []string) []*Page
	Defaults() []*Page
	Reconcile(ctx context.Context) (bool, error)
	InstallReset(ctx context.Context, force bool) (bool, error)
	Load(ctx context.Context) error
	Get(ctx context.Context, name, lang string) (*Page, error)
	Store(ctx context.Context, name, lang, body, url string) error
	ListNames(ctx context.Context, lang string) ([]NameLabel, error)
	Render(ctx context.Context, page *Page) (string, error)
	Legend() replacements.Legend
	IsTranslated(id int64) bool
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp last_update.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger overrides the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReplacements sets the provider used to render bodies and build the
// editor legend.
func WithReplacements(provider replacements.Provider) ServiceOption {
	return func(s *service) {
		if provider != nil {
			s.provider = provider
		}
	}
}

type service struct {
	pages     Repository
	localizer interfaces.Localizer
	provider  replacements.Provider
	now       func() time.Time
	logger    interfaces.Logger

	mu         sync.RWMutex
	translated map[int64]struct{}
}

// NewService constructs the page service.
func NewService(repo Repository, localizer interfaces.Localizer, opts ...ServiceOption) Service {
	s := &service{
		pages:      repo,
		localizer:  localizer,
		now:        time.Now,
		logger:     logging.NoOp(),
		translated: map[int64]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.provider == nil {
		s.provider = replacements.NewPagesProvider(nil, nil)
	}
	return s
}

// SeedDefaults produces the canonical pages for each language with an empty
// body and url and a label localized for that language.
func (s *service) SeedDefaults(languages []string) []*Page {
	now := s.now()
	out := make([]*Page, 0, len(languages)*len(pageLabels))
	for _, lang := range languages {
		for _, entry := range pageLabels {
			out = append(out, &Page{
				Name:       entry.name,
				Lang:       lang,
				Label:      s.translate(lang, entry.label),
				LastUpdate: now,
			})
		}
	}
	return out
}

// Defaults seeds every language known to the catalog.
func (s *service) Defaults() []*Page {
	return s.SeedDefaults(s.languageIDs())
}

// Reconcile inserts the default rows missing from storage.
func (s *service) Reconcile(ctx context.Context) (bool, error) {
	if s.pages == nil {
		return false, ErrRepositoryRequired
	}
	existing, err := s.pages.List(ctx)
	if err != nil {
		s.logger.Warn("pages.reconcile.list_failed", "error", err)
		return false, err
	}
	present := make(map[string]struct{}, len(existing))
	for _, record := range existing {
		present[pageKey(record.Name, record.Lang)] = struct{}{}
	}

	var missing []*Page
	for _, record := range s.Defaults() {
		if _, ok := present[pageKey(record.Name, record.Lang)]; !ok {
			missing = append(missing, record)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}
	if err := s.pages.Insert(ctx, missing...); err != nil {
		s.logger.Warn("pages.reconcile.insert_failed", "error", err, "missing", len(missing))
		return false, err
	}
	s.logger.Info("pages.reconcile.inserted", "count", len(missing))
	return true, nil
}

// InstallReset reconciles when storage already holds at least the default
// count and force is false. Otherwise it purges and reseeds with ids 1..n.
func (s *service) InstallReset(ctx context.Context, force bool) (bool, error) {
	if s.pages == nil {
		return false, ErrRepositoryRequired
	}
	defaults := s.Defaults()
	if !force {
		count, err := s.pages.Count(ctx)
		if err != nil {
			s.logger.Warn("pages.install.count_failed", "error", err)
			return false, err
		}
		if count >= len(defaults) {
			return s.Reconcile(ctx)
		}
	}

	if err := s.pages.Purge(ctx); err != nil {
		s.logger.Warn("pages.install.purge_failed", "error", err)
		return false, err
	}
	for i, record := range defaults {
		record.ID = int64(i + 1)
	}
	if err := s.pages.Insert(ctx, defaults...); err != nil {
		s.logger.Warn("pages.install.insert_failed", "error", err)
		return false, err
	}
	if err := s.pages.ResetSequence(ctx, int64(len(defaults))); err != nil {
		s.logger.Warn("pages.install.sequence_failed", "error", err)
		return false, err
	}

	s.mu.Lock()
	s.translated = map[int64]struct{}{}
	s.mu.Unlock()

	s.logger.Info("pages.install.seeded", "count", len(defaults), "forced", force)
	return true, nil
}

// Load reconciles storage and recomputes the translated page set.
func (s *service) Load(ctx context.Context) error {
	if _, err := s.Reconcile(ctx); err != nil {
		return err
	}
	records, err := s.pages.List(ctx)
	if err != nil {
		s.logger.Warn("pages.translated.list_failed", "error", err)
		return err
	}
	translated := make(map[int64]struct{}, len(records))
	for _, record := range records {
		if record.HasContent() {
			translated[record.ID] = struct{}{}
		}
	}
	s.mu.Lock()
	s.translated = translated
	s.mu.Unlock()
	return nil
}

// Get returns the page for name and lang. Unknown languages fall back to the
// catalog default. A missing canonical row is inserted from its default and
// read back.
func (s *service) Get(ctx context.Context, name, lang string) (*Page, error) {
	if s.pages == nil {
		return nil, ErrRepositoryRequired
	}
	if !s.isKnownLanguage(lang) {
		fallback := s.defaultLanguage()
		s.logger.Warn("pages.get.unknown_language", "lang", lang, "fallback", fallback)
		lang = fallback
	}
	logger := logging.WithPageContext(s.logger, name, lang)

	record, err := s.pages.FindByNameLang(ctx, name, lang)
	if err == nil {
		return record, nil
	}
	if !IsNotFound(err) {
		logger.Warn("pages.get.failed", "error", err)
		return nil, err
	}

	if !IsKnownName(name) {
		logger.Warn("pages.get.unknown_page")
		return nil, &NotFoundError{Name: name, Lang: lang}
	}

	defaults := s.SeedDefaults([]string{lang})
	var missing *Page
	for _, candidate := range defaults {
		if candidate.Name == name {
			missing = candidate
			break
		}
	}
	if err := s.pages.Insert(ctx, missing); err != nil {
		// A concurrent request may have inserted the same row first.
		if existing, findErr := s.pages.FindByNameLang(ctx, name, lang); findErr == nil {
			logger.Debug("pages.get.inserted_concurrently", "error", err)
			return existing, nil
		}
		logger.Warn("pages.get.insert_failed", "error", err)
		return nil, err
	}
	logger.Info("pages.get.inserted_default")

	record, err = s.pages.FindByNameLang(ctx, name, lang)
	if err != nil {
		logger.Warn("pages.get.reread_failed", "error", err)
		return nil, err
	}
	return record, nil
}

// Store updates body and url of an existing page. Placeholder markup left by
// an empty editor is stored as an empty body.
func (s *service) Store(ctx context.Context, name, lang, body, url string) error {
	if s.pages == nil {
		return ErrRepositoryRequired
	}
	logger := logging.WithPageContext(s.logger, name, lang)
	body = NormalizeBody(body)

	affected, err := s.pages.UpdateContent(ctx, name, lang, body, url, s.now())
	if err != nil {
		logger.Error("pages.store.failed", "error", err)
		return err
	}
	if affected == 0 {
		logger.Warn("pages.store.no_effect")
		return ErrNoEffect
	}

	if record, err := s.pages.FindByNameLang(ctx, name, lang); err == nil {
		s.mu.Lock()
		if record.HasContent() {
			s.translated[record.ID] = struct{}{}
		} else {
			delete(s.translated, record.ID)
		}
		s.mu.Unlock()
	}
	logger.Info("pages.store.success")
	return nil
}

// NormalizeBody maps the markup an empty rich text editor submits to "".
func NormalizeBody(body string) string {
	switch body {
	case "<br>", "<p><br></p>":
		return ""
	default:
		return body
	}
}

// ListNames returns the pages of a language, ordered by id.
func (s *service) ListNames(ctx context.Context, lang string) ([]NameLabel, error) {
	if s.pages == nil {
		return nil, ErrRepositoryRequired
	}
	records, err := s.pages.ListByLang(ctx, lang)
	if err != nil {
		s.logger.Warn("pages.names.failed", "lang", lang, "error", err)
		return nil, err
	}
	out := make([]NameLabel, 0, len(records))
	for _, record := range records {
		out = append(out, NameLabel{Name: record.Name, Label: record.Label})
	}
	return out, nil
}

// Render substitutes the organization and page markers in the page body.
func (s *service) Render(ctx context.Context, page *Page) (string, error) {
	if page == nil {
		return "", nil
	}
	rendered, err := replacements.Render(ctx, s.provider, page.Body)
	if err != nil {
		logging.WithPageContext(s.logger, page.Name, page.Lang).Error("pages.render.failed", "error", err)
		return "", err
	}
	return rendered, nil
}

func (s *service) Legend() replacements.Legend {
	return s.provider.Legend()
}

// IsTranslated reports whether the page had content when last loaded.
func (s *service) IsTranslated(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.translated[id]
	return ok
}

func (s *service) languageIDs() []string {
	if s.localizer == nil {
		return nil
	}
	languages := s.localizer.Languages()
	out := make([]string, 0, len(languages))
	for _, l := range languages {
		out = append(out, l.ID)
	}
	return out
}

func (s *service) isKnownLanguage(lang string) bool {
	for _, id := range s.languageIDs() {
		if id == lang {
			return true
		}
	}
	return false
}

func (s *service) defaultLanguage() string {
	if s.localizer == nil {
		return ""
	}
	return s.localizer.DefaultLanguage()
}

func (s *service) translate(lang, key string) string {
	if s.localizer == nil {
		return key
	}
	return s.localizer.Translate(lang, key)
}
