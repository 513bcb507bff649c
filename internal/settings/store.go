package settings

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-legalnotices/internal/logging"
	"github.com/goliatone/go-legalnotices/pkg/interfaces"
)

// Settings is a typed snapshot of every setting.
type Settings struct {
	EnableLegalInformation bool   `json:"enable_legal_information"`
	EnableTermsOfService   bool   `json:"enable_terms_of_service"`
	EnablePrivacyPolicy    bool   `json:"enable_privacy_policy"`
	PublicPageLinks        bool   `json:"publicpage_links"`
	FallbackLanguage       string `json:"fallback_language"`
	EnableCMP              bool   `json:"enable_cmp"`
	HideAcceptAll          bool   `json:"hide_accept_all"`
	HideDeclineAll         bool   `json:"hide_decline_all"`
	CookieExpiration       int    `json:"cookie_expiration"`
	CookieDomain           string `json:"cookie_domain"`
	EnableLocalStorage     bool   `json:"enable_localstorage"`
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the store logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAutoReconcile toggles inserting missing keys after every Load.
func WithAutoReconcile(enabled bool) Option {
	return func(s *Store) {
		s.autoReconcile = enabled
	}
}

// Store holds an in-memory snapshot of the settings table. Writes are staged
// with Set and persisted together by Save, or applied in one call by Apply.
// Readers only ever see persisted values.
type Store struct {
	repo          Repository
	logger        interfaces.Logger
	autoReconcile bool

	// writeMu serializes commits; mu guards the fields below.
	writeMu sync.Mutex
	mu      sync.RWMutex
	values  map[string]string
	enabled map[string]struct{}
	staged  map[string]string
}

// NewStore constructs a store. Call Load before reading.
func NewStore(repo Repository, opts ...Option) *Store {
	s := &Store{
		repo:          repo,
		logger:        logging.NoOp(),
		autoReconcile: true,
		values:        map[string]string{},
		enabled:       map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every row into memory and derives the enabled page set. Missing
// keys are then inserted unless auto reconciliation is disabled. A failed
// read leaves the store unusable and is reported as an error.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return ErrRepositoryRequired
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("settings.load.failed", "error", err)
		return fmt.Errorf("settings: load: %w", err)
	}

	values := make(map[string]string, len(records))
	for _, record := range records {
		values[record.Name] = record.Value
	}
	s.mu.Lock()
	s.values = values
	s.enabled = enabledPages(values)
	s.mu.Unlock()

	if s.autoReconcile {
		if _, err := s.Reconcile(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reconcile inserts every known key missing from the loaded snapshot with its
// default value.
func (s *Store) Reconcile(ctx context.Context) (bool, error) {
	if s.repo == nil {
		return false, ErrRepositoryRequired
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	var missing []Record
	for _, def := range definitions {
		if _, ok := s.values[string(def.key)]; !ok {
			s.logger.Info("settings.reconcile.missing", "setting", string(def.key))
			missing = append(missing, Record{Name: string(def.key), Value: def.fallback})
		}
	}
	s.mu.RUnlock()

	if len(missing) == 0 {
		return false, nil
	}
	if err := s.repo.Insert(ctx, missing...); err != nil {
		s.logger.Warn("settings.reconcile.failed", "error", err)
		return false, fmt.Errorf("settings: reconcile: %w", err)
	}

	s.mu.Lock()
	for _, record := range missing {
		s.values[record.Name] = record.Value
	}
	s.enabled = enabledPages(s.values)
	s.mu.Unlock()

	s.logger.Info("settings.reconcile.inserted", "count", len(missing))
	return true, nil
}

// InstallReset replaces every row with the defaults.
func (s *Store) InstallReset(ctx context.Context) error {
	if s.repo == nil {
		return ErrRepositoryRequired
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	records := defaultRecords()
	if err := s.repo.ReplaceAll(ctx, records); err != nil {
		s.logger.Warn("settings.install.failed", "error", err)
		return fmt.Errorf("settings: install: %w", err)
	}
	values := make(map[string]string, len(records))
	for _, record := range records {
		values[record.Name] = record.Value
	}
	s.mu.Lock()
	s.values = values
	s.enabled = enabledPages(values)
	s.mu.Unlock()
	s.logger.Info("settings.install.seeded", "count", len(records))
	return nil
}

// Get returns the value of name. Names outside the schema yield
// ErrUnknownSetting; known names absent from the snapshot yield
// ErrSettingNotSet.
func (s *Store) Get(name string) (Value, error) {
	key, err := ParseKey(name)
	if err != nil {
		s.logger.Info("settings.get.unknown", "setting", name)
		return Value{}, err
	}
	value, ok := s.Lookup(key)
	if !ok {
		s.logger.Info("settings.get.not_set", "setting", name)
		return Value{}, ErrSettingNotSet
	}
	return value, nil
}

// Lookup returns the value of a known key and whether it is present.
func (s *Store) Lookup(key Key) (Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[string(key)]
	if !ok {
		return Value{kind: key.Kind()}, false
	}
	return NewValue(key, raw), true
}

// Set stages value for name. Staged values are not visible to readers
// until Save succeeds. Unknown names are rejected and leave the snapshot
// untouched.
func (s *Store) Set(name, value string) error {
	key, err := ParseKey(name)
	if err != nil {
		s.logger.Warn("settings.set.unknown", "setting", name)
		return err
	}
	s.mu.Lock()
	if s.staged == nil {
		s.staged = map[string]string{}
	}
	s.staged[string(key)] = normalize(key, value)
	s.mu.Unlock()
	return nil
}

// Check stages an incoming form for every known key. Absent fields are
// staged as empty and text is trimmed.
func (s *Store) Check(form map[string]string) {
	for key, value := range formValues(form) {
		// Keys come from the schema so Set cannot fail here.
		_ = s.Set(key, value)
	}
}

// Save persists the snapshot merged with the staged values in a single
// transaction. The staged values are dropped either way; on failure the
// snapshot is unchanged and the whole error chain is logged.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	staged := s.staged
	s.staged = nil
	s.mu.Unlock()
	return s.commit(ctx, staged)
}

// Apply stages form and saves it as one step. Concurrent calls are
// serialized so one submission never persists another's values.
func (s *Store) Apply(ctx context.Context, form map[string]string) error {
	return s.commit(ctx, formValues(form))
}

func (s *Store) commit(ctx context.Context, changes map[string]string) error {
	if s.repo == nil {
		return ErrRepositoryRequired
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	next := make(map[string]string, len(s.values)+len(changes))
	for k, v := range s.values {
		next[k] = v
	}
	s.mu.RUnlock()
	for k, v := range changes {
		next[k] = v
	}

	records := make([]Record, 0, len(definitions))
	for _, def := range definitions {
		value, ok := next[string(def.key)]
		if !ok {
			value = def.fallback
			next[string(def.key)] = value
		}
		s.logger.Debug("settings.store.key", "setting", string(def.key))
		records = append(records, Record{Name: string(def.key), Value: value})
	}

	if err := s.repo.UpdateAll(ctx, records); err != nil {
		s.logger.Warn("settings.store.failed", "error", err, "chain", logging.ErrorChain(err))
		return fmt.Errorf("settings: store: %w", err)
	}

	s.mu.Lock()
	s.values = next
	s.enabled = enabledPages(next)
	s.mu.Unlock()

	s.logger.Info("settings.store.success")
	return nil
}

// IsPageEnabled reports whether the named page was enabled when the settings
// were last loaded or saved.
func (s *Store) IsPageEnabled(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enabled[name]
	return ok
}

// FallbackLanguage returns the language untranslated pages are served in.
func (s *Store) FallbackLanguage() string {
	value, _ := s.Lookup(KeyFallbackLanguage)
	return value.String()
}

// Values returns a copy of the raw snapshot, including rows outside the
// schema found in storage.
func (s *Store) Values() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Typed coerces the snapshot into Settings.
func (s *Store) Typed() Settings {
	get := func(key Key) Value {
		value, _ := s.Lookup(key)
		return value
	}
	return Settings{
		EnableLegalInformation: get(KeyEnableLegalInformation).Bool(),
		EnableTermsOfService:   get(KeyEnableTermsOfService).Bool(),
		EnablePrivacyPolicy:    get(KeyEnablePrivacyPolicy).Bool(),
		PublicPageLinks:        get(KeyPublicPageLinks).Bool(),
		FallbackLanguage:       get(KeyFallbackLanguage).String(),
		EnableCMP:              get(KeyEnableCMP).Bool(),
		HideAcceptAll:          get(KeyHideAcceptAll).Bool(),
		HideDeclineAll:         get(KeyHideDeclineAll).Bool(),
		CookieExpiration:       get(KeyCookieExpiration).Int(),
		CookieDomain:           get(KeyCookieDomain).String(),
		EnableLocalStorage:     get(KeyEnableLocalStorage).Bool(),
	}
}

func formValues(form map[string]string) map[string]string {
	out := make(map[string]string, len(definitions))
	for _, key := range Keys() {
		out[string(key)] = normalize(key, strings.TrimSpace(form[string(key)]))
	}
	return out
}

func enabledPages(values map[string]string) map[string]struct{} {
	out := map[string]struct{}{}
	for key, page := range pageKeys {
		if parseBool(values[string(key)]) {
			out[page] = struct{}{}
		}
	}
	return out
}

func defaultRecords() []Record {
	out := make([]Record, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, Record{Name: string(def.key), Value: def.fallback})
	}
	return out
}
