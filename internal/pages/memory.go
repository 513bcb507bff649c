package pages

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory page store for tests and embedded use.
type MemoryRepository struct {
	mu     sync.RWMutex
	pages  map[int64]*Page
	index  map[string]int64
	lastID int64
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pages: make(map[int64]*Page),
		index: make(map[string]int64),
	}
}

var _ Repository = (*MemoryRepository)(nil)

func pageKey(name, lang string) string {
	return name + "\x00" + lang
}

func (m *MemoryRepository) List(_ context.Context) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(func(*Page) bool { return true }), nil
}

func (m *MemoryRepository) ListByLang(_ context.Context, lang string) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sorted(func(p *Page) bool { return p.Lang == lang }), nil
}

func (m *MemoryRepository) sorted(keep func(*Page) bool) []*Page {
	out := make([]*Page, 0, len(m.pages))
	for _, record := range m.pages {
		if keep(record) {
			out = append(out, clonePage(record))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *MemoryRepository) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pages), nil
}

func (m *MemoryRepository) FindByNameLang(_ context.Context, name, lang string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.index[pageKey(name, lang)]
	if !ok {
		return nil, &NotFoundError{Name: name, Lang: lang}
	}
	return clonePage(m.pages[id]), nil
}

// Insert stores the records, rejecting duplicates of an existing (name, lang)
// pair the way a unique index would. The batch is applied atomically.
func (m *MemoryRepository) Insert(_ context.Context, records ...*Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := map[string]struct{}{}
	for _, record := range records {
		if record == nil {
			continue
		}
		key := pageKey(record.Name, record.Lang)
		if _, exists := m.index[key]; exists {
			return &DuplicateError{Name: record.Name, Lang: record.Lang}
		}
		if _, dup := seen[key]; dup {
			return &DuplicateError{Name: record.Name, Lang: record.Lang}
		}
		seen[key] = struct{}{}
		if _, taken := m.pages[record.ID]; record.ID != 0 && taken {
			return &DuplicateError{Name: record.Name, Lang: record.Lang}
		}
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		if record.ID == 0 {
			m.lastID++
			record.ID = m.lastID
		} else if record.ID > m.lastID {
			m.lastID = record.ID
		}
		m.pages[record.ID] = clonePage(record)
		m.index[pageKey(record.Name, record.Lang)] = record.ID
	}
	return nil
}

func (m *MemoryRepository) UpdateContent(_ context.Context, name, lang, body, url string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.index[pageKey(name, lang)]
	if !ok {
		return 0, nil
	}
	record := m.pages[id]
	record.Body = body
	record.URL = url
	record.LastUpdate = at
	return 1, nil
}

func (m *MemoryRepository) Purge(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages = make(map[int64]*Page)
	m.index = make(map[string]int64)
	return nil
}

func (m *MemoryRepository) ResetSequence(_ context.Context, next int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID = next
	return nil
}

// Delete removes a single page. Normal operation never deletes pages; tests use
// it to simulate partial prior state.
func (m *MemoryRepository) Delete(name, lang string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pageKey(name, lang)
	if id, ok := m.index[key]; ok {
		delete(m.pages, id)
		delete(m.index, key)
	}
}
