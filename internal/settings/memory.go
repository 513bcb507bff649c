package settings

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryRepository keeps settings in memory for tests and embedded use.
type MemoryRepository struct {
	mu     sync.RWMutex
	values map[string]string
	order  []string
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: map[string]string{}}
}

var _ Repository = (*MemoryRepository)(nil)

func (m *MemoryRepository) List(_ context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, Record{Name: name, Value: m.values[name]})
	}
	return out, nil
}

func (m *MemoryRepository) Insert(_ context.Context, records ...Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		if _, exists := m.values[record.Name]; exists {
			return fmt.Errorf("settings: duplicate row %q", record.Name)
		}
	}
	for _, record := range records {
		m.values[record.Name] = record.Value
		m.order = append(m.order, record.Name)
	}
	return nil
}

func (m *MemoryRepository) ReplaceAll(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string, len(records))
	m.order = m.order[:0]
	for _, record := range records {
		if _, exists := m.values[record.Name]; !exists {
			m.order = append(m.order, record.Name)
		}
		m.values[record.Name] = record.Value
	}
	return nil
}

func (m *MemoryRepository) UpdateAll(_ context.Context, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, record := range records {
		if _, exists := m.values[record.Name]; !exists {
			return &MissingError{Name: record.Name}
		}
	}
	for _, record := range records {
		m.values[record.Name] = record.Value
	}
	return nil
}

// Delete drops one row. Tests use it to simulate a partially installed schema.
func (m *MemoryRepository) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.values[name]; !exists {
		return
	}
	delete(m.values, name)
	kept := m.order[:0]
	for _, n := range m.order {
		if n != name {
			kept = append(kept, n)
		}
	}
	m.order = kept
}

// Snapshot returns a sorted copy of the stored values.
func (m *MemoryRepository) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = m.values[k]
	}
	return out
}
