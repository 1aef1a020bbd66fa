package tgraph

import (
	"sync"
)

// DictMapper assigns dense integer ids to names (layer names, property keys).
// Uses sync.Map for lock-free concurrent reads; concurrent first insertion of
// the same name resolves to a single id.
type DictMapper struct {
	ids   sync.Map // map[string]int
	mu    sync.RWMutex
	names []string
}

// NewDictMapper creates a mapper, pre-registering names in order.
func NewDictMapper(names ...string) *DictMapper {
	m := &DictMapper{}
	for _, name := range names {
		m.GetOrCreate(name)
	}
	return m
}

// GetOrCreate returns the id of name, assigning the next id on first use.
func (m *DictMapper) GetOrCreate(name string) int {
	// Fast path: load existing (lock-free)
	if id, ok := m.ids.Load(name); ok {
		return id.(int)
	}

	// Slow path: create under the writer lock so ids stay dense
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.ids.Load(name); ok {
		return id.(int)
	}
	id := len(m.names)
	m.names = append(m.names, name)
	m.ids.Store(name, id)
	return id
}

// Get returns the id of an existing name.
func (m *DictMapper) Get(name string) (int, bool) {
	id, ok := m.ids.Load(name)
	if !ok {
		return 0, false
	}
	return id.(int), true
}

// Name returns the name registered for id.
func (m *DictMapper) Name(id int) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id < 0 || id >= len(m.names) {
		return "", false
	}
	return m.names[id], true
}

// Names returns all names in id order.
func (m *DictMapper) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Len returns the number of registered names.
func (m *DictMapper) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names)
}
