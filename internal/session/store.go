package session

import (
	"context"
	"sync"
	"time"

	"talentmatch-engine/internal/domain"
)

// Store keeps per-session filter drafts so a seeker's half-built search
// survives page reloads. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (domain.SearchCriteria, bool, error)
	Put(ctx context.Context, key string, c domain.SearchCriteria) error
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	criteria  domain.SearchCriteria
	updatedAt time.Time
}

// Memory is the fallback Store when no redis is configured. Drafts live
// until PurgeIdle trims them.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, key string) (domain.SearchCriteria, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e.criteria, ok, nil
}

func (m *Memory) Put(_ context.Context, key string, c domain.SearchCriteria) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{criteria: c, updatedAt: time.Now()}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// PurgeIdle drops drafts untouched for longer than maxIdle and reports how
// many went.
func (m *Memory) PurgeIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, e := range m.entries {
		if e.updatedAt.Before(cutoff) {
			delete(m.entries, key)
			n++
		}
	}
	return n
}
