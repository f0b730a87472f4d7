package session

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/finlab/backend/internal/montecarlo"
	"github.com/wonny/finlab/backend/pkg/logger"
)

type memoryEntry struct {
	result    *montecarlo.SimulationResult
	expiresAt time.Time // zero = 만료 없음
}

func (e *memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process result store
// 삽입 순서를 유지하며 MaxEntries 초과 시 가장 오래된 결과부터 제거
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	order   []string // 삽입 순서
	opts    Options
	now     func() time.Time
	logger  *logger.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(opts Options, log *logger.Logger) *MemoryStore {
	if log == nil {
		log = logger.Nop()
	}
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		opts:    opts,
		now:     time.Now,
		logger:  log.WithComponent("session.memory"),
	}
}

// Save inserts or replaces a result
func (s *MemoryStore) Save(_ context.Context, result *montecarlo.SimulationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if _, exists := s.entries[result.ID]; !exists {
		s.order = append(s.order, result.ID)
	}
	s.entries[result.ID] = &memoryEntry{
		result:    result,
		expiresAt: s.opts.expiresAt(now),
	}

	if s.opts.MaxEntries > 0 {
		for len(s.order) > s.opts.MaxEntries {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.entries, oldest)

			s.logger.WithField("simulation_id", oldest).Debug("Evicted oldest simulation (capacity)")
		}
	}

	return nil
}

// Get returns a result; expired entries are reported as ErrNotFound
func (s *MemoryStore) Get(_ context.Context, id string) (*montecarlo.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[id]
	if !exists || entry.expired(s.now()) {
		return nil, ErrNotFound
	}
	return entry.result, nil
}

// List returns live results in insertion order
func (s *MemoryStore) List(_ context.Context) ([]*montecarlo.SimulationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	results := make([]*montecarlo.SimulationResult, 0, len(s.order))
	for _, id := range s.order {
		if entry := s.entries[id]; !entry.expired(now) {
			results = append(results, entry.result)
		}
	}
	return results, nil
}

// Delete removes a result
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists {
		return ErrNotFound
	}
	delete(s.entries, id)
	s.removeFromOrder(id)
	return nil
}

// EvictExpired removes expired results and returns how many were removed
func (s *MemoryStore) EvictExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := s.order[:0]
	count := 0
	for _, id := range s.order {
		if s.entries[id].expired(now) {
			delete(s.entries, id)
			count++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept

	if count > 0 {
		s.logger.WithField("count", count).Info("Evicted expired simulations")
	}
	return count, nil
}

// Len returns the number of stored entries, expired ones included until evicted
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries), nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) removeFromOrder(id string) {
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
