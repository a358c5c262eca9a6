package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/zero-day-ai/failspec/spec"
)

// Store persists discoveries and hands out the ledger sequence. A store is
// append-oriented: records are added and their disposition updated, never
// removed.
type Store interface {
	// NextSequence reserves and returns the next sequence number, starting
	// at 1.
	NextSequence(ctx context.Context) (int, error)

	// Save writes a discovery, overwriting any record with the same id.
	Save(ctx context.Context, d *spec.Discovery) error

	// Get returns the discovery with the given id, or nil if absent.
	Get(ctx context.Context, id string) (*spec.Discovery, error)

	// List returns all discoveries in id order.
	List(ctx context.Context) ([]*spec.Discovery, error)

	// Close releases any resources held by the store.
	Close() error
}

// MemoryStore is an in-process Store. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	seq     int
	records map[string]*spec.Discovery
	order   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*spec.Discovery)}
}

// NextSequence reserves and returns the next sequence number.
func (s *MemoryStore) NextSequence(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// Save writes a discovery, overwriting any record with the same id.
func (s *MemoryStore) Save(_ context.Context, d *spec.Discovery) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("discovery requires an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *d
	if _, exists := s.records[d.ID]; !exists {
		s.order = append(s.order, d.ID)
	}
	s.records[d.ID] = &clone
	return nil
}

// Get returns the discovery with the given id, or nil if absent.
func (s *MemoryStore) Get(_ context.Context, id string) (*spec.Discovery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.records[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

// List returns all discoveries in insertion order, which is id order since
// ids are assigned sequentially.
func (s *MemoryStore) List(context.Context) ([]*spec.Discovery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*spec.Discovery, 0, len(s.order))
	for _, id := range s.order {
		clone := *s.records[id]
		out = append(out, &clone)
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
