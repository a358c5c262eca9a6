package discovery

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/zero-day-ai/failspec/spec"
)

// FileStore persists the ledger as a YAML file through the spec codec. The
// whole ledger is read on open and rewritten atomically on every save, which
// is fine at ledger scale (discoveries are rare by construction).
type FileStore struct {
	path string

	mu      sync.Mutex
	seq     int
	records []*spec.Discovery
}

// NewFileStore opens the ledger at path, creating an empty ledger when the
// file does not exist. The sequence resumes past the highest id on disk.
func NewFileStore(path string) (*FileStore, error) {
	records, err := spec.LoadLedger(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	s := &FileStore{path: path, records: records}
	for _, d := range records {
		if n, ok := sequenceOf(d.ID); ok && n > s.seq {
			s.seq = n
		}
	}
	return s, nil
}

// sequenceOf extracts the numeric sequence from a D### identifier.
func sequenceOf(id string) (int, bool) {
	if !spec.IsValidDiscoveryID(id) {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextSequence reserves and returns the next sequence number.
func (s *FileStore) NextSequence(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq, nil
}

// Save writes a discovery and rewrites the ledger file atomically.
func (s *FileStore) Save(_ context.Context, d *spec.Discovery) error {
	if d == nil || d.ID == "" {
		return fmt.Errorf("discovery requires an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *d
	replaced := false
	for i, existing := range s.records {
		if existing.ID == d.ID {
			s.records[i] = &clone
			replaced = true
			break
		}
	}
	if !replaced {
		s.records = append(s.records, &clone)
	}

	return spec.SaveLedger(s.path, s.records)
}

// Get returns the discovery with the given id, or nil if absent.
func (s *FileStore) Get(_ context.Context, id string) (*spec.Discovery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.records {
		if d.ID == id {
			clone := *d
			return &clone, nil
		}
	}
	return nil, nil
}

// List returns all discoveries in ledger order.
func (s *FileStore) List(context.Context) ([]*spec.Discovery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*spec.Discovery, 0, len(s.records))
	for _, d := range s.records {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

// Close is a no-op; every save already reached disk.
func (s *FileStore) Close() error { return nil }
