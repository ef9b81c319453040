package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/planarkit/pkg/errors"
)

// MemoryStore is an in-memory report store for development and testing.
// Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]Record)}
}

// Save stores a record, replacing any record with the same ID.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
	return nil
}

// Get retrieves a record by run ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[id]
	if !ok {
		return Record{}, errors.New(errors.ErrCodeReportNotFound, "report %s not found", id)
	}
	return rec, nil
}

// ListByDocHash returns the most recent records for a document, newest first.
func (s *MemoryStore) ListByDocHash(_ context.Context, docHash string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	s.mu.RLock()
	var out []Record
	for _, rec := range s.recs {
		if rec.DocHash == docHash {
			out = append(out, rec)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
