package store

import (
	"context"
	"sync"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// MemoryStore keeps charts in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	charts map[string]chart.Chart
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{charts: make(map[string]chart.Chart)}
}

func (s *MemoryStore) Save(ctx context.Context, c *chart.Chart) error {
	prepare(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charts[c.ID] = *c
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*chart.Chart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.charts[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeChartNotFound, "chart %s not found", id)
	}
	return &c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.charts[id]; !ok {
		return errors.New(errors.ErrCodeChartNotFound, "chart %s not found", id)
	}
	delete(s.charts, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	out := make([]Summary, 0, len(s.charts))
	for _, c := range s.charts {
		out = append(out, summarize(&c))
	}
	s.mu.RUnlock()
	return newestFirst(out, limit), nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
