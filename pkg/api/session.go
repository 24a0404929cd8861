package api

import (
	"context"
	"sync"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/core/format"
	"github.com/matzehuels/sunburst/pkg/core/interaction"
)

// session is the interaction state of one chart.
type session struct {
	mu      sync.Mutex
	chart   chart.Chart
	machine *interaction.Machine
}

func newSession(c chart.Chart) (*session, error) {
	l, err := c.Layout()
	if err != nil {
		return nil, err
	}
	m := interaction.New(interaction.Options{
		Config: c.Options,
		Format: format.Parse(c.Options.ValueFormat),
	})
	m.Reset(l)
	return &session{chart: c, machine: m}, nil
}

// session returns the session for chart id, loading the chart from the
// store on first use.
func (s *Server) session(ctx context.Context, id string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}

	c, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess, err = newSession(*c)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[id]; ok {
		return existing, nil
	}
	s.sessions[id] = sess
	return sess, nil
}

func (s *Server) putSession(id string, sess *session) {
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()
}

func (s *Server) dropSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
