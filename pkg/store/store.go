// Package store persists computed charts.
//
// The API server keeps every chart it creates in a [Store] so that later
// render, hover and click requests can find it by ID. Three backends are
// provided:
//   - memory: in-process storage for development and tests
//   - file: one JSON document per chart, for a single local server
//   - mongo: MongoDB collection for multi-instance deployments
//
// # Usage
//
//	// Development
//	s := store.NewMemoryStore()
//
//	// Production
//	s, err := store.NewMongoStore(ctx, store.MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
//	c.ID = store.NewID()
//	if err := s.Save(ctx, &c); err != nil {
//	    return err
//	}
//	got, err := s.Get(ctx, c.ID)
//	if errors.IsNotFound(err) {
//	    // no such chart
//	}
package store

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sunburst/pkg/chart"
)

// Store is the interface for chart storage backends.
type Store interface {
	// Save stores c, assigning an ID and creation time when missing.
	// Saving an existing ID replaces the chart.
	Save(ctx context.Context, c *chart.Chart) error

	// Get retrieves a chart by ID. Returns an ErrCodeChartNotFound error
	// if it doesn't exist.
	Get(ctx context.Context, id string) (*chart.Chart, error)

	// Delete removes a chart. Returns an ErrCodeChartNotFound error if it
	// doesn't exist.
	Delete(ctx context.Context, id string) error

	// List returns summaries of the newest charts first. A limit of zero
	// or less returns all of them.
	List(ctx context.Context, limit int) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored chart without its nodes.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	VizType   string    `json:"viz_type" bson:"viz_type"`
	Nodes     int       `json:"nodes" bson:"-"`
	Total     float64   `json:"total" bson:"-"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewID returns a fresh chart ID.
func NewID() string { return uuid.NewString() }

// summarize builds the Summary of c.
func summarize(c *chart.Chart) Summary {
	return Summary{
		ID:        c.ID,
		VizType:   c.VizType,
		Nodes:     len(c.Nodes),
		Total:     c.Total(),
		CreatedAt: c.CreatedAt,
	}
}

// prepare fills the ID and creation time of a chart about to be saved.
func prepare(c *chart.Chart) {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

// newestFirst sorts summaries by creation time, newest first, and applies
// limit.
func newestFirst(out []Summary, limit int) []Summary {
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
