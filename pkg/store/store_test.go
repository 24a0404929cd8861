package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/config"
	"github.com/matzehuels/sunburst/pkg/core/partition"
	"github.com/matzehuels/sunburst/pkg/core/taxonomy"
	"github.com/matzehuels/sunburst/pkg/errors"
)

func testChart() chart.Chart {
	rows := []taxonomy.Row{
		{Path: taxonomy.Path("A", "X"), Measure: taxonomy.M(10)},
		{Path: taxonomy.Path("B"), Measure: taxonomy.M(5)},
	}
	l := partition.Compute(taxonomy.Build(rows, false), nil, partition.Options{})
	return chart.FromLayout(l, config.Default(), nil)
}

// testStore runs the shared Store contract against s.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	c := testChart()
	require.NoError(t, s.Save(ctx, &c))
	require.NoError(t, errors.ValidateChartID(c.ID))
	assert.False(t, c.CreatedAt.IsZero())

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Len(t, got.Nodes, len(c.Nodes))
	assert.Equal(t, 15.0, got.Total())

	older := testChart()
	older.CreatedAt = c.CreatedAt.Add(-time.Hour)
	require.NoError(t, s.Save(ctx, &older))

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	list, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// Saving again replaces.
	c.Options.ColorBy = config.ColorByNode
	require.NoError(t, s.Save(ctx, &c))
	got, err = s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, config.ColorByNode, got.Options.ColorBy)

	require.NoError(t, s.Delete(ctx, c.ID))
	_, err = s.Get(ctx, c.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeChartNotFound), "get after delete: %v", err)
	err = s.Delete(ctx, c.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeChartNotFound), "double delete: %v", err)

	_, err = s.Get(ctx, NewID())
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, s.Close())
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	testStore(t, s)
}

func TestFileStoreRejectsPathIDs(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	c := testChart()
	c.ID = "../escape"
	err = s.Save(context.Background(), &c)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidChartID), "save: %v", err)

	_, err = s.Get(context.Background(), "../escape")
	assert.True(t, errors.IsNotFound(err), "get: %v", err)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.NoError(t, errors.ValidateChartID(a))
}
