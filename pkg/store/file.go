package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/sunburst/pkg/chart"
	"github.com/matzehuels/sunburst/pkg/errors"
)

// FileStore keeps one JSON document per chart in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based chart store.
// If baseDir is empty, defaults to ~/.config/sunburst/charts/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
		}
		baseDir = filepath.Join(home, ".config", "sunburst", "charts")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create chart dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// chartPath validates id before it becomes a file name.
func (s *FileStore) chartPath(id string) (string, error) {
	if err := errors.ValidateChartID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Save(ctx context.Context, c *chart.Chart) error {
	prepare(c)
	path, err := s.chartPath(c.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := chart.WriteFile(*c, path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write chart file")
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*chart.Chart, error) {
	path, err := s.chartPath(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeChartNotFound, err, "chart %s not found", id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeChartNotFound, "chart %s not found", id)
	}
	c, err := chart.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.chartPath(id)
	if err != nil {
		return errors.Wrap(errors.ErrCodeChartNotFound, err, "chart %s not found", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errors.New(errors.ErrCodeChartNotFound, "chart %s not found", id)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "remove chart file")
	}
	return nil
}

func (s *FileStore) List(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read chart dir")
	}
	var out []Summary
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		c, err := chart.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		if c.ID == "" {
			c.ID = strings.TrimSuffix(entry.Name(), ".json")
		}
		out = append(out, summarize(&c))
	}
	return newestFirst(out, limit), nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for chart files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
