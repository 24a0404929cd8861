package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/sunburst/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, 0},
		{"Canceled", fmt.Errorf("render: %w", context.Canceled), exitInterrupted},
		{"Invalid", fmt.Errorf("load query: %w", errors.New(errors.ErrCodeInvalidQuery, "no rows")), exitInvalid},
		{"Other", errors.New(errors.ErrCodeInternal, "boom"), exitError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestVerboseFlag(t *testing.T) {
	root := newRoot()
	if root.PersistentFlags().Lookup("verbose") == nil {
		t.Fatal("--verbose not registered")
	}
}
