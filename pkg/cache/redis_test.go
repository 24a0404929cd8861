package cache

import (
	"context"
	"errors"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"Nil", nil, false},
		{"Connection", errors.New("dial tcp: connection refused"), true},
		{"Canceled", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			if tt.err == nil {
				if err != nil {
					t.Errorf("classify(nil) = %v", err)
				}
				return
			}
			if got := IsRetryable(err); got != tt.retryable {
				t.Errorf("IsRetryable(classify(%v)) = %v, want %v", tt.err, got, tt.retryable)
			}
			if tt.retryable && !errors.Is(err, ErrNetwork) {
				t.Errorf("classify(%v) should wrap ErrNetwork", tt.err)
			}
		})
	}
}
