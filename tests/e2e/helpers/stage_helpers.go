package helpers

import (
	"context"
	"testing"
	"time"
)

// ContextHelper provides convenient methods for creating contexts with standard timeouts.
type ContextHelper struct {
	t *testing.T
}

// NewContextHelper creates a new ContextHelper for a test.
func NewContextHelper(t *testing.T) *ContextHelper {
	return &ContextHelper{t: t}
}

// WithDefaultTimeout returns a context with a 2-minute timeout, enough for a
// console interaction or a management operation.
func (h *ContextHelper) WithDefaultTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(h.t.Context(), 2*time.Minute)
}

// WithLongTimeout returns a context with a 5-minute timeout, used for
// starting containers.
func (h *ContextHelper) WithLongTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(h.t.Context(), 5*time.Minute)
}

// WithTimeout returns a context with a custom timeout.
func (h *ContextHelper) WithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(h.t.Context(), timeout)
}
