// Package helpers provides the browser, server and assertion plumbing of
// the console end-to-end scenarios.
package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moolen/halsuite/internal/commands"
	"github.com/moolen/halsuite/internal/management"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// EventuallyOption configures Eventually assertion behavior.
type EventuallyOption struct {
	Timeout  time.Duration
	Interval time.Duration
}

// DefaultEventuallyOption suits attributes written through the console,
// which the server applies right after the save.
var DefaultEventuallyOption = EventuallyOption{
	Timeout:  10 * time.Second,
	Interval: 500 * time.Millisecond,
}

// SlowEventuallyOption is for changes that need a reload of the server.
var SlowEventuallyOption = EventuallyOption{
	Timeout:  60 * time.Second,
	Interval: 2 * time.Second,
}

// EventuallyAttribute waits until the attribute equals expected. Only
// mismatches are retried; a failed outcome fails right away.
func EventuallyAttribute(t *testing.T, suite *commands.Suite, endpoint string, address management.Address, name string, expected any, opts EventuallyOption) {
	t.Helper()
	if opts.Timeout == 0 {
		opts = DefaultEventuallyOption
	}

	var last error
	ok := assert.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(t.Context(), opts.Interval*4)
		defer cancel()

		last = suite.VerifyAttribute(ctx, endpoint, address, name, expected)
		if last != nil && !errors.Is(last, commands.ErrMismatch) {
			return true
		}
		return last == nil
	}, opts.Timeout, opts.Interval)
	require.True(t, ok, "attribute %s of %s never became %v: %v", name, address, expected, last)
	require.NoError(t, last)
}

// RequireAssertionKind fails unless err is an assertion failure of kind.
func RequireAssertionKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)

	var assertion *commands.AssertionError
	require.ErrorAs(t, err, &assertion, "expected an assertion failure, got %v", err)
	require.ErrorIs(t, err, kind)
}
