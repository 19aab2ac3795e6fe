// Package console drives the management console in a browser. It owns the
// selector and URL conventions of the console and the Driver capability the
// test actions are written against.
package console

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when an element does not reach the expected state
// within the driver's timeout.
var ErrTimeout = errors.New("timed out waiting for element")

// ClickOptions tunes a click.
type ClickOptions struct {
	// Force skips actionability checks, for controls covered by overlays.
	Force bool
}

// Driver is the browser capability test actions use. Every method resolves
// the selector itself; wait methods return an error wrapping ErrTimeout
// when the expected state is not reached.
type Driver interface {
	// Navigate loads url and waits for the page-load signal.
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, sel Selector, opts ClickOptions) error
	Type(ctx context.Context, sel Selector, text string) error
	Clear(ctx context.Context, sel Selector) error
	Value(ctx context.Context, sel Selector) (string, error)
	ScrollIntoView(ctx context.Context, sel Selector) error
	// Trigger dispatches a DOM event such as "change".
	Trigger(ctx context.Context, sel Selector, event string) error
	WaitVisible(ctx context.Context, sel Selector) error
	// WaitHidden waits until the element exists and is not visible.
	WaitHidden(ctx context.Context, sel Selector) error
	// WaitChecked waits until the checkbox's checked state equals want.
	WaitChecked(ctx context.Context, sel Selector, want bool) error
	// WaitValue waits until the input holds exactly want.
	WaitValue(ctx context.Context, sel Selector, want string) error
	// WaitAbsent waits until no element matches sel.
	WaitAbsent(ctx context.Context, sel Selector) error
	// Pause lets the page settle, e.g. after a switch animation.
	Pause(ctx context.Context, d time.Duration) error
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
