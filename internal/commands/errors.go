package commands

import (
	"errors"
	"fmt"

	"github.com/moolen/halsuite/internal/console"
)

// Failure kinds. Every failed action returns an *AssertionError whose Kind
// is one of these, so callers can match with errors.Is.
var (
	// ErrTimeout means an element never reached the expected state.
	ErrTimeout = errors.New("ui timeout")
	// ErrOutcome means a management operation did not succeed.
	ErrOutcome = errors.New("operation outcome not success")
	// ErrMismatch means a value or membership assertion failed.
	ErrMismatch = errors.New("assertion mismatch")
)

// AssertionError aborts a scenario.
type AssertionError struct {
	Action string
	Kind   error
	Msg    string
	Cause  error
}

func (e *AssertionError) Error() string {
	s := fmt.Sprintf("%s: %v: %s", e.Action, e.Kind, e.Msg)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *AssertionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func mismatch(action, format string, args ...any) error {
	return &AssertionError{Action: action, Kind: ErrMismatch, Msg: fmt.Sprintf(format, args...)}
}

// uiError classifies a driver error. Timeouts become ErrTimeout assertion
// failures; anything else is wrapped as is.
func uiError(action string, sel console.Selector, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, console.ErrTimeout) {
		return &AssertionError{Action: action, Kind: ErrTimeout, Msg: sel.String(), Cause: err}
	}
	return fmt.Errorf("%s: %s: %w", action, sel, err)
}
