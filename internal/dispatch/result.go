package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	apierrors "github.com/lucas/huechat/internal/errors"
)

// Sentinel errors for dispatch rejections
var (
	// ErrBusy is returned by Submit while another call is outstanding.
	ErrBusy = errors.New("a completion is already in flight")

	// ErrPanicRecovered matches any recovered panic via errors.Is.
	ErrPanicRecovered = errors.New("panic recovered during completion")
)

// Result carries the outcome of one completion call.
type Result struct {
	// Text is the response text on success.
	Text string

	// Err is the classified failure, nil on success.
	Err error

	// Timing information for the call.
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// PanicError represents a recovered panic during a completion call.
type PanicError struct {
	// PanicValue is the value passed to panic().
	PanicValue any
	// Stack is the stack trace at the time of panic.
	Stack string
}

// NewPanicErrorWithStack creates a PanicError with a stack trace.
func NewPanicErrorWithStack(panicValue any, stack string) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		Stack:      stack,
	}
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic recovered during completion: %v\nStack:\n%s", e.PanicValue, e.Stack)
	}
	return fmt.Sprintf("panic recovered during completion: %v", e.PanicValue)
}

// Is allows comparison with the ErrPanicRecovered sentinel.
func (e *PanicError) Is(target error) bool {
	if target == ErrPanicRecovered {
		return true
	}
	_, ok := target.(*PanicError)
	return ok
}

// wrapContextError converts a context deadline into the timeout taxonomy
// error so callers classify it like any service-side timeout.
func wrapContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutErrorWithEndpoint("", err)
	}
	return err
}
