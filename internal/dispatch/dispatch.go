// Package dispatch runs completion requests off the UI loop.
// It models the background worker as a single-slot pool: at most one
// call is in flight at a time, and its result is delivered through a
// channel the UI loop observes. Further submissions are refused with
// ErrBusy until the outstanding call resolves.
package dispatch

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/lucas/huechat/internal/chat"
	apierrors "github.com/lucas/huechat/internal/errors"
)

// Completer issues a single completion call against the generative-text
// service. *api.Client is the production implementation.
type Completer interface {
	Complete(ctx context.Context, apiKey, prompt string, history []chat.Turn) (string, error)
}

// Request describes one completion call. The worker owns it for the
// duration of the call; History should be a snapshot, not live state.
type Request struct {
	// APIKey authenticates the call. Empty is rejected at Submit.
	APIKey string

	// Prompt is the new user message.
	Prompt string

	// History is the prior transcript, oldest first, excluding Prompt.
	History []chat.Turn
}

// dispatcherConfig holds the configuration for a dispatcher.
// It is populated by functional options during construction.
type dispatcherConfig struct {
	// timeout is the deadline applied to each completion call.
	// Zero means no client-side timeout.
	timeout time.Duration

	// recoverPanics determines whether panics raised inside a completion
	// call are converted to PanicError.
	recoverPanics bool
}

// defaultConfig returns the default dispatcher configuration.
func defaultConfig() *dispatcherConfig {
	return &dispatcherConfig{
		timeout:       0,
		recoverPanics: true,
	}
}

// Dispatcher issues completion calls on a single-slot worker pool.
type Dispatcher struct {
	completer Completer
	config    *dispatcherConfig
	slot      chan struct{}
}

// New creates a Dispatcher around the given completer. A nil completer is
// allowed; Submit then reports the client as missing without issuing calls.
func New(completer Completer, opts ...Option) *Dispatcher {
	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	return &Dispatcher{
		completer: completer,
		config:    config,
		slot:      make(chan struct{}, 1),
	}
}

// Submit starts a completion call in the background and returns a channel
// that will receive exactly one Result and then close.
//
// Preconditions are checked synchronously, before any work starts: a
// missing credential returns ErrNoAPIKey and a missing client returns
// ErrClientMissing, in both cases without a network call. A submission
// while another call is outstanding returns ErrBusy.
//
// Usage:
//
//	resultCh, err := dispatcher.Submit(ctx, dispatch.Request{
//	    APIKey:  key,
//	    Prompt:  prompt,
//	    History: session.Snapshot(),
//	})
//	if err != nil {
//	    // Rejected before dispatch
//	}
//	result := <-resultCh
func (d *Dispatcher) Submit(ctx context.Context, req Request) (<-chan *Result, error) {
	if d.completer == nil {
		return nil, apierrors.ErrClientMissing
	}
	if req.APIKey == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	// Claim the single worker slot
	select {
	case d.slot <- struct{}{}:
	default:
		return nil, ErrBusy
	}

	resultCh := make(chan *Result, 1)

	go func() {
		defer func() { <-d.slot }()
		defer close(resultCh)

		start := time.Now()
		text, err := d.complete(ctx, req)
		end := time.Now()

		resultCh <- &Result{
			Text:      text,
			Err:       err,
			StartTime: start,
			EndTime:   end,
			Duration:  end.Sub(start),
		}
	}()

	return resultCh, nil
}

// complete runs the completion call with optional panic recovery and the
// configured timeout.
func (d *Dispatcher) complete(ctx context.Context, req Request) (text string, err error) {
	if d.config.recoverPanics {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				err = NewPanicErrorWithStack(r, stack)
				text = ""
			}
		}()
	}

	if d.config.timeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.config.timeout)
			defer cancel()
		}
	}

	text, err = d.completer.Complete(ctx, req.APIKey, req.Prompt, req.History)
	if err != nil {
		return "", wrapContextError(err)
	}
	return text, nil
}

// InFlight reports whether a completion call is outstanding.
func (d *Dispatcher) InFlight() bool {
	return len(d.slot) > 0
}

// Timeout returns the configured per-call timeout.
func (d *Dispatcher) Timeout() time.Duration {
	return d.config.timeout
}

// RecoversPanics returns whether this dispatcher recovers from panics.
func (d *Dispatcher) RecoversPanics() bool {
	return d.config.recoverPanics
}
