package dispatch

import "time"

// Option is a function that configures a dispatcherConfig.
// Use these options with New to customize dispatcher behavior.
//
// Example:
//
//	dispatcher := dispatch.New(client,
//	    dispatch.WithTimeout(60*time.Second),
//	)
type Option func(*dispatcherConfig)

// WithTimeout sets a deadline applied to each completion call. If the
// context passed to Submit already carries a deadline, it is left alone.
// A zero or negative timeout imposes no client-side limit, leaving the
// service's own limits in charge.
//
// Default: 0 (no client-side timeout)
func WithTimeout(timeout time.Duration) Option {
	return func(c *dispatcherConfig) {
		c.timeout = timeout
	}
}

// WithRecoverPanics sets whether the dispatcher recovers from panics
// raised during a completion call. When enabled, panics surface as a
// PanicError in the delivered Result instead of crashing the process.
//
// Default: true
func WithRecoverPanics(enabled bool) Option {
	return func(c *dispatcherConfig) {
		c.recoverPanics = enabled
	}
}
