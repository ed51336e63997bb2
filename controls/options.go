package controls

import (
	"log/slog"
	"time"
)

const (
	// DefaultTimeout bounds the waits of a control unless configured otherwise.
	DefaultTimeout = 5 * time.Second
	// DefaultSettleDelay is the pause after each calendar page turn.
	DefaultSettleDelay = time.Second
	// DefaultPickerAttempts is how often the suggestion list is scanned.
	DefaultPickerAttempts = 10
	// DefaultPickerRetryDelay is the pause between two suggestion list scans.
	DefaultPickerRetryDelay = 500 * time.Millisecond
)

// options holds the configuration shared by all controls.
// This is unexported; use Option functions to configure.
type options struct {
	timeout          time.Duration
	logger           *slog.Logger
	now              func() time.Time
	settleDelay      time.Duration
	pickerAttempts   int
	pickerRetryDelay time.Duration
}

// Option configures a control.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		timeout:          DefaultTimeout,
		logger:           slog.Default(),
		now:              time.Now,
		settleDelay:      DefaultSettleDelay,
		pickerAttempts:   DefaultPickerAttempts,
		pickerRetryDelay: DefaultPickerRetryDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTimeout sets the bound for popup and commit waits.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger sets the logger used for interaction traces.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now for date arithmetic.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSettleDelay sets the pause after each calendar page turn.
// Zero disables the pause.
func WithSettleDelay(delay time.Duration) Option {
	return func(o *options) {
		o.settleDelay = delay
	}
}

// WithPickerRetry sets how often and how fast the suggestion list is rescanned.
func WithPickerRetry(attempts int, delay time.Duration) Option {
	return func(o *options) {
		if attempts > 0 {
			o.pickerAttempts = attempts
		}
		o.pickerRetryDelay = delay
	}
}
