package pages

import (
	"log/slog"
	"time"

	"github.com/networkteam/flightsearch/controls"
)

const (
	// DefaultBaseURL is where StartPage navigates when no url is given.
	DefaultBaseURL = "https://www.kiwi.com/en/"
	// DefaultTimeout bounds page level waits.
	DefaultTimeout = 20 * time.Second
)

// options holds configuration for page objects.
// This is unexported; use Option functions to configure.
type options struct {
	// baseURL is the landing page url.
	baseURL string
	// timeout bounds load and result waits.
	timeout time.Duration
	logger  *slog.Logger
	// controlOptions are passed to every control a page owns.
	controlOptions []controls.Option
}

// Option configures a page object.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithBaseURL sets the landing page url used when StartPage.NavigateTo gets none.
func WithBaseURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.baseURL = url
		}
	}
}

// WithTimeout sets the bound for page level waits.
// Default is 20 seconds if not specified.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger sets the logger of the page and its controls.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithControlOptions passes options through to the controls a page owns.
func WithControlOptions(opts ...controls.Option) Option {
	return func(o *options) {
		o.controlOptions = append(o.controlOptions, opts...)
	}
}

// controlOpts returns the options for owned controls. The page logger comes
// first so explicit control options win.
func (o options) controlOpts() []controls.Option {
	return append([]controls.Option{controls.WithLogger(o.logger)}, o.controlOptions...)
}

func (o options) timeoutOr(timeout time.Duration) time.Duration {
	if timeout > 0 {
		return timeout
	}
	return o.timeout
}
