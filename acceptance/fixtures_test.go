//go:build acceptance
// +build acceptance

package acceptance

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/config"
	"github.com/networkteam/flightsearch/internal/logging"
	"github.com/networkteam/flightsearch/pages"
	"github.com/networkteam/flightsearch/report"
	"github.com/networkteam/flightsearch/session"
)

// TestFixtures bundles all commonly needed test fixtures.
type TestFixtures struct {
	Config   *config.Config
	Logger   *logging.Logger
	Session  *session.Session
	Page     *session.Page
	Reporter *report.Reporter
}

// PageOptions returns the page object options for the configured site.
func (f *TestFixtures) PageOptions() []pages.Option {
	return []pages.Option{
		pages.WithBaseURL(f.Config.Test.BaseURL),
		pages.WithTimeout(f.Config.Test.TimeoutDuration()),
		pages.WithLogger(f.Logger.Logger),
	}
}

// NewPage opens another isolated page, closed when the test ends.
func (f *TestFixtures) NewPage(t *testing.T) *session.Page {
	t.Helper()
	page, err := f.Session.NewPage()
	require.NoError(t, err, "failed to open page")
	t.Cleanup(func() { _ = page.Close() })
	return page
}

// PageFactory adapts the session for the scenario runner.
func (f *TestFixtures) PageFactory(context.Context) (browser.Page, func() error, error) {
	page, err := f.Session.NewPage()
	if err != nil {
		return nil, nil, err
	}
	return page, page.Close, nil
}

// WithTestFixtures creates all fixtures, registers cleanup with t.Cleanup(), and calls the test function.
// The page markup is written to the reports directory if the test fails.
func WithTestFixtures(t *testing.T, fn func(t *testing.T, f *TestFixtures)) {
	t.Helper()

	cfg, err := config.Load(configDir())
	require.NoError(t, err, "failed to load config")

	var console io.Writer = io.Discard
	if testing.Verbose() {
		console = os.Stderr
	}
	logger, err := logging.New(cfg.Reporting, console)
	require.NoError(t, err, "failed to create logger")
	t.Cleanup(func() { _ = logger.Close() })

	sess, err := session.Start(cfg, logger.Logger)
	require.NoError(t, err, "failed to start browser")
	t.Cleanup(func() { _ = sess.Close() })

	reporter := report.New(cfg.Reporting,
		report.WithJournal(logger.Journal),
		report.WithLogger(logger.Logger),
	)

	f := &TestFixtures{
		Config:   cfg,
		Logger:   logger,
		Session:  sess,
		Reporter: reporter,
	}
	f.Page = f.NewPage(t)
	report.Guard(t, reporter, f.Page)

	fn(t, f)
}
