// Package report writes diagnostic artifacts for failed tests: the page
// markup at the time of failure and, optionally, a highlighted HTML report
// with the most recent log lines.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/gofrs/uuid"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/config"
	"github.com/networkteam/flightsearch/journal"
)

// Reporter writes failure artifacts into a reports directory.
type Reporter struct {
	dir          string
	highlight    bool
	journalLines int

	journal *journal.Journal
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithJournal adds the tail of j to highlighted reports.
func WithJournal(j *journal.Journal) Option {
	return func(r *Reporter) {
		r.journal = j
	}
}

// WithLogger sets the logger receiving capture results and errors.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock replaces time.Now for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a reporter for the reporting configuration.
func New(cfg config.ReportingConfig, opts ...Option) *Reporter {
	r := &Reporter{
		dir:          cfg.ReportsDir,
		highlight:    cfg.Highlight,
		journalLines: cfg.JournalLines,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileBase turns a test or scenario name into a file name prefix.
func FileBase(name string) string {
	base := unsafeChars.ReplaceAllString(name, "_")
	if base == "" {
		return "unnamed"
	}
	return base
}

// CaptureFailure writes <name>_failure.html with the current page markup
// and, with highlighting enabled, <name>_failure.report.html. cause is shown
// in the report if set. With scope, the report only lists journal lines
// carrying all of the scope attributes. Errors are logged and never returned
// so the original failure stays what is reported. It returns the paths
// written.
func (r *Reporter) CaptureFailure(page browser.Page, name string, cause error, scope ...slog.Attr) []string {
	content, err := page.Content()
	if err != nil {
		r.logger.Error("Failed to capture page content", slog.String("name", name), slog.Any("error", err))
		return nil
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.logger.Error("Failed to create reports directory", slog.String("dir", r.dir), slog.Any("error", err))
		return nil
	}

	base := FileBase(name)
	var written []string

	htmlPath := filepath.Join(r.dir, base+"_failure.html")
	if err := os.WriteFile(htmlPath, []byte(content), 0o644); err != nil {
		r.logger.Error("Failed to write page content", slog.String("path", htmlPath), slog.Any("error", err))
		return nil
	}
	written = append(written, htmlPath)
	r.logger.Info("HTML saved", slog.String("path", htmlPath))

	if !r.highlight {
		return written
	}

	reportPath := filepath.Join(r.dir, base+"_failure.report.html")
	if err := r.writeReport(reportPath, page, name, content, cause, scope); err != nil {
		r.logger.Error("Failed to write failure report", slog.String("path", reportPath), slog.Any("error", err))
		return written
	}
	written = append(written, reportPath)
	r.logger.Info("Failure report saved", slog.String("path", reportPath))
	return written
}

func (r *Reporter) writeReport(path string, page browser.Page, name, content string, cause error, scope []slog.Attr) error {
	data := failureData{
		RunID:   uuid.Must(uuid.NewV4()),
		Name:    name,
		URL:     page.URL(),
		Time:    r.now(),
		Content: content,
	}
	if title, err := page.Title(); err == nil {
		data.Title = title
	}
	if cause != nil {
		data.Cause = cause.Error()
	}
	if r.journal != nil {
		data.Log = r.journal.LinesWith(r.journalLines, scope...)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := failurePage(data).Render(context.Background(), f); err != nil {
		f.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	return f.Close()
}

// Guard captures a failure report for page when t has failed by the time
// its cleanup runs.
func Guard(t testing.TB, r *Reporter, page browser.Page) {
	t.Helper()
	t.Cleanup(func() {
		if t.Failed() {
			r.CaptureFailure(page, t.Name(), nil)
		}
	})
}
