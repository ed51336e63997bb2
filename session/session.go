// Package session launches the configured browser through Playwright and
// hands out isolated pages for tests and scenario runs.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/playwright-community/playwright-go"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/config"
)

// Session owns a Playwright driver and one launched browser.
type Session struct {
	PW      *playwright.Playwright
	Browser playwright.Browser

	cfg    *config.Config
	logger *slog.Logger
}

// Install downloads the driver and the browsers for the given engines.
// Without engines all browsers are installed.
func Install(engines ...string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: engines}); err != nil {
		return fmt.Errorf("installing playwright: %w", err)
	}
	return nil
}

// Start runs Playwright and launches the engine of cfg with its headless and
// slow motion settings.
func Start(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	browserType, err := selectBrowserType(pw, cfg.Browser.Browser)
	if err != nil {
		_ = pw.Stop()
		return nil, err
	}
	b, err := browserType.Launch(launchOptions(cfg.Browser))
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launching %s: %w", cfg.Browser.Browser, err)
	}

	logger.Debug("Browser launched",
		slog.String("browser", cfg.Browser.Browser),
		slog.Bool("headless", cfg.Browser.Headless),
		slog.String("version", b.Version()),
	)
	return &Session{PW: pw, Browser: b, cfg: cfg, logger: logger}, nil
}

func selectBrowserType(pw *playwright.Playwright, engine string) (playwright.BrowserType, error) {
	switch engine {
	case "chromium", "":
		return pw.Chromium, nil
	case "firefox":
		return pw.Firefox, nil
	case "webkit":
		return pw.WebKit, nil
	}
	return nil, fmt.Errorf("unsupported browser %q", engine)
}

func launchOptions(cfg config.BrowserConfig) playwright.BrowserTypeLaunchOptions {
	return playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo)),
	}
}

func contextOptions(cfg *config.Config) playwright.BrowserNewContextOptions {
	return playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  cfg.Browser.Viewport.Width,
			Height: cfg.Browser.Viewport.Height,
		},
		BaseURL: playwright.String(cfg.Test.BaseURL),
	}
}

// Page is a page in its own browser context.
type Page struct {
	browser.Page
	Raw     playwright.Page
	Context playwright.BrowserContext
}

// NewPage creates a fresh context with the configured viewport and base url
// and opens a page with the configured default timeout.
func (s *Session) NewPage() (*Page, error) {
	ctx, err := s.Browser.NewContext(contextOptions(s.cfg))
	if err != nil {
		return nil, fmt.Errorf("creating browser context: %w", err)
	}
	raw, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		return nil, fmt.Errorf("creating page: %w", err)
	}
	raw.SetDefaultTimeout(float64(s.cfg.Test.Timeout))

	return &Page{
		Page:    browser.FromPlaywright(raw),
		Raw:     raw,
		Context: ctx,
	}, nil
}

// Close closes the page and its context.
func (p *Page) Close() error {
	return errors.Join(p.Raw.Close(), p.Context.Close())
}

// Close closes the browser and stops Playwright.
func (s *Session) Close() error {
	return errors.Join(s.Browser.Close(), s.PW.Stop())
}
