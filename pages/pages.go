// Package pages provides page objects for the flight search site. A page
// object bundles the locators and controls of one page and exposes the
// interactions a scenario needs.
package pages

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/controls"
)

// BasePage has the interactions common to all pages.
type BasePage struct {
	page browser.Page
	o    options
	// opts are handed on to page objects this page opens.
	opts []Option
}

// NewBasePage wraps page.
func NewBasePage(page browser.Page, opts ...Option) *BasePage {
	return &BasePage{page: page, o: newOptions(opts), opts: opts}
}

// Page returns the wrapped browser page.
func (p *BasePage) Page() browser.Page {
	return p.page
}

// NavigateTo loads url in the page.
func (p *BasePage) NavigateTo(url string) error {
	p.o.logger.Debug("Navigating", slog.String("url", url))
	if err := p.page.Goto(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Title returns the document title.
func (p *BasePage) Title() (string, error) {
	return p.page.Title()
}

// WaitForLoad waits until the network is idle. A zero timeout uses the page timeout.
func (p *BasePage) WaitForLoad(timeout time.Duration) error {
	return p.page.WaitForLoadState(browser.LoadNetworkIdle, p.o.timeoutOr(timeout))
}

// PrivacyPage is the cookie consent popup.
type PrivacyPage struct {
	*BasePage
	acceptCookiesButton browser.Locator
}

// NewPrivacyPage creates the cookie consent page object for page.
func NewPrivacyPage(page browser.Page, opts ...Option) *PrivacyPage {
	return &PrivacyPage{
		BasePage:            NewBasePage(page, opts...),
		acceptCookiesButton: page.Locator(browser.DataTest("CookiesPopup-Accept")),
	}
}

// AcceptCookies accepts cookies if the consent popup is shown and waits for
// it to go away. Without a popup this does nothing.
func (p *PrivacyPage) AcceptCookies() error {
	visible, err := p.acceptCookiesButton.IsVisible()
	if err != nil {
		return fmt.Errorf("checking cookie popup: %w", err)
	}
	if !visible {
		return nil
	}
	if err := p.acceptCookiesButton.Click(); err != nil {
		return fmt.Errorf("accepting cookies: %w", err)
	}
	if err := p.acceptCookiesButton.WaitFor(browser.StateHidden, p.o.timeout); err != nil {
		return fmt.Errorf("accepting cookies: %w", err)
	}
	p.o.logger.Debug("Accepted cookies")
	return nil
}

// StartPage is the landing page with the flight search form.
type StartPage struct {
	*BasePage
	SearchFlightsControl *controls.SearchFlightsControl
}

// NewStartPage creates the landing page object. Control options given with
// WithControlOptions reach its search form.
func NewStartPage(page browser.Page, opts ...Option) *StartPage {
	base := NewBasePage(page, opts...)
	return &StartPage{
		BasePage:             base,
		SearchFlightsControl: controls.NewSearchFlightsControl(page, base.o.controlOpts()...),
	}
}

// WaitForLoad waits for the search form instead of network idle, the
// landing page keeps polling in the background.
func (p *StartPage) WaitForLoad(timeout time.Duration) error {
	if err := p.SearchFlightsControl.WaitUntilVisible(p.o.timeoutOr(timeout)); err != nil {
		return fmt.Errorf("waiting for search form: %w", err)
	}
	return nil
}

// NavigateTo loads url, or the base url if url is empty, waits for the
// search form and optionally accepts cookies.
func (p *StartPage) NavigateTo(url string, acceptCookies bool) error {
	if url == "" {
		url = p.o.baseURL
	}
	if err := p.BasePage.NavigateTo(url); err != nil {
		return err
	}
	if err := p.WaitForLoad(0); err != nil {
		return err
	}
	if acceptCookies {
		return NewPrivacyPage(p.page, p.opts...).AcceptCookies()
	}
	return nil
}

// ResultsPage is the search results page.
type ResultsPage struct {
	*BasePage
	loadingLine browser.Locator
	resultsList browser.Locator
}

// NewResultsPage creates the results page object for page.
func NewResultsPage(page browser.Page, opts ...Option) *ResultsPage {
	return &ResultsPage{
		BasePage:    NewBasePage(page, opts...),
		loadingLine: page.Locator(browser.DataTest("LoadingLine")),
		resultsList: page.Locator(browser.DataTest("ResultList-results")),
	}
}

// WaitForResults waits for the loading indicator and then for the results
// list, each bounded by timeout. A zero timeout uses the page timeout.
func (p *ResultsPage) WaitForResults(timeout time.Duration) error {
	timeout = p.o.timeoutOr(timeout)
	if err := p.loadingLine.WaitFor(browser.StateVisible, timeout); err != nil {
		return fmt.Errorf("waiting for results loading: %w", err)
	}
	if err := p.resultsList.WaitFor(browser.StateVisible, timeout); err != nil {
		return fmt.Errorf("waiting for results list: %w", err)
	}
	p.o.logger.Debug("Results shown")
	return nil
}
