package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/samber/lo"
)

// FromPlaywright adapts a playwright page to the Page capability.
func FromPlaywright(page playwright.Page) Page {
	return &pwPage{page: page}
}

type pwPage struct {
	page playwright.Page
}

func (p *pwPage) Locator(selector string) Locator {
	return &pwLocator{locator: p.page.Locator(selector), selector: selector}
}

func (p *pwPage) Goto(url string) error {
	_, err := p.page.Goto(url)
	return mapError(err)
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) Title() (string, error) {
	title, err := p.page.Title()
	return title, mapError(err)
}

func (p *pwPage) Content() (string, error) {
	content, err := p.page.Content()
	return content, mapError(err)
}

func (p *pwPage) WaitForLoadState(state LoadState, timeout time.Duration) error {
	var loadState *playwright.LoadState
	switch state {
	case LoadNetworkIdle:
		loadState = playwright.LoadStateNetworkidle
	case LoadDOMContentLoaded:
		loadState = playwright.LoadStateDomcontentloaded
	default:
		return fmt.Errorf("unsupported load state %q", state)
	}
	return mapError(p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   loadState,
		Timeout: milliseconds(timeout),
	}))
}

type pwLocator struct {
	locator  playwright.Locator
	selector string
}

func (l *pwLocator) Locator(selector string) Locator {
	return &pwLocator{
		locator:  l.locator.Locator(selector),
		selector: l.selector + " >> " + selector,
	}
}

func (l *pwLocator) Selector() string {
	return l.selector
}

func (l *pwLocator) Click() error {
	return l.wrap("click", l.locator.Click())
}

func (l *pwLocator) Type(text string) error {
	return l.wrap("type", l.locator.PressSequentially(text))
}

func (l *pwLocator) IsVisible() (bool, error) {
	visible, err := l.locator.IsVisible()
	return visible, l.wrap("is visible", err)
}

func (l *pwLocator) IsChecked() (bool, error) {
	checked, err := l.locator.IsChecked()
	return checked, l.wrap("is checked", err)
}

func (l *pwLocator) TextContent() (string, error) {
	text, err := l.locator.TextContent()
	return text, l.wrap("text content", err)
}

func (l *pwLocator) InnerText() (string, error) {
	text, err := l.locator.InnerText()
	return text, l.wrap("inner text", err)
}

func (l *pwLocator) GetAttribute(name string) (string, error) {
	value, err := l.locator.GetAttribute(name)
	return value, l.wrap("get attribute "+name, err)
}

func (l *pwLocator) Count() (int, error) {
	count, err := l.locator.Count()
	return count, l.wrap("count", err)
}

func (l *pwLocator) Nth(index int) Locator {
	return &pwLocator{
		locator:  l.locator.Nth(index),
		selector: fmt.Sprintf("%s >> nth=%d", l.selector, index),
	}
}

func (l *pwLocator) First() Locator {
	return l.Nth(0)
}

func (l *pwLocator) All() ([]Locator, error) {
	count, err := l.Count()
	if err != nil {
		return nil, err
	}
	return lo.Times(count, func(i int) Locator {
		return l.Nth(i)
	}), nil
}

func (l *pwLocator) WaitFor(state State, timeout time.Duration) error {
	var waitState *playwright.WaitForSelectorState
	switch state {
	case StateVisible:
		waitState = playwright.WaitForSelectorStateVisible
	case StateHidden:
		waitState = playwright.WaitForSelectorStateHidden
	case StateAttached:
		waitState = playwright.WaitForSelectorStateAttached
	case StateDetached:
		waitState = playwright.WaitForSelectorStateDetached
	default:
		return fmt.Errorf("unsupported wait state %q", state)
	}
	err := l.locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   waitState,
		Timeout: milliseconds(timeout),
	})
	return l.wrap("wait for "+string(state), err)
}

func (l *pwLocator) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, l.selector, mapError(err))
}

// mapError keeps the playwright error text but makes timeouts match ErrTimeout.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func milliseconds(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}
	return playwright.Float(float64(d.Milliseconds()))
}
