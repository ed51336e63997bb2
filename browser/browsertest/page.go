package browsertest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/poll"
)

const waitInterval = time.Millisecond

// Page is a fake browser.Page backed by an element tree.
type Page struct {
	mu sync.Mutex

	root    *Element
	url     string
	actions []string

	// TitleText is returned by Title.
	TitleText string
	// HTML is returned by Content.
	HTML string
	// OnGoto runs with the page lock held when Goto is called.
	OnGoto func(url string)
	// LoadStateErr is returned by WaitForLoadState if set.
	LoadStateErr error
}

var _ browser.Page = &Page{}

// NewPage creates an empty page.
func NewPage() *Page {
	return &Page{root: NewElement("")}
}

// Root returns the document element. Mutate it only inside Update or hooks
// once the page is in use.
func (p *Page) Root() *Element {
	return p.root
}

// Update runs fn with the page lock held.
func (p *Page) Update(fn func(root *Element)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.root)
}

// UpdateAfter runs fn with the page lock held once d has passed.
func (p *Page) UpdateAfter(d time.Duration, fn func(root *Element)) {
	time.AfterFunc(d, func() {
		p.Update(fn)
	})
}

// Actions returns the recorded clicks and typing in order, e.g.
// `click [data-test="X"] >> label`.
func (p *Page) Actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.actions...)
}

// CountActions returns how many recorded actions equal action.
func (p *Page) CountActions(action string) int {
	n := 0
	for _, a := range p.Actions() {
		if a == action {
			n++
		}
	}
	return n
}

func (p *Page) Locator(selector string) browser.Locator {
	return &Locator{page: p, segments: []string{selector}}
}

func (p *Page) Goto(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
	p.actions = append(p.actions, "goto "+url)
	if p.OnGoto != nil {
		p.OnGoto(url)
	}
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Page) Title() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.TitleText, nil
}

func (p *Page) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.HTML, nil
}

func (p *Page) WaitForLoadState(state browser.LoadState, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.LoadStateErr
}

// resolve walks the selector chain, matching each selector against all
// descendants like a CSS descendant combinator. It must be called with the
// lock held.
func (p *Page) resolve(segments []string) []*Element {
	current := []*Element{p.root}
	for _, segment := range segments {
		if n, ok := parseNth(segment); ok {
			if n < 0 || n >= len(current) {
				return nil
			}
			current = current[n : n+1]
			continue
		}
		var next []*Element
		for _, e := range current {
			next = append(next, e.Find(segment)...)
		}
		current = next
	}
	return current
}

func parseNth(segment string) (int, bool) {
	rest, ok := strings.CutPrefix(segment, "nth=")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Locator is a selector chain into a fake Page.
type Locator struct {
	page     *Page
	segments []string
}

var _ browser.Locator = &Locator{}

func (l *Locator) with(segment string) *Locator {
	segments := append(append([]string(nil), l.segments...), segment)
	return &Locator{page: l.page, segments: segments}
}

func (l *Locator) Locator(selector string) browser.Locator {
	return l.with(selector)
}

func (l *Locator) Selector() string {
	return strings.Join(l.segments, " >> ")
}

// single resolves to exactly one element like a strict playwright locator.
// It must be called with the lock held.
func (l *Locator) single() (*Element, error) {
	elements := l.page.resolve(l.segments)
	switch len(elements) {
	case 0:
		return nil, fmt.Errorf("%s: %w", l.Selector(), browser.ErrNotFound)
	case 1:
		return elements[0], nil
	default:
		return nil, fmt.Errorf("strict mode violation: %s resolved to %d elements", l.Selector(), len(elements))
	}
}

func (l *Locator) Click() error {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	e, err := l.single()
	if err != nil {
		return fmt.Errorf("click: %w", err)
	}
	if !e.Visible() {
		return fmt.Errorf("click %s: element is not visible: %w", l.Selector(), browser.ErrTimeout)
	}
	e.Clicks++
	l.page.actions = append(l.page.actions, "click "+l.Selector())
	if e.OnClick != nil {
		e.OnClick(e)
	}
	return nil
}

func (l *Locator) Type(text string) error {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	e, err := l.single()
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}
	e.Typed = append(e.Typed, text)
	e.Attrs["value"] += text
	l.page.actions = append(l.page.actions, "type "+l.Selector()+" "+text)
	if e.OnType != nil {
		e.OnType(e, text)
	}
	return nil
}

func (l *Locator) IsVisible() (bool, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	elements := l.page.resolve(l.segments)
	if len(elements) == 0 {
		return false, nil
	}
	if len(elements) > 1 {
		return false, fmt.Errorf("strict mode violation: %s resolved to %d elements", l.Selector(), len(elements))
	}
	return elements[0].Visible(), nil
}

func (l *Locator) IsChecked() (bool, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	e, err := l.single()
	if err != nil {
		return false, err
	}
	return e.Checked, nil
}

func (l *Locator) TextContent() (string, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	e, err := l.single()
	if err != nil {
		return "", err
	}
	return e.Text, nil
}

func (l *Locator) InnerText() (string, error) {
	return l.TextContent()
}

func (l *Locator) GetAttribute(name string) (string, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	e, err := l.single()
	if err != nil {
		return "", err
	}
	return e.Attrs[name], nil
}

func (l *Locator) Count() (int, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	return len(l.page.resolve(l.segments)), nil
}

func (l *Locator) Nth(index int) browser.Locator {
	return l.with(fmt.Sprintf("nth=%d", index))
}

func (l *Locator) First() browser.Locator {
	return l.Nth(0)
}

func (l *Locator) All() ([]browser.Locator, error) {
	count, err := l.Count()
	if err != nil {
		return nil, err
	}
	result := make([]browser.Locator, count)
	for i := range result {
		result[i] = l.Nth(i)
	}
	return result, nil
}

func (l *Locator) WaitFor(state browser.State, timeout time.Duration) error {
	check := func() bool {
		l.page.mu.Lock()
		defer l.page.mu.Unlock()
		elements := l.page.resolve(l.segments)
		switch state {
		case browser.StateVisible:
			return len(elements) == 1 && elements[0].Visible()
		case browser.StateHidden:
			return len(elements) == 0 || (len(elements) == 1 && !elements[0].Visible())
		case browser.StateAttached:
			return len(elements) == 1
		case browser.StateDetached:
			return len(elements) == 0
		}
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if !poll.UntilContext(ctx, check, waitInterval) {
		return fmt.Errorf("wait for %s %s: %w", state, l.Selector(), browser.ErrTimeout)
	}
	return nil
}
