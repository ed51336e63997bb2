// Package browser defines the capability the page objects and controls consume:
// locating elements by selector, acting on them and waiting for state changes.
//
// Locators are lightweight values holding a scope and a selector. They are
// resolved against the live document on every call and never cache element
// handles, so a locator stays valid while the page re-renders.
package browser

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned when a wait or action did not complete in time.
	ErrTimeout = errors.New("timeout")
	// ErrNotFound is returned when a locator does not resolve to any element.
	ErrNotFound = errors.New("element not found")
)

// State is an element state a Locator can wait for.
type State string

const (
	StateVisible  State = "visible"
	StateHidden   State = "hidden"
	StateAttached State = "attached"
	StateDetached State = "detached"
)

// LoadState is a page load milestone.
type LoadState string

const (
	LoadDOMContentLoaded LoadState = "domcontentloaded"
	LoadNetworkIdle      LoadState = "networkidle"
)

// Scope can create locators relative to itself.
type Scope interface {
	Locator(selector string) Locator
}

// Locator addresses zero or more elements.
type Locator interface {
	Scope

	// Selector returns the full selector chain, for diagnostics.
	Selector() string

	Click() error
	// Type sends the text key by key to the element.
	Type(text string) error

	IsVisible() (bool, error)
	IsChecked() (bool, error)
	TextContent() (string, error)
	InnerText() (string, error)
	GetAttribute(name string) (string, error)

	Count() (int, error)
	Nth(index int) Locator
	First() Locator
	All() ([]Locator, error)

	// WaitFor blocks until the element reaches state, or fails with ErrTimeout.
	WaitFor(state State, timeout time.Duration) error
}

// Page is one browser tab.
type Page interface {
	Scope

	Goto(url string) error
	URL() string
	Title() (string, error)
	// Content returns the full rendered markup.
	Content() (string, error)
	WaitForLoadState(state LoadState, timeout time.Duration) error
}

// DataTest returns the selector for elements with the given data-test value.
// data-test attributes are the addressing scheme of the target application.
func DataTest(value string) string {
	return fmt.Sprintf(`[data-test="%s"]`, value)
}
