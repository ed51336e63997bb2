// Package browsertest implements browser.Page on an in-memory element tree.
//
// Elements are attached to their parent under the selector that should find
// them, so a locator chain resolves by searching the subtree for each selector. This
// keeps tests free of any CSS engine while preserving the re-resolve on every
// call behaviour of a real browser.
package browsertest

import (
	"slices"
)

// Element is a node of the fake document. Fields may be changed freely inside
// Page.Update or from click and type hooks.
type Element struct {
	Text    string
	Attrs   map[string]string
	Hidden  bool
	Checked bool

	// OnClick runs with the page lock held after a successful click.
	OnClick func(e *Element)
	// OnType runs with the page lock held after text was typed into the element.
	OnType func(e *Element, text string)

	Clicks int
	Typed  []string

	parent   *Element
	children []child
}

type child struct {
	selector string
	element  *Element
}

// NewElement creates a detached element with the given text.
func NewElement(text string) *Element {
	return &Element{Text: text, Attrs: map[string]string{}}
}

// Add attaches c below e, findable by selector, and returns c.
func (e *Element) Add(selector string, c *Element) *Element {
	if c.Attrs == nil {
		c.Attrs = map[string]string{}
	}
	c.parent = e
	e.children = append(e.children, child{selector: selector, element: c})
	return c
}

// AddNew is a shortcut for Add(selector, NewElement(text)).
func (e *Element) AddNew(selector, text string) *Element {
	return e.Add(selector, NewElement(text))
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c child) bool {
		return c.element == e
	})
	e.parent = nil
}

// RemoveAll detaches every child registered under selector.
func (e *Element) RemoveAll(selector string) {
	for _, c := range e.Children(selector) {
		c.Remove()
	}
}

// Children returns the attached children registered under selector, in order.
func (e *Element) Children(selector string) []*Element {
	var result []*Element
	for _, c := range e.children {
		if c.selector == selector {
			result = append(result, c.element)
		}
	}
	return result
}

// Find returns all descendants registered under selector in document order.
func (e *Element) Find(selector string) []*Element {
	var result []*Element
	for _, c := range e.children {
		if c.selector == selector {
			result = append(result, c.element)
		}
		result = append(result, c.element.Find(selector)...)
	}
	return result
}

// Parent returns the parent element or nil if e is detached.
func (e *Element) Parent() *Element {
	return e.parent
}

// Attached reports whether e is still part of a tree.
func (e *Element) Attached() bool {
	return e.parent != nil
}

// Visible reports whether e and all its ancestors are shown.
func (e *Element) Visible() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.Hidden {
			return false
		}
	}
	return true
}
