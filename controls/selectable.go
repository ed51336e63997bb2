package controls

import (
	"log/slog"
	"time"

	"github.com/networkteam/flightsearch/browser"
)

// selectable is a labelled input below a container with a data-test value.
// The label is the only reliably clickable surface; the input carries the
// checked state.
type selectable struct {
	dataTest string
	label    browser.Locator
	input    browser.Locator
	logger   *slog.Logger
}

func newSelectable(scope browser.Scope, dataTest, inputType string, o options) selectable {
	container := scope.Locator(browser.DataTest(dataTest))
	return selectable{
		dataTest: dataTest,
		label:    container.Locator("label"),
		input:    container.Locator(`input[type="` + inputType + `"]`),
		logger:   o.logger,
	}
}

// Click clicks the label.
func (s selectable) Click() error {
	s.logger.Debug("Clicking label", slog.String("dataTest", s.dataTest))
	return s.label.Click()
}

// IsVisible reports whether the label is visible.
func (s selectable) IsVisible() (bool, error) {
	return s.label.IsVisible()
}

// IsSelected reads the live checked state of the input.
func (s selectable) IsSelected() (bool, error) {
	return s.input.IsChecked()
}

// WaitUntilVisible waits for the label to become visible.
func (s selectable) WaitUntilVisible(timeout time.Duration) error {
	return s.label.WaitFor(browser.StateVisible, timeout)
}

// LabelText returns the text content of the label.
func (s selectable) LabelText() (string, error) {
	return s.label.TextContent()
}

// setSelected clicks only if the current state differs from want.
func (s selectable) setSelected(want bool) error {
	selected, err := s.IsSelected()
	if err != nil {
		return err
	}
	if selected == want {
		return nil
	}
	return s.Click()
}

// RadioButton is a radio input with its label.
type RadioButton struct {
	selectable
}

// NewRadioButton locates the radio below the element with the data-test value.
func NewRadioButton(scope browser.Scope, dataTest string, opts ...Option) *RadioButton {
	return &RadioButton{selectable: newSelectable(scope, dataTest, "radio", newOptions(opts))}
}

// SelectIfNotSelected clicks the radio unless it is already checked.
func (r *RadioButton) SelectIfNotSelected() error {
	return r.setSelected(true)
}

// Checkbox is a checkbox input with its label.
type Checkbox struct {
	selectable
}

// NewCheckbox locates the checkbox below the element with the data-test value.
func NewCheckbox(scope browser.Scope, dataTest string, opts ...Option) *Checkbox {
	return &Checkbox{selectable: newSelectable(scope, dataTest, "checkbox", newOptions(opts))}
}

// Select checks the checkbox unless it is already checked.
func (c *Checkbox) Select() error {
	return c.setSelected(true)
}

// Unselect unchecks the checkbox unless it is already unchecked.
func (c *Checkbox) Unselect() error {
	return c.setSelected(false)
}
