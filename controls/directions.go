package controls

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/flight"
	"github.com/networkteam/flightsearch/poll"
)

// ErrUnknownTripType is returned for a direction the radio group has no option for.
var ErrUnknownTripType = errors.New("unknown trip type")

// DirectionsRadioGroup selects the trip type through the modes popup.
//
// The committed choice is read from the picker's data-test attribute, which
// the page rewrites to e.g. "SearchFormModesPicker-return" once a selection
// is applied. The radios inside the popup only reflect the pending choice.
type DirectionsRadioGroup struct {
	picker browser.Locator
	dialog browser.Locator
	radios map[string]*RadioButton

	timeout time.Duration
	logger  *slog.Logger
}

// NewDirectionsRadioGroup locates the modes picker and its popup on the page.
func NewDirectionsRadioGroup(page browser.Scope, opts ...Option) *DirectionsRadioGroup {
	o := newOptions(opts)
	radios := make(map[string]*RadioButton)
	for _, d := range flight.TravelDirections() {
		radios[d.PageCode] = NewRadioButton(page, "ModePopupOption-"+d.PageCode, opts...)
	}
	return &DirectionsRadioGroup{
		picker:  page.Locator(`[data-test^="SearchFormModesPicker"]`),
		dialog:  page.Locator(`[role="dialog"][data-test="ModesField"]`),
		radios:  radios,
		timeout: o.timeout,
		logger:  o.logger,
	}
}

// Radio returns the option for the direction, or nil if there is none.
func (g *DirectionsRadioGroup) Radio(dir flight.TravelDirection) *RadioButton {
	return g.radios[dir.PageCode]
}

// IsVisible reports whether the picker is visible.
func (g *DirectionsRadioGroup) IsVisible() (bool, error) {
	return g.picker.IsVisible()
}

// WaitUntilVisible waits for the picker to become visible.
func (g *DirectionsRadioGroup) WaitUntilVisible(timeout time.Duration) error {
	return g.picker.WaitFor(browser.StateVisible, timeout)
}

// IsSelected reports whether dir is the committed trip type.
func (g *DirectionsRadioGroup) IsSelected(dir flight.TravelDirection) (bool, error) {
	status, err := g.picker.GetAttribute("data-test")
	if err != nil {
		return false, fmt.Errorf("reading trip type status: %w", err)
	}
	return strings.Contains(strings.ToLower(status), strings.ToLower(dir.PageCode)), nil
}

// SelectTripType commits dir as the trip type. It opens the popup if needed,
// clicks the option and waits until the popup closed and the picker reports
// the new choice. Selecting the current trip type does nothing.
func (g *DirectionsRadioGroup) SelectTripType(dir flight.TravelDirection) error {
	radio := g.Radio(dir)
	if radio == nil {
		return fmt.Errorf("%w: %q", ErrUnknownTripType, dir.PageCode)
	}

	selected, err := g.IsSelected(dir)
	if err != nil {
		return err
	}
	if selected {
		g.logger.Debug("Trip type already selected", slog.String("tripType", dir.PageCode))
		return nil
	}

	open, err := g.dialog.IsVisible()
	if err != nil {
		return err
	}
	if !open {
		if err := g.picker.Click(); err != nil {
			return fmt.Errorf("opening trip type popup: %w", err)
		}
		if err := g.dialog.WaitFor(browser.StateVisible, g.timeout); err != nil {
			return fmt.Errorf("opening trip type popup: %w", err)
		}
	}

	if err := radio.SelectIfNotSelected(); err != nil {
		return fmt.Errorf("selecting trip type %s: %w", dir.PageCode, err)
	}
	if err := g.dialog.WaitFor(browser.StateHidden, g.timeout); err != nil {
		return fmt.Errorf("closing trip type popup: %w", err)
	}

	var lastErr error
	committed := poll.Until(func() bool {
		ok, err := g.IsSelected(dir)
		lastErr = err
		return err == nil && ok
	}, g.timeout, poll.DefaultInterval)
	if !committed {
		if lastErr != nil {
			return fmt.Errorf("trip type %s not committed: %w", dir.PageCode, lastErr)
		}
		return fmt.Errorf("trip type %s not committed within %s: %w", dir.PageCode, g.timeout, browser.ErrTimeout)
	}

	g.logger.Debug("Selected trip type", slog.String("tripType", dir.PageCode))
	return nil
}
