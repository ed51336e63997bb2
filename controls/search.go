package controls

import (
	"time"

	"github.com/networkteam/flightsearch/browser"
)

// SearchFlightsControl is the search form of the landing page.
type SearchFlightsControl struct {
	Directions            *DirectionsRadioGroup
	Origin                *DestinationInputBox
	Destination           *DestinationInputBox
	Calendar              *CalendarField
	AccommodationCheckbox *Checkbox

	searchButton browser.Locator
}

// NewSearchFlightsControl wires every part of the form to its data-test value.
func NewSearchFlightsControl(page browser.Scope, opts ...Option) *SearchFlightsControl {
	return &SearchFlightsControl{
		Directions:            NewDirectionsRadioGroup(page, opts...),
		Origin:                NewDestinationInputBox(page, "PlacePickerInput-origin", opts...),
		Destination:           NewDestinationInputBox(page, "PlacePickerInput-destination", opts...),
		Calendar:              NewCalendarField(page, browser.DataTest("SearchDateInput"), opts...),
		AccommodationCheckbox: NewCheckbox(page, "accommodationCheckbox", opts...),
		searchButton:          page.Locator(browser.DataTest("LandingSearchButton")),
	}
}

// ClickSearch submits the form.
func (c *SearchFlightsControl) ClickSearch() error {
	return c.searchButton.Click()
}

// WaitUntilVisible waits for the search button to become visible.
func (c *SearchFlightsControl) WaitUntilVisible(timeout time.Duration) error {
	return c.searchButton.WaitFor(browser.StateVisible, timeout)
}
