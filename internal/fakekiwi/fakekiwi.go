// Package fakekiwi renders a scripted imitation of the flight search landing
// and results pages on a browsertest.Page. It reacts to clicks and typing like
// the real site does, including asynchronous suggestion lists, a trip type
// popup that commits after closing, and a paged calendar.
package fakekiwi

import (
	"fmt"
	"strings"
	"time"

	"github.com/networkteam/flightsearch/browser/browsertest"
	"github.com/networkteam/flightsearch/flight"
)

// Options control the timing and initial state of the fake site.
type Options struct {
	// Now is the date the calendar opens at.
	Now time.Time
	// MonthsDisplayed is the number of month pages the calendar renders.
	MonthsDisplayed int
	// TripType is the initially committed trip type.
	TripType flight.TravelDirection
	// ShowCookies renders the cookie consent popup.
	ShowCookies bool
	// SuggestionDelay is how long after typing the suggestion list appears.
	SuggestionDelay time.Duration
	// CommitDelay is how long after the popup closed the picker reflects a new trip type.
	CommitDelay time.Duration
	// RemoveDelay is how long after clicking close a place tag disappears.
	RemoveDelay time.Duration
	// ResultsDelay is how long after searching the results list appears.
	ResultsDelay time.Duration
	// Origin and Destination are the initially selected places.
	Origin      []flight.Airport
	Destination []flight.Airport
}

// Site is the fake landing page with handles to its interesting elements.
type Site struct {
	Page *browsertest.Page

	ModesPicker   *browsertest.Element
	ModesDialog   *browsertest.Element
	CookiesAccept *browsertest.Element
	Accommodation *browsertest.Element
	SearchButton  *browsertest.Element
	DateDisplay   *browsertest.Element
	Calendar      *browsertest.Element

	// SelectedDate is the date confirmed through the calendar.
	SelectedDate string
	// Searched is set once the search button was clicked.
	Searched bool

	opts         Options
	radios       map[string]*browsertest.Element
	pickers      map[string]*browsertest.Element
	windowStart  time.Time
	pendingDate  string
	monthButtons []*browsertest.Element
	dayCells     []*browsertest.Element
}

// New renders the landing page.
func New(opts Options) *Site {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.MonthsDisplayed == 0 {
		opts.MonthsDisplayed = 1
	}
	if opts.TripType.IsZero() {
		opts.TripType = flight.Return
	}

	page := browsertest.NewPage()
	page.TitleText = "Cheap flights | Kiwi.com"
	page.HTML = `<html><head><title>Cheap flights</title></head><body><div data-test="LandingSearchButton">Search</div></body></html>`

	s := &Site{
		Page:        page,
		opts:        opts,
		radios:      map[string]*browsertest.Element{},
		pickers:     map[string]*browsertest.Element{},
		windowStart: time.Date(opts.Now.Year(), opts.Now.Month(), 1, 0, 0, 0, 0, opts.Now.Location()),
	}
	root := page.Root()

	if opts.ShowCookies {
		s.CookiesAccept = root.AddNew(`[data-test="CookiesPopup-Accept"]`, "Accept")
		s.CookiesAccept.OnClick = func(e *browsertest.Element) {
			e.Remove()
		}
	}

	s.renderModes(root)
	s.renderPicker(root, "PlacePickerInput-origin", opts.Origin)
	s.renderPicker(root, "PlacePickerInput-destination", opts.Destination)
	s.renderCalendar(root)

	s.Accommodation = root.AddNew(`[data-test="accommodationCheckbox"]`, "")
	accommodationInput := s.Accommodation.AddNew(`input[type="checkbox"]`, "")
	accommodationInput.Checked = true
	s.Accommodation.AddNew("label", "Check accommodation with booking.com").OnClick = func(*browsertest.Element) {
		accommodationInput.Checked = !accommodationInput.Checked
	}

	s.SearchButton = root.AddNew(`[data-test="LandingSearchButton"]`, "Search")
	s.SearchButton.OnClick = func(*browsertest.Element) {
		s.Searched = true
		s.renderResults()
	}

	return s
}

func (s *Site) renderModes(root *browsertest.Element) {
	s.ModesPicker = root.AddNew(`[data-test^="SearchFormModesPicker"]`, "")
	s.ModesPicker.Attrs["data-test"] = "SearchFormModesPicker-active-" + s.opts.TripType.PageCode

	s.ModesDialog = root.AddNew(`[role="dialog"][data-test="ModesField"]`, "")
	s.ModesDialog.Hidden = true
	s.ModesPicker.OnClick = func(*browsertest.Element) {
		s.ModesDialog.Hidden = false
	}

	for _, d := range flight.TravelDirections() {
		option := s.ModesDialog.AddNew(fmt.Sprintf(`[data-test="ModePopupOption-%s"]`, d.PageCode), "")
		input := option.AddNew(`input[type="radio"]`, "")
		input.Checked = d == s.opts.TripType
		s.radios[d.PageCode] = input

		label := option.AddNew("label", d.PageCode)
		label.OnClick = func(*browsertest.Element) {
			for code, radio := range s.radios {
				radio.Checked = code == d.PageCode
			}
			s.ModesDialog.Hidden = true
			s.Page.UpdateAfter(s.opts.CommitDelay, func(*browsertest.Element) {
				s.ModesPicker.Attrs["data-test"] = "SearchFormModesPicker-active-" + d.PageCode
			})
		}
	}
}

func (s *Site) renderPicker(root *browsertest.Element, dataTest string, initial []flight.Airport) {
	picker := root.AddNew(fmt.Sprintf(`[data-test="%s"]`, dataTest), "")
	s.pickers[dataTest] = picker
	for _, a := range initial {
		s.addPlace(picker, a)
	}

	input := picker.AddNew("input", "")
	input.OnType = func(e *browsertest.Element, _ string) {
		typed := e.Attrs["value"]
		s.Page.UpdateAfter(s.opts.SuggestionDelay, func(root *browsertest.Element) {
			s.renderSuggestions(root, picker, input, typed)
		})
	}
}

func (s *Site) addPlace(picker *browsertest.Element, a flight.Airport) {
	place := picker.AddNew(`[data-test="PlacePickerInputPlace"]`, "\u200e"+a.City+" ")
	place.AddNew(`[data-test="PlacePickerInputPlace-close"]`, "×").OnClick = func(*browsertest.Element) {
		if s.opts.RemoveDelay == 0 {
			place.Remove()
			return
		}
		s.Page.UpdateAfter(s.opts.RemoveDelay, func(*browsertest.Element) {
			place.Remove()
		})
	}
}

const suggestionSelector = `[data-test^="PlacePickerRow"][role="button"]`

func (s *Site) renderSuggestions(root, picker, input *browsertest.Element, typed string) {
	root.RemoveAll(suggestionSelector)

	// A row that never matches comes first, like the "anywhere" row of the real site
	root.AddNew(suggestionSelector, "Anywhere")
	for _, a := range flight.Airports() {
		if !strings.Contains(strings.ToLower(a.Code+" "+a.City), strings.ToLower(typed)) {
			continue
		}
		row := root.AddNew(suggestionSelector, fmt.Sprintf("%s, airport %s", a.City, a.Code))
		row.OnClick = func(*browsertest.Element) {
			s.addPlace(picker, a)
			input.Attrs["value"] = ""
			root.RemoveAll(suggestionSelector)
		}
	}
}

func (s *Site) renderCalendar(root *browsertest.Element) {
	field := root.AddNew(`[data-test="SearchDateInput"]`, "")
	s.DateDisplay = field.AddNew(`[data-test="SearchFieldDateInput"]`, "Anytime")

	s.Calendar = root.AddNew(`[data-test="NewDatePickerOpen"]`, "")
	s.Calendar.Hidden = true

	field.AddNew("label", "Departure").OnClick = func(*browsertest.Element) {
		s.Calendar.Hidden = false
	}

	s.Calendar.AddNew(`[data-test="CalendarMovePrevious"]`, "<").OnClick = func(*browsertest.Element) {
		s.windowStart = s.windowStart.AddDate(0, -1, 0)
		s.renderMonths()
	}
	s.Calendar.AddNew(`[data-test="CalendarMoveNextButton"]`, ">").OnClick = func(*browsertest.Element) {
		s.windowStart = s.windowStart.AddDate(0, 1, 0)
		s.renderMonths()
	}
	s.Calendar.AddNew(`[data-test="SearchFormDoneButton"]`, "Done").OnClick = func(*browsertest.Element) {
		s.SelectedDate = s.pendingDate
		s.DateDisplay.Text = s.pendingDate
		s.Calendar.Hidden = true
	}
	s.renderMonths()
}

func (s *Site) renderMonths() {
	for _, e := range s.monthButtons {
		e.Remove()
	}
	for _, e := range s.dayCells {
		e.Remove()
	}
	s.monthButtons, s.dayCells = nil, nil

	for m := 0; m < s.opts.MonthsDisplayed; m++ {
		month := s.windowStart.AddDate(0, m, 0)
		button := s.Calendar.AddNew(`[data-test="DatepickerMonthButton"]`, month.Format("January 2006"))
		s.monthButtons = append(s.monthButtons, button)

		for day := month; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
			value := day.Format(time.DateOnly)
			cell := s.Calendar.AddNew(fmt.Sprintf(`[data-value="%s"]`, value), fmt.Sprint(day.Day()))
			cell.OnClick = func(*browsertest.Element) {
				s.pendingDate = value
			}
			s.dayCells = append(s.dayCells, cell)
		}
	}
}

func (s *Site) renderResults() {
	root := s.Page.Root()
	root.AddNew(`[data-test="LoadingLine"]`, "")
	s.Page.UpdateAfter(s.opts.ResultsDelay, func(root *browsertest.Element) {
		root.AddNew(`[data-test="ResultList-results"]`, "3 results")
	})
}

// CommittedTripType returns the data-test status of the modes picker.
func (s *Site) CommittedTripType() string {
	var status string
	s.Page.Update(func(*browsertest.Element) {
		status = s.ModesPicker.Attrs["data-test"]
	})
	return status
}

// Places returns the texts of the tags of the picker with the data-test value.
func (s *Site) Places(dataTest string) []string {
	var result []string
	s.Page.Update(func(*browsertest.Element) {
		for _, e := range s.pickers[dataTest].Find(`[data-test="PlacePickerInputPlace"]`) {
			result = append(result, e.Text)
		}
	})
	return result
}

// AccommodationChecked reports the state of the accommodation checkbox.
func (s *Site) AccommodationChecked() bool {
	var checked bool
	s.Page.Update(func(*browsertest.Element) {
		checked = s.Accommodation.Find(`input[type="checkbox"]`)[0].Checked
	})
	return checked
}
