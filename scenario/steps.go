package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/flight"
	"github.com/networkteam/flightsearch/pages"
)

// ErrUndefinedStep is returned for step text no definition matches.
var ErrUndefinedStep = errors.New("undefined step")

// World is the state shared by the steps of one scenario.
type World struct {
	Page   browser.Page
	Logger *slog.Logger

	pageOptions []pages.Option
	start       *pages.StartPage
}

// NewWorld creates the state for a scenario running on page.
func NewWorld(page browser.Page, logger *slog.Logger, opts ...pages.Option) *World {
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		Page:        page,
		Logger:      logger,
		pageOptions: append([]pages.Option{pages.WithLogger(logger)}, opts...),
	}
}

// StartPage returns the landing page object of the scenario page.
func (w *World) StartPage() *pages.StartPage {
	if w.start == nil {
		w.start = pages.NewStartPage(w.Page, w.pageOptions...)
	}
	return w.start
}

// ResultsPage returns the results page object of the scenario page.
func (w *World) ResultsPage() *pages.ResultsPage {
	return pages.NewResultsPage(w.Page, w.pageOptions...)
}

// StepFunc implements a step. args are the submatches of the step pattern.
type StepFunc func(ctx context.Context, w *World, args []string) error

type definition struct {
	pattern *regexp.Regexp
	fn      StepFunc
}

// Registry maps step text to implementations.
type Registry struct {
	defs []definition
}

// NewRegistry returns an empty registry. See FlightSearchSteps for the
// bundled steps.
func NewRegistry() *Registry {
	return &Registry{}
}

// Define registers fn for step text matching pattern. The pattern is
// anchored at both ends.
func (r *Registry) Define(pattern string, fn StepFunc) {
	r.defs = append(r.defs, definition{
		pattern: regexp.MustCompile("^" + pattern + "$"),
		fn:      fn,
	})
}

// Match finds the first definition matching text.
func (r *Registry) Match(text string) (StepFunc, []string, error) {
	for _, d := range r.defs {
		if m := d.pattern.FindStringSubmatch(text); m != nil {
			return d.fn, lo.Map(m[1:], func(s string, _ int) string { return strings.TrimSpace(s) }), nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUndefinedStep, text)
}

// Patterns returns the registered patterns in definition order.
func (r *Registry) Patterns() []string {
	return lo.Map(r.defs, func(d definition, _ int) string { return d.pattern.String() })
}

// FlightSearchSteps returns the step definitions of the flight search features.
func FlightSearchSteps() *Registry {
	r := NewRegistry()
	r.Define(`As an not logged user navigate to homepage (.+)`, navigateToHomepage)
	r.Define(`I select (.+) trip type`, selectTripType)
	r.Define(`Set as departure airport (.+)`, setDepartureAirport)
	r.Define(`Set the arrival Airport (.+)`, setArrivalAirport)
	r.Define(`Set the departure time (\d+) weeks? in the future starting current date`, setDepartureTime)
	r.Define("Uncheck the `Check accommodation with booking.com` option", uncheckAccommodation)
	r.Define(`Click the search button`, clickSearch)
	r.Define(`I am redirected to search results page`, waitForResults)
	return r
}

func navigateToHomepage(_ context.Context, w *World, args []string) error {
	url := strings.Trim(args[0], `"'`)
	return w.StartPage().NavigateTo(url, true)
}

func selectTripType(_ context.Context, w *World, args []string) error {
	direction, err := flight.ParseTravelDirection(args[0])
	if err != nil {
		return err
	}
	group := w.StartPage().SearchFlightsControl.Directions
	if err := group.SelectTripType(direction); err != nil {
		return err
	}
	selected, err := group.IsSelected(direction)
	if err != nil {
		return err
	}
	if !selected {
		return fmt.Errorf("trip type %s is not selected", direction)
	}
	return nil
}

func setDepartureAirport(_ context.Context, w *World, args []string) error {
	return replaceAirport(w.StartPage().SearchFlightsControl.Origin, args[0])
}

func setArrivalAirport(_ context.Context, w *World, args []string) error {
	return replaceAirport(w.StartPage().SearchFlightsControl.Destination, args[0])
}

type airportPicker interface {
	Clear() error
	AddAirport(flight.Airport) (string, error)
}

func replaceAirport(picker airportPicker, value string) error {
	airport, err := flight.ParseAirport(value)
	if err != nil {
		return err
	}
	if err := picker.Clear(); err != nil {
		return err
	}
	_, err = picker.AddAirport(airport)
	return err
}

func setDepartureTime(_ context.Context, w *World, args []string) error {
	weeks, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid number of weeks %q: %w", args[0], err)
	}
	return w.StartPage().SearchFlightsControl.Calendar.SetDatePlusDays(weeks * 7)
}

func uncheckAccommodation(_ context.Context, w *World, _ []string) error {
	return w.StartPage().SearchFlightsControl.AccommodationCheckbox.Unselect()
}

func clickSearch(_ context.Context, w *World, _ []string) error {
	return w.StartPage().SearchFlightsControl.ClickSearch()
}

func waitForResults(_ context.Context, w *World, _ []string) error {
	return w.ResultsPage().WaitForResults(0)
}
