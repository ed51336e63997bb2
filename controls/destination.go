package controls

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/flight"
)

// ErrNoMatchingOption is matched by errors from a suggestion list scan that found nothing.
var ErrNoMatchingOption = errors.New("no matching option found")

// NoMatchingOptionError names the texts a suggestion list scan looked for.
type NoMatchingOptionError struct {
	Expected []string
	Attempts int
	// LastErr is the last error seen while reading or clicking a row, if any.
	LastErr error
}

func (e *NoMatchingOptionError) Error() string {
	msg := fmt.Sprintf("%v with text %q after %d attempts", ErrNoMatchingOption, e.Expected, e.Attempts)
	if e.LastErr != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.LastErr)
	}
	return msg
}

func (e *NoMatchingOptionError) Is(target error) bool {
	return target == ErrNoMatchingOption
}

func (e *NoMatchingOptionError) Unwrap() error {
	return e.LastErr
}

const (
	suggestionSelector = `[data-test^="PlacePickerRow"][role="button"]`
	leftToRightMark    = "\u200e"
)

// DestinationInputBox is a multi value place picker. Typing into it shows a
// suggestion list; clicking a suggestion adds a removable tag.
type DestinationInputBox struct {
	dataTest    string
	input       browser.Locator
	places      browser.Locator
	suggestions browser.Locator

	o options
}

// NewDestinationInputBox locates the picker with the data-test value.
// The suggestion list is rendered outside the picker and located on the page.
func NewDestinationInputBox(page browser.Scope, dataTest string, opts ...Option) *DestinationInputBox {
	container := page.Locator(browser.DataTest(dataTest))
	return &DestinationInputBox{
		dataTest:    dataTest,
		input:       container.Locator("input"),
		places:      container.Locator(browser.DataTest("PlacePickerInputPlace")),
		suggestions: page.Locator(suggestionSelector),
		o:           newOptions(opts),
	}
}

// AddAirport types the airport code and picks the first suggestion mentioning
// the code or the city. It returns the text of the picked suggestion.
func (b *DestinationInputBox) AddAirport(airport flight.Airport) (string, error) {
	if err := b.EnterText(airport.Code); err != nil {
		return "", fmt.Errorf("adding airport %s: %w", airport.Code, err)
	}
	text, err := b.selectOption(airport)
	if err != nil {
		return "", fmt.Errorf("adding airport %s: %w", airport.Code, err)
	}
	b.o.logger.Debug("Added airport",
		slog.String("picker", b.dataTest),
		slog.String("airport", airport.Code),
		slog.String("option", text),
	)
	return text, nil
}

// selectOption scans the suggestion list for a row airport matches. The list
// is rendered asynchronously and may re-render while it is read, so a failed
// scan is repeated after a fixed delay.
func (b *DestinationInputBox) selectOption(airport flight.Airport) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= b.o.pickerAttempts; attempt++ {
		text, ok, err := b.scanOnce(airport)
		if ok {
			return text, nil
		}
		if err != nil {
			lastErr = err
		}
		if attempt < b.o.pickerAttempts {
			time.Sleep(b.o.pickerRetryDelay)
		}
	}
	return "", &NoMatchingOptionError{Expected: []string{airport.Code, airport.City}, Attempts: b.o.pickerAttempts, LastErr: lastErr}
}

func (b *DestinationInputBox) scanOnce(airport flight.Airport) (string, bool, error) {
	count, err := b.suggestions.Count()
	if err != nil {
		return "", false, err
	}
	for i := 0; i < count; i++ {
		row := b.suggestions.Nth(i)
		text, err := row.InnerText()
		if err != nil {
			// The list changed below us, start over
			return "", false, err
		}
		if !airport.Matches(text) {
			continue
		}
		if err := row.Click(); err != nil {
			return "", false, err
		}
		return text, true, nil
	}
	return "", false, nil
}

// EnterText clicks the input and types text without any validation.
func (b *DestinationInputBox) EnterText(text string) error {
	if err := b.input.Click(); err != nil {
		return err
	}
	return b.input.Type(text)
}

// SelectedAirports returns locators for the currently rendered tags.
func (b *DestinationInputBox) SelectedAirports() ([]browser.Locator, error) {
	return b.places.All()
}

// SelectedAirportValues returns the normalized texts of the rendered tags.
func (b *DestinationInputBox) SelectedAirportValues() ([]string, error) {
	tags, err := b.SelectedAirports()
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(tags))
	for _, tag := range tags {
		text, err := tag.TextContent()
		if err != nil {
			return nil, err
		}
		values = append(values, normalizePlace(text))
	}
	return values, nil
}

func normalizePlace(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, leftToRightMark, ""))
}

// Clear removes all tags one at a time. Each removal waits until the tag is
// detached before the next one is touched; the last tag is removed first so
// the positional locator of the removed tag is the one that disappears.
func (b *DestinationInputBox) Clear() error {
	count, err := b.places.Count()
	if err != nil {
		return err
	}
	for remaining := count; remaining > 0; remaining-- {
		tag := b.places.Nth(remaining - 1)
		if err := tag.Locator(browser.DataTest("PlacePickerInputPlace-close")).Click(); err != nil {
			return fmt.Errorf("removing place %d: %w", remaining-1, err)
		}
		if err := tag.WaitFor(browser.StateDetached, b.o.timeout); err != nil {
			return fmt.Errorf("removing place %d: %w", remaining-1, err)
		}
	}
	if count > 0 {
		b.o.logger.Debug("Cleared places", slog.String("picker", b.dataTest), slog.Int("count", count))
	}
	return nil
}
