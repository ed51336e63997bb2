package controls_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/browser/browsertest"
	"github.com/networkteam/flightsearch/controls"
	"github.com/networkteam/flightsearch/flight"
	"github.com/networkteam/flightsearch/internal/fakekiwi"
)

func TestDestinationInputBox_AddAirport(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{SuggestionDelay: 20 * time.Millisecond})

	text, err := search.Destination.AddAirport(flight.MAD)
	require.NoError(t, err)
	assert.Equal(t, "Madrid, airport MAD", text)

	values, err := search.Destination.SelectedAirportValues()
	require.NoError(t, err)
	assert.Equal(t, []string{"Madrid"}, values)

	// The raw tag text carries a direction mark and padding
	assert.Equal(t, []string{"\u200eMadrid "}, site.Places("PlacePickerInput-destination"))

	origin, err := search.Origin.SelectedAirportValues()
	require.NoError(t, err)
	assert.Empty(t, origin, "origin picker is untouched")
}

func TestDestinationInputBox_AddAirportByCity(t *testing.T) {
	page := browsertest.NewPage()
	root := page.Root()
	picker := root.AddNew(browser.DataTest("PlacePickerInput-origin"), "")
	input := picker.AddNew("input", "")
	input.OnType = func(*browsertest.Element, string) {
		// The list only mentions the city, never the code
		root.AddNew(`[data-test^="PlacePickerRow"][role="button"]`, "Sofia, Bulgaria").OnClick = func(*browsertest.Element) {
			picker.AddNew(browser.DataTest("PlacePickerInputPlace"), "Sofia")
		}
	}

	box := controls.NewDestinationInputBox(page, "PlacePickerInput-origin", testOptions()...)
	text, err := box.AddAirport(flight.SOF)
	require.NoError(t, err)
	assert.Equal(t, "Sofia, Bulgaria", text)
	assert.Equal(t, []string{"SOF"}, input.Typed)
}

func TestDestinationInputBox_AddAirportSkipsOtherRows(t *testing.T) {
	page := browsertest.NewPage()
	root := page.Root()
	picker := root.AddNew(browser.DataTest("PlacePickerInput-destination"), "")
	picker.AddNew("input", "")
	rows := `[data-test^="PlacePickerRow"][role="button"]`
	barcelona := root.AddNew(rows, "Barcelona, Spain")
	madrid := root.AddNew(rows, "Adolfo Suárez Madrid–Barajas (MAD)")

	box := controls.NewDestinationInputBox(page, "PlacePickerInput-destination", testOptions()...)
	text, err := box.AddAirport(flight.MAD)
	require.NoError(t, err)
	assert.Equal(t, "Adolfo Suárez Madrid–Barajas (MAD)", text)
	assert.Equal(t, 0, barcelona.Clicks)
	assert.Equal(t, 1, madrid.Clicks)
}

func TestDestinationInputBox_ListRenderedLate(t *testing.T) {
	_, search := newSite(t, fakekiwi.Options{SuggestionDelay: 25 * time.Millisecond})

	// Several scans come up empty before the list shows up
	_, err := search.Origin.AddAirport(flight.RTM)
	require.NoError(t, err)

	values, err := search.Origin.SelectedAirportValues()
	require.NoError(t, err)
	assert.Equal(t, []string{"Rotterdam"}, values)
}

func TestDestinationInputBox_NoMatchingOption(t *testing.T) {
	page := browsertest.NewPage()
	root := page.Root()
	picker := root.AddNew(browser.DataTest("PlacePickerInput-destination"), "")
	picker.AddNew("input", "")
	root.AddNew(`[data-test^="PlacePickerRow"][role="button"]`, "Anywhere")

	box := controls.NewDestinationInputBox(page, "PlacePickerInput-destination",
		controls.WithPickerRetry(3, time.Millisecond),
	)
	_, err := box.AddAirport(flight.MAD)
	require.Error(t, err)
	assert.ErrorIs(t, err, controls.ErrNoMatchingOption)

	var noMatch *controls.NoMatchingOptionError
	require.True(t, errors.As(err, &noMatch))
	assert.Equal(t, []string{"MAD", "Madrid"}, noMatch.Expected)
	assert.Equal(t, 3, noMatch.Attempts)
	assert.ErrorContains(t, err, "Madrid")
}

func TestDestinationInputBox_ClearTwoAirports(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{
		Origin:      []flight.Airport{flight.MAD, flight.SOF},
		RemoveDelay: 15 * time.Millisecond,
	})

	values, err := search.Origin.SelectedAirportValues()
	require.NoError(t, err)
	require.Equal(t, []string{"Madrid", "Sofia"}, values)

	require.NoError(t, search.Origin.Clear())

	tags, err := search.Origin.SelectedAirports()
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Empty(t, site.Places("PlacePickerInput-origin"))

	// One close click per tag, last tag first
	closeAction := func(i string) string {
		return `click [data-test="PlacePickerInput-origin"] >> [data-test="PlacePickerInputPlace"] >> nth=` + i + ` >> [data-test="PlacePickerInputPlace-close"]`
	}
	assert.Equal(t, []string{closeAction("1"), closeAction("0")}, site.Page.Actions())
}

func TestDestinationInputBox_ClearEmptyIsNoop(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{})

	require.NoError(t, search.Destination.Clear())
	assert.Empty(t, site.Page.Actions())
}

func TestDestinationInputBox_ClearTimesOutWhenTagStays(t *testing.T) {
	site, _ := newSite(t, fakekiwi.Options{
		Destination: []flight.Airport{flight.RTM},
		RemoveDelay: time.Second,
	})
	box := controls.NewDestinationInputBox(site.Page, "PlacePickerInput-destination",
		controls.WithTimeout(30*time.Millisecond),
	)

	err := box.Clear()
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestDestinationInputBox_ReplaceAirport(t *testing.T) {
	_, search := newSite(t, fakekiwi.Options{Origin: []flight.Airport{flight.SOF}})

	require.NoError(t, search.Origin.Clear())
	_, err := search.Origin.AddAirport(flight.MAD)
	require.NoError(t, err)

	values, err := search.Origin.SelectedAirportValues()
	require.NoError(t, err)
	assert.Equal(t, []string{"Madrid"}, values)
}

func TestDestinationInputBox_EnterText(t *testing.T) {
	page := browsertest.NewPage()
	picker := page.Root().AddNew(browser.DataTest("PlacePickerInput-origin"), "")
	input := picker.AddNew("input", "")

	box := controls.NewDestinationInputBox(page, "PlacePickerInput-origin")
	require.NoError(t, box.EnterText("anything goes"))

	assert.Equal(t, 1, input.Clicks)
	assert.Equal(t, []string{"anything goes"}, input.Typed)
}
