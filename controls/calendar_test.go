package controls_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/controls"
	"github.com/networkteam/flightsearch/internal/fakekiwi"
)

const (
	nextMonthClick = `click [data-test="NewDatePickerOpen"] >> [data-test="CalendarMoveNextButton"]`
	doneClick      = `click [data-test="NewDatePickerOpen"] >> [data-test="SearchFormDoneButton"]`
)

func dayClick(date string) string {
	return `click [data-test="NewDatePickerOpen"] >> [data-value="` + date + `"]`
}

func TestMonthsToAdvance(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name      string
		now       time.Time
		target    time.Time
		displayed int
		want      int
	}{
		{name: "same month", now: date(2026, 10, 19), target: date(2026, 10, 26), displayed: 1, want: 0},
		{name: "next month one page", now: date(2026, 10, 19), target: date(2026, 11, 2), displayed: 1, want: 1},
		{name: "next month two pages", now: date(2026, 10, 19), target: date(2026, 11, 2), displayed: 2, want: 0},
		{name: "two months one page", now: date(2026, 10, 19), target: date(2026, 12, 3), displayed: 1, want: 2},
		{name: "two months two pages", now: date(2026, 10, 19), target: date(2026, 12, 3), displayed: 2, want: 1},
		{name: "across year end", now: date(2026, 12, 20), target: date(2027, 2, 1), displayed: 1, want: 2},
		{name: "no pages rendered", now: date(2026, 10, 19), target: date(2026, 10, 20), displayed: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, controls.MonthsToAdvance(tt.now, tt.target, tt.displayed))
		})
	}
}

func TestCalendarField_SetDatePlusDaysSameMonth(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{MonthsDisplayed: 1})

	require.NoError(t, search.Calendar.SetDatePlusDays(7))

	assert.Equal(t, 0, site.Page.CountActions(nextMonthClick))
	actions := site.Page.Actions()
	require.GreaterOrEqual(t, len(actions), 2)
	assert.Equal(t, []string{dayClick("2026-10-26"), doneClick}, actions[len(actions)-2:])
	assert.Equal(t, "2026-10-26", site.SelectedDate)

	text, err := search.Calendar.Text()
	require.NoError(t, err)
	assert.Equal(t, "2026-10-26", text)
}

func TestCalendarField_SetDatePlusDaysTwoMonthsAhead(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{MonthsDisplayed: 1})

	// 2026-10-19 + 45 days = 2026-12-03
	require.NoError(t, search.Calendar.SetDatePlusDays(45))

	assert.Equal(t, []string{
		`click [data-test="SearchDateInput"] >> label`,
		nextMonthClick,
		nextMonthClick,
		dayClick("2026-12-03"),
		doneClick,
	}, site.Page.Actions())
	assert.Equal(t, "2026-12-03", site.SelectedDate)
}

func TestCalendarField_SetDatePlusDaysVisibleInSecondPage(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{MonthsDisplayed: 2})

	require.NoError(t, search.Calendar.SetDatePlusDays(14))

	assert.Equal(t, 0, site.Page.CountActions(nextMonthClick))
	assert.Equal(t, "2026-11-02", site.SelectedDate)
}

func TestCalendarPopup_SettleDelayAfterEachTurn(t *testing.T) {
	site := fakekiwi.New(fakekiwi.Options{Now: testNow, MonthsDisplayed: 1})
	field := controls.NewCalendarField(site.Page, browser.DataTest("SearchDateInput"),
		controls.WithClock(func() time.Time { return testNow }),
		controls.WithSettleDelay(20*time.Millisecond),
	)

	start := time.Now()
	require.NoError(t, field.SetDatePlusDays(45))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, 2, site.Page.CountActions(nextMonthClick))
}

func TestCalendarPopup_PastDateUnsupported(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{})
	require.NoError(t, search.Calendar.Activate())

	err := search.Calendar.Popup().SetDatePlusDays(-3)
	assert.ErrorIs(t, err, controls.ErrDateBeforeWindow)
	assert.Equal(t, []string{`click [data-test="SearchDateInput"] >> label`}, site.Page.Actions())
}

func TestCalendarPopup_MissingDayCell(t *testing.T) {
	site, _ := newSite(t, fakekiwi.Options{MonthsDisplayed: 1})
	// A clock running ahead of the page makes the computed day cell absent
	future := testNow.AddDate(0, 3, 0)
	field := controls.NewCalendarField(site.Page, browser.DataTest("SearchDateInput"),
		controls.WithClock(func() time.Time { return future }),
		controls.WithSettleDelay(0),
	)

	err := field.SetDatePlusDays(1)
	assert.ErrorIs(t, err, browser.ErrNotFound)
	assert.ErrorContains(t, err, "selecting day 2027-01-20")
	assert.Equal(t, 0, site.Page.CountActions(doneClick))
}

func TestCalendarField_PopupDoesNotOpen(t *testing.T) {
	site, _ := newSite(t, fakekiwi.Options{})
	site.Calendar.Remove()
	field := controls.NewCalendarField(site.Page, browser.DataTest("SearchDateInput"),
		controls.WithTimeout(20*time.Millisecond),
	)

	err := field.SetDatePlusDays(7)
	assert.ErrorIs(t, err, browser.ErrTimeout)
}

func TestCalendarPopup_Navigation(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{MonthsDisplayed: 2})
	require.NoError(t, search.Calendar.Activate())
	popup := search.Calendar.Popup()
	require.NoError(t, popup.WaitForVisible(100*time.Millisecond))

	months, err := popup.MonthsDisplayed()
	require.NoError(t, err)
	assert.Equal(t, 2, months)

	require.NoError(t, popup.NextMonth())
	require.NoError(t, popup.PreviousMonth())
	first, err := site.Page.Locator(browser.DataTest("DatepickerMonthButton")).First().TextContent()
	require.NoError(t, err)
	assert.Equal(t, "October 2026", first)
}
