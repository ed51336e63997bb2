package controls

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/networkteam/flightsearch/browser"
)

// ErrDateBeforeWindow is returned for target dates in the past. The calendar
// only ever navigates forward from the months it shows when opened.
var ErrDateBeforeWindow = errors.New("date is before the displayed calendar window")

// CalendarField is the date input that opens the calendar popup.
type CalendarField struct {
	label   browser.Locator
	display browser.Locator
	popup   *CalendarPopup

	timeout time.Duration
}

// NewCalendarField locates the field by outerSelector, e.g. `[data-test="SearchDateInput"]`.
func NewCalendarField(page browser.Scope, outerSelector string, opts ...Option) *CalendarField {
	o := newOptions(opts)
	bounding := page.Locator(outerSelector)
	return &CalendarField{
		label:   bounding.Locator("label"),
		display: bounding.Locator(browser.DataTest("SearchFieldDateInput")),
		popup:   NewCalendarPopup(page, opts...),
		timeout: o.timeout,
	}
}

// Popup returns the calendar popup the field opens.
func (f *CalendarField) Popup() *CalendarPopup {
	return f.popup
}

// Activate clicks the field to open the popup.
func (f *CalendarField) Activate() error {
	return f.label.Click()
}

// Text returns the displayed date text.
func (f *CalendarField) Text() (string, error) {
	return f.display.TextContent()
}

// IsVisible reports whether the field label is shown.
func (f *CalendarField) IsVisible() (bool, error) {
	return f.label.IsVisible()
}

// WaitUntilVisible waits up to timeout for the field label.
func (f *CalendarField) WaitUntilVisible(timeout time.Duration) error {
	return f.label.WaitFor(browser.StateVisible, timeout)
}

// SetDatePlusDays opens the popup and picks the date days from now.
func (f *CalendarField) SetDatePlusDays(days int) error {
	if err := f.Activate(); err != nil {
		return fmt.Errorf("opening calendar: %w", err)
	}
	if err := f.popup.WaitForVisible(f.timeout); err != nil {
		return fmt.Errorf("opening calendar: %w", err)
	}
	return f.popup.SetDatePlusDays(days)
}

// CalendarPopup is the open date picker with one or more month pages.
type CalendarPopup struct {
	popup        browser.Locator
	monthButtons browser.Locator
	next         browser.Locator
	previous     browser.Locator
	done         browser.Locator

	o options
}

// NewCalendarPopup locates the open date picker on the page.
func NewCalendarPopup(page browser.Scope, opts ...Option) *CalendarPopup {
	popup := page.Locator(browser.DataTest("NewDatePickerOpen"))
	return &CalendarPopup{
		popup:        popup,
		monthButtons: popup.Locator(browser.DataTest("DatepickerMonthButton")),
		next:         popup.Locator(browser.DataTest("CalendarMoveNextButton")),
		previous:     popup.Locator(browser.DataTest("CalendarMovePrevious")),
		done:         popup.Locator(browser.DataTest("SearchFormDoneButton")),
		o:            newOptions(opts),
	}
}

// WaitForVisible waits up to timeout for the popup to open.
func (c *CalendarPopup) WaitForVisible(timeout time.Duration) error {
	return c.popup.WaitFor(browser.StateVisible, timeout)
}

// IsVisible reports whether the popup is open.
func (c *CalendarPopup) IsVisible() (bool, error) {
	return c.popup.IsVisible()
}

// NextMonth turns the calendar one month forward.
func (c *CalendarPopup) NextMonth() error {
	return c.next.Click()
}

// PreviousMonth turns the calendar one month back.
func (c *CalendarPopup) PreviousMonth() error {
	return c.previous.Click()
}

// MonthsDisplayed returns the number of month pages currently rendered.
func (c *CalendarPopup) MonthsDisplayed() (int, error) {
	return c.monthButtons.Count()
}

// SetDatePlusDays picks the date days from now and confirms it.
//
// The target is computed when called. If the target month lies beyond the
// rendered month pages, the calendar is turned forward just enough to show
// it, pausing for the settle delay after each turn since the page offers no
// signal for a finished transition. Then the day cell is clicked by its
// YYYY-MM-DD data value and the selection is confirmed.
func (c *CalendarPopup) SetDatePlusDays(days int) error {
	if days < 0 {
		return fmt.Errorf("%w: %d days", ErrDateBeforeWindow, days)
	}

	now := c.o.now()
	target := now.AddDate(0, 0, days)
	formatted := target.Format(time.DateOnly)

	displayed, err := c.MonthsDisplayed()
	if err != nil {
		return fmt.Errorf("counting calendar months: %w", err)
	}

	turns := MonthsToAdvance(now, target, displayed)
	for i := 0; i < turns; i++ {
		if err := c.NextMonth(); err != nil {
			return fmt.Errorf("turning calendar to %s: %w", formatted, err)
		}
		if c.o.settleDelay > 0 {
			time.Sleep(c.o.settleDelay)
		}
	}

	if err := c.popup.Locator(fmt.Sprintf(`[data-value="%s"]`, formatted)).Click(); err != nil {
		return fmt.Errorf("selecting day %s: %w", formatted, err)
	}
	if err := c.done.Click(); err != nil {
		return fmt.Errorf("confirming day %s: %w", formatted, err)
	}

	c.o.logger.Debug("Selected date",
		slog.String("date", formatted),
		slog.Int("monthsDisplayed", displayed),
		slog.Int("turns", turns),
	)
	return nil
}

// MonthsToAdvance returns how many times a calendar showing displayed month
// pages starting at the month of now must be turned forward to show target.
func MonthsToAdvance(now, target time.Time, displayed int) int {
	monthsDiff := (target.Year()-now.Year())*12 + int(target.Month()) - int(now.Month())
	if monthsDiff > displayed-1 {
		return monthsDiff - (displayed - 1)
	}
	return 0
}
