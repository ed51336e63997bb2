package controls_test

import (
	"testing"
	"time"

	"github.com/networkteam/flightsearch/controls"
	"github.com/networkteam/flightsearch/internal/fakekiwi"
)

var testNow = time.Date(2026, time.October, 19, 10, 30, 0, 0, time.UTC)

// testOptions keep every wait short and the calendar deterministic.
func testOptions() []controls.Option {
	return []controls.Option{
		controls.WithTimeout(time.Second),
		controls.WithClock(func() time.Time { return testNow }),
		controls.WithSettleDelay(0),
		controls.WithPickerRetry(10, 5*time.Millisecond),
	}
}

func newSite(t *testing.T, opts fakekiwi.Options) (*fakekiwi.Site, *controls.SearchFlightsControl) {
	t.Helper()
	if opts.Now.IsZero() {
		opts.Now = testNow
	}
	site := fakekiwi.New(opts)
	return site, controls.NewSearchFlightsControl(site.Page, testOptions()...)
}
