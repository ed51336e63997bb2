package controls_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/browser/browsertest"
	"github.com/networkteam/flightsearch/controls"
	"github.com/networkteam/flightsearch/internal/fakekiwi"
)

func TestCheckbox_SelectUnselectIdempotent(t *testing.T) {
	site, search := newSite(t, fakekiwi.Options{})
	checkbox := search.AccommodationCheckbox
	labelClick := `click [data-test="accommodationCheckbox"] >> label`

	selected, err := checkbox.IsSelected()
	require.NoError(t, err)
	require.True(t, selected, "accommodation is checked initially")

	require.NoError(t, checkbox.Unselect())
	require.NoError(t, checkbox.Unselect())
	assert.False(t, site.AccommodationChecked())
	assert.Equal(t, 1, site.Page.CountActions(labelClick))

	require.NoError(t, checkbox.Select())
	require.NoError(t, checkbox.Select())
	assert.True(t, site.AccommodationChecked())
	assert.Equal(t, 2, site.Page.CountActions(labelClick))
}

func TestCheckbox_LabelAndVisibility(t *testing.T) {
	_, search := newSite(t, fakekiwi.Options{})
	checkbox := search.AccommodationCheckbox

	visible, err := checkbox.IsVisible()
	require.NoError(t, err)
	assert.True(t, visible)

	require.NoError(t, checkbox.WaitUntilVisible(100*time.Millisecond))

	text, err := checkbox.LabelText()
	require.NoError(t, err)
	assert.Equal(t, "Check accommodation with booking.com", text)
}

func TestRadioButton_SelectIfNotSelected(t *testing.T) {
	page := browsertest.NewPage()
	option := page.Root().AddNew(browser.DataTest("ModePopupOption-nomad"), "")
	input := option.AddNew(`input[type="radio"]`, "")
	label := option.AddNew("label", "Nomad")
	label.OnClick = func(*browsertest.Element) { input.Checked = true }

	radio := controls.NewRadioButton(page, "ModePopupOption-nomad")

	require.NoError(t, radio.SelectIfNotSelected())
	require.NoError(t, radio.SelectIfNotSelected())
	assert.Equal(t, 1, label.Clicks)

	selected, err := radio.IsSelected()
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestRadioButton_WaitUntilVisibleTimesOut(t *testing.T) {
	page := browsertest.NewPage()
	option := page.Root().AddNew(browser.DataTest("ModePopupOption-return"), "")
	option.Hidden = true
	option.AddNew("label", "Return")

	radio := controls.NewRadioButton(page, "ModePopupOption-return")
	err := radio.WaitUntilVisible(20 * time.Millisecond)
	assert.ErrorIs(t, err, browser.ErrTimeout)
}
