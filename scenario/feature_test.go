package scenario_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/networkteam/flightsearch/features"
	"github.com/networkteam/flightsearch/scenario"
)

func TestParse(t *testing.T) {
	src := `# Search feature
@web
Feature: Flight search
  Visitors search flights

  Background:
    Given As an not logged user navigate to homepage https://www.kiwi.com/en/

  @smoke
  Scenario: One way
    When I select one-way trip type
    And Click the search button
    Then I am redirected to search results page

  Scenario: Return
    When I select return trip type
`

	feature, err := scenario.Parse(strings.NewReader(src), "search.feature")
	require.NoError(t, err)

	assert.Equal(t, "Flight search", feature.Name)
	assert.Equal(t, []string{"@web"}, feature.Tags)
	assert.Equal(t, []string{"Visitors search flights"}, feature.Description)
	assert.Equal(t, "search.feature", feature.Path)
	require.Len(t, feature.Scenarios, 2)

	background := scenario.Step{Keyword: "Given", Text: "As an not logged user navigate to homepage https://www.kiwi.com/en/", Line: 7}
	want := []scenario.Scenario{
		{
			Name: "One way",
			Tags: []string{"@smoke"},
			Line: 10,
			Steps: []scenario.Step{
				background,
				{Keyword: "When", Text: "I select one-way trip type", Line: 11},
				{Keyword: "And", Text: "Click the search button", Line: 12},
				{Keyword: "Then", Text: "I am redirected to search results page", Line: 13},
			},
		},
		{
			Name: "Return",
			Line: 15,
			Steps: []scenario.Step{
				background,
				{Keyword: "When", Text: "I select return trip type", Line: 16},
			},
		},
	}
	if diff := cmp.Diff(want, feature.Scenarios); diff != "" {
		t.Errorf("scenarios mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
		wantMsg  string
	}{
		{name: "no feature", src: "# nothing\n", wantLine: 1, wantMsg: "no Feature"},
		{name: "step before feature", src: "Given something\n", wantLine: 1, wantMsg: "expected Feature"},
		{name: "step outside scenario", src: "Feature: F\nGiven a\n", wantLine: 2, wantMsg: "outside"},
		{name: "second feature", src: "Feature: A\nFeature: B\n", wantLine: 2, wantMsg: "second Feature"},
		{name: "late background", src: "Feature: F\nScenario: S\nBackground:\n", wantLine: 3, wantMsg: "Background"},
		{name: "garbage in scenario", src: "Feature: F\nScenario: S\nclick it\n", wantLine: 3, wantMsg: "unexpected line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Parse(strings.NewReader(tt.src), "x.feature")
			var parseErr *scenario.ParseError
			require.True(t, errors.As(err, &parseErr), "got %v", err)
			assert.Equal(t, tt.wantLine, parseErr.Line)
			assert.Contains(t, parseErr.Msg, tt.wantMsg)
			assert.Contains(t, err.Error(), "x.feature:")
		})
	}
}

func TestParseFS_BundledFeature(t *testing.T) {
	feature, err := scenario.ParseFS(features.FS, features.FlightSearch)
	require.NoError(t, err)

	assert.Equal(t, "Flight search", feature.Name)
	require.Len(t, feature.Scenarios, 1)
	assert.Len(t, feature.Scenarios[0].Steps, 8)

	registry := scenario.FlightSearchSteps()
	for _, step := range feature.Scenarios[0].Steps {
		_, _, err := registry.Match(step.Text)
		assert.NoError(t, err, "step %q", step.Text)
	}
}
