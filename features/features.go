// Package features bundles the feature files shipped with the command line tool.
package features

import "embed"

// FS holds the bundled *.feature files.
//
//go:embed *.feature
var FS embed.FS

// FlightSearch is the path of the flight search feature in FS.
const FlightSearch = "flight_search.feature"
