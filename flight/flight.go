// Package flight holds the closed vocabularies used by the search scenarios:
// the airports the suite knows about and the trip directions the search form offers.
package flight

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownAirport is matched by errors returned from ParseAirport.
	ErrUnknownAirport = errors.New("unknown airport")
	// ErrUnknownTravelDirection is matched by errors returned from ParseTravelDirection.
	ErrUnknownTravelDirection = errors.New("unknown travel direction")
)

// UnknownValueError carries the input that did not match any variant.
type UnknownValueError struct {
	Kind  error
	Value string
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("%v: %q", e.Kind, e.Value)
}

func (e *UnknownValueError) Unwrap() error {
	return e.Kind
}

// Airport is identified by its IATA code and the city it serves.
type Airport struct {
	Code string
	City string
}

var (
	MAD = Airport{Code: "MAD", City: "Madrid"}
	RTM = Airport{Code: "RTM", City: "Rotterdam"}
	SOF = Airport{Code: "SOF", City: "Sofia"}
)

var airports = []Airport{MAD, RTM, SOF}

// Airports returns all known airports in declaration order.
func Airports() []Airport {
	return append([]Airport(nil), airports...)
}

func (a Airport) String() string {
	return a.Code
}

// Matches reports whether text mentions the airport code or its city.
func (a Airport) Matches(text string) bool {
	return strings.Contains(text, a.Code) || strings.Contains(text, a.City)
}

// ParseAirport looks up an airport by code or city name, ignoring case.
func ParseAirport(value string) (Airport, error) {
	for _, a := range airports {
		if strings.EqualFold(a.Code, value) || strings.EqualFold(a.City, value) {
			return a, nil
		}
	}
	return Airport{}, &UnknownValueError{Kind: ErrUnknownAirport, Value: value}
}

// TravelDirection is a trip type of the search form. PageCode is the value the
// page uses in its data-test attributes, Alias an optional human spelling.
type TravelDirection struct {
	PageCode string
	Alias    string
}

var (
	OneWay    = TravelDirection{PageCode: "oneWay", Alias: "one-way"}
	Return    = TravelDirection{PageCode: "return"}
	Multicity = TravelDirection{PageCode: "multicity"}
	Nomad     = TravelDirection{PageCode: "nomad"}
)

var travelDirections = []TravelDirection{OneWay, Return, Multicity, Nomad}

// TravelDirections returns all trip directions in declaration order.
func TravelDirections() []TravelDirection {
	return append([]TravelDirection(nil), travelDirections...)
}

func (d TravelDirection) String() string {
	return d.PageCode
}

// IsZero reports whether d is the zero value.
func (d TravelDirection) IsZero() bool {
	return d.PageCode == ""
}

// ParseTravelDirection looks up a direction by page code or alias, ignoring case.
func ParseTravelDirection(value string) (TravelDirection, error) {
	for _, d := range travelDirections {
		if strings.EqualFold(d.PageCode, value) || (d.Alias != "" && strings.EqualFold(d.Alias, value)) {
			return d, nil
		}
	}
	return TravelDirection{}, &UnknownValueError{Kind: ErrUnknownTravelDirection, Value: value}
}
