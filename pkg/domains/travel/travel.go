// Package travel is the travel booking schema.
package travel

import (
	_ "embed"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

//go:embed fixtures.yaml
var fixtures []byte

// Variant returns the travel booking schema variant.
func Variant() seed.Variant {
	return seed.Variant{
		Name:        "travel",
		Description: "Travel booking with tours, bookings, payments and reviews",
		DefaultFile: "travel.db",
		Models:      []any{User{}, Tour{}, Booking{}, Payment{}, Review{}, AdminLog{}},
		Fixtures:    Fixtures,
	}
}

// Fixtures returns the seed rows.
func Fixtures() (*fixture.File, error) {
	return fixture.Parse(fixtures)
}
