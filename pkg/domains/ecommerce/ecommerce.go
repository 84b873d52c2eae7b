// Package ecommerce is the online shop schema: users, products, reviews,
// order items and orders.
package ecommerce

import (
	_ "embed"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

//go:embed fixtures.yaml
var fixtures []byte

// Variant returns the e-commerce schema variant.
func Variant() seed.Variant {
	return seed.Variant{
		Name:        "ecommerce",
		Description: "Online shop with users, products, reviews and orders",
		DefaultFile: "ecommerce.db",
		Models:      []any{User{}, Product{}, Review{}, OrderItem{}, Order{}},
		Fixtures:    Fixtures,
	}
}

// Fixtures returns the seed rows.
func Fixtures() (*fixture.File, error) {
	return fixture.Parse(fixtures)
}
