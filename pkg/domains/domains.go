// Package domains lists the built-in schema variants.
package domains

import (
	"github.com/marshallshelly/pebble-seed/pkg/domains/ecommerce"
	"github.com/marshallshelly/pebble-seed/pkg/domains/events"
	"github.com/marshallshelly/pebble-seed/pkg/domains/jobboard"
	"github.com/marshallshelly/pebble-seed/pkg/domains/quiz"
	"github.com/marshallshelly/pebble-seed/pkg/domains/travel"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

// All returns every variant in a stable order.
func All() []seed.Variant {
	return []seed.Variant{
		ecommerce.Variant(),
		events.Variant(),
		jobboard.Variant(),
		quiz.Variant(),
		travel.Variant(),
	}
}

// ByName returns the named variant.
func ByName(name string) (seed.Variant, bool) {
	for _, v := range All() {
		if v.Name == name {
			return v, true
		}
	}
	return seed.Variant{}, false
}

// Names returns the variant names in the order of All.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, v := range all {
		names[i] = v.Name
	}
	return names
}
