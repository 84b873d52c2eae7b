// Package events is the event management schema.
package events

import (
	_ "embed"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

//go:embed fixtures.yaml
var fixtures []byte

// Variant returns the event management schema variant.
func Variant() seed.Variant {
	return seed.Variant{
		Name:        "events",
		Description: "Event management with admins, users, events, agendas and invitations",
		DefaultFile: "events.db",
		Models:      []any{Admin{}, User{}, Event{}, Agenda{}, Invitation{}, Attendee{}},
		Fixtures:    Fixtures,
	}
}

// Fixtures returns the seed rows. Identifiers are explicit.
func Fixtures() (*fixture.File, error) {
	return fixture.Parse(fixtures)
}
