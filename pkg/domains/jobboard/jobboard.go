// Package jobboard is the job board schema.
package jobboard

import (
	_ "embed"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

//go:embed fixtures.yaml
var fixtures []byte

// Variant returns the job board schema variant.
func Variant() seed.Variant {
	return seed.Variant{
		Name:        "jobboard",
		Description: "Job board with accounts, postings, applications and messages",
		DefaultFile: "jobboard.db",
		Models: []any{
			Authentication{}, User{}, Message{}, JobPosting{}, Application{}, JobInteraction{},
		},
		Fixtures: Fixtures,
	}
}

// Fixtures returns the seed rows.
func Fixtures() (*fixture.File, error) {
	return fixture.Parse(fixtures)
}
