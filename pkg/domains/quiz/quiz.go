// Package quiz is the quiz platform schema. Its scenario renames one user
// and removes another after seeding.
package quiz

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
	"github.com/marshallshelly/pebble-seed/pkg/seed"
)

//go:embed fixtures.yaml
var fixtures []byte

// Variant returns the quiz platform schema variant.
func Variant() seed.Variant {
	return seed.Variant{
		Name:        "quiz",
		Description: "Quiz platform with teachers, students, questions and results",
		DefaultFile: "quiz.db",
		Models:      []any{User{}, Quiz{}, Question{}, Option{}, Answer{}, Result{}},
		Fixtures:    Fixtures,
		Scenario:    Scenario,
	}
}

// Fixtures returns the seed rows.
func Fixtures() (*fixture.File, error) {
	return fixture.Parse(fixtures)
}

// Scenario lists the users, renames user 1 to Alicia, deletes user 3 and
// lists the users again.
func Scenario(ctx context.Context, s *seed.Storage, logger *slog.Logger) error {
	if err := logUsers(ctx, s, logger, "users before changes"); err != nil {
		return err
	}

	user, err := seed.Mutate(ctx, s, "user_id", 1, func(u *User) {
		u.Name = "Alicia"
	})
	if err != nil {
		return fmt.Errorf("rename user 1: %w", err)
	}
	if user == nil {
		return fmt.Errorf("rename user 1: not found")
	}

	removed, err := seed.Remove[User](ctx, s, "user_id", 3)
	if err != nil {
		return fmt.Errorf("delete user 3: %w", err)
	}
	if !removed {
		return fmt.Errorf("delete user 3: not found")
	}

	return logUsers(ctx, s, logger, "users after changes")
}

func logUsers(ctx context.Context, s *seed.Storage, logger *slog.Logger, msg string) error {
	users, err := seed.Find[User](ctx, s)
	if err != nil {
		return err
	}
	for _, u := range users {
		logger.Info(msg, "name", u.Name, "email", u.Email)
	}
	return nil
}
