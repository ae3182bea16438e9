// Package brackets builds knockout pairings from seed-ordered
// qualifiers and tracks phase lifecycle. Like the standings package it
// is pure: services persist the slots it produces.
package brackets

import (
	"context"
	"errors"
)

var (
	// ErrPhaseIncomplete rejects generating a next phase while the
	// previous one still has unplayed slot matches.
	ErrPhaseIncomplete = errors.New("previous phase is not completed")

	ErrNotEnoughSeeds = errors.New("not enough teams to generate a bracket (minimum 2)")
)

// Seed is one qualified team in seed order (1 = strongest).
type Seed struct {
	TeamID    int
	GroupCode string
}

// Pairing is a generated first-round slot. Away is nil for a bye: the
// home side advances without playing.
type Pairing struct {
	SlotNumber int
	Home       Seed
	Away       *Seed
}

type GenerateParams struct {
	Seeds []Seed
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*Pairing, error)

	Name() string
}
