// Package simulation plays matches between two decks through an external
// rules engine and aggregates the outcomes.
package simulation

import (
	"fmt"
	"math/rand"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// Side identifies a player seat. SideNone doubles as "no winner".
type Side uint8

const (
	SideNone Side = iota
	SideA
	SideB
)

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "none"
	}
}

// Opponent returns the other seat.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// Strategy names a move-selection heuristic understood by the engine.
type Strategy string

const (
	StrategyAggro   Strategy = "aggro"
	StrategyControl Strategy = "control"
	StrategyRandom  Strategy = "random"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyAggro, StrategyControl, StrategyRandom:
		return st, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// Action is one step a side can take. Engines define the concrete types.
type Action interface {
	String() string
}

// MatchConfig describes a single match.
type MatchConfig struct {
	DeckA  deck.Deck
	DeckB  deck.Deck
	ClassA card.Class
	ClassB card.Class

	// StartSide selects who moves first; SideNone picks at random.
	StartSide Side
	Shuffle   bool

	// Rng is owned by the match for its whole lifetime.
	Rng *rand.Rand
}

// Match is the state of one game in progress.
type Match interface {
	// Mulligan resolves the opening hand replacement for side.
	Mulligan(side Side, strategy Strategy) error

	IsComplete() bool

	// Current returns the side whose turn it is.
	Current() Side

	// Winner is SideNone until the match completes, and for draws.
	Winner() Side

	Turn() int

	// PendingChoice reports whether the last action surfaced a decision
	// point (a discover-style choice) that invalidates the current plan.
	PendingChoice() bool

	Apply(action Action) error
}

// Engine creates matches and plans turns for them.
type Engine interface {
	NewMatch(cfg MatchConfig) (Match, error)

	// BestActionSequence searches up to breadth plans per step and depth
	// actions deep, returning the best plan found for side.
	BestActionSequence(m Match, side Side, strategy Strategy, breadth, depth int) ([]Action, error)
}
