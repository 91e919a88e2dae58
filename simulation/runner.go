package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// Search defaults used by the reference driver.
const (
	DefaultSearchBreadth = 10
	DefaultSearchDepth   = 500
	DefaultMaxActions    = 5000
)

var (
	// ErrNoActions is returned when the planner yields an empty plan for a
	// running match.
	ErrNoActions = errors.New("planner returned no actions")

	// ErrActionLimit is returned when a match exceeds its action budget.
	ErrActionLimit = errors.New("match exceeded action limit")

	// ErrEnginePanic wraps a panic raised by the engine or planner.
	ErrEnginePanic = errors.New("engine panic")
)

// SearchConfig bounds the planner.
type SearchConfig struct {
	Breadth int
	Depth   int

	// MaxActions caps the total actions in one match (0 = DefaultMaxActions).
	MaxActions int
}

// DefaultSearchConfig returns the breadth 10 / depth 500 search.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Breadth:    DefaultSearchBreadth,
		Depth:      DefaultSearchDepth,
		MaxActions: DefaultMaxActions,
	}
}

// Seat is one player's deck, class and strategy.
type Seat struct {
	Deck     deck.Deck
	Class    card.Class
	Strategy Strategy
}

// Matchup is a fixed pairing played repeatedly. Side A is the candidate.
type Matchup struct {
	A         Seat
	B         Seat
	StartSide Side
	Shuffle   bool
	Search    SearchConfig
}

func (m *Matchup) seat(side Side) Seat {
	if side == SideB {
		return m.B
	}
	return m.A
}

// GameResult holds the outcome of a single game.
type GameResult struct {
	Winner     Side
	Turns      int
	Actions    int
	DurationNs uint64
	Err        error
}

// Failed reports whether the match ended in an engine failure.
func (r GameResult) Failed() bool {
	return r.Err != nil
}

// RunSingleGame plays one complete match. Engine errors and panics are
// returned in GameResult.Err, never propagated.
func RunSingleGame(engine Engine, m Matchup, seed uint64) (result GameResult) {
	start := time.Now()
	actions := 0
	turns := 0

	fail := func(err error) GameResult {
		return GameResult{
			Winner:     SideNone,
			Turns:      turns,
			Actions:    actions,
			DurationNs: uint64(time.Since(start).Nanoseconds()),
			Err:        err,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			result = fail(fmt.Errorf("%w: %v", ErrEnginePanic, r))
		}
	}()

	maxActions := m.Search.MaxActions
	if maxActions <= 0 {
		maxActions = DefaultMaxActions
	}

	match, err := engine.NewMatch(MatchConfig{
		DeckA:     m.A.Deck,
		DeckB:     m.B.Deck,
		ClassA:    m.A.Class,
		ClassB:    m.B.Class,
		StartSide: m.StartSide,
		Shuffle:   m.Shuffle,
		Rng:       rand.New(rand.NewSource(int64(seed))),
	})
	if err != nil {
		return fail(fmt.Errorf("new match: %w", err))
	}

	for _, side := range []Side{SideA, SideB} {
		if err := match.Mulligan(side, m.seat(side).Strategy); err != nil {
			return fail(fmt.Errorf("mulligan side %s: %w", side, err))
		}
	}

	for !match.IsComplete() {
		side := match.Current()
		turns = match.Turn()

		plan, err := engine.BestActionSequence(match, side, m.seat(side).Strategy, m.Search.Breadth, m.Search.Depth)
		if err != nil {
			return fail(fmt.Errorf("plan turn %d side %s: %w", turns, side, err))
		}
		if len(plan) == 0 {
			return fail(fmt.Errorf("turn %d side %s: %w", turns, side, ErrNoActions))
		}

		for _, action := range plan {
			if err := match.Apply(action); err != nil {
				return fail(fmt.Errorf("apply %s: %w", action, err))
			}
			actions++
			if actions > maxActions {
				return fail(ErrActionLimit)
			}
			// A new decision point or a finished turn invalidates the plan.
			if match.IsComplete() || match.PendingChoice() || match.Current() != side {
				break
			}
		}
	}

	return GameResult{
		Winner:     match.Winner(),
		Turns:      match.Turn(),
		Actions:    actions,
		DurationNs: uint64(time.Since(start).Nanoseconds()),
	}
}
