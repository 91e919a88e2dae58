// Package fitness scores candidate decks by simulated win rate against a
// fixed control deck.
package fitness

import (
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
	"github.com/signalnine/darwindeck/deckevolve/simulation"
)

// Opponent is the fixed control side every candidate plays against.
type Opponent struct {
	Deck     deck.Deck
	Class    card.Class
	Strategy simulation.Strategy
}

// MatchEvaluator runs a batch of matches per candidate and returns the
// candidate's win rate. It is safe for concurrent use.
type MatchEvaluator struct {
	Harness           *simulation.Harness
	Opponent          Opponent
	CandidateClass    card.Class
	CandidateStrategy simulation.Strategy
	Games             int
	StartSide         simulation.Side
	Shuffle           bool
	Search            simulation.SearchConfig
	Seed              uint64
	Logger            *zap.Logger

	calls atomic.Uint64
}

// NewMatchEvaluator creates an evaluator playing games matches per call.
func NewMatchEvaluator(harness *simulation.Harness, opponent Opponent, candidateClass card.Class, candidateStrategy simulation.Strategy, games int, logger *zap.Logger) (*MatchEvaluator, error) {
	if harness == nil || harness.Engine == nil {
		return nil, errors.New("fitness: nil simulation harness")
	}
	if games < 1 {
		return nil, fmt.Errorf("fitness: games per evaluation %d", games)
	}
	if err := opponent.Deck.Validate(); err != nil {
		return nil, fmt.Errorf("fitness: control deck: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchEvaluator{
		Harness:           harness,
		Opponent:          opponent,
		CandidateClass:    candidateClass,
		CandidateStrategy: candidateStrategy,
		Games:             games,
		StartSide:         simulation.SideA,
		Shuffle:           true,
		Search:            simulation.DefaultSearchConfig(),
		Logger:            logger,
	}, nil
}

// Matchup returns the pairing used to score d.
func (e *MatchEvaluator) Matchup(d deck.Deck) simulation.Matchup {
	return simulation.Matchup{
		A: simulation.Seat{
			Deck:     d,
			Class:    e.CandidateClass,
			Strategy: e.CandidateStrategy,
		},
		B: simulation.Seat{
			Deck:     e.Opponent.Deck,
			Class:    e.Opponent.Class,
			Strategy: e.Opponent.Strategy,
		},
		StartSide: e.StartSide,
		Shuffle:   e.Shuffle,
		Search:    e.Search,
	}
}

// Score plays one batch for d and returns the full tally.
func (e *MatchEvaluator) Score(d deck.Deck) (simulation.Tally, error) {
	if err := d.Validate(); err != nil {
		return simulation.Tally{}, fmt.Errorf("fitness: candidate: %w", err)
	}
	// Every call gets a distinct batch seed so re-evaluating the same deck
	// samples new matches.
	call := e.calls.Add(1)
	tally := e.Harness.RunBatch(e.Matchup(d), e.Games, e.Seed+call*0x9E3779B97F4A7C15)

	e.Logger.Debug("deck evaluated",
		zap.Uint64("call", call),
		zap.Int("games", tally.Games),
		zap.Int("wins", tally.WinsA),
		zap.Int("losses", tally.WinsB),
		zap.Int("draws", tally.Draws),
		zap.Int("failures", tally.Failures),
		zap.Float64("avg_turns", tally.AvgTurns))
	return tally, nil
}

// Evaluate returns 100 * wins / games for d.
func (e *MatchEvaluator) Evaluate(d deck.Deck) (float64, error) {
	tally, err := e.Score(d)
	if err != nil {
		return 0, err
	}
	return tally.WinRateA(), nil
}

// Evaluations returns the number of decks scored so far.
func (e *MatchEvaluator) Evaluations() uint64 {
	return e.calls.Load()
}
