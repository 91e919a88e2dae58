package evolution

import (
	"errors"
	"fmt"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
	"github.com/signalnine/darwindeck/deckevolve/simulation"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid evolution config")

// EvolutionConfig holds configuration for an evolutionary run.
type EvolutionConfig struct {
	HeroClass       card.Class // Class used for every deck in the population
	PopulationSize  int        // Decks per generation
	GenerationLimit int        // Generations to run
	PoolSize        int        // Breeding pool size (top-K)
	MutationRate    float64    // Probability that a child gets one card replaced
	GamesPerEval    int        // Matches per fitness evaluation
	SearchBreadth   int        // Planner beam width
	SearchDepth     int        // Planner action depth
	Workers         int        // Match workers per evaluation (0 = auto)
	MemberWorkers   int        // Decks evaluated at once (0 = 1)
	MaxDraws        int        // Attempt limit for every draw loop (0 = default)
	RandomSeed      int64      // Random seed (0 = use time)

	CandidateStrategy simulation.Strategy // Strategy playing the evolving deck
	ControlStrategy   simulation.Strategy // Strategy playing the control deck
	StartSide         simulation.Side     // Who moves first (SideNone = random)

	Verbose bool
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() *EvolutionConfig {
	return &EvolutionConfig{
		HeroClass:         card.ClassPaladin,
		PopulationSize:    10,
		GenerationLimit:   10,
		PoolSize:          4,
		MutationRate:      0.05,
		GamesPerEval:      10,
		SearchBreadth:     simulation.DefaultSearchBreadth,
		SearchDepth:       simulation.DefaultSearchDepth,
		Workers:           0,
		MemberWorkers:     1,
		MaxDraws:          deck.DefaultMaxDraws,
		RandomSeed:        0,
		CandidateStrategy: simulation.StrategyAggro,
		ControlStrategy:   simulation.StrategyControl,
		StartSide:         simulation.SideA,
	}
}

// Validate rejects settings the loop cannot run with.
func (c *EvolutionConfig) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case c.PopulationSize < 1:
		return fmt.Errorf("%w: population size %d", ErrInvalidConfig, c.PopulationSize)
	case c.GenerationLimit < 1:
		return fmt.Errorf("%w: generation limit %d", ErrInvalidConfig, c.GenerationLimit)
	case c.PoolSize < 1:
		return fmt.Errorf("%w: pool size %d", ErrInvalidConfig, c.PoolSize)
	case c.MutationRate < 0 || c.MutationRate > 1:
		return fmt.Errorf("%w: mutation rate %g outside [0,1]", ErrInvalidConfig, c.MutationRate)
	case c.GamesPerEval < 1:
		return fmt.Errorf("%w: games per evaluation %d", ErrInvalidConfig, c.GamesPerEval)
	case c.HeroClass == card.ClassInvalid || c.HeroClass == card.ClassNeutral:
		return fmt.Errorf("%w: hero class %s", ErrInvalidConfig, c.HeroClass)
	}
	return nil
}

// Search returns the planner bounds.
func (c *EvolutionConfig) Search() simulation.SearchConfig {
	search := simulation.DefaultSearchConfig()
	if c.SearchBreadth > 0 {
		search.Breadth = c.SearchBreadth
	}
	if c.SearchDepth > 0 {
		search.Depth = c.SearchDepth
	}
	return search
}
