package evolution

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
	"github.com/signalnine/darwindeck/deckevolve/evolution/operators"
)

// Phase is the orchestrator state.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseEvaluating
	PhaseSelecting
	PhaseBreeding
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseEvaluating:
		return "EVALUATING"
	case PhaseSelecting:
		return "SELECTING"
	case PhaseBreeding:
		return "BREEDING"
	case PhaseDone:
		return "DONE"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// GenerationStats holds statistics for a single generation.
type GenerationStats struct {
	Generation  int
	BestFitness float64
	AvgFitness  float64
	StdDev      float64
	Diversity   float64
	BestDeck    deck.Deck
	Evaluations int
	Elapsed     time.Duration
	Timestamp   time.Time
}

// EvolutionEngine runs the evolutionary algorithm.
type EvolutionEngine struct {
	Config       *EvolutionConfig
	Pool         *card.Pool
	Factory      *deck.Factory
	Population   *Population
	BreedingPool *BreedingPool
	StatsHistory []GenerationStats
	BestEver     *Individual
	Rng          *rand.Rand
	Evaluator    *ParallelEvaluator
	Mutation     operators.MutationOperator
	Crossover    CrossoverOperator
	Logger       *zap.Logger
	Phase        Phase

	// Callbacks for progress reporting
	OnGenerationComplete func(stats GenerationStats)

	generationStart time.Time
}

// NewEvolutionEngine creates a new evolution engine. The pool is the
// available card pool for config.HeroClass.
func NewEvolutionEngine(config *EvolutionConfig, pool *card.Pool, evaluator FitnessEvaluator, logger *zap.Logger) (*EvolutionEngine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if evaluator == nil {
		return nil, fmt.Errorf("%w: nil fitness evaluator", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := config.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	factory, err := deck.NewFactory(pool, rng, config.MaxDraws)
	if err != nil {
		return nil, fmt.Errorf("deck factory: %w", err)
	}

	return &EvolutionEngine{
		Config:       config,
		Pool:         pool,
		Factory:      factory,
		BreedingPool: NewBreedingPool(config.PoolSize),
		StatsHistory: make([]GenerationStats, 0, config.GenerationLimit),
		Rng:          rng,
		Evaluator:    NewParallelEvaluator(evaluator, config.MemberWorkers),
		Mutation:     operators.NewReplaceCardMutation(config.MutationRate, pool, config.MaxDraws),
		Crossover:    NewHalfCrossover(config.MaxDraws),
		Logger:       logger,
		Phase:        PhaseInit,
	}, nil
}

// InitializePopulation fills generation 1 with random legal decks.
func (e *EvolutionEngine) InitializePopulation() error {
	e.Logger.Info("initializing population",
		zap.Int("size", e.Config.PopulationSize),
		zap.Stringer("hero", e.Config.HeroClass),
		zap.Int("pool_cards", e.Pool.Len()))

	individuals := make([]*Individual, 0, e.Config.PopulationSize)
	for len(individuals) < e.Config.PopulationSize {
		d, err := e.Factory.RandomDeck()
		if err != nil {
			return fmt.Errorf("initial deck %d: %w", len(individuals), err)
		}
		individuals = append(individuals, &Individual{Deck: d})
	}

	e.Population = NewPopulation(individuals)
	e.Population.Generation = 1
	e.Phase = PhaseEvaluating
	return nil
}

// EvaluatePopulation scores every individual not yet evaluated this
// generation.
func (e *EvolutionEngine) EvaluatePopulation() error {
	if e.Population == nil {
		return errors.New("evaluate: no population")
	}
	e.generationStart = time.Now()

	unevaluated := e.Population.GetUnevaluated()
	if e.Config.Verbose {
		e.Logger.Info("evaluating",
			zap.Int("generation", e.Population.Generation),
			zap.Int("individuals", len(unevaluated)))
	}
	if err := e.Evaluator.EvaluateIndividuals(unevaluated); err != nil {
		return err
	}
	e.Phase = PhaseSelecting
	return nil
}

// SelectBreedingPool builds the breeding pool and records the generation.
func (e *EvolutionEngine) SelectBreedingPool() GenerationStats {
	e.BreedingPool = SelectBreedingPool(e.Population, e.Config.PoolSize)
	best := e.BreedingPool.Best()

	if e.BestEver == nil || best.Fitness > e.BestEver.Fitness {
		e.BestEver = best.Clone()
	}

	stats := GenerationStats{
		Generation:  e.Population.Generation,
		BestFitness: best.Fitness,
		AvgFitness:  e.Population.GetAverageFitness(),
		StdDev:      e.Population.GetFitnessStdDev(),
		Diversity:   e.Population.ComputeDiversity(),
		BestDeck:    best.Deck.Clone(),
		Evaluations: e.Population.Size(),
		Elapsed:     time.Since(e.generationStart),
		Timestamp:   time.Now(),
	}
	e.StatsHistory = append(e.StatsHistory, stats)

	e.Logger.Info("generation complete",
		zap.Int("generation", stats.Generation),
		zap.Float64("best_fitness", stats.BestFitness),
		zap.Float64("avg_fitness", stats.AvgFitness),
		zap.Float64("diversity", stats.Diversity),
		zap.Duration("elapsed", stats.Elapsed),
		zap.Strings("best_deck", stats.BestDeck.Names()))

	if e.OnGenerationComplete != nil {
		e.OnGenerationComplete(stats)
	}

	e.Phase = PhaseBreeding
	return stats
}

// CreateOffspring builds the next generation from the breeding pool: the
// best deck unchanged, then crossover + mutation children of parents drawn
// uniformly with replacement.
func (e *EvolutionEngine) CreateOffspring() ([]*Individual, error) {
	parents := e.BreedingPool.Members()
	if len(parents) == 0 {
		return nil, errors.New("create offspring: empty breeding pool")
	}

	offspring := make([]*Individual, 0, e.Config.PopulationSize)

	elite := parents[0].Clone()
	elite.Evaluated = false
	offspring = append(offspring, elite)

	for len(offspring) < e.Config.PopulationSize {
		parent1 := parents[e.Rng.Intn(len(parents))]
		parent2 := parents[e.Rng.Intn(len(parents))]

		child, err := e.Crossover.Crossover(parent1.Deck, parent2.Deck, e.Rng)
		if err != nil {
			return nil, err
		}
		child, err = e.Mutation.Mutate(child, e.Rng)
		if err != nil {
			return nil, fmt.Errorf("mutate child %d: %w", len(offspring), err)
		}
		offspring = append(offspring, &Individual{Deck: child})
	}
	return offspring, nil
}

// Breed replaces the population with the next generation, or finishes the
// run when the generation limit is reached.
func (e *EvolutionEngine) Breed() error {
	if e.Population.Generation >= e.Config.GenerationLimit {
		e.Phase = PhaseDone
		return nil
	}

	offspring, err := e.CreateOffspring()
	if err != nil {
		return fmt.Errorf("generation %d: %w", e.Population.Generation, err)
	}

	next := NewPopulation(offspring)
	next.Generation = e.Population.Generation + 1
	e.Population = next
	e.BreedingPool.Clear()
	e.Phase = PhaseEvaluating
	return nil
}

// Step performs one state transition.
func (e *EvolutionEngine) Step() error {
	switch e.Phase {
	case PhaseInit:
		return e.InitializePopulation()
	case PhaseEvaluating:
		return e.EvaluatePopulation()
	case PhaseSelecting:
		e.SelectBreedingPool()
		return nil
	case PhaseBreeding:
		return e.Breed()
	case PhaseDone:
		return nil
	default:
		return fmt.Errorf("unknown phase %s", e.Phase)
	}
}

// Evolve runs the evolutionary loop to completion.
func (e *EvolutionEngine) Evolve() error {
	e.Logger.Info("starting evolutionary loop",
		zap.Int("population", e.Config.PopulationSize),
		zap.Int("generations", e.Config.GenerationLimit),
		zap.Int("pool", e.Config.PoolSize),
		zap.Float64("mutation_rate", e.Config.MutationRate))

	for e.Phase != PhaseDone {
		if err := e.Step(); err != nil {
			return fmt.Errorf("%s: %w", e.Phase, err)
		}
	}

	if best := e.Best(); best != nil {
		e.Logger.Info("evolution complete",
			zap.Int("generations", len(e.StatsHistory)),
			zap.Float64("best_fitness", best.Fitness),
			zap.String("best_deck", best.Deck.String()))
	}
	return nil
}

// Best returns the best individual of the current population.
func (e *EvolutionEngine) Best() *Individual {
	if e.Population == nil {
		return nil
	}
	return e.Population.GetBestIndividual()
}

// GetStats returns the stats history.
func (e *EvolutionEngine) GetStats() []GenerationStats {
	return e.StatsHistory
}
