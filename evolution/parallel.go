package evolution

import (
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// FitnessEvaluator scores a deck. Implementations must be safe for
// concurrent use when MemberWorkers > 1.
type FitnessEvaluator interface {
	Evaluate(d deck.Deck) (float64, error)
}

// FitnessFunc adapts a function to FitnessEvaluator.
type FitnessFunc func(d deck.Deck) (float64, error)

// Evaluate calls f(d).
func (f FitnessFunc) Evaluate(d deck.Deck) (float64, error) {
	return f(d)
}

// ParallelEvaluator evaluates individuals with bounded concurrency.
type ParallelEvaluator struct {
	NumWorkers int
	Evaluator  FitnessEvaluator
}

// NewParallelEvaluator creates a new parallel evaluator.
func NewParallelEvaluator(evaluator FitnessEvaluator, numWorkers int) *ParallelEvaluator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &ParallelEvaluator{
		NumWorkers: numWorkers,
		Evaluator:  evaluator,
	}
}

// EvaluateIndividuals overwrites the fitness of every individual. Each
// goroutine writes only to its own individual.
func (pe *ParallelEvaluator) EvaluateIndividuals(individuals []*Individual) error {
	if len(individuals) == 0 {
		return nil
	}

	p := pool.New().WithErrors().WithMaxGoroutines(pe.NumWorkers)
	for i, ind := range individuals {
		p.Go(func() error {
			score, err := pe.Evaluator.Evaluate(ind.Deck)
			if err != nil {
				return fmt.Errorf("evaluate individual %d: %w", i, err)
			}
			ind.Fitness = score
			ind.Evaluated = true
			return nil
		})
	}
	return p.Wait()
}
