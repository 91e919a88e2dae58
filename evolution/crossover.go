// Package evolution provides the genetic algorithm that evolves decks.
package evolution

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// CrossoverOperator defines the interface for crossover operations.
type CrossoverOperator interface {
	// Crossover produces one child deck from two parents.
	Crossover(parent1, parent2 deck.Deck, rng *rand.Rand) (deck.Deck, error)
}

// HalfCrossover fills half of the child with cards sampled from the first
// parent and the rest from the second. Each sampled card is accepted only
// if the child assembled so far still has room for it.
type HalfCrossover struct {
	maxDraws int
}

// NewHalfCrossover creates the operator. maxDraws <= 0 selects the default.
func NewHalfCrossover(maxDraws int) *HalfCrossover {
	if maxDraws <= 0 {
		maxDraws = deck.DefaultMaxDraws
	}
	return &HalfCrossover{maxDraws: maxDraws}
}

// Crossover produces a legal child of parent1 and parent2.
func (c *HalfCrossover) Crossover(parent1, parent2 deck.Deck, rng *rand.Rand) (deck.Deck, error) {
	if len(parent1) == 0 || len(parent2) == 0 {
		return nil, errors.New("crossover: empty parent")
	}

	half := deck.Size / 2
	child := make(deck.Deck, 0, deck.Size)

	child, err := c.sampleInto(child, parent1, half, rng)
	if err != nil {
		return nil, fmt.Errorf("crossover first half: %w", err)
	}
	child, err = c.sampleInto(child, parent2, deck.Size-half, rng)
	if err != nil {
		return nil, fmt.Errorf("crossover second half: %w", err)
	}

	if err := child.Validate(); err != nil {
		return nil, fmt.Errorf("crossover child: %w", err)
	}
	return child, nil
}

// sampleInto appends n cards drawn with replacement from parent.
func (c *HalfCrossover) sampleInto(child, parent deck.Deck, n int, rng *rand.Rand) (deck.Deck, error) {
	target := len(child) + n
	for len(child) < target {
		accepted := false
		for attempt := 0; attempt < c.maxDraws; attempt++ {
			candidate := parent[rng.Intn(len(parent))]
			if child.CanAdd(candidate) {
				child = append(child, candidate)
				accepted = true
				break
			}
		}
		if !accepted {
			return nil, fmt.Errorf("card %d of %d: %w", len(child)+1, deck.Size, deck.ErrPoolExhausted)
		}
	}
	return child, nil
}
