// Package operators provides mutation operators for evolving decks.
package operators

import (
	"fmt"
	"math/rand"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// MutationOperator is the interface for all mutation operators.
type MutationOperator interface {
	// Mutate returns a mutated copy of d. The input deck is not modified.
	Mutate(d deck.Deck, rng *rand.Rand) (deck.Deck, error)

	// Probability returns the probability of this mutation being applied.
	Probability() float64

	// Name returns a human-readable name for this operator.
	Name() string
}

// BaseMutation provides common functionality for mutation operators.
type BaseMutation struct {
	probability float64
	name        string
}

// Probability returns the mutation probability.
func (m *BaseMutation) Probability() float64 {
	return m.probability
}

// Name returns the mutation name.
func (m *BaseMutation) Name() string {
	return m.name
}

// ShouldApply returns true if the mutation should be applied based on probability.
func (m *BaseMutation) ShouldApply(rng *rand.Rand) bool {
	return rng.Float64() < m.probability
}

// ReplaceCardMutation swaps one random card of the deck for a card drawn
// from the pool.
type ReplaceCardMutation struct {
	BaseMutation
	pool     *card.Pool
	maxDraws int
}

// NewReplaceCardMutation creates the card replacement operator.
func NewReplaceCardMutation(probability float64, pool *card.Pool, maxDraws int) *ReplaceCardMutation {
	if maxDraws <= 0 {
		maxDraws = deck.DefaultMaxDraws
	}
	return &ReplaceCardMutation{
		BaseMutation: BaseMutation{probability: probability, name: "replace_card"},
		pool:         pool,
		maxDraws:     maxDraws,
	}
}

// Mutate picks a position and redraws its card until the candidate is
// either the incumbent (a no-op) or fits the copy limit once the incumbent
// is removed.
func (m *ReplaceCardMutation) Mutate(d deck.Deck, rng *rand.Rand) (deck.Deck, error) {
	mutated := d.Clone()
	if len(mutated) == 0 || !m.ShouldApply(rng) {
		return mutated, nil
	}

	pos := rng.Intn(len(mutated))
	incumbent := mutated[pos]
	for attempt := 0; attempt < m.maxDraws; attempt++ {
		candidate := m.pool.At(rng.Intn(m.pool.Len()))
		if candidate.Same(incumbent) {
			return mutated, nil
		}
		if fitsAt(mutated, pos, candidate) {
			mutated[pos] = candidate
			return mutated, nil
		}
	}
	return nil, fmt.Errorf("replace card at %d (%s): %w", pos, incumbent.Name, deck.ErrPoolExhausted)
}

// fitsAt reports whether c may occupy position pos.
func fitsAt(d deck.Deck, pos int, c *card.Card) bool {
	n := 0
	for i, other := range d {
		if i != pos && other.Same(c) {
			n++
		}
	}
	return n < c.CopyLimit()
}
