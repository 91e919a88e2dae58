package evolution

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
)

func paladinPool(t *testing.T) *card.Pool {
	t.Helper()
	pool, err := card.NewPool(card.BasicCatalog(), card.DefaultPoolFilter(card.ClassPaladin))
	require.NoError(t, err)
	return pool
}

func randomDecks(t *testing.T, pool *card.Pool, seed int64, n int) []deck.Deck {
	t.Helper()
	f, err := deck.NewFactory(pool, rand.New(rand.NewSource(seed)), 0)
	require.NoError(t, err)
	decks := make([]deck.Deck, n)
	for i := range decks {
		decks[i], err = f.RandomDeck()
		require.NoError(t, err)
	}
	return decks
}

func evaluated(fitness ...float64) []*Individual {
	out := make([]*Individual, len(fitness))
	for i, f := range fitness {
		out[i] = &Individual{Fitness: f, Evaluated: true}
	}
	return out
}

// manaFitness scores a deck by its total mana cost.
func manaFitness(d deck.Deck) (float64, error) {
	total := 0
	for _, c := range d {
		total += c.Cost
	}
	return float64(total), nil
}
