package evolution

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
)

func TestHalfCrossoverProducesLegalChildren(t *testing.T) {
	pool := paladinPool(t)
	parents := randomDecks(t, pool, 77, 20)
	crossover := NewHalfCrossover(0)
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 300; i++ {
		p1 := parents[rng.Intn(len(parents))]
		p2 := parents[rng.Intn(len(parents))]

		child, err := crossover.Crossover(p1, p2, rng)
		require.NoError(t, err)
		require.NoError(t, child.Validate())
	}
}

func TestHalfCrossoverTakesCardsFromParents(t *testing.T) {
	pool := paladinPool(t)
	parents := randomDecks(t, pool, 12, 2)
	rng := rand.New(rand.NewSource(8))

	child, err := NewHalfCrossover(0).Crossover(parents[0], parents[1], rng)
	require.NoError(t, err)

	first := parents[0].Counts()
	second := parents[1].Counts()
	for i, c := range child {
		if i < deck.Size/2 {
			assert.Contains(t, first, c.Name)
		} else {
			assert.Contains(t, second, c.Name)
		}
	}
}

func TestHalfCrossoverSameParent(t *testing.T) {
	pool := paladinPool(t)
	parent := randomDecks(t, pool, 21, 1)[0]

	child, err := NewHalfCrossover(0).Crossover(parent, parent, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.NoError(t, child.Validate())
}

func TestHalfCrossoverDoesNotModifyParents(t *testing.T) {
	pool := paladinPool(t)
	parents := randomDecks(t, pool, 4, 2)
	before0, before1 := parents[0].Clone(), parents[1].Clone()

	_, err := NewHalfCrossover(0).Crossover(parents[0], parents[1], rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	assert.True(t, parents[0].Equal(before0))
	assert.True(t, parents[1].Equal(before1))
}

func TestHalfCrossoverExhaustion(t *testing.T) {
	// A parent made of a single legendary cannot fill half a deck.
	leeroy := &card.Card{Name: "Leeroy Jenkins", Rarity: card.RarityLegendary, Type: card.TypeMinion}
	parent := deck.Deck{leeroy}

	_, err := NewHalfCrossover(50).Crossover(parent, parent, rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, deck.ErrPoolExhausted))
}

func TestHalfCrossoverEmptyParent(t *testing.T) {
	pool := paladinPool(t)
	parent := randomDecks(t, pool, 4, 1)[0]
	_, err := NewHalfCrossover(0).Crossover(parent, nil, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}
