package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPopulation(t *testing.T) {
	pop := NewPopulation(evaluated(0, 1, 2, 3, 4))
	assert.Equal(t, 5, pop.Size())
	assert.Equal(t, 0, pop.Generation)
}

func TestPopulationGetBestIndividual(t *testing.T) {
	pop := NewPopulation(evaluated(30, 90, 50))
	assert.Equal(t, 90.0, pop.GetBestIndividual().Fitness)

	ties := evaluated(70, 70, 10)
	assert.Same(t, ties[0], NewPopulation(ties).GetBestIndividual())

	assert.Nil(t, NewPopulation(nil).GetBestIndividual())
}

func TestPopulationStatistics(t *testing.T) {
	pop := NewPopulation(evaluated(20, 40, 60))
	assert.InDelta(t, 40.0, pop.GetAverageFitness(), 1e-9)
	assert.InDelta(t, 20.0, pop.GetFitnessStdDev(), 1e-9)
}

func TestPopulationStatisticsIgnoreUnevaluated(t *testing.T) {
	individuals := evaluated(20, 40)
	individuals = append(individuals, &Individual{Fitness: 99})
	pop := NewPopulation(individuals)

	assert.InDelta(t, 30.0, pop.GetAverageFitness(), 1e-9)
	require.Len(t, pop.GetUnevaluated(), 1)
	assert.Equal(t, 99.0, pop.GetUnevaluated()[0].Fitness)
}

func TestEmptyPopulationStatistics(t *testing.T) {
	pop := NewPopulation(nil)
	assert.Zero(t, pop.GetAverageFitness())
	assert.Zero(t, pop.GetFitnessStdDev())
	assert.Zero(t, pop.ComputeDiversity())
}

func TestDeckDistance(t *testing.T) {
	pool := paladinPool(t)
	decks := randomDecks(t, pool, 3, 2)

	assert.Zero(t, DeckDistance(decks[0], decks[0]))
	assert.Zero(t, DeckDistance(decks[0], decks[0].Clone()))

	d := DeckDistance(decks[0], decks[1])
	assert.GreaterOrEqual(t, d, 0.0)
	assert.LessOrEqual(t, d, 1.0)
	assert.InDelta(t, d, DeckDistance(decks[1], decks[0]), 1e-12)
}

func TestComputeDiversity(t *testing.T) {
	pool := paladinPool(t)
	decks := randomDecks(t, pool, 9, 1)

	same := NewPopulation([]*Individual{{Deck: decks[0]}, {Deck: decks[0].Clone()}})
	assert.Zero(t, same.ComputeDiversity())

	varied := make([]*Individual, 0, 6)
	for _, d := range randomDecks(t, pool, 10, 6) {
		varied = append(varied, &Individual{Deck: d})
	}
	assert.Greater(t, NewPopulation(varied).ComputeDiversity(), 0.0)
}

func TestIndividualClone(t *testing.T) {
	pool := paladinPool(t)
	d := randomDecks(t, pool, 1, 1)[0]
	ind := &Individual{Deck: d, Fitness: 55, Evaluated: true}

	clone := ind.Clone()
	assert.Equal(t, ind.Fitness, clone.Fitness)
	assert.True(t, clone.Evaluated)
	assert.True(t, clone.Deck.Equal(ind.Deck))

	clone.Deck[0] = clone.Deck[1]
	assert.True(t, ind.Deck.Equal(d))
}
