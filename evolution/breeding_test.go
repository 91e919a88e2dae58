package evolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fitnesses(members []*Individual) []float64 {
	out := make([]float64, len(members))
	for i, m := range members {
		out[i] = m.Fitness
	}
	return out
}

func TestSelectBreedingPoolKeepsTopK(t *testing.T) {
	pop := NewPopulation(evaluated(10, 80, 30, 90, 50, 20))
	bp := SelectBreedingPool(pop, 3)

	require.Equal(t, 3, bp.Len())
	assert.Equal(t, []float64{90, 80, 50}, fitnesses(bp.Members()))
	assert.Equal(t, 90.0, bp.Best().Fitness)
}

func TestSelectBreedingPoolSmallerPopulation(t *testing.T) {
	pop := NewPopulation(evaluated(10, 30))
	bp := SelectBreedingPool(pop, 4)
	assert.Equal(t, []float64{30, 10}, fitnesses(bp.Members()))
}

func TestBreedingPoolTiesKeepPopulationOrder(t *testing.T) {
	individuals := evaluated(50, 70, 50, 70, 50)
	bp := SelectBreedingPool(NewPopulation(individuals), 3)

	require.Equal(t, 3, bp.Len())
	assert.Same(t, individuals[1], bp.Members()[0])
	assert.Same(t, individuals[3], bp.Members()[1])
	assert.Same(t, individuals[0], bp.Members()[2])
}

func TestBreedingPoolOfferRejectsNoImprovement(t *testing.T) {
	bp := NewBreedingPool(2)
	assert.True(t, bp.Offer(&Individual{Fitness: 40}))
	assert.True(t, bp.Offer(&Individual{Fitness: 60}))
	assert.False(t, bp.Offer(&Individual{Fitness: 40}))
	assert.False(t, bp.Offer(&Individual{Fitness: 10}))
	assert.True(t, bp.Offer(&Individual{Fitness: 45}))
	assert.Equal(t, []float64{60, 45}, fitnesses(bp.Members()))
}

func TestBreedingPoolClear(t *testing.T) {
	bp := SelectBreedingPool(NewPopulation(evaluated(1, 2, 3)), 2)
	bp.Clear()
	assert.Zero(t, bp.Len())
	assert.Nil(t, bp.Best())
}
