package evolution

import (
	"gonum.org/v1/gonum/stat"

	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// Individual represents a single deck with its fitness score.
type Individual struct {
	Deck      deck.Deck
	Fitness   float64 // Win rate in [0, 100]
	Evaluated bool
}

// Clone creates a copy of the individual. Card records are shared.
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Deck:      ind.Deck.Clone(),
		Fitness:   ind.Fitness,
		Evaluated: ind.Evaluated,
	}
}

// Population represents a collection of individuals.
type Population struct {
	Individuals []*Individual
	Generation  int
}

// NewPopulation creates a new population from a list of individuals.
func NewPopulation(individuals []*Individual) *Population {
	return &Population{
		Individuals: individuals,
		Generation:  0,
	}
}

// Size returns the number of individuals in the population.
func (p *Population) Size() int {
	return len(p.Individuals)
}

// GetBestIndividual returns the individual with the highest fitness. Ties
// go to the earliest individual.
func (p *Population) GetBestIndividual() *Individual {
	if len(p.Individuals) == 0 {
		return nil
	}

	best := p.Individuals[0]
	for _, ind := range p.Individuals[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

// fitnessValues returns the fitness of every evaluated individual.
func (p *Population) fitnessValues() []float64 {
	values := make([]float64, 0, len(p.Individuals))
	for _, ind := range p.Individuals {
		if ind.Evaluated {
			values = append(values, ind.Fitness)
		}
	}
	return values
}

// GetAverageFitness returns the average fitness of evaluated individuals.
func (p *Population) GetAverageFitness() float64 {
	values := p.fitnessValues()
	if len(values) == 0 {
		return 0.0
	}
	return stat.Mean(values, nil)
}

// GetFitnessStdDev returns the sample standard deviation of evaluated fitness.
func (p *Population) GetFitnessStdDev() float64 {
	values := p.fitnessValues()
	if len(values) < 2 {
		return 0.0
	}
	return stat.StdDev(values, nil)
}

// GetUnevaluated returns all individuals that haven't been evaluated.
func (p *Population) GetUnevaluated() []*Individual {
	var unevaluated []*Individual
	for _, ind := range p.Individuals {
		if !ind.Evaluated {
			unevaluated = append(unevaluated, ind)
		}
	}
	return unevaluated
}

// ComputeDiversity returns the mean pairwise card-multiset distance in
// [0, 1]: 0 when every deck is identical.
func (p *Population) ComputeDiversity() float64 {
	n := len(p.Individuals)
	if n < 2 {
		return 0.0
	}

	var total float64
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			total += DeckDistance(p.Individuals[i].Deck, p.Individuals[j].Deck)
			pairs++
		}
	}
	return total / float64(pairs)
}

// DeckDistance is the fraction of cards not shared between two decks,
// compared as multisets.
func DeckDistance(a, b deck.Deck) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	countsA := a.Counts()
	countsB := b.Counts()
	shared := 0
	for name, na := range countsA {
		shared += min(na, countsB[name])
	}
	return 1.0 - float64(shared)/float64(max(len(a), len(b)))
}
