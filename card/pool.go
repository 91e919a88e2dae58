package card

import (
	"errors"
	"fmt"
)

// ErrEmptyPool is returned when no catalog card passes the pool filter.
var ErrEmptyPool = errors.New("available card pool is empty")

// PoolFilter is the predicate selecting the cards a deck may contain.
type PoolFilter struct {
	Class         Class
	LegalSets     []Set
	ExcludedTypes []Type
}

// DefaultPoolFilter returns the filter for class using the Core and
// Expert1 sets and excluding every non-playable card type.
func DefaultPoolFilter(class Class) PoolFilter {
	return PoolFilter{
		Class:     class,
		LegalSets: []Set{SetCore, SetExpert1},
		ExcludedTypes: []Type{
			TypeHero, TypeEnchantment, TypeHeroPower, TypeToken, TypeInvalid,
		},
	}
}

// Allows reports whether c belongs in the pool.
func (f PoolFilter) Allows(c *Card) bool {
	if c == nil || !c.Collectible || !c.Implemented {
		return false
	}
	if c.Class != ClassNeutral && c.Class != f.Class {
		return false
	}
	legal := false
	for _, s := range f.LegalSets {
		if c.Set == s {
			legal = true
			break
		}
	}
	if !legal {
		return false
	}
	for _, t := range f.ExcludedTypes {
		if c.Type == t {
			return false
		}
	}
	return true
}

// Pool is the deduplicated set of cards available for one hero class.
// It is built once per run and never mutated afterwards.
type Pool struct {
	Class  Class
	cards  []*Card
	byName map[string]*Card
}

// NewPool filters the catalog into the available pool. The first record
// seen for each name wins.
func NewPool(catalog Catalog, filter PoolFilter) (*Pool, error) {
	if catalog == nil {
		return nil, fmt.Errorf("build pool: %w", ErrEmptyPool)
	}
	p := &Pool{
		Class:  filter.Class,
		byName: make(map[string]*Card),
	}
	for _, c := range catalog.AllCards() {
		if !filter.Allows(c) {
			continue
		}
		if _, dup := p.byName[c.Name]; dup {
			continue
		}
		p.byName[c.Name] = c
		p.cards = append(p.cards, c)
	}
	if len(p.cards) == 0 {
		return nil, fmt.Errorf("build pool for %s: %w", filter.Class, ErrEmptyPool)
	}
	return p, nil
}

// Len returns the number of distinct cards.
func (p *Pool) Len() int {
	return len(p.cards)
}

// At returns the i-th card.
func (p *Pool) At(i int) *Card {
	return p.cards[i]
}

// Cards returns a copy of the pool contents.
func (p *Pool) Cards() []*Card {
	out := make([]*Card, len(p.cards))
	copy(out, p.cards)
	return out
}

// Lookup finds a pooled card by name.
func (p *Pool) Lookup(name string) (*Card, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// Capacity is the largest legal deck the pool can fill: one slot per
// legendary and two per other card.
func (p *Pool) Capacity() int {
	total := 0
	for _, c := range p.cards {
		total += c.CopyLimit()
	}
	return total
}
