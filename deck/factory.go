package deck

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/signalnine/darwindeck/deckevolve/card"
)

// DefaultMaxDraws bounds each rejection-sampling loop.
const DefaultMaxDraws = 10000

var (
	// ErrPoolExhausted is returned when a draw loop runs out of attempts.
	ErrPoolExhausted = errors.New("no legal card found within draw limit")

	// ErrInsufficientPool is returned when the pool cannot fill a deck.
	ErrInsufficientPool = errors.New("card pool too small for a legal deck")
)

// Factory draws random cards and legal decks from a pool.
// It is not safe for concurrent use; the rng is owned by the caller.
type Factory struct {
	pool     *card.Pool
	rng      *rand.Rand
	maxDraws int
}

// NewFactory creates a factory. maxDraws <= 0 selects DefaultMaxDraws.
func NewFactory(pool *card.Pool, rng *rand.Rand, maxDraws int) (*Factory, error) {
	if pool == nil || pool.Len() == 0 {
		return nil, fmt.Errorf("new factory: %w", card.ErrEmptyPool)
	}
	if capacity := pool.Capacity(); capacity < Size {
		return nil, fmt.Errorf("%w: %d slots for %d cards", ErrInsufficientPool, capacity, Size)
	}
	if maxDraws <= 0 {
		maxDraws = DefaultMaxDraws
	}
	return &Factory{pool: pool, rng: rng, maxDraws: maxDraws}, nil
}

// Pool returns the pool the factory draws from.
func (f *Factory) Pool() *card.Pool {
	return f.pool
}

// Rng returns the factory's random source.
func (f *Factory) Rng() *rand.Rand {
	return f.rng
}

// MaxDraws returns the per-card attempt limit.
func (f *Factory) MaxDraws() int {
	return f.maxDraws
}

// RandomCard draws a uniformly random card from the pool.
func (f *Factory) RandomCard() *card.Card {
	return f.pool.At(f.rng.Intn(f.pool.Len()))
}

// RandomLegalCards draws n cards, rejecting any draw that would exceed its
// copy limit within the cards drawn so far.
func (f *Factory) RandomLegalCards(n int) (Deck, error) {
	cards := make(Deck, 0, n)
	for len(cards) < n {
		accepted := false
		for attempt := 0; attempt < f.maxDraws; attempt++ {
			c := f.RandomCard()
			if cards.CanAdd(c) {
				cards = append(cards, c)
				accepted = true
				break
			}
		}
		if !accepted {
			return nil, fmt.Errorf("draw card %d of %d: %w", len(cards)+1, n, ErrPoolExhausted)
		}
	}
	return cards, nil
}

// RandomDeck builds a fresh legal deck.
func (f *Factory) RandomDeck() (Deck, error) {
	d, err := f.RandomLegalCards(Size)
	if err != nil {
		return nil, err
	}
	return d, d.Validate()
}
