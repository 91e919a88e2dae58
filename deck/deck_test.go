package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/darwindeck/deckevolve/card"
)

func paladinPool(t *testing.T) *card.Pool {
	t.Helper()
	pool, err := card.NewPool(card.BasicCatalog(), card.DefaultPoolFilter(card.ClassPaladin))
	require.NoError(t, err)
	return pool
}

func newTestFactory(t *testing.T, seed int64) *Factory {
	t.Helper()
	f, err := NewFactory(paladinPool(t), rand.New(rand.NewSource(seed)), 0)
	require.NoError(t, err)
	return f
}

func assertLegal(t *testing.T, d Deck) {
	t.Helper()
	require.Len(t, d, Size)
	for _, c := range d {
		assert.LessOrEqual(t, d.Count(c), c.CopyLimit(), c.Name)
	}
	assert.NoError(t, d.Validate())
}

func TestRandomDeckIsLegal(t *testing.T) {
	f := newTestFactory(t, 42)
	for i := 0; i < 200; i++ {
		d, err := f.RandomDeck()
		require.NoError(t, err)
		assertLegal(t, d)
	}
}

func TestRandomCardCoversPool(t *testing.T) {
	f := newTestFactory(t, 7)
	seen := make(map[string]bool)
	for i := 0; i < 5000; i++ {
		c := f.RandomCard()
		_, ok := f.Pool().Lookup(c.Name)
		require.True(t, ok, c.Name)
		seen[c.Name] = true
	}
	assert.Len(t, seen, f.Pool().Len())
}

func TestRandomLegalCardsPartial(t *testing.T) {
	f := newTestFactory(t, 7)
	cards, err := f.RandomLegalCards(12)
	require.NoError(t, err)
	assert.Len(t, cards, 12)
	assert.NoError(t, cards.CheckLimits())
}

func TestNewFactoryRejectsSmallPool(t *testing.T) {
	legendaries := card.StaticCatalog{}
	for _, name := range []string{"A", "B", "C"} {
		legendaries = append(legendaries, &card.Card{
			Name: name, Class: card.ClassNeutral, Rarity: card.RarityLegendary,
			Type: card.TypeMinion, Set: card.SetCore, Implemented: true, Collectible: true,
		})
	}
	pool, err := card.NewPool(legendaries, card.DefaultPoolFilter(card.ClassPaladin))
	require.NoError(t, err)

	_, err = NewFactory(pool, rand.New(rand.NewSource(1)), 0)
	assert.ErrorIs(t, err, ErrInsufficientPool)
}

func TestRandomLegalCardsExhaustsPool(t *testing.T) {
	f := newTestFactory(t, 3)
	// More cards than the pool can legally supply.
	_, err := f.RandomLegalCards(f.Pool().Capacity() + 1)
	assert.ErrorIs(t, err, ErrPoolExhausted)
}

func TestValidate(t *testing.T) {
	pool := paladinPool(t)
	yeti, _ := pool.Lookup("Chillwind Yeti")
	leeroy, _ := pool.Lookup("Leeroy Jenkins")

	short := Deck{yeti, yeti}
	assert.ErrorIs(t, short.Validate(), ErrInvalidDeck)
	assert.NoError(t, short.CheckLimits())

	tripled := Deck{yeti, yeti, yeti}
	assert.ErrorIs(t, tripled.CheckLimits(), ErrInvalidDeck)

	twoLegends := Deck{leeroy, leeroy}
	assert.ErrorIs(t, twoLegends.CheckLimits(), ErrInvalidDeck)
	assert.False(t, Deck{leeroy}.CanAdd(leeroy))
	assert.True(t, Deck{yeti}.CanAdd(yeti))
}

func TestFromNames(t *testing.T) {
	pool := paladinPool(t)

	d, err := FromNames(card.PaladinControlList(), pool.Lookup)
	require.NoError(t, err)
	assertLegal(t, d)
	assert.Equal(t, card.PaladinControlList(), d.Names())

	_, err = FromNames([]string{"Fireball"}, pool.Lookup)
	assert.ErrorIs(t, err, ErrInvalidDeck)
}

func TestCloneIsIndependent(t *testing.T) {
	f := newTestFactory(t, 11)
	d, err := f.RandomDeck()
	require.NoError(t, err)

	c := d.Clone()
	assert.True(t, d.Equal(c))
	c[0] = f.Pool().At((indexOf(f.Pool(), d[0]) + 1) % f.Pool().Len())
	assert.False(t, d.Equal(c))
}

func indexOf(p *card.Pool, c *card.Card) int {
	for i := 0; i < p.Len(); i++ {
		if p.At(i).Same(c) {
			return i
		}
	}
	return -1
}

func TestSnapshotRoundTrip(t *testing.T) {
	pool := paladinPool(t)
	d, err := FromNames(card.PaladinControlList(), pool.Lookup)
	require.NoError(t, err)

	in := NewSnapshot("PALADIN", 7, 63.5, d)
	out, err := DecodeSnapshot(EncodeSnapshot(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeSnapshotShortBuffer(t *testing.T) {
	_, err := DecodeSnapshot([]byte{1, 2})
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}
