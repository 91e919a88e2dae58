package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolFiltersBasicCatalog(t *testing.T) {
	pool, err := NewPool(BasicCatalog(), DefaultPoolFilter(ClassPaladin))
	require.NoError(t, err)

	assert.Equal(t, 28, pool.Len())
	for _, c := range pool.Cards() {
		assert.True(t, c.Class == ClassNeutral || c.Class == ClassPaladin, c.Name)
		assert.True(t, c.Collectible && c.Implemented, c.Name)
		assert.Contains(t, []Set{SetCore, SetExpert1}, c.Set, c.Name)
	}

	for _, rejected := range []string{"Fireball", "Silver Hand Recruit", "Uther Lightbringer", "Shielded Minibot", "Blood Knight"} {
		_, ok := pool.Lookup(rejected)
		assert.False(t, ok, "%s should not be in the pool", rejected)
	}
}

func TestNewPoolDeduplicatesByName(t *testing.T) {
	first := minion("A1", "Chillwind Yeti", ClassNeutral, SetCore, RarityCommon, 4, 4, 5)
	second := minion("A2", "Chillwind Yeti", ClassNeutral, SetExpert1, RarityCommon, 4, 4, 5)

	pool, err := NewPool(StaticCatalog{first, second}, DefaultPoolFilter(ClassMage))
	require.NoError(t, err)

	assert.Equal(t, 1, pool.Len())
	got, ok := pool.Lookup("Chillwind Yeti")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestNewPoolEmpty(t *testing.T) {
	_, err := NewPool(StaticCatalog{}, DefaultPoolFilter(ClassPaladin))
	assert.ErrorIs(t, err, ErrEmptyPool)

	_, err = NewPool(nil, DefaultPoolFilter(ClassPaladin))
	assert.ErrorIs(t, err, ErrEmptyPool)

	onlyMage := StaticCatalog{spell("CS2_029", "Fireball", ClassMage, SetCore, RarityCommon, 4, 6, 0)}
	_, err = NewPool(onlyMage, DefaultPoolFilter(ClassWarrior))
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestPoolCapacity(t *testing.T) {
	pool, err := NewPool(BasicCatalog(), DefaultPoolFilter(ClassPaladin))
	require.NoError(t, err)

	// 24 ordinary cards at two copies, 4 legendaries at one.
	assert.Equal(t, 52, pool.Capacity())
}

func TestPoolFilterLegalSetsAreExplicit(t *testing.T) {
	filter := DefaultPoolFilter(ClassPaladin)
	filter.LegalSets = []Set{SetCore}

	pool, err := NewPool(BasicCatalog(), filter)
	require.NoError(t, err)

	_, ok := pool.Lookup("Leeroy Jenkins")
	assert.False(t, ok)
	_, ok = pool.Lookup("Holy Light")
	assert.True(t, ok)
}

func TestCopyLimit(t *testing.T) {
	leeroy := minion("EX1_116", "Leeroy Jenkins", ClassNeutral, SetExpert1, RarityLegendary, 5, 6, 2)
	yeti := minion("CS2_182", "Chillwind Yeti", ClassNeutral, SetCore, RarityCommon, 4, 4, 5)

	assert.Equal(t, 1, leeroy.CopyLimit())
	assert.Equal(t, 2, yeti.CopyLimit())
	assert.True(t, yeti.Same(&Card{Name: "Chillwind Yeti"}))
	assert.False(t, yeti.Same(leeroy))
}

func TestLoadCatalog(t *testing.T) {
	input := `[
		{"id": "CS2_089", "name": "Holy Light", "class": "paladin", "rarity": "FREE", "type": "SPELL", "set": "CORE", "implemented": true, "collectible": true, "cost": 2, "health": 6},
		{"name": "Leeroy Jenkins", "class": "NEUTRAL", "rarity": "LEGENDARY", "type": "MINION", "set": "EXPERT1", "implemented": true, "collectible": true, "cost": 5, "attack": 6, "health": 2}
	]`

	catalog, err := LoadCatalog(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	assert.Equal(t, ClassPaladin, catalog[0].Class)
	assert.Equal(t, RarityCommon, catalog[0].Rarity)
	assert.Equal(t, 6, catalog[0].Health)
	assert.Equal(t, "Leeroy Jenkins", catalog[1].ID)
	assert.True(t, catalog[1].IsLegendary())
}

func TestLoadCatalogRejectsUnknownEnums(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader(`[{"name": "X", "class": "BARD", "type": "MINION", "set": "CORE"}]`))
	assert.Error(t, err)

	_, err = LoadCatalog(strings.NewReader(`[{"name": "X", "class": "MAGE", "type": "LOCATION", "set": "CORE"}]`))
	assert.Error(t, err)
}

func TestPaladinControlListResolves(t *testing.T) {
	pool, err := NewPool(BasicCatalog(), DefaultPoolFilter(ClassPaladin))
	require.NoError(t, err)

	list := PaladinControlList()
	assert.Len(t, list, 30)
	for _, name := range list {
		_, ok := pool.Lookup(name)
		assert.True(t, ok, name)
	}
}
