// Package card defines card records and the legal card pool a deck may draw from.
package card

import (
	"fmt"
	"strings"
)

// Class is a hero class. Neutral cards can be played by every class.
type Class uint8

const (
	ClassInvalid Class = iota
	ClassNeutral
	ClassDruid
	ClassHunter
	ClassMage
	ClassPaladin
	ClassPriest
	ClassRogue
	ClassShaman
	ClassWarlock
	ClassWarrior
)

var classNames = map[Class]string{
	ClassInvalid: "INVALID",
	ClassNeutral: "NEUTRAL",
	ClassDruid:   "DRUID",
	ClassHunter:  "HUNTER",
	ClassMage:    "MAGE",
	ClassPaladin: "PALADIN",
	ClassPriest:  "PRIEST",
	ClassRogue:   "ROGUE",
	ClassShaman:  "SHAMAN",
	ClassWarlock: "WARLOCK",
	ClassWarrior: "WARRIOR",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// ParseClass parses a class name case-insensitively.
func ParseClass(s string) (Class, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for c, name := range classNames {
		if c != ClassInvalid && name == upper {
			return c, nil
		}
	}
	return ClassInvalid, fmt.Errorf("unknown card class %q", s)
}

// Rarity only matters for the copy limit: legendaries are singletons.
type Rarity uint8

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "COMMON"
	case RarityRare:
		return "RARE"
	case RarityEpic:
		return "EPIC"
	case RarityLegendary:
		return "LEGENDARY"
	default:
		return fmt.Sprintf("Rarity(%d)", uint8(r))
	}
}

// Type is the card type.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeMinion
	TypeSpell
	TypeWeapon
	TypeHero
	TypeEnchantment
	TypeHeroPower
	TypeToken
)

var typeNames = map[Type]string{
	TypeInvalid:     "INVALID",
	TypeMinion:      "MINION",
	TypeSpell:       "SPELL",
	TypeWeapon:      "WEAPON",
	TypeHero:        "HERO",
	TypeEnchantment: "ENCHANTMENT",
	TypeHeroPower:   "HERO_POWER",
	TypeToken:       "TOKEN",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Set is the expansion a card was printed in.
type Set uint8

const (
	SetInvalid Set = iota
	SetCore
	SetExpert1
	SetNaxx
	SetGvg
)

var setNames = map[Set]string{
	SetInvalid: "INVALID",
	SetCore:    "CORE",
	SetExpert1: "EXPERT1",
	SetNaxx:    "NAXX",
	SetGvg:     "GVG",
}

func (s Set) String() string {
	if name, ok := setNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Set(%d)", uint8(s))
}

// Card is an immutable catalog record. Two records with the same Name are
// the same card for deck-building purposes.
type Card struct {
	ID          string
	Name        string
	Class       Class
	Rarity      Rarity
	Type        Type
	Set         Set
	Implemented bool
	Collectible bool

	// Play stats used by the reference duel engine. For spells Attack is
	// damage dealt and Health is healing; a spell with neither discovers.
	Cost   int
	Attack int
	Health int
}

// IsLegendary reports whether the card is limited to one copy per deck.
func (c *Card) IsLegendary() bool {
	return c.Rarity == RarityLegendary
}

// CopyLimit returns the maximum number of copies allowed in one deck.
func (c *Card) CopyLimit() int {
	if c.IsLegendary() {
		return 1
	}
	return 2
}

// Same reports whether two records denote the same card.
func (c *Card) Same(other *Card) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c == other || c.Name == other.Name
}

func (c *Card) String() string {
	if c == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s [%d mana %s]", c.Name, c.Cost, c.Type)
}
