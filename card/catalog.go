package card

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Catalog supplies canonical card records.
type Catalog interface {
	AllCards() []*Card
}

// StaticCatalog is a Catalog backed by an in-memory slice.
type StaticCatalog []*Card

// AllCards returns every record in the catalog.
func (s StaticCatalog) AllCards() []*Card {
	return s
}

// catalogEntry is the JSON form of a card record.
type catalogEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	Rarity      string `json:"rarity"`
	Type        string `json:"type"`
	Set         string `json:"set"`
	Implemented bool   `json:"implemented"`
	Collectible bool   `json:"collectible"`
	Cost        int    `json:"cost"`
	Attack      int    `json:"attack"`
	Health      int    `json:"health"`
}

// LoadCatalog reads a JSON array of card records.
func LoadCatalog(r io.Reader) (StaticCatalog, error) {
	var entries []catalogEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cards := make(StaticCatalog, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: missing name", i)
		}
		class, err := ParseClass(e.Class)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Name, err)
		}
		rarity, err := lookup(rarityByName, e.Rarity, "rarity")
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Name, err)
		}
		typ, err := lookup(reverse(typeNames), e.Type, "type")
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Name, err)
		}
		set, err := lookup(reverse(setNames), e.Set, "set")
		if err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", e.Name, err)
		}
		id := e.ID
		if id == "" {
			id = e.Name
		}
		cards = append(cards, &Card{
			ID:          id,
			Name:        e.Name,
			Class:       class,
			Rarity:      rarity,
			Type:        typ,
			Set:         set,
			Implemented: e.Implemented,
			Collectible: e.Collectible,
			Cost:        e.Cost,
			Attack:      e.Attack,
			Health:      e.Health,
		})
	}
	return cards, nil
}

var rarityByName = map[string]Rarity{
	"":          RarityCommon,
	"FREE":      RarityCommon,
	"COMMON":    RarityCommon,
	"RARE":      RarityRare,
	"EPIC":      RarityEpic,
	"LEGENDARY": RarityLegendary,
}

func reverse[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func lookup[T any](m map[string]T, name, kind string) (T, error) {
	v, ok := m[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown card %s %q", kind, name)
	}
	return v, nil
}
