// Package deck implements 30-card decks, their copy-limit invariant and the
// factory that draws random legal decks from a card pool.
package deck

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/signalnine/darwindeck/deckevolve/card"
)

// Size is the number of cards in a legal deck.
const Size = 30

// ErrInvalidDeck is returned when a deck breaks the size or copy-limit rule.
var ErrInvalidDeck = errors.New("invalid deck")

// Deck is an ordered list of card references.
type Deck []*card.Card

// Counts returns the number of copies of each card name.
func (d Deck) Counts() map[string]int {
	counts := make(map[string]int, len(d))
	for _, c := range d {
		if c != nil {
			counts[c.Name]++
		}
	}
	return counts
}

// Count returns the number of copies of c in the deck.
func (d Deck) Count(c *card.Card) int {
	n := 0
	for _, other := range d {
		if other != nil && other.Same(c) {
			n++
		}
	}
	return n
}

// CanAdd reports whether one more copy of c keeps the deck within limits.
func (d Deck) CanAdd(c *card.Card) bool {
	return d.Count(c) < c.CopyLimit()
}

// CheckLimits verifies the copy limit only, for partially built decks.
func (d Deck) CheckLimits() error {
	seen := make(map[string]int, len(d))
	for i, c := range d {
		if c == nil {
			return fmt.Errorf("%w: nil card at position %d", ErrInvalidDeck, i)
		}
		seen[c.Name]++
		if seen[c.Name] > c.CopyLimit() {
			return fmt.Errorf("%w: %d copies of %q (limit %d)", ErrInvalidDeck, seen[c.Name], c.Name, c.CopyLimit())
		}
	}
	return nil
}

// Validate checks the full invariant: exactly Size cards within copy limits.
func (d Deck) Validate() error {
	if len(d) != Size {
		return fmt.Errorf("%w: %d cards, want %d", ErrInvalidDeck, len(d), Size)
	}
	return d.CheckLimits()
}

// Clone returns a copy of the deck. Card records are shared.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}

// Names returns card names in deck order.
func (d Deck) Names() []string {
	names := make([]string, len(d))
	for i, c := range d {
		if c != nil {
			names[i] = c.Name
		}
	}
	return names
}

// Equal reports whether both decks hold the same cards in the same order.
func (d Deck) Equal(other Deck) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if !d[i].Same(other[i]) {
			return false
		}
	}
	return true
}

// String renders a sorted "2x Name" listing.
func (d Deck) String() string {
	counts := d.Counts()
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%dx %s", counts[n], n)
	}
	return b.String()
}

// FromNames resolves names against lookup and validates the result.
func FromNames(names []string, lookup func(string) (*card.Card, bool)) (Deck, error) {
	d := make(Deck, 0, len(names))
	for _, n := range names {
		c, ok := lookup(n)
		if !ok {
			return nil, fmt.Errorf("%w: unknown card %q", ErrInvalidDeck, n)
		}
		d = append(d, c)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
