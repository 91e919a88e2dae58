// Package game is a compact two-player duel engine used to score decks. It
// implements the simulation.Engine contract with heroes, mana, minions,
// spells, weapons and discover choices.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
	"github.com/signalnine/darwindeck/deckevolve/simulation"
)

// Rules constants
const (
	StartingHealth   = 30
	MaxMana          = 10
	MaxBoard         = 7
	MaxHand          = 10
	FirstHand        = 3
	SecondHand       = 4
	DiscoverOptions  = 3
	DefaultTurnLimit = 80
)

var (
	// ErrIllegalAction is returned by Apply for an action that is not in
	// LegalActions.
	ErrIllegalAction = errors.New("illegal action")

	// ErrMatchOver is returned when acting on a finished match.
	ErrMatchOver = errors.New("match is over")
)

// Minion is a card on the board.
type Minion struct {
	Card      *card.Card
	Attack    int
	Health    int
	CanAttack bool
}

// Weapon is an equipped hero weapon.
type Weapon struct {
	Card       *card.Card
	Attack     int
	Durability int
}

// Player is one side's state.
type Player struct {
	Class        card.Class
	Health       int
	Mana         int
	MaxMana      int
	Fatigue      int
	Hand         []*card.Card
	Library      []*card.Card
	Board        []Minion
	Weapon       *Weapon
	HeroAttacked bool
}

func (p *Player) clone() Player {
	c := *p
	c.Hand = slices.Clone(p.Hand)
	c.Library = slices.Clone(p.Library)
	c.Board = slices.Clone(p.Board)
	if p.Weapon != nil {
		w := *p.Weapon
		c.Weapon = &w
	}
	return c
}

// BoardPower returns total attack and health on the board.
func (p *Player) BoardPower() (attack, health int) {
	for _, m := range p.Board {
		attack += m.Attack
		health += m.Health
	}
	return attack, health
}

// draw moves the top library card to the hand. An empty library deals
// increasing fatigue damage; a full hand burns the card.
func (p *Player) draw() {
	if len(p.Library) == 0 {
		p.Fatigue++
		p.Health -= p.Fatigue
		return
	}
	c := p.Library[0]
	p.Library = p.Library[1:]
	if len(p.Hand) < MaxHand {
		p.Hand = append(p.Hand, c)
	}
}

// Duel is the state of one match. It implements simulation.Match.
type Duel struct {
	players   [2]Player
	current   simulation.Side
	turn      int
	turnLimit int
	winner    simulation.Side
	done      bool
	started   bool
	choice    []*card.Card
	discover  []*card.Card
	rng       *rand.Rand
}

// NewDuel sets up a match: libraries are copied (and shuffled when
// cfg.Shuffle is set), opening hands drawn and the first turn started.
func NewDuel(cfg simulation.MatchConfig, turnLimit int) (*Duel, error) {
	if cfg.Rng == nil {
		return nil, errors.New("duel: nil rng")
	}
	if len(cfg.DeckA) == 0 || len(cfg.DeckB) == 0 {
		return nil, errors.New("duel: empty deck")
	}
	if turnLimit <= 0 {
		turnLimit = DefaultTurnLimit
	}

	d := &Duel{
		turnLimit: turnLimit,
		rng:       cfg.Rng,
		discover:  discoverPool(cfg.DeckA, cfg.DeckB),
	}
	d.players[0] = newPlayer(cfg.ClassA, cfg.DeckA)
	d.players[1] = newPlayer(cfg.ClassB, cfg.DeckB)
	if cfg.Shuffle {
		for i := range d.players {
			lib := d.players[i].Library
			d.rng.Shuffle(len(lib), func(a, b int) { lib[a], lib[b] = lib[b], lib[a] })
		}
	}

	first := cfg.StartSide
	if first != simulation.SideA && first != simulation.SideB {
		first = simulation.SideA
		if d.rng.Intn(2) == 1 {
			first = simulation.SideB
		}
	}
	for i := 0; i < FirstHand; i++ {
		d.player(first).draw()
	}
	for i := 0; i < SecondHand; i++ {
		d.player(first.Opponent()).draw()
	}

	d.current = first
	d.turn = 1
	d.startTurn()
	return d, nil
}

func newPlayer(class card.Class, cards deck.Deck) Player {
	return Player{
		Class:   class,
		Health:  StartingHealth,
		Library: slices.Clone([]*card.Card(cards)),
	}
}

// discoverPool is the distinct non-discover cards of both decks.
func discoverPool(decks ...deck.Deck) []*card.Card {
	seen := make(map[string]bool)
	var pool []*card.Card
	for _, d := range decks {
		for _, c := range d {
			if c == nil || seen[c.Name] || isDiscover(c) {
				continue
			}
			seen[c.Name] = true
			pool = append(pool, c)
		}
	}
	return pool
}

func isDiscover(c *card.Card) bool {
	return c.Type == card.TypeSpell && c.Attack == 0 && c.Health == 0
}

func (d *Duel) player(side simulation.Side) *Player {
	if side == simulation.SideB {
		return &d.players[1]
	}
	return &d.players[0]
}

// Player returns the state of side. The result must not be modified.
func (d *Duel) Player(side simulation.Side) *Player {
	return d.player(side)
}

// IsComplete reports whether the match has ended.
func (d *Duel) IsComplete() bool { return d.done }

// Current returns the side to act.
func (d *Duel) Current() simulation.Side { return d.current }

// Winner returns the winning side, SideNone for draws or running matches.
func (d *Duel) Winner() simulation.Side { return d.winner }

// Turn returns the 1-based turn number.
func (d *Duel) Turn() int { return d.turn }

// PendingChoice reports whether a discover choice is waiting.
func (d *Duel) PendingChoice() bool { return len(d.choice) > 0 }

// Choices returns the offered discover cards.
func (d *Duel) Choices() []*card.Card { return d.choice }

// Mulligan replaces opening-hand cards the strategy does not keep. It is
// only allowed before the first action of the match.
func (d *Duel) Mulligan(side simulation.Side, strategy simulation.Strategy) error {
	if d.started {
		return errors.New("mulligan after first action")
	}
	if side != simulation.SideA && side != simulation.SideB {
		return fmt.Errorf("mulligan: invalid side %s", side)
	}
	p := d.player(side)

	keep := make([]*card.Card, 0, len(p.Hand))
	var replaced []*card.Card
	for _, c := range p.Hand {
		if keepOnMulligan(c, strategy, d.rng) {
			keep = append(keep, c)
		} else {
			replaced = append(replaced, c)
		}
	}
	if len(replaced) == 0 {
		return nil
	}

	p.Hand = keep
	for range replaced {
		p.draw()
	}
	p.Library = append(p.Library, replaced...)
	d.rng.Shuffle(len(p.Library), func(a, b int) { p.Library[a], p.Library[b] = p.Library[b], p.Library[a] })
	return nil
}

// mulliganThreshold is the highest cost a strategy keeps in its opening hand.
var mulliganThreshold = map[simulation.Strategy]int{
	simulation.StrategyAggro:   2,
	simulation.StrategyControl: 4,
}

func keepOnMulligan(c *card.Card, strategy simulation.Strategy, rng *rand.Rand) bool {
	if threshold, ok := mulliganThreshold[strategy]; ok {
		return c.Cost <= threshold
	}
	return rng.Intn(2) == 0
}

// startTurn refreshes the current side's mana and attackers and draws.
func (d *Duel) startTurn() {
	p := d.player(d.current)
	if p.MaxMana < MaxMana {
		p.MaxMana++
	}
	p.Mana = p.MaxMana
	p.HeroAttacked = false
	for i := range p.Board {
		p.Board[i].CanAttack = true
	}
	p.draw()
	d.checkEnd()
}

// checkEnd removes dead minions and decides the winner.
func (d *Duel) checkEnd() {
	for i := range d.players {
		p := &d.players[i]
		p.Board = slices.DeleteFunc(p.Board, func(m Minion) bool { return m.Health <= 0 })
	}
	deadA := d.players[0].Health <= 0
	deadB := d.players[1].Health <= 0
	switch {
	case deadA && deadB:
		d.done, d.winner = true, simulation.SideNone
	case deadA:
		d.done, d.winner = true, simulation.SideB
	case deadB:
		d.done, d.winner = true, simulation.SideA
	case d.turn > d.turnLimit:
		d.done, d.winner = true, simulation.SideNone
	}
}

// Clone returns an independent copy for search. The copy gets its own
// random source so planning does not disturb the match.
func (d *Duel) Clone() *Duel {
	c := *d
	c.players[0] = d.players[0].clone()
	c.players[1] = d.players[1].clone()
	c.choice = slices.Clone(d.choice)
	c.rng = rand.New(rand.NewSource(int64(d.turn)*7919 + int64(len(d.players[0].Library))))
	return &c
}
