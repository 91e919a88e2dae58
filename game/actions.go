package game

import (
	"fmt"
	"slices"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/simulation"
)

// ActionKind identifies what an action does.
type ActionKind uint8

const (
	ActionPlay ActionKind = iota
	ActionAttack
	ActionHeroAttack
	ActionChoose
	ActionEndTurn
)

// TargetHero targets the enemy hero (or the own hero for healing).
const TargetHero = -1

// Action is a single step of a turn.
//
//	ActionPlay:       Index = hand position, Target = enemy minion or TargetHero
//	ActionAttack:     Index = own minion, Target = enemy minion or TargetHero
//	ActionHeroAttack: Target = enemy minion or TargetHero
//	ActionChoose:     Index = offered discover card
type Action struct {
	Kind   ActionKind
	Index  int
	Target int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionPlay:
		return fmt.Sprintf("play(%d->%d)", a.Index, a.Target)
	case ActionAttack:
		return fmt.Sprintf("attack(%d->%d)", a.Index, a.Target)
	case ActionHeroAttack:
		return fmt.Sprintf("hero_attack(->%d)", a.Target)
	case ActionChoose:
		return fmt.Sprintf("choose(%d)", a.Index)
	case ActionEndTurn:
		return "end_turn"
	default:
		return fmt.Sprintf("Action(%d)", a.Kind)
	}
}

var endTurn = Action{Kind: ActionEndTurn, Target: TargetHero}

// targets returns TargetHero followed by every enemy minion index.
func targets(enemy *Player) []int {
	out := make([]int, 0, len(enemy.Board)+1)
	out = append(out, TargetHero)
	for i := range enemy.Board {
		out = append(out, i)
	}
	return out
}

// LegalActions lists every action the current side may take.
func (d *Duel) LegalActions() []Action {
	if d.done {
		return nil
	}
	if len(d.choice) > 0 {
		actions := make([]Action, len(d.choice))
		for i := range d.choice {
			actions[i] = Action{Kind: ActionChoose, Index: i, Target: TargetHero}
		}
		return actions
	}

	me := d.player(d.current)
	enemy := d.player(d.current.Opponent())
	enemyTargets := targets(enemy)
	actions := make([]Action, 0, 16)

	for i, c := range me.Hand {
		if c.Cost > me.Mana {
			continue
		}
		switch {
		case c.Type == card.TypeMinion:
			if len(me.Board) < MaxBoard {
				actions = append(actions, Action{Kind: ActionPlay, Index: i, Target: TargetHero})
			}
		case c.Type == card.TypeSpell && c.Attack > 0:
			for _, t := range enemyTargets {
				actions = append(actions, Action{Kind: ActionPlay, Index: i, Target: t})
			}
		default:
			actions = append(actions, Action{Kind: ActionPlay, Index: i, Target: TargetHero})
		}
	}

	for i, m := range me.Board {
		if !m.CanAttack || m.Attack <= 0 {
			continue
		}
		for _, t := range enemyTargets {
			actions = append(actions, Action{Kind: ActionAttack, Index: i, Target: t})
		}
	}

	if me.Weapon != nil && !me.HeroAttacked && me.Weapon.Attack > 0 {
		for _, t := range enemyTargets {
			actions = append(actions, Action{Kind: ActionHeroAttack, Target: t})
		}
	}

	return append(actions, endTurn)
}

// Apply executes a legal action for the current side.
func (d *Duel) Apply(action simulation.Action) error {
	if d.done {
		return ErrMatchOver
	}
	a, ok := action.(Action)
	if !ok {
		return fmt.Errorf("%w: unknown action type %T", ErrIllegalAction, action)
	}
	if !slices.Contains(d.LegalActions(), a) {
		return fmt.Errorf("%w: %s", ErrIllegalAction, a)
	}
	d.apply(a)
	return nil
}

// apply executes a without checking legality.
func (d *Duel) apply(a Action) {
	d.started = true
	me := d.player(d.current)
	enemy := d.player(d.current.Opponent())

	switch a.Kind {
	case ActionPlay:
		c := me.Hand[a.Index]
		me.Hand = slices.Delete(me.Hand, a.Index, a.Index+1)
		me.Mana -= c.Cost
		d.play(c, me, enemy, a.Target)

	case ActionAttack:
		m := &me.Board[a.Index]
		m.CanAttack = false
		if a.Target == TargetHero {
			enemy.Health -= m.Attack
		} else {
			defender := &enemy.Board[a.Target]
			defender.Health -= m.Attack
			m.Health -= defender.Attack
		}

	case ActionHeroAttack:
		me.HeroAttacked = true
		if a.Target == TargetHero {
			enemy.Health -= me.Weapon.Attack
		} else {
			defender := &enemy.Board[a.Target]
			defender.Health -= me.Weapon.Attack
			me.Health -= defender.Attack
		}
		me.Weapon.Durability--
		if me.Weapon.Durability <= 0 {
			me.Weapon = nil
		}

	case ActionChoose:
		if len(me.Hand) < MaxHand {
			me.Hand = append(me.Hand, d.choice[a.Index])
		}
		d.choice = nil

	case ActionEndTurn:
		d.current = d.current.Opponent()
		d.turn++
		d.checkEnd()
		if !d.done {
			d.startTurn()
		}
		return
	}
	d.checkEnd()
}

// play resolves a card leaving the hand.
func (d *Duel) play(c *card.Card, me, enemy *Player, target int) {
	switch c.Type {
	case card.TypeMinion:
		me.Board = append(me.Board, Minion{Card: c, Attack: c.Attack, Health: c.Health})
	case card.TypeWeapon:
		me.Weapon = &Weapon{Card: c, Attack: c.Attack, Durability: c.Health}
	case card.TypeSpell:
		switch {
		case c.Attack > 0 && target == TargetHero:
			enemy.Health -= c.Attack
		case c.Attack > 0:
			enemy.Board[target].Health -= c.Attack
		case c.Health > 0:
			me.Health = min(StartingHealth, me.Health+c.Health)
		default:
			d.offerDiscover()
		}
	}
}

// offerDiscover draws up to DiscoverOptions distinct cards to choose from.
func (d *Duel) offerDiscover() {
	if len(d.discover) == 0 {
		return
	}
	n := min(DiscoverOptions, len(d.discover))
	perm := d.rng.Perm(len(d.discover))[:n]
	d.choice = make([]*card.Card, n)
	for i, idx := range perm {
		d.choice[i] = d.discover[idx]
	}
}
