package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/signalnine/darwindeck/deckevolve/simulation"
)

// Score bonus for a plan that wins or loses the match outright.
const terminalScore = 1e6

// Engine creates duels and plans turns with a bounded beam search.
type Engine struct {
	TurnLimit int
}

// NewEngine returns an engine with the default turn limit.
func NewEngine() *Engine {
	return &Engine{TurnLimit: DefaultTurnLimit}
}

// NewMatch starts a duel.
func (e *Engine) NewMatch(cfg simulation.MatchConfig) (simulation.Match, error) {
	return NewDuel(cfg, e.TurnLimit)
}

// plan is one partial turn in the beam.
type plan struct {
	state   *Duel
	actions []simulation.Action
	score   float64
}

// BestActionSequence returns the best plan for side's current turn. The beam
// keeps at most breadth partial plans and expands at most depth actions. A
// plan is complete when it ends the turn, finishes the match, or surfaces
// a discover choice.
func (e *Engine) BestActionSequence(m simulation.Match, side simulation.Side, strategy simulation.Strategy, breadth, depth int) ([]simulation.Action, error) {
	d, ok := m.(*Duel)
	if !ok {
		return nil, fmt.Errorf("game: unsupported match type %T", m)
	}
	if d.done {
		return nil, ErrMatchOver
	}
	if d.current != side {
		return nil, fmt.Errorf("game: side %s planning on %s's turn", side, d.current)
	}
	if breadth <= 0 {
		breadth = simulation.DefaultSearchBreadth
	}
	if depth <= 0 {
		depth = simulation.DefaultSearchDepth
	}

	if strategy == simulation.StrategyRandom {
		return randomAction(d)
	}

	var best *plan
	consider := func(p plan) {
		if best == nil || p.score > best.score {
			best = &p
		}
	}

	beam := []plan{{state: d}}
	for step := 0; step < depth && len(beam) > 0; step++ {
		var next []plan
		for _, p := range beam {
			for _, a := range p.state.LegalActions() {
				actions := append(append([]simulation.Action(nil), p.actions...), a)
				if a.Kind == ActionEndTurn {
					// Judge the board as left, before the opponent draws.
					consider(plan{actions: actions, score: Evaluate(p.state, side, strategy)})
					continue
				}
				child := p.state.Clone()
				child.apply(a)
				np := plan{state: child, actions: actions, score: Evaluate(child, side, strategy)}
				if child.done || child.PendingChoice() {
					consider(np)
					continue
				}
				next = append(next, np)
			}
		}
		sort.SliceStable(next, func(i, j int) bool { return next[i].score > next[j].score })
		if len(next) > breadth {
			next = next[:breadth]
		}
		beam = next
	}

	// Depth ran out with plans still open: close the best one.
	if len(beam) > 0 && (best == nil || beam[0].score > best.score) {
		return append(beam[0].actions, endTurn), nil
	}
	if best == nil {
		return nil, errors.New("game: search found no plan")
	}
	return best.actions, nil
}

// randomAction picks one legal action uniformly using the match's own
// random source.
func randomAction(d *Duel) ([]simulation.Action, error) {
	legal := d.LegalActions()
	if len(legal) == 0 {
		return nil, simulation.ErrNoActions
	}
	return []simulation.Action{legal[d.rng.Intn(len(legal))]}, nil
}

// Evaluate scores a state from side's point of view under strategy. Aggro
// values enemy hero damage and its own attack; control values its life
// and board and punishes the enemy board.
func Evaluate(d *Duel, side simulation.Side, strategy simulation.Strategy) float64 {
	if d.done {
		switch d.winner {
		case side:
			return terminalScore
		case side.Opponent():
			return -terminalScore
		}
	}

	me := d.player(side)
	enemy := d.player(side.Opponent())
	myAttack, myHealth := me.BoardPower()
	enemyAttack, enemyHealth := enemy.BoardPower()
	weapon := 0
	if me.Weapon != nil {
		weapon = me.Weapon.Attack * me.Weapon.Durability
	}

	switch strategy {
	case simulation.StrategyAggro:
		return 4*float64(StartingHealth-enemy.Health) +
			2*float64(myAttack) + float64(myHealth) + float64(weapon) -
			float64(enemyAttack) - 0.5*float64(enemyHealth) +
			0.5*float64(me.Health)
	default:
		return 2*float64(me.Health) - float64(enemy.Health) +
			3*float64(myAttack+myHealth) - 4*float64(enemyAttack+enemyHealth) +
			float64(weapon) + 0.5*float64(len(me.Hand))
	}
}
