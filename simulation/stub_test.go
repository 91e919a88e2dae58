package simulation

import (
	"errors"
	"sync/atomic"
)

type stubAction string

func (a stubAction) String() string { return string(a) }

const (
	actionPass     stubAction = "pass"
	actionEndTurn  stubAction = "end_turn"
	actionDiscover stubAction = "discover"
)

// stubMatch ends after a fixed number of turns with a fixed winner.
type stubMatch struct {
	engine     *stubEngine
	turn       int
	current    Side
	winner     Side
	done       bool
	choice     bool
	discovered bool
	mulligans  int
}

func (m *stubMatch) Mulligan(side Side, strategy Strategy) error {
	m.mulligans++
	return nil
}

func (m *stubMatch) IsComplete() bool    { return m.done }
func (m *stubMatch) Current() Side       { return m.current }
func (m *stubMatch) Winner() Side        { return m.winner }
func (m *stubMatch) Turn() int           { return m.turn }
func (m *stubMatch) PendingChoice() bool { return m.choice }

func (m *stubMatch) Apply(action Action) error {
	m.engine.applied.Add(1)
	if m.engine.panicOnApply {
		panic("rules engine exploded")
	}
	if m.engine.applyErr != nil {
		return m.engine.applyErr
	}
	m.choice = false
	switch action {
	case actionDiscover:
		m.choice = true
		m.discovered = true
	case actionEndTurn:
		m.turn++
		m.discovered = false
		m.current = m.current.Opponent()
		if m.turn >= m.engine.turns {
			m.done = true
			m.winner = m.engine.winner
		}
	}
	return nil
}

// stubEngine is a deterministic Engine for harness tests.
type stubEngine struct {
	winner        Side
	turns         int
	panicOnApply  bool
	applyErr      error
	newErr        error
	emptyPlan     bool
	discoverFirst bool
	plan          []Action

	matches atomic.Int64
	applied atomic.Int64
	plans   atomic.Int64
}

func newStubEngine(winner Side) *stubEngine {
	return &stubEngine{winner: winner, turns: 4}
}

func (e *stubEngine) NewMatch(cfg MatchConfig) (Match, error) {
	if e.newErr != nil {
		return nil, e.newErr
	}
	if cfg.Rng == nil {
		return nil, errors.New("missing rng")
	}
	e.matches.Add(1)
	return &stubMatch{engine: e, current: SideA, turn: 0}, nil
}

func (e *stubEngine) BestActionSequence(m Match, side Side, strategy Strategy, breadth, depth int) ([]Action, error) {
	e.plans.Add(1)
	if e.emptyPlan {
		return nil, nil
	}
	if e.plan != nil {
		return e.plan, nil
	}
	if e.discoverFirst && !m.(*stubMatch).discovered {
		return []Action{actionDiscover, actionEndTurn}, nil
	}
	return []Action{actionPass, actionPass, actionEndTurn}, nil
}
