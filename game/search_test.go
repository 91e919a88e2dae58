package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/simulation"
)

func TestBestActionSequenceEndsTurn(t *testing.T) {
	e := NewEngine()
	d := newTestDuel(t, controlDeck(t), controlDeck(t), simulation.SideA, 11)

	for _, strategy := range []simulation.Strategy{simulation.StrategyAggro, simulation.StrategyControl} {
		plan, err := e.BestActionSequence(d, simulation.SideA, strategy, 10, 500)
		require.NoError(t, err)
		require.NotEmpty(t, plan)

		last := plan[len(plan)-1].(Action)
		assert.Equal(t, ActionEndTurn, last.Kind, strategy)
	}
}

func TestBestActionSequenceTakesLethal(t *testing.T) {
	ogre := &card.Card{Name: "Boulderfist Ogre", Type: card.TypeMinion, Cost: 6, Attack: 6, Health: 7}

	e := NewEngine()
	d := newTestDuel(t, controlDeck(t), controlDeck(t), simulation.SideA, 1)
	d.Player(simulation.SideA).Board = []Minion{{Card: ogre, Attack: 6, Health: 7, CanAttack: true}}
	d.Player(simulation.SideB).Health = 6

	for _, strategy := range []simulation.Strategy{simulation.StrategyAggro, simulation.StrategyControl} {
		plan, err := e.BestActionSequence(d, simulation.SideA, strategy, 10, 500)
		require.NoError(t, err)

		c := d.Clone()
		for _, a := range plan {
			require.NoError(t, c.Apply(a))
		}
		assert.True(t, c.IsComplete(), strategy)
		assert.Equal(t, simulation.SideA, c.Winner(), strategy)
	}
}

func TestBestActionSequenceStopsAtChoice(t *testing.T) {
	favor := &card.Card{Name: "Divine Favor", Type: card.TypeSpell, Cost: 3}

	e := NewEngine()
	d := newTestDuel(t, controlDeck(t), controlDeck(t), simulation.SideA, 1)
	a := d.Player(simulation.SideA)
	a.Hand = []*card.Card{favor}
	a.Mana = 3

	require.NoError(t, d.Apply(Action{Kind: ActionPlay, Index: 0, Target: TargetHero}))
	plan, err := e.BestActionSequence(d, simulation.SideA, simulation.StrategyControl, 10, 500)
	require.NoError(t, err)
	require.NotEmpty(t, plan)
	assert.Equal(t, ActionChoose, plan[0].(Action).Kind)
}

func TestBestActionSequenceWrongSide(t *testing.T) {
	e := NewEngine()
	d := newTestDuel(t, controlDeck(t), controlDeck(t), simulation.SideA, 1)

	_, err := e.BestActionSequence(d, simulation.SideB, simulation.StrategyAggro, 10, 500)
	assert.Error(t, err)
}

func TestRandomStrategyPlaysLegalActions(t *testing.T) {
	e := NewEngine()
	d := newTestDuel(t, controlDeck(t), randomDeck(t, 4), simulation.SideA, 2)

	for i := 0; i < 200 && !d.IsComplete(); i++ {
		plan, err := e.BestActionSequence(d, d.Current(), simulation.StrategyRandom, 10, 500)
		require.NoError(t, err)
		require.Len(t, plan, 1)
		require.NoError(t, d.Apply(plan[0]))
	}
}

func TestFullMatchCompletes(t *testing.T) {
	e := NewEngine()
	m := simulation.Matchup{
		A:         simulation.Seat{Deck: randomDeck(t, 7), Class: card.ClassPaladin, Strategy: simulation.StrategyAggro},
		B:         simulation.Seat{Deck: controlDeck(t), Class: card.ClassPaladin, Strategy: simulation.StrategyControl},
		StartSide: simulation.SideA,
		Shuffle:   true,
		Search:    simulation.DefaultSearchConfig(),
	}

	for seed := uint64(1); seed <= 3; seed++ {
		result := simulation.RunSingleGame(e, m, seed)
		require.NoError(t, result.Err)
		assert.Greater(t, result.Turns, 1)
		assert.LessOrEqual(t, result.Turns, DefaultTurnLimit+1)
	}
}

func TestHarnessWithDuelEngine(t *testing.T) {
	h := simulation.NewHarness(NewEngine(), 4, zaptest.NewLogger(t))
	m := simulation.Matchup{
		A:         simulation.Seat{Deck: controlDeck(t), Class: card.ClassPaladin, Strategy: simulation.StrategyAggro},
		B:         simulation.Seat{Deck: controlDeck(t), Class: card.ClassPaladin, Strategy: simulation.StrategyControl},
		StartSide: simulation.SideNone,
		Shuffle:   true,
		Search:    simulation.SearchConfig{Breadth: 4, Depth: 50},
	}

	tally := h.RunBatch(m, 8, 99)
	assert.Equal(t, 8, tally.Games)
	assert.Zero(t, tally.Failures)
	assert.Equal(t, 8, tally.WinsA+tally.WinsB+tally.Draws)
	assert.Greater(t, tally.AvgTurns, 1.0)
}
