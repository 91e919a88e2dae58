package simulation

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestRunBatchAllWins(t *testing.T) {
	h := NewHarness(newStubEngine(SideA), 4, zaptest.NewLogger(t))

	tally := h.RunBatch(testMatchup(), 10, 42)

	assert.Equal(t, 10, tally.Games)
	assert.Equal(t, 10, tally.WinsA)
	assert.InDelta(t, 100.0, tally.WinRateA(), 1e-9)
	assert.InDelta(t, 4.0, tally.AvgTurns, 1e-9)
}

func TestRunBatchFailuresScoreAsLosses(t *testing.T) {
	engine := newStubEngine(SideA)
	engine.panicOnApply = true
	h := NewHarness(engine, 4, zaptest.NewLogger(t))

	tally := h.RunBatch(testMatchup(), 10, 42)

	assert.Equal(t, 10, tally.Failures)
	assert.Equal(t, 0, tally.WinsA)
	assert.Equal(t, 0, tally.WinsB)
	assert.Zero(t, tally.WinRateA())
}

func TestRunBatchLosses(t *testing.T) {
	h := NewHarness(newStubEngine(SideB), 2, nil)

	tally := h.RunBatch(testMatchup(), 6, 1)

	assert.Equal(t, 6, tally.WinsB)
	assert.Zero(t, tally.WinRateA())
}

func TestRunBatchNoLostUpdates(t *testing.T) {
	const games = 64
	for _, workers := range []int{1, 2, games} {
		engine := newStubEngine(SideA)
		h := NewHarness(engine, workers, nil)

		var reports atomic.Int64
		var maxPlayed atomic.Int64
		h.OnMatchComplete = func(r MatchReport) {
			reports.Add(1)
			for {
				cur := maxPlayed.Load()
				if int64(r.Played) <= cur || maxPlayed.CompareAndSwap(cur, int64(r.Played)) {
					break
				}
			}
		}

		tally := h.RunBatch(testMatchup(), games, 99)

		assert.Equal(t, games, tally.WinsA, "workers=%d", workers)
		assert.EqualValues(t, games, engine.matches.Load(), "workers=%d", workers)
		assert.EqualValues(t, games, reports.Load(), "workers=%d", workers)
		assert.EqualValues(t, games, maxPlayed.Load(), "workers=%d", workers)
	}
}

func TestRunBatchZeroGames(t *testing.T) {
	h := NewHarness(newStubEngine(SideA), 0, nil)
	assert.Positive(t, h.Workers)
	assert.Equal(t, Tally{}, h.RunBatch(testMatchup(), 0, 1))
}
