package simulation

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// GameJob represents a single simulation job
type GameJob struct {
	SimID int
	Seed  uint64
}

// Tally summarizes a batch from side A's point of view. Failed matches
// count as losses for side A and are not credited to side B.
type Tally struct {
	Games         int
	WinsA         int
	WinsB         int
	Draws         int
	Failures      int
	AvgTurns      float64
	AvgDurationNs uint64
}

// WinRateA returns side A's win percentage in [0, 100].
func (t Tally) WinRateA() float64 {
	if t.Games == 0 {
		return 0
	}
	return 100 * float64(t.WinsA) / float64(t.Games)
}

// MatchReport is passed to Harness.OnMatchComplete after every match.
type MatchReport struct {
	SimID  int
	Result GameResult
	Played int
	WinsA  int
}

// Harness runs batches of matches on a bounded worker pool.
type Harness struct {
	Engine  Engine
	Workers int
	Logger  *zap.Logger

	// OnMatchComplete is called from worker goroutines and must be safe
	// for concurrent use.
	OnMatchComplete func(MatchReport)
}

// NewHarness creates a harness. workers <= 0 uses runtime.NumCPU().
func NewHarness(engine Engine, workers int, logger *zap.Logger) *Harness {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Harness{
		Engine:  engine,
		Workers: workers,
		Logger:  logger,
	}
}

// batchCounters are the only state shared between workers.
type batchCounters struct {
	played     atomic.Int64
	winsA      atomic.Int64
	winsB      atomic.Int64
	draws      atomic.Int64
	failures   atomic.Int64
	turns      atomic.Int64
	durationNs atomic.Uint64
}

// RunBatch plays games matches of m and returns the combined tally. Each
// match gets its own random source seeded from seed, so results do not
// depend on the worker count.
func (h *Harness) RunBatch(m Matchup, games int, seed uint64) Tally {
	if games <= 0 {
		return Tally{}
	}

	numWorkers := h.Workers
	if numWorkers > games {
		numWorkers = games
	}

	jobs := make(chan GameJob, games)
	var counters batchCounters

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go h.worker(&wg, jobs, m, &counters)
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	for i := 0; i < games; i++ {
		jobs <- GameJob{
			SimID: i,
			Seed:  rng.Uint64(),
		}
	}
	close(jobs)

	wg.Wait()

	tally := Tally{
		Games:    games,
		WinsA:    int(counters.winsA.Load()),
		WinsB:    int(counters.winsB.Load()),
		Draws:    int(counters.draws.Load()),
		Failures: int(counters.failures.Load()),
	}
	tally.AvgTurns = float64(counters.turns.Load()) / float64(games)
	tally.AvgDurationNs = counters.durationNs.Load() / uint64(games)
	return tally
}

// worker processes simulation jobs from the jobs channel
func (h *Harness) worker(wg *sync.WaitGroup, jobs <-chan GameJob, m Matchup, counters *batchCounters) {
	defer wg.Done()

	for job := range jobs {
		result := RunSingleGame(h.Engine, m, job.Seed)

		switch {
		case result.Failed():
			counters.failures.Add(1)
			h.Logger.Warn("match failed",
				zap.Int("sim_id", job.SimID),
				zap.Uint64("seed", job.Seed),
				zap.Error(result.Err),
				zap.String("strategy", string(m.A.Strategy)),
				zap.Strings("deck", m.A.Deck.Names()),
			)
		case result.Winner == SideA:
			counters.winsA.Add(1)
		case result.Winner == SideB:
			counters.winsB.Add(1)
		default:
			counters.draws.Add(1)
		}
		counters.turns.Add(int64(result.Turns))
		counters.durationNs.Add(result.DurationNs)

		played := counters.played.Add(1)
		winsA := counters.winsA.Load()
		h.Logger.Debug("match complete",
			zap.Int("sim_id", job.SimID),
			zap.Stringer("winner", result.Winner),
			zap.Int64("played", played),
			zap.Int64("wins", winsA),
		)
		if h.OnMatchComplete != nil {
			h.OnMatchComplete(MatchReport{
				SimID:  job.SimID,
				Result: result,
				Played: int(played),
				WinsA:  int(winsA),
			})
		}
	}
}
