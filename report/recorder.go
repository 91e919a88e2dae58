// Package report records generation summaries to the log and a store, and
// renders the fitness history.
package report

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/signalnine/darwindeck/deckevolve/deck"
	"github.com/signalnine/darwindeck/deckevolve/evolution"
	"github.com/signalnine/darwindeck/deckevolve/storage"
)

// Recorder persists one run. Its OnGeneration method plugs into
// EvolutionEngine.OnGenerationComplete.
type Recorder struct {
	Store  storage.Store
	Logger *zap.Logger

	mu      sync.Mutex
	run     storage.RunRecord
	history []evolution.GenerationStats
	err     error
}

// NewRecorder creates a recorder. A nil store keeps the history in memory
// only.
func NewRecorder(store storage.Store, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{Store: store, Logger: logger}
}

// Start opens a run record for config and returns its ID.
func (r *Recorder) Start(ctx context.Context, config *evolution.EvolutionConfig) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.run = storage.RunRecord{
		ID:              storage.NewRunID(),
		Hero:            config.HeroClass.String(),
		Status:          storage.StatusRunning,
		PopulationSize:  config.PopulationSize,
		GenerationLimit: config.GenerationLimit,
		PoolSize:        config.PoolSize,
		MutationRate:    config.MutationRate,
		GamesPerEval:    config.GamesPerEval,
		Seed:            config.RandomSeed,
		StartedAt:       time.Now().UTC(),
	}
	r.history = r.history[:0]
	r.err = nil

	r.Logger.Info("run started",
		zap.String("run_id", r.run.ID),
		zap.String("hero", r.run.Hero))

	if r.Store != nil {
		if err := r.Store.SaveRun(ctx, r.run); err != nil {
			return "", err
		}
	}
	return r.run.ID, nil
}

// RunID returns the current run identifier.
func (r *Recorder) RunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run.ID
}

// Record stores one generation summary.
func (r *Recorder) Record(ctx context.Context, stats evolution.GenerationStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, stats)
	if stats.BestFitness > r.run.BestFitness {
		r.run.BestFitness = stats.BestFitness
	}

	r.Logger.Info("generation summary",
		zap.String("run_id", r.run.ID),
		zap.Int("generation", stats.Generation),
		zap.Float64("best_fitness", stats.BestFitness),
		zap.Float64("avg_fitness", stats.AvgFitness),
		zap.Strings("best_deck", stats.BestDeck.Names()))

	if r.Store == nil {
		return nil
	}
	return r.Store.SaveGeneration(ctx, storage.GenerationRecord{
		RunID:       r.run.ID,
		Generation:  stats.Generation,
		BestFitness: stats.BestFitness,
		AvgFitness:  stats.AvgFitness,
		StdDev:      stats.StdDev,
		Diversity:   stats.Diversity,
		ElapsedNs:   stats.Elapsed.Nanoseconds(),
		Best:        deck.NewSnapshot(r.run.Hero, stats.Generation, stats.BestFitness, stats.BestDeck),
	})
}

// OnGeneration records stats with a background context. A store failure
// is logged and returned later by Err; the run keeps going.
func (r *Recorder) OnGeneration(stats evolution.GenerationStats) {
	if err := r.Record(context.Background(), stats); err != nil {
		r.Logger.Warn("failed to store generation",
			zap.Int("generation", stats.Generation),
			zap.Error(err))
		r.mu.Lock()
		r.err = errors.Join(r.err, err)
		r.mu.Unlock()
	}
}

// Finish closes the run record.
func (r *Recorder) Finish(ctx context.Context, runErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.run.FinishedAt = time.Now().UTC()
	r.run.Status = storage.StatusDone
	if runErr != nil {
		r.run.Status = storage.StatusFailed
	}

	r.Logger.Info("run finished",
		zap.String("run_id", r.run.ID),
		zap.String("status", r.run.Status),
		zap.Float64("best_fitness", r.run.BestFitness),
		zap.Duration("elapsed", r.run.FinishedAt.Sub(r.run.StartedAt)))

	if r.Store == nil {
		return nil
	}
	return r.Store.SaveRun(ctx, r.run)
}

// History returns a copy of the recorded summaries.
func (r *Recorder) History() []evolution.GenerationStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]evolution.GenerationStats(nil), r.history...)
}

// Err returns store failures seen by OnGeneration.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
