// Package storage persists evolution runs and their per-generation
// summaries.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// Run status values.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// RunRecord describes one evolution run.
type RunRecord struct {
	ID              string
	Hero            string
	Status          string
	PopulationSize  int
	GenerationLimit int
	PoolSize        int
	MutationRate    float64
	GamesPerEval    int
	Seed            int64
	BestFitness     float64
	StartedAt       time.Time
	FinishedAt      time.Time
}

// GenerationRecord is the summary of one generation with its best deck.
type GenerationRecord struct {
	RunID       string
	Generation  int
	BestFitness float64
	AvgFitness  float64
	StdDev      float64
	Diversity   float64
	ElapsedNs   int64
	Best        deck.Snapshot
}

// Store defines persistence operations for runs and generations.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run RunRecord) error
	GetRun(ctx context.Context, id string) (RunRecord, bool, error)
	SaveGeneration(ctx context.Context, gen GenerationRecord) error
	ListGenerations(ctx context.Context, runID string) ([]GenerationRecord, error)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
