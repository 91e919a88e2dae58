package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// SQLiteStore persists runs in a SQLite database. Best decks are stored as
// FlatBuffers snapshots.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, hero, status, population_size, generation_limit, pool_size,
			mutation_rate, games_per_eval, seed, best_fitness, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			best_fitness = excluded.best_fitness,
			finished_at = excluded.finished_at
	`, run.ID, run.Hero, run.Status, run.PopulationSize, run.GenerationLimit, run.PoolSize,
		run.MutationRate, run.GamesPerEval, run.Seed, run.BestFitness,
		unixNano(run.StartedAt), unixNano(run.FinishedAt))
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (RunRecord, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return RunRecord{}, false, err
	}

	var run RunRecord
	var started, finished int64
	err = db.QueryRowContext(ctx, `
		SELECT id, hero, status, population_size, generation_limit, pool_size,
			mutation_rate, games_per_eval, seed, best_fitness, started_at, finished_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Hero, &run.Status, &run.PopulationSize, &run.GenerationLimit, &run.PoolSize,
		&run.MutationRate, &run.GamesPerEval, &run.Seed, &run.BestFitness, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, false, nil
		}
		return RunRecord{}, false, err
	}
	run.StartedAt = fromUnixNano(started)
	run.FinishedAt = fromUnixNano(finished)
	return run, true, nil
}

func (s *SQLiteStore) SaveGeneration(ctx context.Context, gen GenerationRecord) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO generations (run_id, generation, best_fitness, avg_fitness, std_dev,
			diversity, elapsed_ns, best_deck)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, generation) DO UPDATE SET
			best_fitness = excluded.best_fitness,
			avg_fitness = excluded.avg_fitness,
			std_dev = excluded.std_dev,
			diversity = excluded.diversity,
			elapsed_ns = excluded.elapsed_ns,
			best_deck = excluded.best_deck
	`, gen.RunID, gen.Generation, gen.BestFitness, gen.AvgFitness, gen.StdDev,
		gen.Diversity, gen.ElapsedNs, deck.EncodeSnapshot(gen.Best))
	return err
}

func (s *SQLiteStore) ListGenerations(ctx context.Context, runID string) ([]GenerationRecord, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT run_id, generation, best_fitness, avg_fitness, std_dev, diversity, elapsed_ns, best_deck
		FROM generations WHERE run_id = ? ORDER BY generation
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenerationRecord
	for rows.Next() {
		var gen GenerationRecord
		var payload []byte
		if err := rows.Scan(&gen.RunID, &gen.Generation, &gen.BestFitness, &gen.AvgFitness,
			&gen.StdDev, &gen.Diversity, &gen.ElapsedNs, &payload); err != nil {
			return nil, err
		}
		gen.Best, err = deck.DecodeSnapshot(payload)
		if err != nil {
			return nil, fmt.Errorf("decode generation %d of run %s: %w", gen.Generation, runID, err)
		}
		out = append(out, gen)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errNotInitialized
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			hero TEXT NOT NULL,
			status TEXT NOT NULL,
			population_size INTEGER NOT NULL,
			generation_limit INTEGER NOT NULL,
			pool_size INTEGER NOT NULL,
			mutation_rate REAL NOT NULL,
			games_per_eval INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS generations (
			run_id TEXT NOT NULL,
			generation INTEGER NOT NULL,
			best_fitness REAL NOT NULL,
			avg_fitness REAL NOT NULL,
			std_dev REAL NOT NULL,
			diversity REAL NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			best_deck BLOB NOT NULL,
			PRIMARY KEY (run_id, generation)
		);
	`)
	return err
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
