package evolution

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
)

// CheckpointData represents the serializable state of an evolution run.
type CheckpointData struct {
	// Configuration
	Config *EvolutionConfig `json:"config"`

	// Current state
	Generation   int              `json:"generation"`
	Population   []IndividualData `json:"population"`
	BestEver     *IndividualData  `json:"best_ever,omitempty"`
	StatsHistory []StatsData      `json:"stats_history"`

	// Metadata
	Timestamp time.Time `json:"timestamp"`
	RNGSeed   int64     `json:"rng_seed"`
	Version   string    `json:"version"`
}

// IndividualData represents a serializable individual. Cards are stored by
// name and resolved against the card pool on restore.
type IndividualData struct {
	Cards     []string `json:"cards"`
	Fitness   float64  `json:"fitness"`
	Evaluated bool     `json:"evaluated"`
}

// StatsData is the serializable form of GenerationStats.
type StatsData struct {
	Generation  int       `json:"generation"`
	BestFitness float64   `json:"best_fitness"`
	AvgFitness  float64   `json:"avg_fitness"`
	StdDev      float64   `json:"std_dev"`
	Diversity   float64   `json:"diversity"`
	BestDeck    []string  `json:"best_deck"`
	Evaluations int       `json:"evaluations"`
	ElapsedNs   int64     `json:"elapsed_ns"`
	Timestamp   time.Time `json:"timestamp"`
}

// CheckpointVersion is the current checkpoint format version.
const CheckpointVersion = "1.0"

func individualData(ind *Individual) IndividualData {
	return IndividualData{
		Cards:     ind.Deck.Names(),
		Fitness:   ind.Fitness,
		Evaluated: ind.Evaluated,
	}
}

func statsData(s GenerationStats) StatsData {
	return StatsData{
		Generation:  s.Generation,
		BestFitness: s.BestFitness,
		AvgFitness:  s.AvgFitness,
		StdDev:      s.StdDev,
		Diversity:   s.Diversity,
		BestDeck:    s.BestDeck.Names(),
		Evaluations: s.Evaluations,
		ElapsedNs:   s.Elapsed.Nanoseconds(),
		Timestamp:   s.Timestamp,
	}
}

// SaveCheckpoint saves the current evolution state to a file.
func (e *EvolutionEngine) SaveCheckpoint(path string) error {
	if e.Population == nil {
		return fmt.Errorf("no population to save")
	}

	popData := make([]IndividualData, len(e.Population.Individuals))
	for i, ind := range e.Population.Individuals {
		popData[i] = individualData(ind)
	}

	var bestData *IndividualData
	if e.BestEver != nil {
		d := individualData(e.BestEver)
		bestData = &d
	}

	history := make([]StatsData, len(e.StatsHistory))
	for i, s := range e.StatsHistory {
		history[i] = statsData(s)
	}

	checkpoint := CheckpointData{
		Config:       e.Config,
		Generation:   e.Population.Generation,
		Population:   popData,
		BestEver:     bestData,
		StatsHistory: history,
		Timestamp:    time.Now(),
		RNGSeed:      e.Config.RandomSeed,
		Version:      CheckpointVersion,
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	// Write to temp file first, then rename (atomic)
	tempPath := path + ".tmp"
	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize checkpoint: %w", err)
	}

	return nil
}

// LoadCheckpoint loads evolution state from a checkpoint file.
func LoadCheckpoint(path string) (*CheckpointData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var checkpoint CheckpointData
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	if checkpoint.Version != CheckpointVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %q", checkpoint.Version)
	}

	return &checkpoint, nil
}

// RestoreFromCheckpoint restores engine state from checkpoint data. The
// restored generation is re-evaluated before selection, so the run
// continues with fresh fitness for the current pool of decks.
func (e *EvolutionEngine) RestoreFromCheckpoint(checkpoint *CheckpointData) error {
	if checkpoint == nil {
		return fmt.Errorf("nil checkpoint")
	}

	individuals := make([]*Individual, len(checkpoint.Population))
	for i, data := range checkpoint.Population {
		d, err := deck.FromNames(data.Cards, e.Pool.Lookup)
		if err != nil {
			return fmt.Errorf("restore individual %d: %w", i, err)
		}
		individuals[i] = &Individual{Deck: d}
	}
	e.Population = NewPopulation(individuals)
	e.Population.Generation = checkpoint.Generation

	if checkpoint.BestEver != nil {
		d, err := deck.FromNames(checkpoint.BestEver.Cards, e.Pool.Lookup)
		if err != nil {
			return fmt.Errorf("restore best: %w", err)
		}
		e.BestEver = &Individual{
			Deck:      d,
			Fitness:   checkpoint.BestEver.Fitness,
			Evaluated: checkpoint.BestEver.Evaluated,
		}
	}

	// Stats for the restored generation are recomputed after evaluation.
	e.StatsHistory = e.StatsHistory[:0]
	for _, s := range checkpoint.StatsHistory {
		if s.Generation >= checkpoint.Generation {
			continue
		}
		best, err := deck.FromNames(s.BestDeck, e.Pool.Lookup)
		if err != nil {
			return fmt.Errorf("restore stats for generation %d: %w", s.Generation, err)
		}
		e.StatsHistory = append(e.StatsHistory, GenerationStats{
			Generation:  s.Generation,
			BestFitness: s.BestFitness,
			AvgFitness:  s.AvgFitness,
			StdDev:      s.StdDev,
			Diversity:   s.Diversity,
			BestDeck:    best,
			Evaluations: s.Evaluations,
			Elapsed:     time.Duration(s.ElapsedNs),
			Timestamp:   s.Timestamp,
		})
	}

	e.Phase = PhaseEvaluating
	return nil
}

// ResumeFromCheckpoint creates a new engine and restores state from a checkpoint.
func ResumeFromCheckpoint(path string, pool *card.Pool, evaluator FitnessEvaluator, logger *zap.Logger) (*EvolutionEngine, error) {
	checkpoint, err := LoadCheckpoint(path)
	if err != nil {
		return nil, err
	}

	engine, err := NewEvolutionEngine(checkpoint.Config, pool, evaluator, logger)
	if err != nil {
		return nil, err
	}

	if err := engine.RestoreFromCheckpoint(checkpoint); err != nil {
		return nil, err
	}

	engine.Logger.Info("resumed from checkpoint",
		zap.String("path", path),
		zap.Int("generation", checkpoint.Generation),
		zap.Int("population", engine.Population.Size()))
	return engine, nil
}

// AutoCheckpointer provides automatic checkpoint saving.
type AutoCheckpointer struct {
	Engine    *EvolutionEngine
	Path      string
	Interval  int // Save every N generations
	LastSaved int // Last generation saved
}

// NewAutoCheckpointer creates an auto-checkpointer.
func NewAutoCheckpointer(engine *EvolutionEngine, path string, interval int) *AutoCheckpointer {
	return &AutoCheckpointer{
		Engine:    engine,
		Path:      path,
		Interval:  interval,
		LastSaved: -1,
	}
}

// ShouldSave returns true if it's time to save a checkpoint.
func (ac *AutoCheckpointer) ShouldSave(generation int) bool {
	if ac.Interval <= 0 || generation == 0 {
		return false
	}
	return generation > ac.LastSaved && generation%ac.Interval == 0
}

// Save saves a checkpoint if needed.
func (ac *AutoCheckpointer) Save(generation int) error {
	if !ac.ShouldSave(generation) {
		return nil
	}

	if err := ac.Engine.SaveCheckpoint(ac.Path); err != nil {
		return err
	}

	ac.LastSaved = generation
	return nil
}

// SaveFinal saves a final checkpoint regardless of interval.
func (ac *AutoCheckpointer) SaveFinal() error {
	return ac.Engine.SaveCheckpoint(ac.Path)
}
