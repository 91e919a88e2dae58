package evolution

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRoundTrip(t *testing.T) {
	pool := paladinPool(t)
	config := smallConfig()
	config.GenerationLimit = 2

	engine, err := NewEvolutionEngine(config, pool, FitnessFunc(manaFitness), nil)
	require.NoError(t, err)
	require.NoError(t, engine.Evolve())

	path := filepath.Join(t.TempDir(), "nested", "checkpoint.json")
	require.NoError(t, engine.SaveCheckpoint(path))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	checkpoint, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, CheckpointVersion, checkpoint.Version)
	assert.Equal(t, 2, checkpoint.Generation)
	assert.Len(t, checkpoint.Population, 4)
	assert.Len(t, checkpoint.StatsHistory, 2)
	assert.Equal(t, config.PopulationSize, checkpoint.Config.PopulationSize)

	resumed, err := ResumeFromCheckpoint(path, pool, FitnessFunc(manaFitness), nil)
	require.NoError(t, err)
	assert.Equal(t, PhaseEvaluating, resumed.Phase)
	assert.Equal(t, 2, resumed.Population.Generation)
	assert.Len(t, resumed.StatsHistory, 1)
	for i, ind := range resumed.Population.Individuals {
		assert.True(t, ind.Deck.Equal(engine.Population.Individuals[i].Deck))
		assert.False(t, ind.Evaluated)
	}
	require.NotNil(t, resumed.BestEver)
	assert.Equal(t, engine.BestEver.Fitness, resumed.BestEver.Fitness)

	require.NoError(t, resumed.Evolve())
	assert.Len(t, resumed.GetStats(), 2)
}

func TestLoadCheckpointErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCheckpoint(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = LoadCheckpoint(bad)
	assert.Error(t, err)

	old := filepath.Join(dir, "old.json")
	require.NoError(t, os.WriteFile(old, []byte(`{"version":"0.1"}`), 0644))
	_, err = LoadCheckpoint(old)
	assert.Error(t, err)
}

func TestAutoCheckpointer(t *testing.T) {
	engine, err := NewEvolutionEngine(smallConfig(), paladinPool(t), FitnessFunc(manaFitness), nil)
	require.NoError(t, err)
	require.NoError(t, engine.InitializePopulation())

	path := filepath.Join(t.TempDir(), "auto.json")
	ac := NewAutoCheckpointer(engine, path, 2)

	assert.False(t, ac.ShouldSave(0))
	assert.False(t, ac.ShouldSave(1))
	assert.True(t, ac.ShouldSave(2))

	require.NoError(t, ac.Save(2))
	assert.Equal(t, 2, ac.LastSaved)
	assert.False(t, ac.ShouldSave(2))
	assert.FileExists(t, path)

	assert.False(t, NewAutoCheckpointer(engine, path, 0).ShouldSave(4))
}
