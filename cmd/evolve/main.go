// Package main provides the deckevolve CLI for evolving constructed decks.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/signalnine/darwindeck/deckevolve/card"
	"github.com/signalnine/darwindeck/deckevolve/deck"
	"github.com/signalnine/darwindeck/deckevolve/evolution"
	"github.com/signalnine/darwindeck/deckevolve/evolution/fitness"
	"github.com/signalnine/darwindeck/deckevolve/game"
	"github.com/signalnine/darwindeck/deckevolve/logging"
	"github.com/signalnine/darwindeck/deckevolve/report"
	"github.com/signalnine/darwindeck/deckevolve/simulation"
	"github.com/signalnine/darwindeck/deckevolve/storage"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// envPrefix prefixes environment overrides: -games-per-eval reads
// DECKEVOLVE_GAMES_PER_EVAL when the flag is not given.
const envPrefix = "DECKEVOLVE_"

// CLI flags
var (
	hero               string
	generations        int
	populationSize     int
	poolSize           int
	mutationRate       float64
	gamesPerEval       int
	searchBreadth      int
	searchDepth        int
	candidateStrategy  string
	controlStrategy    string
	startSide          string
	seed               int64
	workers            int
	memberWorkers      int
	maxDraws           int
	catalogPath        string
	checkpointPath     string
	checkpointInterval int
	outputDir          string
	storeKind          string
	benchmarkGames     int
	logLevel           string
	verbose            bool
	showVersion        bool
)

func init() {
	flag.StringVar(&hero, "hero", "paladin", "Hero class of the evolving decks")
	flag.IntVar(&generations, "generations", 10, "Number of generations to evolve")
	flag.IntVar(&populationSize, "population-size", 10, "Population size")
	flag.IntVar(&poolSize, "pool-size", 4, "Breeding pool size (top-K decks kept as parents)")
	flag.Float64Var(&mutationRate, "mutation-rate", 0.05, "Probability that a child gets one card replaced")
	flag.IntVar(&gamesPerEval, "games-per-eval", 10, "Number of games per fitness evaluation")
	flag.IntVar(&searchBreadth, "search-breadth", simulation.DefaultSearchBreadth, "Planner beam width")
	flag.IntVar(&searchDepth, "search-depth", simulation.DefaultSearchDepth, "Planner action depth")
	flag.StringVar(&candidateStrategy, "candidate-strategy", "aggro", "Strategy playing the evolving decks (aggro, control, random)")
	flag.StringVar(&controlStrategy, "control-strategy", "control", "Strategy playing the control deck (aggro, control, random)")
	flag.StringVar(&startSide, "start", "candidate", "Who moves first (candidate, control, random)")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = use current time)")
	flag.IntVar(&workers, "workers", 0, "Match workers per evaluation (0 = auto-detect CPU count)")
	flag.IntVar(&memberWorkers, "member-workers", 1, "Decks evaluated at once")
	flag.IntVar(&maxDraws, "max-draws", deck.DefaultMaxDraws, "Attempt limit for every card draw loop")
	flag.StringVar(&catalogPath, "catalog", "", "JSON card catalog (default: built-in basic catalog)")
	flag.StringVar(&checkpointPath, "checkpoint", "", "Resume from checkpoint file")
	flag.IntVar(&checkpointInterval, "checkpoint-interval", 5, "Auto-save checkpoint every N generations (0 = disabled)")
	flag.StringVar(&outputDir, "output-dir", "", "Output directory for results (default: output/evolution-TIMESTAMP)")
	flag.StringVar(&storeKind, "store", "sqlite", "Run store backend (memory, sqlite)")
	flag.IntVar(&benchmarkGames, "benchmark", 0, "Play N control-vs-control games, print the tally and exit")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()
	flag.Parse()
	if err := applyEnvOverrides(flag.CommandLine); err != nil {
		fatal("Error reading environment: %v", err)
	}

	if showVersion {
		fmt.Printf("deckevolve %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	logger, err := logging.New(logLevel, verbose)
	if err != nil {
		fatal("Error creating logger: %v", err)
	}
	defer logger.Sync()

	config, err := buildConfig()
	if err != nil {
		fatal("Error: %v", err)
	}

	pool, control, err := loadPool(config.HeroClass)
	if err != nil {
		fatal("Error building card pool: %v", err)
	}

	harness := simulation.NewHarness(game.NewEngine(), config.Workers, logger.Named("harness"))

	if benchmarkGames > 0 {
		runBenchmark(harness, config, control)
		return
	}

	if outputDir == "" {
		timestamp := time.Now().Format("20060102-150405")
		outputDir = filepath.Join("output", fmt.Sprintf("evolution-%s", timestamp))
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fatal("Error creating output directory: %v", err)
	}

	printBanner(config, pool)

	evaluator, err := fitness.NewMatchEvaluator(harness, fitness.Opponent{
		Deck:     control,
		Class:    card.ClassPaladin,
		Strategy: config.ControlStrategy,
	}, config.HeroClass, config.CandidateStrategy, config.GamesPerEval, logger.Named("fitness"))
	if err != nil {
		fatal("Error creating evaluator: %v", err)
	}
	evaluator.StartSide = config.StartSide
	evaluator.Search = config.Search()
	evaluator.Seed = uint64(config.RandomSeed)

	// Create or resume engine
	var engine *evolution.EvolutionEngine
	if checkpointPath != "" {
		fmt.Printf("Resuming from checkpoint: %s\n", checkpointPath)
		engine, err = evolution.ResumeFromCheckpoint(checkpointPath, pool, evaluator, logger.Named("evolution"))
		if err != nil {
			fatal("Error loading checkpoint: %v", err)
		}
		// Override some settings from CLI
		engine.Config.GenerationLimit = generations
		engine.Config.Verbose = verbose
		fmt.Printf("Resumed at generation %d\n\n", engine.Population.Generation)
	} else {
		engine, err = evolution.NewEvolutionEngine(config, pool, evaluator, logger.Named("evolution"))
		if err != nil {
			fatal("Error creating engine: %v", err)
		}
	}

	ctx := context.Background()
	store, err := storage.NewStore(storeKind, filepath.Join(outputDir, "runs.db"))
	if err != nil {
		fatal("Error opening store: %v", err)
	}
	defer storage.CloseIfSupported(store)
	if err := store.Init(ctx); err != nil {
		fatal("Error initializing store: %v", err)
	}

	recorder := report.NewRecorder(store, logger.Named("report"))
	runID, err := recorder.Start(ctx, engine.Config)
	if err != nil {
		fatal("Error recording run: %v", err)
	}

	// Setup auto-checkpointing
	cpPath := filepath.Join(outputDir, "checkpoint.json")
	var autoCheckpointer *evolution.AutoCheckpointer
	if checkpointInterval > 0 {
		autoCheckpointer = evolution.NewAutoCheckpointer(engine, cpPath, checkpointInterval)
	}

	// Setup signal handler for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nInterrupted! Saving checkpoint...")
		if autoCheckpointer != nil {
			if err := autoCheckpointer.SaveFinal(); err != nil {
				fmt.Fprintf(os.Stderr, "Error saving checkpoint: %v\n", err)
			} else {
				fmt.Printf("Checkpoint saved to %s\n", cpPath)
			}
		}
		_ = recorder.Finish(context.Background(), fmt.Errorf("interrupted"))
		os.Exit(130)
	}()

	// Track progress
	startTime := time.Now()
	limit := engine.Config.GenerationLimit
	engine.OnGenerationComplete = func(stats evolution.GenerationStats) {
		recorder.OnGeneration(stats)

		progress := float64(stats.Generation) / float64(limit) * 100
		fmt.Printf("\rGen %3d/%d | Best: %5.1f%% | Avg: %5.1f%% | Div: %.3f | %s (%.0f%%)",
			stats.Generation, limit,
			stats.BestFitness, stats.AvgFitness, stats.Diversity,
			formatDuration(time.Since(startTime)), progress)

		if verbose {
			fmt.Printf("\n  Best deck:\n%s\n", indent(stats.BestDeck.String(), "    "))
		}

		if autoCheckpointer != nil {
			if err := autoCheckpointer.Save(stats.Generation); err != nil {
				fmt.Fprintf(os.Stderr, "\nWarning: checkpoint save failed: %v\n", err)
			}
		}
	}

	fmt.Println("Starting evolution...")
	fmt.Println()
	runErr := engine.Evolve()
	if err := recorder.Finish(ctx, runErr); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record run: %v\n", err)
	}
	if runErr != nil {
		fatal("\nEvolution failed: %v", runErr)
	}
	if err := recorder.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "\nWarning: some generations were not stored: %v\n", err)
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\n\nEvolution complete in %s\n", formatDuration(totalTime))

	best := engine.Best()
	if err := saveDeck(best, config.HeroClass, filepath.Join(outputDir, "best_deck.json")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save best deck: %v\n", err)
	}
	plotPath := filepath.Join(outputDir, "fitness.png")
	if err := report.WriteFitnessPlot(engine.GetStats(), fmt.Sprintf("%s deck evolution", config.HeroClass), plotPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to plot fitness: %v\n", err)
	}

	// Save final checkpoint
	if autoCheckpointer != nil {
		if err := autoCheckpointer.SaveFinal(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: final checkpoint save failed: %v\n", err)
		}
	}

	printSummary(engine, runID, totalTime)
}

// applyEnvOverrides sets every flag not given on the command line from its
// DECKEVOLVE_* environment variable.
func applyEnvOverrides(fs *flag.FlagSet) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var firstErr error
	fs.VisitAll(func(f *flag.Flag) {
		if set[f.Name] || firstErr != nil {
			return
		}
		key := envPrefix + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if v, ok := os.LookupEnv(key); ok {
			if err := f.Value.Set(v); err != nil {
				firstErr = fmt.Errorf("%s: %w", key, err)
			}
		}
	})
	return firstErr
}

func buildConfig() (*evolution.EvolutionConfig, error) {
	class, err := card.ParseClass(hero)
	if err != nil {
		return nil, err
	}
	candidate, err := simulation.ParseStrategy(candidateStrategy)
	if err != nil {
		return nil, err
	}
	opponent, err := simulation.ParseStrategy(controlStrategy)
	if err != nil {
		return nil, err
	}
	side, err := parseStartSide(startSide)
	if err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	config := &evolution.EvolutionConfig{
		HeroClass:         class,
		PopulationSize:    populationSize,
		GenerationLimit:   generations,
		PoolSize:          poolSize,
		MutationRate:      mutationRate,
		GamesPerEval:      gamesPerEval,
		SearchBreadth:     searchBreadth,
		SearchDepth:       searchDepth,
		Workers:           workers,
		MemberWorkers:     memberWorkers,
		MaxDraws:          maxDraws,
		RandomSeed:        seed,
		CandidateStrategy: candidate,
		ControlStrategy:   opponent,
		StartSide:         side,
		Verbose:           verbose,
	}
	return config, config.Validate()
}

func parseStartSide(s string) (simulation.Side, error) {
	switch strings.ToLower(s) {
	case "candidate", "a":
		return simulation.SideA, nil
	case "control", "b":
		return simulation.SideB, nil
	case "random":
		return simulation.SideNone, nil
	default:
		return simulation.SideNone, fmt.Errorf("unknown start side %q", s)
	}
}

// loadPool builds the available pool and the fixed control deck.
func loadPool(class card.Class) (*card.Pool, deck.Deck, error) {
	var catalog card.Catalog = card.BasicCatalog()
	if catalogPath != "" {
		f, err := os.Open(catalogPath)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		loaded, err := card.LoadCatalog(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", catalogPath, err)
		}
		catalog = loaded
	}

	pool, err := card.NewPool(catalog, card.DefaultPoolFilter(class))
	if err != nil {
		return nil, nil, err
	}

	// The control deck is a Paladin list built from the whole catalog, so
	// it does not depend on the candidate's class.
	control, err := deck.FromNames(card.PaladinControlList(), catalogLookup(catalog))
	if err != nil {
		return nil, nil, fmt.Errorf("control deck: %w", err)
	}
	return pool, control, nil
}

func catalogLookup(catalog card.Catalog) func(string) (*card.Card, bool) {
	byName := make(map[string]*card.Card)
	for _, c := range catalog.AllCards() {
		if _, ok := byName[c.Name]; !ok {
			byName[c.Name] = c
		}
	}
	return func(name string) (*card.Card, bool) {
		c, ok := byName[name]
		return c, ok
	}
}

func runBenchmark(harness *simulation.Harness, config *evolution.EvolutionConfig, control deck.Deck) {
	m := simulation.Matchup{
		A:         simulation.Seat{Deck: control, Class: card.ClassPaladin, Strategy: config.CandidateStrategy},
		B:         simulation.Seat{Deck: control, Class: card.ClassPaladin, Strategy: config.ControlStrategy},
		StartSide: config.StartSide,
		Shuffle:   true,
		Search:    config.Search(),
	}

	fmt.Printf("Benchmark: %d games, %s vs %s, %d workers\n",
		benchmarkGames, config.CandidateStrategy, config.ControlStrategy, harness.Workers)
	start := time.Now()
	tally := harness.RunBatch(m, benchmarkGames, uint64(config.RandomSeed))
	elapsed := time.Since(start)

	fmt.Printf("  Wins (%s):   %d\n", config.CandidateStrategy, tally.WinsA)
	fmt.Printf("  Wins (%s): %d\n", config.ControlStrategy, tally.WinsB)
	fmt.Printf("  Draws:          %d\n", tally.Draws)
	fmt.Printf("  Failures:       %d\n", tally.Failures)
	fmt.Printf("  Avg turns:      %.1f\n", tally.AvgTurns)
	fmt.Printf("  Avg game time:  %s\n", time.Duration(tally.AvgDurationNs))
	fmt.Printf("  Total time:     %s\n", formatDuration(elapsed))
}

func printBanner(config *evolution.EvolutionConfig, pool *card.Pool) {
	fmt.Println()
	fmt.Println("╔════════════════════════════════════════════════════════════╗")
	fmt.Println("║              DeckEvolve Evolution Engine (Go)              ║")
	fmt.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Configuration:\n")
	fmt.Printf("  Hero:           %s (%d cards in pool)\n", config.HeroClass, pool.Len())
	fmt.Printf("  Population:     %d\n", config.PopulationSize)
	fmt.Printf("  Generations:    %d\n", config.GenerationLimit)
	fmt.Printf("  Breeding Pool:  %d\n", config.PoolSize)
	fmt.Printf("  Mutation Rate:  %.2f\n", config.MutationRate)
	fmt.Printf("  Games/Eval:     %d\n", config.GamesPerEval)
	fmt.Printf("  Strategies:     %s vs %s\n", config.CandidateStrategy, config.ControlStrategy)
	fmt.Printf("  Workers:        %d (0=auto)\n", config.Workers)
	fmt.Printf("  Output:         %s\n", outputDir)
	if checkpointInterval > 0 {
		fmt.Printf("  Checkpoint:     every %d generations\n", checkpointInterval)
	}
	fmt.Println()
}

func printSummary(engine *evolution.EvolutionEngine, runID string, totalTime time.Duration) {
	fmt.Println()
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("                      EVOLUTION SUMMARY")
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Printf("  Run:             %s\n", runID)
	fmt.Printf("  Total Time:      %s\n", formatDuration(totalTime))
	fmt.Printf("  Generations:     %d\n", len(engine.StatsHistory))

	if best := engine.Best(); best != nil {
		fmt.Printf("  Final Best:      %.1f%%\n", best.Fitness)
		fmt.Printf("  Best Deck:\n%s\n", indent(best.Deck.String(), "    "))
	}
	if engine.BestEver != nil {
		fmt.Printf("  Best Ever:       %.1f%%\n", engine.BestEver.Fitness)
	}

	fmt.Printf("  Output:          %s\n", outputDir)
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println()
}

// DeckOutput is the JSON structure for the saved best deck
type DeckOutput struct {
	Hero    string   `json:"hero"`
	Fitness float64  `json:"fitness"`
	Cards   []string `json:"cards"`
}

func saveDeck(ind *evolution.Individual, class card.Class, path string) error {
	if ind == nil {
		return fmt.Errorf("no deck to save")
	}
	data, err := json.MarshalIndent(DeckOutput{
		Hero:    class.String(),
		Fitness: ind.Fitness,
		Cards:   ind.Deck.Names(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
