package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"blackjackga/internal/config"
	"blackjackga/internal/eval"
	"blackjackga/internal/ga"
	"blackjackga/internal/logging"
	"blackjackga/internal/metrics"
	"blackjackga/internal/policy"
	"blackjackga/internal/sim"
	"blackjackga/internal/store"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to config file")
	generations := flag.Int("generations", 0, "number of generations to run (0 = config value)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *generations > 0 {
		cfg.GA.Generations = *generations
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := train(ctx, cfg, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// trainer carries the optional sinks of one training run
type trainer struct {
	cfg     *config.Config
	log     *slog.Logger
	runLog  *logging.Logger
	store   *store.Store
	metrics *metrics.Metrics
	pop     *ga.Population[*policy.Agent]
	runID   uuid.UUID
}

func train(ctx context.Context, cfg *config.Config, configPath string) error {
	console, err := logging.NewConsole(os.Stdout, cfg.Logging.Level)
	if err != nil {
		return err
	}
	t := &trainer{cfg: cfg, log: console, runID: uuid.New()}

	console.Info("blackjack GA trainer",
		"config", configPath,
		"population", cfg.GA.Population,
		"generations", cfg.GA.Generations,
		"genes", policy.GeneCount,
	)

	rng := rand.New(rand.NewPCG(cfg.Seed, 0))
	strategies := ga.DefaultStrategies()
	strategies.MutationRate = cfg.GA.MutationRate
	strategies.CrossoverBias = cfg.GA.CrossoverBias

	pop, err := ga.NewPopulation(cfg.GA.Population, policy.Random, policy.New, rng, strategies)
	if err != nil {
		return fmt.Errorf("create population: %w", err)
	}
	gradient, err := ga.NewSigmoidGradient(cfg.GA.Steepness)
	if err != nil {
		return fmt.Errorf("create gradient: %w", err)
	}
	t.pop = pop
	console.Info("selection", "steepness", gradient.Steepness(), "mutation_rate", strategies.MutationRate, "crossover_bias", strategies.CrossoverBias)
	evaluator := eval.NewEvaluator(cfg)
	simulation, err := sim.New(pop, gradient, rng, evaluator.CostFunc, sim.Config{
		Generations: cfg.GA.Generations,
		Workers:     cfg.GA.Workers,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}
	console.Info("evaluation workers", "workers", simulation.Workers())

	var runLogConsole *slog.Logger
	if cfg.Logging.EveryGenSummary {
		runLogConsole = console
	}
	t.runLog, err = logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, runLogConsole)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	if err := t.runLog.Init(); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		if err := t.runLog.Close(); err != nil {
			console.Warn("close run log", "err", err)
		}
	}()

	if cfg.Store.Path != "" {
		if err := t.openStore(ctx); err != nil {
			return err
		}
		defer t.store.Close()
	}

	if cfg.Metrics.Addr != "" {
		t.metrics = metrics.New()
		srv := t.serveMetrics(cfg.Metrics.Addr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	startTime := time.Now()
	var hookErr error
	err = simulation.Run(ctx, func(sum sim.Summary[*policy.Agent]) {
		if err := t.onGeneration(ctx, sum); err != nil && hookErr == nil {
			hookErr = err
		}
	})
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}
	if hookErr != nil {
		console.Warn("generation reporting failed", "err", hookErr)
	}

	// The last repopulation left unscored children; score them before
	// choosing the final champion.
	final, err := simulation.Evaluate(ctx)
	if err != nil {
		return fmt.Errorf("final evaluation: %w", err)
	}
	final.Generation = cfg.GA.Generations
	console.Info("training complete",
		"generations", cfg.GA.Generations,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"best_cost", final.BestCost,
		"mean_cost", final.Stats.Mean,
	)

	path := filepath.Join(cfg.Logging.ChampionDir, "champion_final.json")
	if err := t.saveChampion(ctx, path, final); err != nil {
		return fmt.Errorf("save final champion: %w", err)
	}
	console.Info("saved champion", "path", path)

	if t.store != nil {
		if err := t.store.FinishRun(ctx, t.runID); err != nil {
			return err
		}
	}
	return nil
}

func (t *trainer) openStore(ctx context.Context) error {
	s, err := store.Open(ctx, t.cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	raw, err := yaml.Marshal(t.cfg)
	if err != nil {
		s.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	runID, err := s.CreateRun(ctx, t.cfg.Seed, string(raw))
	if err != nil {
		s.Close()
		return err
	}
	t.store, t.runID = s, runID
	t.log.Info("recording run", "store", t.cfg.Store.Path, "run_id", runID)
	return nil
}

func (t *trainer) serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", t.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.log.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	t.log.Info("serving metrics", "addr", addr)
	return srv
}

// onGeneration fans a generation summary out to every configured sink
func (t *trainer) onGeneration(ctx context.Context, sum sim.Summary[*policy.Agent]) error {
	if err := t.runLog.LogGeneration(sum.Generation, sum.Stats); err != nil {
		return fmt.Errorf("log generation: %w", err)
	}
	if t.metrics != nil {
		t.metrics.Observe(sum.Stats)
	}
	if t.log.Enabled(ctx, slog.LevelDebug) {
		if err := t.logGeneSpread(ctx, sum.Generation); err != nil {
			return err
		}
	}
	if t.store != nil {
		if err := t.store.RecordGeneration(ctx, t.runID, sum.Generation, sum.Stats); err != nil {
			return err
		}
	}

	every := t.cfg.Logging.SaveChampionEvery
	if every > 0 && sum.Generation > 0 && sum.Generation%every == 0 {
		path := filepath.Join(t.cfg.Logging.ChampionDir, fmt.Sprintf("champion_gen%d.json", sum.Generation))
		if err := t.saveChampion(ctx, path, sum); err != nil {
			return err
		}
		t.log.Debug("saved champion", "path", path, "cost", sum.BestCost)
	}
	return nil
}

func (t *trainer) saveChampion(ctx context.Context, path string, sum sim.Summary[*policy.Agent]) error {
	genes := slices.Clone(sum.Best.Weights())
	champion := logging.Champion{
		RunID:      t.runID.String(),
		Generation: sum.Generation,
		Cost:       sum.BestCost,
		Genes:      genes,
	}
	if err := logging.SaveChampion(path, champion); err != nil {
		return err
	}
	if t.store != nil {
		if _, err := t.store.SaveChampion(ctx, t.runID, sum.Generation, sum.BestCost, genes); err != nil {
			return err
		}
	}
	return nil
}

// logGeneSpread reports how far the population has converged: the mean
// per-gene range and the mean hit probability, both as fractions of MaxGene.
func (t *trainer) logGeneSpread(ctx context.Context, gen int) error {
	genes, err := t.pop.GeneEvaluation()
	if err != nil {
		return fmt.Errorf("gene evaluation: %w", err)
	}
	var spread, hit float64
	for _, g := range genes {
		spread += float64(g.Max-g.Min) / float64(ga.MaxGene)
		hit += g.Mean / float64(ga.MaxGene)
	}
	n := float64(len(genes))
	t.log.DebugContext(ctx, "gene spread",
		"gen", gen,
		"mean_range", spread/n,
		"mean_hit", hit/n,
	)
	return nil
}
