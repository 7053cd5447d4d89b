// Package sim drives the generation loop: concurrent fitness evaluation
// followed by a single-threaded sort, selection and repopulation.
package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"blackjackga/internal/ga"
)

// CostFactory builds the cost function used by one worker. It is called
// once per worker with that worker's private random stream.
type CostFactory[A ga.Agent] func(worker int, rng *rand.Rand) ga.CostFunc[A]

// Config controls the generation loop
type Config struct {
	Generations int
	Workers     int // 0 = GOMAXPROCS
	Seed        uint64
}

// workerStream offsets PCG stream selectors of worker sources so they
// never coincide with a caller's (Seed, small n) source.
const workerStream = 0x9e3779b97f4a7c15

// Summary is reported once per generation after evaluation
type Summary[A ga.Agent] struct {
	Generation int
	Stats      ga.CostStats
	Best       A
	BestCost   float64
}

type shard[A ga.Agent] struct {
	lo, hi int
	cost   ga.CostFunc[A]
}

// Simulation evolves a population for a fixed number of generations
type Simulation[A ga.Agent] struct {
	pop      *ga.Population[A]
	gradient ga.Gradient
	rng      ga.Source
	cfg      Config
	shards   []shard[A]
}

// New partitions the population into one contiguous shard per worker
func New[A ga.Agent](pop *ga.Population[A], gradient ga.Gradient, rng ga.Source, costs CostFactory[A], cfg Config) (*Simulation[A], error) {
	switch {
	case pop == nil:
		return nil, fmt.Errorf("population: %w", ga.ErrNilStrategy)
	case gradient == nil:
		return nil, fmt.Errorf("gradient: %w", ga.ErrNilStrategy)
	case rng == nil:
		return nil, fmt.Errorf("random source: %w", ga.ErrNilStrategy)
	case costs == nil:
		return nil, fmt.Errorf("cost factory: %w", ga.ErrNilStrategy)
	}
	if cfg.Generations < 0 {
		return nil, fmt.Errorf("generations %d: %w", cfg.Generations, ga.ErrOutOfDomain)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := pop.Size()
	workers = min(workers, n)

	s := &Simulation[A]{
		pop:      pop,
		gradient: gradient,
		rng:      rng,
		cfg:      cfg,
		shards:   make([]shard[A], workers),
	}
	for w := range s.shards {
		cost := costs(w, rand.New(rand.NewPCG(cfg.Seed, workerStream+uint64(w))))
		if cost == nil {
			return nil, fmt.Errorf("cost function for worker %d: %w", w, ga.ErrNilStrategy)
		}
		s.shards[w] = shard[A]{
			lo:   w * n / workers,
			hi:   (w + 1) * n / workers,
			cost: cost,
		}
	}
	return s, nil
}

// Population returns the evolving population
func (s *Simulation[A]) Population() *ga.Population[A] {
	return s.pop
}

// Workers returns the number of evaluation shards
func (s *Simulation[A]) Workers() int {
	return len(s.shards)
}

// Run executes every configured generation. onGeneration may be nil.
func (s *Simulation[A]) Run(ctx context.Context, onGeneration func(Summary[A])) error {
	for gen := 0; gen < s.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(ctx, gen, onGeneration); err != nil {
			return fmt.Errorf("generation %d: %w", gen, err)
		}
	}
	return nil
}

// Step runs one generation: evaluate, report, sort, select, repopulate
func (s *Simulation[A]) Step(ctx context.Context, gen int, onGeneration func(Summary[A])) error {
	summary, err := s.Evaluate(ctx)
	if err != nil {
		return err
	}
	summary.Generation = gen
	if onGeneration != nil {
		onGeneration(summary)
	}

	s.pop.Sort()
	if err := s.pop.ApplyGradient(s.gradient, s.rng); err != nil {
		return fmt.Errorf("apply gradient: %w", err)
	}
	if err := s.pop.Repopulate(s.rng); err != nil {
		return fmt.Errorf("repopulate: %w", err)
	}
	return nil
}

// Evaluate scores every agent concurrently, one shard per worker, and
// returns once all shards are done. The first error cancels the rest.
func (s *Simulation[A]) Evaluate(ctx context.Context) (Summary[A], error) {
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithCancelOnError()

	for _, sh := range s.shards {
		p.Go(func(ctx context.Context) error {
			for i := sh.lo; i < sh.hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.pop.Evaluate(i, sh.cost); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return Summary[A]{}, err
	}

	stats, err := s.pop.CostEvaluation()
	if err != nil {
		return Summary[A]{}, err
	}
	best, bestCost := s.pop.Best()
	return Summary[A]{Stats: stats, Best: best, BestCost: bestCost}, nil
}
