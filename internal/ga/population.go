package ga

import (
	"fmt"
	"math"
	"sort"
)

// SpawnFunc creates a fresh agent with randomly initialized genes
type SpawnFunc[A Agent] func(rng Source) A

// BlankFunc creates an agent whose genes are about to be inherited
type BlankFunc[A Agent] func() A

// CostFunc scores an agent; lower is better and 0 is flawless
type CostFunc[A Agent] func(agent A) (float64, error)

// Strategies bundles the reproduction operators of a population
type Strategies struct {
	Repopulator   Repopulator
	Crossover     Crossover
	Mutation      Mutation
	MutationRate  float64
	CrossoverBias float64
}

// DefaultStrategies returns two-pass pairing with uniform crossover and mutation
func DefaultStrategies() Strategies {
	return Strategies{
		Repopulator:   TwoPassRepopulator{},
		Crossover:     UniformCrossover{},
		Mutation:      UniformMutation{},
		MutationRate:  0.15,
		CrossoverBias: DefaultBias,
	}
}

func (s Strategies) validate() error {
	switch {
	case s.Repopulator == nil:
		return fmt.Errorf("repopulator: %w", ErrNilStrategy)
	case s.Crossover == nil:
		return fmt.Errorf("crossover: %w", ErrNilStrategy)
	case s.Mutation == nil:
		return fmt.Errorf("mutation: %w", ErrNilStrategy)
	}
	if err := checkDomain("mutation rate", s.MutationRate, 0, 1); err != nil {
		return err
	}
	return checkDomain("crossover bias", s.CrossoverBias, 0, 1)
}

// Population owns the agents of a run and their index-aligned costs
type Population[A Agent] struct {
	agents     []A
	costs      []float64
	blank      BlankFunc[A]
	strategies Strategies
}

// NewPopulation spawns size random agents. Children created by
// Repopulate start from blank.
func NewPopulation[A Agent](size int, spawn SpawnFunc[A], blank BlankFunc[A], rng Source, strategies Strategies) (*Population[A], error) {
	if size <= 0 || size%4 != 0 {
		return nil, fmt.Errorf("size %d: %w", size, ErrPopulationSize)
	}
	if spawn == nil {
		return nil, fmt.Errorf("spawner: %w", ErrNilStrategy)
	}
	if blank == nil {
		return nil, fmt.Errorf("blank constructor: %w", ErrNilStrategy)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source: %w", ErrNilStrategy)
	}
	if err := strategies.validate(); err != nil {
		return nil, err
	}

	p := &Population[A]{
		agents:     make([]A, size),
		costs:      make([]float64, size),
		blank:      blank,
		strategies: strategies,
	}

	var zero A
	for i := range p.agents {
		a := spawn(rng)
		if a == zero {
			return nil, fmt.Errorf("spawner returned nil agent: %w", ErrNilStrategy)
		}
		if i > 0 && len(a.Weights()) != len(p.agents[0].Weights()) {
			return nil, fmt.Errorf("agent %d: %w", i, ErrGeneLength)
		}
		p.agents[i] = a
	}
	return p, nil
}

// Size returns the population size
func (p *Population[A]) Size() int {
	return len(p.agents)
}

// Agents returns the agents in their current order
func (p *Population[A]) Agents() []A {
	return p.agents
}

// Costs returns the cost array, index-aligned with Agents
func (p *Population[A]) Costs() []float64 {
	return p.costs
}

// Best returns the agent with the lowest cost
func (p *Population[A]) Best() (A, float64) {
	best := 0
	for i, c := range p.costs {
		if c < p.costs[best] {
			best = i
		}
	}
	return p.agents[best], p.costs[best]
}

// Evaluate stores the cost of the agent at index.
// Distinct indices may be evaluated concurrently.
func (p *Population[A]) Evaluate(index int, cost CostFunc[A]) error {
	if index < 0 || index >= len(p.agents) {
		return fmt.Errorf("index %d not in [0, %d): %w", index, len(p.agents), ErrOutOfDomain)
	}
	c, err := cost(p.agents[index])
	if err != nil {
		return fmt.Errorf("cost of agent %d: %w", index, err)
	}
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return fmt.Errorf("agent %d cost %v: %w", index, c, ErrInvalidCost)
	}
	p.costs[index] = c
	return nil
}

// Sort orders agents and costs by ascending cost, keeping ties stable
func (p *Population[A]) Sort() {
	order := make([]int, len(p.costs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return p.costs[order[i]] < p.costs[order[j]]
	})
	p.permute(order)
}

// ApplyGradient reorders the population so survivors occupy the first half.
// Sort must be called first.
func (p *Population[A]) ApplyGradient(gradient Gradient, rng Source) error {
	if gradient == nil {
		return fmt.Errorf("gradient: %w", ErrNilStrategy)
	}
	order, err := gradient.Order(p.costs, rng)
	if err != nil {
		return err
	}
	if err := checkPermutation(order, len(p.agents)); err != nil {
		return err
	}
	p.permute(order)
	return nil
}

// Repopulate replaces the second half with children of the first half
func (p *Population[A]) Repopulate(rng Source) error {
	half := len(p.agents) / 2
	return p.strategies.Repopulator.Repopulate(len(p.agents), rng, func(father, mother, slot int) error {
		if father < 0 || father >= half || mother < 0 || mother >= half {
			return fmt.Errorf("parents %d, %d must be survivors: %w", father, mother, ErrOutOfDomain)
		}
		if slot < half || slot >= len(p.agents) {
			return fmt.Errorf("slot %d is not vacated: %w", slot, ErrOutOfDomain)
		}
		child, err := p.breed(p.agents[father], p.agents[mother], rng)
		if err != nil {
			return err
		}
		p.agents[slot] = child
		p.costs[slot] = 0
		return nil
	})
}

func (p *Population[A]) breed(father, mother A, rng Source) (A, error) {
	s := p.strategies
	child := p.blank()
	var zero A
	if child == zero {
		return child, fmt.Errorf("blank constructor returned nil agent: %w", ErrNilStrategy)
	}
	if err := Inherit(child, father, mother, rng, s.Crossover, s.CrossoverBias); err != nil {
		return child, err
	}

	genes := child.Weights()
	for i, g := range genes {
		m, err := s.Mutation.Perform(g, rng, s.MutationRate)
		if err != nil {
			return child, fmt.Errorf("mutate gene %d: %w", i, err)
		}
		genes[i] = m
	}
	return child, nil
}

// GeneEvaluation returns min/max/mean for every gene index
func (p *Population[A]) GeneEvaluation() ([]GeneStats, error) {
	if len(p.agents) == 0 {
		return nil, ErrEmptyPopulation
	}
	n := len(p.agents[0].Weights())
	stats := make([]GeneStats, n)
	column := make([]float64, len(p.agents))
	for g := 0; g < n; g++ {
		for i, a := range p.agents {
			column[i] = float64(a.Weights()[g])
		}
		stats[g] = summarizeGenes(column)
	}
	return stats, nil
}

// CostEvaluation summarizes the current cost array
func (p *Population[A]) CostEvaluation() (CostStats, error) {
	if len(p.costs) == 0 {
		return CostStats{}, ErrEmptyPopulation
	}
	return summarizeCosts(p.costs), nil
}

// permute rearranges agents and costs from a snapshot so that
// position i receives the entry previously at order[i]
func (p *Population[A]) permute(order []int) {
	agents := append([]A(nil), p.agents...)
	costs := append([]float64(nil), p.costs...)
	for i, j := range order {
		p.agents[i] = agents[j]
		p.costs[i] = costs[j]
	}
}

func checkPermutation(order []int, n int) error {
	if len(order) != n {
		return fmt.Errorf("order has %d entries, want %d: %w", len(order), n, ErrOutOfDomain)
	}
	seen := make([]bool, n)
	for _, j := range order {
		if j < 0 || j >= n || seen[j] {
			return fmt.Errorf("order is not a permutation at %d: %w", j, ErrOutOfDomain)
		}
		seen[j] = true
	}
	return nil
}
