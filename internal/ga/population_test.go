package ga

import (
	"errors"
	"math"
	"testing"
)

func newTestPopulation(t *testing.T, size int, strategies Strategies) *Population[*testAgent] {
	t.Helper()
	pop, err := NewPopulation(size, spawnTestAgent(6), blankTestAgent(6), newRNG(1), strategies)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}
	return pop
}

// costByIdentity returns a cost function that reports fixed costs per agent
func costByIdentity(costs map[*testAgent]float64) CostFunc[*testAgent] {
	return func(a *testAgent) (float64, error) {
		return costs[a], nil
	}
}

func TestNewPopulationValidatesSize(t *testing.T) {
	for _, size := range []int{0, -4, 2, 6, 10} {
		if _, err := NewPopulation(size, spawnTestAgent(3), blankTestAgent(3), newRNG(1), DefaultStrategies()); !errors.Is(err, ErrPopulationSize) {
			t.Fatalf("size %d: got %v", size, err)
		}
	}
	pop := newTestPopulation(t, 12, DefaultStrategies())
	if pop.Size() != 12 || len(pop.Costs()) != 12 {
		t.Fatalf("size %d with %d costs", pop.Size(), len(pop.Costs()))
	}
	for i, c := range pop.Costs() {
		if c != 0 {
			t.Fatalf("initial cost %d = %v", i, c)
		}
	}
}

func TestNewPopulationRequiresStrategies(t *testing.T) {
	mutate := func(f func(*Strategies)) Strategies {
		s := DefaultStrategies()
		f(&s)
		return s
	}
	cases := map[string]Strategies{
		"repopulator": mutate(func(s *Strategies) { s.Repopulator = nil }),
		"crossover":   mutate(func(s *Strategies) { s.Crossover = nil }),
		"mutation":    mutate(func(s *Strategies) { s.Mutation = nil }),
	}
	for name, s := range cases {
		if _, err := NewPopulation(8, spawnTestAgent(3), blankTestAgent(3), newRNG(1), s); !errors.Is(err, ErrNilStrategy) {
			t.Fatalf("%s: got %v", name, err)
		}
	}
	if _, err := NewPopulation[*testAgent](8, nil, blankTestAgent(3), newRNG(1), DefaultStrategies()); !errors.Is(err, ErrNilStrategy) {
		t.Fatalf("nil spawner: got %v", err)
	}
	if _, err := NewPopulation(8, spawnTestAgent(3), nil, newRNG(1), DefaultStrategies()); !errors.Is(err, ErrNilStrategy) {
		t.Fatalf("nil blank constructor: got %v", err)
	}
	if _, err := NewPopulation[*testAgent](8, spawnTestAgent(3), blankTestAgent(3), nil, DefaultStrategies()); !errors.Is(err, ErrNilStrategy) {
		t.Fatalf("nil source: got %v", err)
	}
	bad := mutate(func(s *Strategies) { s.MutationRate = 2 })
	if _, err := NewPopulation(8, spawnTestAgent(3), blankTestAgent(3), newRNG(1), bad); !errors.Is(err, ErrOutOfDomain) {
		t.Fatalf("mutation rate: got %v", err)
	}
	bad = mutate(func(s *Strategies) { s.CrossoverBias = -1 })
	if _, err := NewPopulation(8, spawnTestAgent(3), blankTestAgent(3), newRNG(1), bad); !errors.Is(err, ErrOutOfDomain) {
		t.Fatalf("crossover bias: got %v", err)
	}
	nilSpawn := func(Source) *testAgent { return nil }
	if _, err := NewPopulation(8, nilSpawn, blankTestAgent(3), newRNG(1), DefaultStrategies()); !errors.Is(err, ErrNilStrategy) {
		t.Fatalf("nil agent: got %v", err)
	}
}

func TestEvaluateValidatesIndexAndCost(t *testing.T) {
	pop := newTestPopulation(t, 8, DefaultStrategies())
	ok := func(*testAgent) (float64, error) { return 1, nil }
	for _, idx := range []int{-1, 8} {
		if err := pop.Evaluate(idx, ok); !errors.Is(err, ErrOutOfDomain) {
			t.Fatalf("index %d: got %v", idx, err)
		}
	}
	for _, c := range []float64{-1, math.NaN(), math.Inf(1)} {
		bad := func(*testAgent) (float64, error) { return c, nil }
		if err := pop.Evaluate(0, bad); !errors.Is(err, ErrInvalidCost) {
			t.Fatalf("cost %v: got %v", c, err)
		}
	}
	boom := errors.New("boom")
	failing := func(*testAgent) (float64, error) { return 0, boom }
	if err := pop.Evaluate(3, failing); !errors.Is(err, boom) {
		t.Fatalf("callback error: got %v", err)
	}
	if err := pop.Evaluate(5, func(*testAgent) (float64, error) { return 2.5, nil }); err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if pop.Costs()[5] != 2.5 {
		t.Fatalf("cost[5] = %v", pop.Costs()[5])
	}
}

func TestSortIsACoPermutation(t *testing.T) {
	pop := newTestPopulation(t, 16, DefaultStrategies())
	rng := newRNG(21)
	want := make(map[*testAgent]float64)
	for _, a := range pop.Agents() {
		want[a] = math.Floor(rng.Float64() * 5) // plenty of ties
	}
	for i := range pop.Agents() {
		if err := pop.Evaluate(i, costByIdentity(want)); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	before := append([]*testAgent(nil), pop.Agents()...)

	pop.Sort()

	seen := make(map[*testAgent]bool)
	for i, a := range pop.Agents() {
		if pop.Costs()[i] != want[a] {
			t.Fatalf("agent %d lost its cost: %v vs %v", i, pop.Costs()[i], want[a])
		}
		if i > 0 && pop.Costs()[i-1] > pop.Costs()[i] {
			t.Fatalf("costs not ascending at %d: %v", i, pop.Costs())
		}
		seen[a] = true
	}
	if len(seen) != len(before) {
		t.Fatalf("sort dropped agents: %d unique of %d", len(seen), len(before))
	}

	// Ties keep their original relative order
	pos := make(map[*testAgent]int)
	for i, a := range before {
		pos[a] = i
	}
	for i := 1; i < pop.Size(); i++ {
		a, b := pop.Agents()[i-1], pop.Agents()[i]
		if want[a] == want[b] && pos[a] > pos[b] {
			t.Fatalf("unstable sort at %d", i)
		}
	}
}

func TestCostEvaluation(t *testing.T) {
	pop := newTestPopulation(t, 4, DefaultStrategies())
	for i, c := range []float64{4, 1, 3, 0} {
		c := c
		if err := pop.Evaluate(i, func(*testAgent) (float64, error) { return c, nil }); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	stats, err := pop.CostEvaluation()
	if err != nil {
		t.Fatalf("cost evaluation: %v", err)
	}
	if stats.Min != 0 || stats.Max != 4 || stats.Mean != 2 || stats.Count != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	best, cost := pop.Best()
	if best != pop.Agents()[3] || cost != 0 {
		t.Fatalf("best = %p (%v), want agent 3", best, cost)
	}
}

func TestGeneEvaluation(t *testing.T) {
	pop := newTestPopulation(t, 4, DefaultStrategies())
	for i, a := range pop.Agents() {
		for g := range a.genes {
			a.genes[g] = Gene(i * (g + 1))
		}
	}
	stats, err := pop.GeneEvaluation()
	if err != nil {
		t.Fatalf("gene evaluation: %v", err)
	}
	if len(stats) != 6 {
		t.Fatalf("got %d gene stats, want 6", len(stats))
	}
	for g, s := range stats {
		k := Gene(g + 1)
		if s.Min != 0 || s.Max != 3*k || s.Mean != 1.5*float64(k) {
			t.Fatalf("gene %d: %+v", g, s)
		}
	}

	empty := &Population[*testAgent]{}
	if _, err := empty.GeneEvaluation(); !errors.Is(err, ErrEmptyPopulation) {
		t.Fatalf("empty gene evaluation: got %v", err)
	}
	if _, err := empty.CostEvaluation(); !errors.Is(err, ErrEmptyPopulation) {
		t.Fatalf("empty cost evaluation: got %v", err)
	}
}

func TestGenerationEndToEnd(t *testing.T) {
	strategies := DefaultStrategies()
	strategies.MutationRate = 0
	pop := newTestPopulation(t, 8, strategies)

	costs := make(map[*testAgent]float64)
	for i, a := range pop.Agents() {
		costs[a] = float64(i + 1)
	}
	for i := range pop.Agents() {
		if err := pop.Evaluate(i, costByIdentity(costs)); err != nil {
			t.Fatalf("evaluate: %v", err)
		}
	}
	original := append([]*testAgent(nil), pop.Agents()...)

	pop.Sort()
	for i, a := range pop.Agents() {
		if a != original[i] {
			t.Fatalf("sort moved agent %d", i)
		}
	}

	gradient, err := NewSigmoidGradient(1e6)
	if err != nil {
		t.Fatalf("gradient: %v", err)
	}
	if err := pop.ApplyGradient(gradient, &fixedSource{draws: []float64{0.5}}); err != nil {
		t.Fatalf("apply gradient: %v", err)
	}
	for i, a := range pop.Agents() {
		if a != original[i] {
			t.Fatalf("elitist gradient moved agent %d", i)
		}
	}

	if err := pop.Repopulate(newRNG(99)); err != nil {
		t.Fatalf("repopulate: %v", err)
	}
	if pop.Size() != 8 || len(pop.Costs()) != 8 {
		t.Fatalf("size changed to %d", pop.Size())
	}
	survivors := original[:4]
	for i := 0; i < 4; i++ {
		if pop.Agents()[i] != original[i] {
			t.Fatalf("survivor %d replaced", i)
		}
	}
	for i := 4; i < 8; i++ {
		child := pop.Agents()[i]
		for _, o := range original {
			if child == o {
				t.Fatalf("slot %d still holds an original agent", i)
			}
		}
		if !descendsFromPair(child, survivors) {
			t.Fatalf("child in slot %d is not a bitwise mix of two survivors", i)
		}
	}
}

func descendsFromPair(child *testAgent, parents []*testAgent) bool {
	for fi, f := range parents {
		for mi, m := range parents {
			if fi == mi {
				continue
			}
			ok := true
			for g, c := range child.genes {
				a, b := f.genes[g], m.genes[g]
				if c&^(a|b) != 0 || (a&b)&^c != 0 {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
	}
	return false
}

func TestRepopulateBuildsChildrenFromBlank(t *testing.T) {
	spawned, blanks := 0, 0
	spawn := func(rng Source) *testAgent {
		spawned++
		return spawnTestAgent(4)(rng)
	}
	blank := func() *testAgent {
		blanks++
		return blankTestAgent(4)()
	}
	pop, err := NewPopulation(16, spawn, blank, newRNG(3), DefaultStrategies())
	if err != nil {
		t.Fatalf("population: %v", err)
	}
	if spawned != 16 || blanks != 0 {
		t.Fatalf("construction: spawned %d, blanks %d", spawned, blanks)
	}
	for gen := 0; gen < 3; gen++ {
		if err := pop.Repopulate(newRNG(uint64(gen))); err != nil {
			t.Fatalf("repopulate: %v", err)
		}
	}
	if spawned != 16 {
		t.Fatalf("repopulate called the random spawner %d extra times", spawned-16)
	}
	if blanks != 3*8 {
		t.Fatalf("blanks = %d, want %d", blanks, 3*8)
	}
}

func TestRepopulateRejectsNilBlank(t *testing.T) {
	blank := func() *testAgent { return nil }
	pop, err := NewPopulation(8, spawnTestAgent(2), blank, newRNG(1), DefaultStrategies())
	if err != nil {
		t.Fatalf("population: %v", err)
	}
	if err := pop.Repopulate(newRNG(2)); !errors.Is(err, ErrNilStrategy) {
		t.Fatalf("got %v", err)
	}
}
