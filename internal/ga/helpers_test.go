package ga

import "math/rand/v2"

// fixedSource replays a fixed draw sequence and always picks the first candidate
type fixedSource struct {
	draws []float64
	used  int
}

func (s *fixedSource) Float64() float64 {
	d := s.draws[s.used%len(s.draws)]
	s.used++
	return d
}

func (s *fixedSource) IntN(n int) int {
	return 0
}

type testAgent struct {
	genes []Gene
}

func (a *testAgent) Weights() []Gene {
	return a.genes
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func spawnTestAgent(n int) SpawnFunc[*testAgent] {
	return func(rng Source) *testAgent {
		a := &testAgent{genes: make([]Gene, n)}
		for i := range a.genes {
			a.genes[i] = RandomGene(rng)
		}
		return a
	}
}

func blankTestAgent(n int) BlankFunc[*testAgent] {
	return func() *testAgent {
		return &testAgent{genes: make([]Gene, n)}
	}
}
