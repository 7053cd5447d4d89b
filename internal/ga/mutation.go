package ga

import "fmt"

// DefaultMutationRate flips each examined bit with even odds
const DefaultMutationRate = 0.5

// Mutation perturbs a single gene
type Mutation interface {
	Perform(gene Gene, rng Source, rate float64) (Gene, error)
}

// UniformMutation flips every bit up to the gene's highest set bit
// independently with probability rate. Leading zeros are never flipped.
type UniformMutation struct{}

// Perform returns a mutated copy of gene
func (UniformMutation) Perform(gene Gene, rng Source, rate float64) (Gene, error) {
	if gene < 0 {
		return 0, fmt.Errorf("gene %d: %w", gene, ErrNegativeGene)
	}
	if err := checkDomain("mutation rate", rate, 0, 1); err != nil {
		return 0, err
	}

	out := gene
	for i, rest := 0, gene; rest != 0; i++ {
		if rng.Float64() < rate {
			out ^= 1 << i
		}
		rest >>= 1
	}
	return out, nil
}
