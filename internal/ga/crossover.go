package ga

import "fmt"

// DefaultBias gives both parents an even chance per bit
const DefaultBias = 0.5

// Crossover combines two parent genes at the same index into a child gene
type Crossover interface {
	Perform(father, mother Gene, rng Source, bias float64) (Gene, error)
}

// UniformCrossover picks every bit from the father with probability bias,
// otherwise from the mother. Bits above both parents' highest set bit stay zero.
type UniformCrossover struct{}

// Perform crosses father and mother bit by bit, least significant first
func (UniformCrossover) Perform(father, mother Gene, rng Source, bias float64) (Gene, error) {
	if father < 0 || mother < 0 {
		return 0, fmt.Errorf("father %d, mother %d: %w", father, mother, ErrNegativeGene)
	}
	if err := checkDomain("bias", bias, 0, 1); err != nil {
		return 0, err
	}

	a, b, child := father, mother, Gene(0)
	for i := 0; a != 0 || b != 0; i++ {
		src := b
		if rng.Float64() < bias {
			src = a
		}
		child |= (src & 1) << i
		a >>= 1
		b >>= 1
	}
	return child, nil
}
