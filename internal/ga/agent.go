package ga

import "fmt"

// Agent is an evolvable policy exposing its gene vector.
// Weights returns the backing slice, callers may overwrite it in place.
// Agents are compared by identity, so implementations should be pointers.
type Agent interface {
	comparable
	Weights() []Gene
}

// Inherit overwrites every gene of child with a crossover of the
// father's and mother's gene at the same index
func Inherit[A Agent](child, father, mother A, rng Source, crossover Crossover, bias float64) error {
	if father == mother {
		return ErrSameParent
	}
	if child == father || child == mother {
		return ErrSelfParent
	}

	genes := child.Weights()
	fg, mg := father.Weights(), mother.Weights()
	if len(fg) != len(genes) || len(mg) != len(genes) {
		return fmt.Errorf("child %d, father %d, mother %d: %w", len(genes), len(fg), len(mg), ErrGeneLength)
	}

	for i := range genes {
		g, err := crossover.Perform(fg[i], mg[i], rng, bias)
		if err != nil {
			return fmt.Errorf("gene %d: %w", i, err)
		}
		genes[i] = g
	}
	return nil
}
