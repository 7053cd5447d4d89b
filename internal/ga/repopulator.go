package ga

import "fmt"

// Repopulator pairs the surviving first half of a population and asks
// spawn for one child per vacated slot in the second half
type Repopulator interface {
	Repopulate(size int, rng Source, spawn func(father, mother, slot int) error) error
}

// TwoPassRepopulator walks the survivors twice, pairing each father with a
// random mother to its right via a partial Fisher-Yates swap. Every survivor
// parents exactly two children.
type TwoPassRepopulator struct{}

// Repopulate fills slots [size/2, size) from parents in [0, size/2)
func (TwoPassRepopulator) Repopulate(size int, rng Source, spawn func(father, mother, slot int) error) error {
	half := size / 2
	if half < 2 || half%2 != 0 {
		return fmt.Errorf("size %d: %w", size, ErrPopulationSize)
	}

	parents := make([]int, half)
	for i := range parents {
		parents[i] = i
	}

	for pass := 0; pass < 2; pass++ {
		for j := 0; j < half; j += 2 {
			m := j + 1 + rng.IntN(half-j-1)
			parents[j+1], parents[m] = parents[m], parents[j+1]
			if err := spawn(parents[j], parents[j+1], half+j+pass); err != nil {
				return err
			}
		}
	}
	return nil
}
