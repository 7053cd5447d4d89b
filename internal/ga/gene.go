package ga

import (
	"fmt"
	"math"
)

// Gene encodes the disposition toward an action in one decision context.
// Larger values are more affirmative; CoinFlip is indifference.
type Gene int32

const (
	MaxGene  Gene = math.MaxInt32
	CoinFlip Gene = MaxGene / 2
)

// Source is the random stream consumed by every genetic operator.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// RandomGene draws a gene uniformly from [0, MaxGene)
func RandomGene(rng Source) Gene {
	return Gene(rng.IntN(int(MaxGene)))
}

// Probability maps a gene onto [0, 1]
func (g Gene) Probability() float64 {
	return float64(g) / float64(MaxGene)
}

func checkDomain(name string, x, lo, hi float64) error {
	if math.IsNaN(x) || x < lo || x > hi {
		return fmt.Errorf("%s %v not in [%v, %v]: %w", name, x, lo, hi, ErrOutOfDomain)
	}
	return nil
}
