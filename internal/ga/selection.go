package ga

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Gradient decides which agents of a sorted population survive.
// Order returns a permutation of indices whose first half survives.
type Gradient interface {
	Order(costs []float64, rng Source) ([]int, error)
}

// SigmoidGradient pushes normalized costs through a logistic curve and
// uses the result as each agent's chance of changing fate. The best half
// usually survives and the worst half usually dies.
type SigmoidGradient struct {
	steepness float64
}

// NewSigmoidGradient creates a gradient; steepness must be at least 1
func NewSigmoidGradient(steepness float64) (*SigmoidGradient, error) {
	if math.IsNaN(steepness) || steepness < 1 {
		return nil, fmt.Errorf("steepness %v below 1: %w", steepness, ErrOutOfDomain)
	}
	return &SigmoidGradient{steepness: steepness}, nil
}

// Steepness returns the logistic scale factor
func (g *SigmoidGradient) Steepness() float64 {
	return g.steepness
}

// Order assigns fates and returns elite, lucky, non-elite, unlucky
func (g *SigmoidGradient) Order(costs []float64, rng Source) ([]int, error) {
	n := len(costs)
	if n == 0 || n%2 != 0 {
		return nil, fmt.Errorf("%d costs: %w", n, ErrPopulationSize)
	}
	elite, lucky, nonElite, unlucky := g.fates(costs, rng)

	order := make([]int, 0, n)
	order = append(order, elite...)
	order = append(order, lucky...)
	order = append(order, nonElite...)
	order = append(order, unlucky...)
	return order, nil
}

func (g *SigmoidGradient) fates(costs []float64, rng Source) (elite, lucky, nonElite, unlucky []int) {
	lo, hi := floats.Min(costs), floats.Max(costs)
	half := len(costs) / 2

	for i := 0; i < half; i++ {
		if g.score(costs[i], lo, hi) < rng.Float64() {
			elite = append(elite, i)
		} else {
			unlucky = append(unlucky, i)
		}
	}
	for i := half; i < len(costs); i++ {
		if g.score(costs[i], lo, hi) > rng.Float64() {
			nonElite = append(nonElite, i)
		} else {
			lucky = append(lucky, i)
		}
	}

	// Survivors must number exactly half again
	switch {
	case len(unlucky) > len(lucky):
		k := len(unlucky) - len(lucky)
		// promote the best non-elites
		elite = append(elite, nonElite[:k]...)
		nonElite = nonElite[k:]
	case len(lucky) > len(unlucky):
		cut := len(elite) - (len(lucky) - len(unlucky))
		// demote the worst elites to the head of non-elite
		nonElite = append(append([]int(nil), elite[cut:]...), nonElite...)
		elite = elite[:cut]
	}
	return elite, lucky, nonElite, unlucky
}

func (g *SigmoidGradient) score(cost, lo, hi float64) float64 {
	norm := 0.5
	if hi > lo {
		norm = (cost - lo) / (hi - lo)
	}
	return 1 / (1 + math.Exp(-g.steepness*(norm-0.5)))
}
