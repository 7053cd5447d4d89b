package ga

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CostStats summarizes the cost array of one generation
type CostStats struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

// GeneStats summarizes one gene index across the population
type GeneStats struct {
	Min  Gene    `json:"min"`
	Max  Gene    `json:"max"`
	Mean float64 `json:"mean"`
}

func summarizeCosts(costs []float64) CostStats {
	return CostStats{
		Min:   floats.Min(costs),
		Max:   floats.Max(costs),
		Mean:  stat.Mean(costs, nil),
		Count: len(costs),
	}
}

func summarizeGenes(column []float64) GeneStats {
	return GeneStats{
		Min:  Gene(floats.Min(column)),
		Max:  Gene(floats.Max(column)),
		Mean: stat.Mean(column, nil),
	}
}
