package env

import "gonum.org/v1/gonum/stat"

// SessionStats aggregates many rounds played by one policy
type SessionStats struct {
	Rounds      int             `json:"rounds"`
	Outcomes    map[Outcome]int `json:"outcomes"`
	PayoffMean  float64         `json:"payoff_mean"`
	PayoffStd   float64         `json:"payoff_std"`
	Decisions   int             `json:"decisions"`
	HitFraction float64         `json:"hit_fraction"`
}

// Aggregate computes statistics from a list of rounds
func Aggregate(rounds []RoundStats) SessionStats {
	agg := SessionStats{Outcomes: make(map[Outcome]int)}
	n := len(rounds)
	if n == 0 {
		return agg
	}
	agg.Rounds = n

	payoffs := make([]float64, n)
	hits := 0
	for i, r := range rounds {
		agg.Outcomes[r.Outcome]++
		payoffs[i] = r.Outcome.Payoff()
		for _, d := range r.Decisions {
			agg.Decisions++
			if d.Hit {
				hits++
			}
		}
	}
	agg.PayoffMean, agg.PayoffStd = stat.PopMeanStdDev(payoffs, nil)
	if agg.Decisions > 0 {
		agg.HitFraction = float64(hits) / float64(agg.Decisions)
	}
	return agg
}

// Rate returns the fraction of rounds that ended with o
func (s SessionStats) Rate(o Outcome) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Outcomes[o]) / float64(s.Rounds)
}

// OutcomeCounts returns counts keyed by outcome name
func (s SessionStats) OutcomeCounts() map[string]int {
	out := make(map[string]int, len(s.Outcomes))
	for o, c := range s.Outcomes {
		out[o.String()] = c
	}
	return out
}
