package eval

import (
	"math/rand/v2"

	"blackjackga/internal/config"
	"blackjackga/internal/env"
	"blackjackga/internal/ga"
	"blackjackga/internal/policy"
)

// Evaluator scores policies by playing Blackjack sessions
type Evaluator struct {
	cfg *config.Config
}

// NewEvaluator creates a new evaluator
func NewEvaluator(cfg *config.Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// CostFunc returns a cost function that owns its own table and random
// stream. Instances must not be shared between goroutines.
func (e *Evaluator) CostFunc(worker int, rng *rand.Rand) ga.CostFunc[*policy.Agent] {
	game := env.NewGame(e.cfg.Eval.Decks, rng)
	return func(agent *policy.Agent) (float64, error) {
		stats := e.PlaySession(agent, game, rng, nil)
		return e.ComputeCost(stats), nil
	}
}

// PlaySession plays the configured number of rounds with agent.
// Every round is recorded when replay is not nil.
func (e *Evaluator) PlaySession(agent *policy.Agent, game *env.Game, rng *rand.Rand, replay *env.Replay) env.SessionStats {
	rounds := make([]env.RoundStats, e.cfg.Eval.Rounds)
	hit := func(c env.Context) bool {
		return agent.Hit(c, rng)
	}
	for i := range rounds {
		rounds[i] = game.PlayRound(hit)
		if replay != nil {
			replay.Record(rounds[i])
		}
	}
	return env.Aggregate(rounds)
}

// ComputeCost averages the configured per-outcome cost over a session
func (e *Evaluator) ComputeCost(stats env.SessionStats) float64 {
	if stats.Rounds == 0 {
		return 0
	}
	c := e.cfg.Eval
	total := c.WinCost*float64(stats.Outcomes[env.OutcomeWin]) +
		c.BlackjackCost*float64(stats.Outcomes[env.OutcomeBlackjack]) +
		c.PushCost*float64(stats.Outcomes[env.OutcomePush]) +
		c.LossCost*float64(stats.Outcomes[env.OutcomeLoss]) +
		c.BustCost*float64(stats.Outcomes[env.OutcomeBust])
	return total / float64(stats.Rounds)
}
