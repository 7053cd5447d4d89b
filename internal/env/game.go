package env

import "math/rand/v2"

// Outcome is the result of one round from the player's side
type Outcome int

const (
	OutcomeNone      Outcome = iota
	OutcomeWin               // beat the dealer or dealer busted
	OutcomeBlackjack         // natural 21
	OutcomePush              // tie
	OutcomeLoss              // dealer finished higher
	OutcomeBust              // player went over 21
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeWin:
		return "win"
	case OutcomeBlackjack:
		return "blackjack"
	case OutcomePush:
		return "push"
	case OutcomeLoss:
		return "loss"
	case OutcomeBust:
		return "bust"
	default:
		return "unknown"
	}
}

// Payoff returns the net units won for a one unit bet
func (o Outcome) Payoff() float64 {
	switch o {
	case OutcomeWin:
		return 1
	case OutcomeBlackjack:
		return 1.5
	case OutcomeLoss, OutcomeBust:
		return -1
	default:
		return 0
	}
}

// Decision records one hit/stand choice
type Decision struct {
	Context Context `json:"context"`
	Hit     bool    `json:"hit"`
}

// RoundStats captures a single round
type RoundStats struct {
	Outcome     Outcome    `json:"outcome"`
	PlayerTotal int        `json:"player_total"`
	DealerTotal int        `json:"dealer_total"`
	Decisions   []Decision `json:"decisions,omitempty"`
}

// DealerStand is the total at which the dealer stops drawing
const DealerStand = 17

// Game is a single-seat Blackjack table
type Game struct {
	shoe *Shoe

	Rounds int
}

// NewGame creates a table with its own shoe
func NewGame(decks int, rng *rand.Rand) *Game {
	return &Game{shoe: NewShoe(decks, rng)}
}

// PlayRound deals one round; hit is asked for every decision the player faces
func (g *Game) PlayRound(hit func(Context) bool) RoundStats {
	if g.shoe.NeedsShuffle() {
		g.shoe.Shuffle()
	}
	g.Rounds++

	var player, dealer Hand
	player.Add(g.shoe.Draw())
	dealer.Add(g.shoe.Draw())
	player.Add(g.shoe.Draw())
	dealer.Add(g.shoe.Draw())
	up := dealer.Cards[0]

	stats := RoundStats{}
	switch {
	case player.Blackjack() && dealer.Blackjack():
		return g.finish(stats, OutcomePush, &player, &dealer)
	case player.Blackjack():
		return g.finish(stats, OutcomeBlackjack, &player, &dealer)
	case dealer.Blackjack():
		return g.finish(stats, OutcomeLoss, &player, &dealer)
	}

	// Player acts until standing, reaching 21 or busting
	for player.Total() < 21 {
		ctx := ContextOf(up, &player)
		h := hit(ctx)
		stats.Decisions = append(stats.Decisions, Decision{Context: ctx, Hit: h})
		if !h {
			break
		}
		player.Add(g.shoe.Draw())
	}
	if player.Busted() {
		return g.finish(stats, OutcomeBust, &player, &dealer)
	}

	for dealer.Total() < DealerStand {
		dealer.Add(g.shoe.Draw())
	}

	switch p, d := player.Total(), dealer.Total(); {
	case dealer.Busted() || p > d:
		return g.finish(stats, OutcomeWin, &player, &dealer)
	case p == d:
		return g.finish(stats, OutcomePush, &player, &dealer)
	default:
		return g.finish(stats, OutcomeLoss, &player, &dealer)
	}
}

func (g *Game) finish(stats RoundStats, o Outcome, player, dealer *Hand) RoundStats {
	stats.Outcome = o
	stats.PlayerTotal = player.Total()
	stats.DealerTotal = dealer.Total()
	return stats
}
