package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"blackjackga/internal/config"
	"blackjackga/internal/env"
	"blackjackga/internal/eval"
	"blackjackga/internal/logging"
	"blackjackga/internal/policy"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to config file")
	championPath := flag.String("champion", "artifacts/champion_final.json", "path to champion JSON")
	seed := flag.Uint64("seed", 12345, "random seed for the shoe and the policy")
	rounds := flag.Int("rounds", 0, "rounds to play (0 = eval.rounds from config)")
	replayPath := flag.String("replay", "", "write the played rounds to this JSON file")
	noMatrix := flag.Bool("no-matrix", false, "skip printing the hit probability matrix")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *rounds > 0 {
		cfg.Eval.Rounds = *rounds
	}

	champion, err := logging.LoadChampion(*championPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading champion: %v\n", err)
		os.Exit(1)
	}
	agent, err := policy.FromGenes(champion.Genes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading champion: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Loaded champion from gen %d (cost=%.4f)\n", champion.Generation, champion.Cost)
	fmt.Printf("Config: %s, Seed: %d, Rounds: %d\n", *configPath, *seed, cfg.Eval.Rounds)
	fmt.Println()

	if !*noMatrix {
		lines, err := policy.FormatMatrix(agent.Weights())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting policy: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Hit probability by dealer up-card (rows) and hand score (columns):")
		for _, line := range lines {
			fmt.Println(line)
		}
		fmt.Println()
	}

	rng := rand.New(rand.NewPCG(*seed, 0))
	game := env.NewGame(cfg.Eval.Decks, rng)
	evaluator := eval.NewEvaluator(cfg)

	var replay *env.Replay
	if *replayPath != "" {
		replay = env.NewReplay(*seed, cfg.Eval.Decks)
	}
	stats := evaluator.PlaySession(agent, game, rng, replay)

	fmt.Println("=== Session Stats ===")
	fmt.Printf("Rounds:       %d\n", stats.Rounds)
	for _, o := range []env.Outcome{env.OutcomeWin, env.OutcomeBlackjack, env.OutcomePush, env.OutcomeLoss, env.OutcomeBust} {
		fmt.Printf("%-13s %6d (%5.1f%%)\n", o.String()+":", stats.Outcomes[o], 100*stats.Rate(o))
	}
	fmt.Printf("Payoff:       %+.4f ± %.4f per round\n", stats.PayoffMean, stats.PayoffStd)
	fmt.Printf("Hit fraction: %.3f over %d decisions\n", stats.HitFraction, stats.Decisions)
	fmt.Printf("Cost:         %.4f\n", evaluator.ComputeCost(stats))

	if replay != nil {
		replay.Finish()
		if err := replay.Save(*replayPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving replay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Replay saved to %s\n", *replayPath)
	}
}
