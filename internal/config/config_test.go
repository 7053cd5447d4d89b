package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("ga:\n  population: 40\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.GA.Population != 40 {
		t.Fatalf("population = %d", cfg.GA.Population)
	}
	if cfg.Seed != 1337 || cfg.GA.Steepness != 12 || cfg.Eval.Rounds != 2000 || cfg.Logging.CSVPath != "runs/run.csv" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Store.Path != "" || cfg.Metrics.Addr != "" {
		t.Fatalf("store and metrics should default to disabled")
	}
}

func TestParseKeepsExplicitZeros(t *testing.T) {
	doc := strings.Join([]string{
		"seed: 0",
		"ga:",
		"  mutation_rate: 0",
		"  crossover_bias: 0",
		"eval:",
		"  push_cost: 0",
		"  loss_cost: 0",
	}, "\n")
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Seed != 0 || cfg.GA.MutationRate != 0 || cfg.GA.CrossoverBias != 0 {
		t.Fatalf("explicit ga zeros replaced: seed=%d %+v", cfg.Seed, cfg.GA)
	}
	if cfg.Eval.PushCost != 0 || cfg.Eval.LossCost != 0 || cfg.Eval.BustCost != 2 {
		t.Fatalf("explicit eval zeros replaced: %+v", cfg.Eval)
	}
	if cfg.GA.Population != 200 {
		t.Fatalf("absent population = %d, want default 200", cfg.GA.Population)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"population": "ga:\n  population: 42\n",
		"mutation":   "ga:\n  mutation_rate: 1.5\n",
		"bias":       "ga:\n  crossover_bias: -0.2\n",
		"steepness":  "ga:\n  steepness: 0.5\n",
		"workers":    "ga:\n  workers: -1\n",
		"zero pop":   "ga:\n  population: 0\n",
		"cost":       "eval:\n  loss_cost: -2\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Parse([]byte("ga: [")); err == nil {
		t.Fatalf("malformed yaml should fail")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.yaml")
	doc := strings.Join([]string{
		"seed: 7",
		"ga:",
		"  population: 16",
		"  generations: 3",
		"  workers: 2",
		"eval:",
		"  rounds: 50",
		"store:",
		"  path: runs/history.db",
	}, "\n")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Seed != 7 || cfg.GA.Workers != 2 || cfg.Eval.Rounds != 50 || cfg.Store.Path != "runs/history.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
