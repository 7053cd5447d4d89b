package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Seed    uint64        `yaml:"seed"`
	GA      GAConfig      `yaml:"ga"`
	Eval    EvalConfig    `yaml:"eval"`
	Logging LogConfig     `yaml:"logging"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population    int     `yaml:"population"` // multiple of 4
	Generations   int     `yaml:"generations"`
	Workers       int     `yaml:"workers"` // 0 = GOMAXPROCS
	MutationRate  float64 `yaml:"mutation_rate"`
	CrossoverBias float64 `yaml:"crossover_bias"` // chance of taking the father's bit
	Steepness     float64 `yaml:"steepness"`      // sigmoid gradient scale, >= 1
}

// EvalConfig defines how a policy is scored
type EvalConfig struct {
	Rounds        int     `yaml:"rounds"`
	Decks         int     `yaml:"decks"`
	WinCost       float64 `yaml:"win_cost"`
	BlackjackCost float64 `yaml:"blackjack_cost"`
	PushCost      float64 `yaml:"push_cost"`
	LossCost      float64 `yaml:"loss_cost"`
	BustCost      float64 `yaml:"bust_cost"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level             string `yaml:"level"` // debug|info|warn|error
	EveryGenSummary   bool   `yaml:"every_gen_summary"`
	SaveChampionEvery int    `yaml:"save_champion_every"`
	ChampionDir       string `yaml:"champion_dir"`
	CSVPath           string `yaml:"csv_path"`
	JSONPath          string `yaml:"json_path"`
}

// StoreConfig defines where run history is persisted; empty disables it
type StoreConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig defines the Prometheus listener; empty disables it
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a YAML config file and returns a Config
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
// Keys absent from data keep their default; explicit zeros are kept.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 200
	}
	if cfg.GA.Generations == 0 {
		cfg.GA.Generations = 500
	}
	if cfg.GA.MutationRate == 0 {
		cfg.GA.MutationRate = 0.15
	}
	if cfg.GA.CrossoverBias == 0 {
		cfg.GA.CrossoverBias = 0.5
	}
	if cfg.GA.Steepness == 0 {
		cfg.GA.Steepness = 12
	}
	if cfg.Eval.Rounds == 0 {
		cfg.Eval.Rounds = 2000
	}
	if cfg.Eval.Decks == 0 {
		cfg.Eval.Decks = 6
	}
	if cfg.Eval.PushCost == 0 {
		cfg.Eval.PushCost = 1
	}
	if cfg.Eval.LossCost == 0 {
		cfg.Eval.LossCost = 2
	}
	if cfg.Eval.BustCost == 0 {
		cfg.Eval.BustCost = 2
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.SaveChampionEvery == 0 {
		cfg.Logging.SaveChampionEvery = 100
	}
	if cfg.Logging.ChampionDir == "" {
		cfg.Logging.ChampionDir = "artifacts"
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/run.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
}

// Validate checks every parameter against its domain
func (c *Config) Validate() error {
	if c.GA.Population <= 0 || c.GA.Population%4 != 0 {
		return fmt.Errorf("ga.population %d must be a positive multiple of 4", c.GA.Population)
	}
	if c.GA.Generations < 0 {
		return fmt.Errorf("ga.generations %d must not be negative", c.GA.Generations)
	}
	if c.GA.Workers < 0 {
		return fmt.Errorf("ga.workers %d must not be negative", c.GA.Workers)
	}
	if c.GA.MutationRate < 0 || c.GA.MutationRate > 1 {
		return fmt.Errorf("ga.mutation_rate %v not in [0, 1]", c.GA.MutationRate)
	}
	if c.GA.CrossoverBias < 0 || c.GA.CrossoverBias > 1 {
		return fmt.Errorf("ga.crossover_bias %v not in [0, 1]", c.GA.CrossoverBias)
	}
	if c.GA.Steepness < 1 {
		return fmt.Errorf("ga.steepness %v must be at least 1", c.GA.Steepness)
	}
	if c.Eval.Rounds <= 0 {
		return fmt.Errorf("eval.rounds %d must be positive", c.Eval.Rounds)
	}
	for name, v := range map[string]float64{
		"win_cost":       c.Eval.WinCost,
		"blackjack_cost": c.Eval.BlackjackCost,
		"push_cost":      c.Eval.PushCost,
		"loss_cost":      c.Eval.LossCost,
		"bust_cost":      c.Eval.BustCost,
	} {
		if v < 0 {
			return fmt.Errorf("eval.%s %v must not be negative", name, v)
		}
	}
	return nil
}
