package env

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Replay stores the rounds of a session for later inspection
type Replay struct {
	Seed   uint64       `json:"seed"`
	Decks  int          `json:"decks"`
	Rounds []RoundStats `json:"rounds"`
	Final  SessionStats `json:"final_stats"`
}

// NewReplay creates a new replay recorder
func NewReplay(seed uint64, decks int) *Replay {
	return &Replay{
		Seed:   seed,
		Decks:  decks,
		Rounds: make([]RoundStats, 0, 64),
	}
}

// Record adds a round to the replay
func (r *Replay) Record(round RoundStats) {
	r.Rounds = append(r.Rounds, round)
}

// Finish aggregates the recorded rounds
func (r *Replay) Finish() SessionStats {
	r.Final = Aggregate(r.Rounds)
	return r.Final
}

// Save writes the replay to a file
func (r *Replay) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReplay loads a replay from a file
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
