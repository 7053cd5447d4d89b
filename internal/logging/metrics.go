package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"blackjackga/internal/ga"
)

// Logger handles all training output and artifact saving
type Logger struct {
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	console     *slog.Logger
	initialized bool
}

// NewLogger creates a new logger. console may be nil to silence
// per-generation console lines.
func NewLogger(csvPath, jsonPath string, console *slog.Logger) (*Logger, error) {
	l := &Logger{
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  console,
	}

	// Ensure directories exist
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// NewConsole returns a text slog logger writing to w at the named level
func NewConsole(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Init initializes the log files
func (l *Logger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{"generation", "min_cost", "max_cost", "mean_cost", "count"}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close closes all log files
func (l *Logger) Close() error {
	var first error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		first = l.csvWriter.Error()
	}
	if l.csvFile != nil {
		if err := l.csvFile.Close(); err != nil && first == nil {
			first = err
		}
	}
	if l.jsonFile != nil {
		if err := l.jsonFile.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.initialized = false
	return first
}

// GenerationSummary holds per-generation statistics
type GenerationSummary struct {
	Generation int     `json:"generation"`
	MinCost    float64 `json:"min_cost"`
	MaxCost    float64 `json:"max_cost"`
	MeanCost   float64 `json:"mean_cost"`
	Count      int     `json:"count"`
}

// LogGeneration appends one CSV row and one JSON line, and prints a
// console line when a console logger is set.
func (l *Logger) LogGeneration(gen int, stats ga.CostStats) error {
	if !l.initialized {
		return nil
	}

	summary := GenerationSummary{
		Generation: gen,
		MinCost:    stats.Min,
		MaxCost:    stats.Max,
		MeanCost:   stats.Mean,
		Count:      stats.Count,
	}

	row := []string{
		strconv.Itoa(gen),
		strconv.FormatFloat(summary.MinCost, 'f', 4, 64),
		strconv.FormatFloat(summary.MaxCost, 'f', 4, 64),
		strconv.FormatFloat(summary.MeanCost, 'f', 4, 64),
		strconv.Itoa(summary.Count),
	}
	if err := l.csvWriter.Write(row); err != nil {
		return err
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return err
	}

	jsonLine, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	if _, err := l.jsonFile.Write(append(jsonLine, '\n')); err != nil {
		return err
	}

	if l.console != nil {
		l.console.Info("generation",
			"gen", gen,
			"min", summary.MinCost,
			"mean", summary.MeanCost,
			"max", summary.MaxCost,
		)
	}
	return nil
}

// Champion is the on-disk form of a saved policy
type Champion struct {
	RunID      string    `json:"run_id,omitempty"`
	Generation int       `json:"generation"`
	Cost       float64   `json:"cost"`
	Genes      []ga.Gene `json:"genes"`
}

// SaveChampion saves the champion genes to a file
func SaveChampion(path string, champion Champion) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(champion, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonData, 0644)
}

// LoadChampion loads a champion from a file
func LoadChampion(path string) (*Champion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var saved Champion
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, err
	}
	if len(saved.Genes) == 0 {
		return nil, fmt.Errorf("champion %s has no genes", path)
	}

	return &saved, nil
}
