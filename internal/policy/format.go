package policy

import (
	"fmt"
	"strings"

	"blackjackga/internal/env"
	"blackjackga/internal/ga"
)

const cellWidth = 7

// FormatMatrix renders the hit probability of every context as percentages.
// One block per has-ace value, one row per dealer up-card, one column per score.
func FormatMatrix(genes []ga.Gene) ([]string, error) {
	if len(genes) != GeneCount {
		return nil, fmt.Errorf("got %d genes, want %d: %w", len(genes), GeneCount, ga.ErrGeneLength)
	}

	var lines []string
	for _, hasAce := range []bool{false, true} {
		title := "no ace"
		if hasAce {
			title = "ace"
		}

		var header strings.Builder
		fmt.Fprintf(&header, "%-*s", cellWidth, title)
		for s := env.MinScore; s <= env.MaxScore; s++ {
			fmt.Fprintf(&header, "%*d", cellWidth, s)
		}
		lines = append(lines, header.String())

		for f := env.Ace; f <= env.King; f++ {
			var row strings.Builder
			fmt.Fprintf(&row, "%-*s", cellWidth, f)
			for s := env.MinScore; s <= env.MaxScore; s++ {
				i, err := Index(env.Context{Up: f, Score: s, HasAce: hasAce})
				if err != nil {
					return nil, err
				}
				fmt.Fprintf(&row, "%*.1f%%", cellWidth-1, 100*genes[i].Probability())
			}
			lines = append(lines, row.String())
		}
	}
	return lines, nil
}
