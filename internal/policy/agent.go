// Package policy holds the evolvable hit/stand policy for Blackjack.
//
// An agent keeps one gene per decision context. Contexts form a
// dealer up-card × low score × has-ace tensor flattened by Index.
package policy

import (
	"fmt"

	"blackjackga/internal/env"
	"blackjackga/internal/ga"
)

// GeneCount is the number of decision contexts
const GeneCount = env.NumFaces * env.NumScores * 2

// Index maps a decision context onto its flat gene position
func Index(c env.Context) (int, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("context %+v: %w", c, ga.ErrOutOfDomain)
	}
	ace := 0
	if c.HasAce {
		ace = 1
	}
	return (int(c.Up)*env.NumScores+(c.Score-env.MinScore))*2 + ace, nil
}

// ContextAt is the inverse of Index
func ContextAt(i int) env.Context {
	return env.Context{
		Up:     env.Face(i / (env.NumScores * 2)),
		Score:  env.MinScore + (i/2)%env.NumScores,
		HasAce: i%2 == 1,
	}
}

// Agent is a hit/stand policy backed by a gene table
type Agent struct {
	genes []ga.Gene
}

// New creates an agent whose genes are all zero
func New() *Agent {
	return &Agent{genes: make([]ga.Gene, GeneCount)}
}

// Random creates an agent with uniformly random genes
func Random(rng ga.Source) *Agent {
	a := New()
	for i := range a.genes {
		a.genes[i] = ga.RandomGene(rng)
	}
	return a
}

// FromGenes builds an agent from an exported gene vector
func FromGenes(genes []ga.Gene) (*Agent, error) {
	if len(genes) != GeneCount {
		return nil, fmt.Errorf("got %d genes, want %d: %w", len(genes), GeneCount, ga.ErrGeneLength)
	}
	for i, g := range genes {
		if g < 0 {
			return nil, fmt.Errorf("gene %d: %w", i, ga.ErrNegativeGene)
		}
	}
	return &Agent{genes: append([]ga.Gene(nil), genes...)}, nil
}

// Weights returns the gene table; writes go straight to the agent
func (a *Agent) Weights() []ga.Gene {
	return a.genes
}

// Gene returns the disposition toward hitting in context c
func (a *Agent) Gene(c env.Context) (ga.Gene, error) {
	i, err := Index(c)
	if err != nil {
		return 0, err
	}
	return a.genes[i], nil
}

// Hit decides by drawing against the context's gene; a gene of
// MaxGene always hits and a gene of zero always stands
func (a *Agent) Hit(c env.Context, rng ga.Source) bool {
	g, err := a.Gene(c)
	if err != nil {
		return false
	}
	return rng.Float64() < g.Probability()
}
