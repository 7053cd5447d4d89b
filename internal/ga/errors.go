package ga

import "errors"

var (
	ErrPopulationSize  = errors.New("population size must be positive and a multiple of four")
	ErrNilStrategy     = errors.New("strategy must not be nil")
	ErrOutOfDomain     = errors.New("parameter out of domain")
	ErrNegativeGene    = errors.New("gene must be non-negative")
	ErrSameParent      = errors.New("father and mother must be distinct agents")
	ErrSelfParent      = errors.New("agent cannot be its own parent")
	ErrGeneLength      = errors.New("gene vector lengths differ")
	ErrEmptyPopulation = errors.New("population is empty")
	ErrInvalidCost     = errors.New("cost must be a finite non-negative number")
)
