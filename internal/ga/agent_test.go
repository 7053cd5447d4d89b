package ga

import (
	"errors"
	"testing"
)

func TestInheritRejectsIdentityViolations(t *testing.T) {
	rng := newRNG(2)
	a := &testAgent{genes: []Gene{1, 2, 3}}
	b := &testAgent{genes: []Gene{1, 2, 3}}
	c := &testAgent{genes: []Gene{0, 0, 0}}

	if err := Inherit(c, a, a, rng, UniformCrossover{}, DefaultBias); !errors.Is(err, ErrSameParent) {
		t.Fatalf("same parent: got %v", err)
	}
	if err := Inherit(a, a, b, rng, UniformCrossover{}, DefaultBias); !errors.Is(err, ErrSelfParent) {
		t.Fatalf("child as father: got %v", err)
	}
	if err := Inherit(b, a, b, rng, UniformCrossover{}, DefaultBias); !errors.Is(err, ErrSelfParent) {
		t.Fatalf("child as mother: got %v", err)
	}

	short := &testAgent{genes: []Gene{1}}
	if err := Inherit(c, a, short, rng, UniformCrossover{}, DefaultBias); !errors.Is(err, ErrGeneLength) {
		t.Fatalf("length mismatch: got %v", err)
	}
}

func TestInheritStructurallyEqualParentsAreDistinct(t *testing.T) {
	a := &testAgent{genes: []Gene{9, 9}}
	b := &testAgent{genes: []Gene{9, 9}}
	c := &testAgent{genes: []Gene{0, 0}}
	if err := Inherit(c, a, b, newRNG(4), UniformCrossover{}, DefaultBias); err != nil {
		t.Fatalf("inherit: %v", err)
	}
	if c.genes[0] != 9 || c.genes[1] != 9 {
		t.Fatalf("child genes = %v, want [9 9]", c.genes)
	}
}

func TestInheritWritesInPlace(t *testing.T) {
	father := &testAgent{genes: []Gene{0b1010, 7, 100}}
	mother := &testAgent{genes: []Gene{0b0101, 1, 3}}
	child := &testAgent{genes: []Gene{5, 5, 5}}
	view := child.Weights()

	if err := Inherit(child, father, mother, newRNG(9), UniformCrossover{}, 1); err != nil {
		t.Fatalf("inherit: %v", err)
	}
	for i, g := range father.genes {
		if view[i] != g {
			t.Fatalf("gene %d = %d, want father's %d", i, view[i], g)
		}
	}
}
