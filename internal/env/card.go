package env

import "math/rand/v2"

// Face is a card rank, Ace first
type Face int

const (
	Ace Face = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// NumFaces is the number of distinct card ranks
const NumFaces = 13

var faceNames = [NumFaces]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

func (f Face) String() string {
	if f < Ace || f > King {
		return "?"
	}
	return faceNames[f]
}

// Value returns the hard point value; aces count as 1
func (f Face) Value() int {
	if f >= Ten {
		return 10
	}
	return int(f) + 1
}

// Shoe deals from one or more shuffled 52-card decks
type Shoe struct {
	cards []Face
	pos   int
	rng   *rand.Rand
}

// NewShoe creates a shuffled shoe of the given number of decks
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{
		cards: make([]Face, 0, decks*52),
		rng:   rng,
	}
	for d := 0; d < decks*4; d++ {
		for f := Ace; f <= King; f++ {
			s.cards = append(s.cards, f)
		}
	}
	s.Shuffle()
	return s
}

// Shuffle restores all cards and shuffles them
func (s *Shoe) Shuffle() {
	s.rng.Shuffle(len(s.cards), func(i, j int) {
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	})
	s.pos = 0
}

// NeedsShuffle reports whether the cut card (75% penetration) was reached
func (s *Shoe) NeedsShuffle() bool {
	return s.pos >= len(s.cards)*3/4
}

// Draw deals the next card, reshuffling an exhausted shoe
func (s *Shoe) Draw() Face {
	if s.pos >= len(s.cards) {
		s.Shuffle()
	}
	f := s.cards[s.pos]
	s.pos++
	return f
}

// Remaining returns the number of undealt cards
func (s *Shoe) Remaining() int {
	return len(s.cards) - s.pos
}
