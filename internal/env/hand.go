package env

// Hand is the set of cards held by the player or the dealer
type Hand struct {
	Cards []Face
}

// Add puts a card into the hand
func (h *Hand) Add(f Face) {
	h.Cards = append(h.Cards, f)
}

// Low returns the total with every ace counted as 1
func (h *Hand) Low() int {
	total := 0
	for _, c := range h.Cards {
		total += c.Value()
	}
	return total
}

// HasAce reports whether the hand holds at least one ace
func (h *Hand) HasAce() bool {
	for _, c := range h.Cards {
		if c == Ace {
			return true
		}
	}
	return false
}

// Total returns the best total, counting one ace as 11 when it does not bust
func (h *Hand) Total() int {
	low := h.Low()
	if h.HasAce() && low+10 <= 21 {
		return low + 10
	}
	return low
}

// Soft reports whether an ace is currently counted as 11
func (h *Hand) Soft() bool {
	return h.HasAce() && h.Low()+10 <= 21
}

// Busted reports whether the hand exceeds 21
func (h *Hand) Busted() bool {
	return h.Low() > 21
}

// Blackjack reports a natural 21 on the first two cards
func (h *Hand) Blackjack() bool {
	return len(h.Cards) == 2 && h.Total() == 21
}
