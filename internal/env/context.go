package env

const (
	// MinScore and MaxScore bound the low total of a hand that may still hit
	MinScore = 2
	MaxScore = 20
	// NumScores is the number of distinct decision scores
	NumScores = MaxScore - MinScore + 1
)

// Context is everything a player may see when deciding to hit
type Context struct {
	Up     Face `json:"up"`
	Score  int  `json:"score"`
	HasAce bool `json:"has_ace"`
}

// Valid reports whether the context lies inside the decision table
func (c Context) Valid() bool {
	return c.Up >= Ace && c.Up <= King && c.Score >= MinScore && c.Score <= MaxScore
}

// ContextOf extracts the decision context of a hand against a dealer up-card
func ContextOf(up Face, h *Hand) Context {
	return Context{
		Up:     up,
		Score:  h.Low(),
		HasAce: h.HasAce(),
	}
}
