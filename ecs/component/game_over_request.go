package component

// Outcome is the terminal result of a round.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// GameOverRequest is a one-shot request emitted by the contact system to ask
// the scene director to end the round.
//
// Systems only emit data; the director owns tearing the world down and
// building the next one.
type GameOverRequest struct {
	Outcome Outcome
}

var GameOverRequestComponent = NewComponent[GameOverRequest]()
