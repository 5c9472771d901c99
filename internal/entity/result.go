package entity

// Outcome is a game result seen from one participant.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeTie  Outcome = "tie"
)

// Reward values distributed at the end of a game. Tie and loss share a value.
const (
	RewardWin  = 1.0
	RewardTie  = 0.0
	RewardLose = 0.0
)

// OutcomeFor returns the outcome of a finished board for the given mark.
func OutcomeFor(board Board, mark Mark) Outcome {
	switch winner := board.Winner(); winner {
	case EmptyCell:
		return OutcomeTie
	case mark:
		return OutcomeWin
	default:
		return OutcomeLose
	}
}

func (that Outcome) Reward() float64 {
	switch that {
	case OutcomeWin:
		return RewardWin
	case OutcomeLose:
		return RewardLose
	default:
		return RewardTie
	}
}
