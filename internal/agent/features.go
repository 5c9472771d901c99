package agent

import "github.com/rocketscienceinc/tictactoe-rl/internal/entity"

const (
	cellFeatures   = 3
	actionFeatures = entity.BoardSize

	// FeatureSize is the length of an encoded (board, action) pair.
	FeatureSize = entity.BoardSize*cellFeatures + actionFeatures
)

// Encode builds the one-hot input for the approximator. Each cell contributes
// an (own, opponent, empty) triple seen from self, followed by nine action indicators.
func Encode(board entity.Board, action int, self entity.Mark) []float64 {
	features := make([]float64, FeatureSize)

	opponent := self.Opponent()
	for i, cell := range board {
		offset := i * cellFeatures
		switch cell {
		case self:
			features[offset] = 1
		case opponent:
			features[offset+1] = 1
		default:
			features[offset+2] = 1
		}
	}

	if action >= 0 && action < actionFeatures {
		features[entity.BoardSize*cellFeatures+action] = 1
	}

	return features
}
