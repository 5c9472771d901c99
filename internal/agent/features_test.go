package agent

import (
	"math/rand"
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	t.Run("Every block is one-hot", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7)) //nolint: gosec // deterministic tests
		marks := []entity.Mark{entity.PlayerX, entity.PlayerO, entity.EmptyCell}

		for trial := 0; trial < 200; trial++ {
			// Given: a random board and action
			var board entity.Board
			for i := range board {
				board[i] = marks[rng.Intn(len(marks))]
			}
			action := rng.Intn(entity.BoardSize)

			// When: encoding it
			features := Encode(board, action, entity.PlayerX)

			// Then: the vector has 36 values with one 1 per cell block and one in the action block
			require.Len(t, features, FeatureSize)
			for cell := 0; cell < entity.BoardSize; cell++ {
				block := features[cell*cellFeatures : (cell+1)*cellFeatures]
				assert.InDelta(t, 1.0, block[0]+block[1]+block[2], 1e-9)
			}

			var actionSum float64
			for _, v := range features[entity.BoardSize*cellFeatures:] {
				actionSum += v
			}
			assert.InDelta(t, 1.0, actionSum, 1e-9)
			assert.InDelta(t, 1.0, features[entity.BoardSize*cellFeatures+action], 1e-9)
		}
	})

	t.Run("Cell triples are ordered own, opponent, empty", func(t *testing.T) {
		// Given: X in cell 0, O in cell 1, cell 2 empty
		board := entity.Board{entity.PlayerX, entity.PlayerO}

		// When: encoding from X's and from O's side
		asX := Encode(board, 2, entity.PlayerX)
		asO := Encode(board, 2, entity.PlayerO)

		// Then: the own-mark indicator follows the perspective
		assert.Equal(t, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, asX[:9])
		assert.Equal(t, []float64{0, 1, 0, 1, 0, 0, 0, 0, 1}, asO[:9])
	})
}
