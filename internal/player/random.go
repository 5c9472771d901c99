package player

import (
	"context"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// Random plays a uniformly random legal cell and never learns.
type Random struct {
	mark entity.Mark
	rng  *rand.Rand
}

func NewRandom(mark entity.Mark, rng *rand.Rand) *Random {
	return &Random{
		mark: mark,
		rng:  rng,
	}
}

func (that *Random) Mark() entity.Mark {
	return that.mark
}

func (that *Random) MakeMove(_ context.Context, board entity.Board) (int, error) {
	availableCells := board.LegalActions()
	if len(availableCells) == 0 {
		return 0, apperror.ErrNoLegalActions
	}

	return availableCells[that.rng.Intn(len(availableCells))], nil
}

func (that *Random) AbsorbReward(_ context.Context, _ float64, _ entity.Board) error {
	return nil
}
