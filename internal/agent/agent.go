package agent

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/metrics"
)

// Params are the learning hyperparameters of an Agent.
type Params struct {
	Epsilon float64 // exploration rate
	Alpha   float64 // learning rate of the TD target
	Gamma   float64 // discount
}

func DefaultParams() Params {
	return Params{
		Epsilon: 0.4,
		Alpha:   0.3,
		Gamma:   0.9,
	}
}

type pendingMove struct {
	state  entity.Board
	action int
}

// Agent is an epsilon-greedy player that learns action values from terminal rewards.
// It is Idle until it moves, then AwaitingReward until AbsorbReward consumes the move.
// Games against one Agent must run sequentially.
type Agent struct {
	logger *slog.Logger

	approximator Approximator
	rng          *rand.Rand
	mark         entity.Mark
	params       Params
	learning     bool

	pending *pendingMove
}

func New(logger *slog.Logger, approximator Approximator, rng *rand.Rand, mark entity.Mark, params Params) *Agent {
	return &Agent{
		logger:       logger.With("component", "agent", "mark", string(mark)),
		approximator: approximator,
		rng:          rng,
		mark:         mark,
		params:       params,
		learning:     true,
	}
}

func (that *Agent) Mark() entity.Mark {
	return that.mark
}

func (that *Agent) Approximator() Approximator {
	return that.approximator
}

// SetEpsilon changes the exploration rate, 0 for pure exploitation.
func (that *Agent) SetEpsilon(epsilon float64) {
	that.params.Epsilon = epsilon
}

// SetLearning toggles TD updates. A frozen agent still consumes its pending
// move on reward but leaves the approximator untouched.
func (that *Agent) SetLearning(learning bool) {
	that.learning = learning
}

func (that *Agent) HasPendingMove() bool {
	return that.pending != nil
}

// MakeMove picks an action for board and remembers it until the next reward.
func (that *Agent) MakeMove(_ context.Context, board entity.Board) (int, error) {
	actions := board.LegalActions()
	if len(actions) == 0 {
		return 0, apperror.ErrNoLegalActions
	}

	var action int
	if that.rng.Float64() < that.params.Epsilon {
		action = actions[that.rng.Intn(len(actions))]
		metrics.MovesTotal.WithLabelValues("explore").Inc()
	} else {
		best, err := that.bestActions(board, actions)
		if err != nil {
			return 0, err
		}

		action = best[that.rng.Intn(len(best))]
		metrics.MovesTotal.WithLabelValues("exploit").Inc()
	}

	that.pending = &pendingMove{state: board, action: action}

	return action, nil
}

// AbsorbReward applies one TD update for the pending move, if any, then clears it.
// The continuation estimate is taken over the actions of the pending state, not of board.
func (that *Agent) AbsorbReward(_ context.Context, reward float64, _ entity.Board) error {
	if that.pending == nil {
		return nil
	}

	pending := that.pending
	that.pending = nil

	if !that.learning {
		return nil
	}

	features := Encode(pending.state, pending.action, that.mark)

	prevEstimate, err := that.approximator.Predict(features)
	if err != nil {
		return fmt.Errorf("failed to predict previous estimate: %w", err)
	}

	bestNext, err := that.maxEstimate(pending.state, pending.state.LegalActions())
	if err != nil {
		return fmt.Errorf("failed to predict continuation: %w", err)
	}

	target := prevEstimate + that.params.Alpha*(reward+that.params.Gamma*bestNext-prevEstimate)

	if err = that.approximator.Fit(features, target); err != nil {
		return fmt.Errorf("failed to fit approximator: %w", err)
	}

	metrics.TDUpdatesTotal.Inc()
	metrics.TDError.Observe(target - prevEstimate)

	that.logger.Debug("td update",
		"action", pending.action,
		"reward", reward,
		"prev", prevEstimate,
		"target", target,
	)

	return nil
}

// bestActions returns every action whose estimate equals the maximum.
func (that *Agent) bestActions(board entity.Board, actions []int) ([]int, error) {
	best := make([]int, 0, len(actions))
	var bestValue float64

	for i, action := range actions {
		value, err := that.approximator.Predict(Encode(board, action, that.mark))
		if err != nil {
			return nil, fmt.Errorf("failed to predict action %d: %w", action, err)
		}

		switch {
		case i == 0 || value > bestValue:
			bestValue = value
			best = append(best[:0], action)
		case value == bestValue:
			best = append(best, action)
		}
	}

	return best, nil
}

func (that *Agent) maxEstimate(board entity.Board, actions []int) (float64, error) {
	if len(actions) == 0 {
		return 0, apperror.ErrNoLegalActions
	}

	var best float64
	for i, action := range actions {
		value, err := that.approximator.Predict(Encode(board, action, that.mark))
		if err != nil {
			return 0, err
		}

		if i == 0 || value > best {
			best = value
		}
	}

	return best, nil
}
