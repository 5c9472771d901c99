package tictactoe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/metrics"
)

// Participant is anything that can take a seat: a learning agent, a bot or a human.
type Participant interface {
	Mark() entity.Mark
	MakeMove(ctx context.Context, board entity.Board) (int, error)
	AbsorbReward(ctx context.Context, reward float64, board entity.Board) error
}

// Observer is notified about the board as the game progresses.
type Observer interface {
	MoveApplied(board entity.Board, mark entity.Mark, action int)
	GameOver(result *Result)
}

// Result describes a finished game.
type Result struct {
	ID     string
	Board  entity.Board
	Winner entity.Mark // EmptyCell on a tie
	First  entity.Mark
	Moves  []int
}

func (that *Result) Outcome(mark entity.Mark) entity.Outcome {
	return entity.OutcomeFor(that.Board, mark)
}

type GameController struct {
	logger   *slog.Logger
	seats    [2]Participant
	rng      *rand.Rand
	observer Observer
}

type Option func(*GameController)

func WithObserver(observer Observer) Option {
	return func(that *GameController) {
		that.observer = observer
	}
}

func NewGameController(logger *slog.Logger, first, second Participant, rng *rand.Rand, opts ...Option) (*GameController, error) {
	if !first.Mark().IsPlayer() || first.Mark().Opponent() != second.Mark() {
		return nil, fmt.Errorf("%w: seats hold %q and %q", apperror.ErrInvalidMark, first.Mark(), second.Mark())
	}

	controller := &GameController{
		logger: logger.With("component", "game_controller"),
		seats:  [2]Participant{first, second},
		rng:    rng,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller, nil
}

// Play runs one game from an empty board. The seat that moves first is drawn
// uniformly; the turn flag read before it flips names the mover.
func (that *GameController) Play(ctx context.Context) (*Result, error) {
	board := entity.NewBoard()
	turn := that.rng.Intn(len(that.seats))

	result := &Result{
		ID:    uuid.NewString(),
		First: that.seats[turn].Mark(),
		Moves: make([]int, 0, entity.BoardSize),
	}

	log := that.logger.With("game_id", result.ID)

	for !board.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mover := that.seats[turn]
		turn = 1 - turn

		action, err := mover.MakeMove(ctx, board)
		if err != nil {
			return nil, fmt.Errorf("%s failed to make move: %w", mover.Mark(), err)
		}

		board, err = board.Apply(action, mover.Mark())
		if err != nil {
			return nil, fmt.Errorf("%s made an illegal move: %w", mover.Mark(), err)
		}

		result.Moves = append(result.Moves, action)
		log.Debug("move applied", "mark", string(mover.Mark()), "cell", action)

		if that.observer != nil {
			that.observer.MoveApplied(board, mover.Mark(), action)
		}
	}

	result.Board = board
	result.Winner = board.Winner()

	if err := that.distributeRewards(ctx, board); err != nil {
		return result, err
	}

	metrics.GamesTotal.WithLabelValues(string(result.Outcome(that.seats[0].Mark()))).Inc()
	metrics.GameLength.Observe(float64(len(result.Moves)))

	log.Debug("game over", "winner", string(result.Winner), "moves", len(result.Moves))

	if that.observer != nil {
		that.observer.GameOver(result)
	}

	return result, nil
}

// distributeRewards calls AbsorbReward on both seats, even if the first fails.
func (that *GameController) distributeRewards(ctx context.Context, board entity.Board) error {
	var errs []error

	for _, seat := range that.seats {
		reward := entity.OutcomeFor(board, seat.Mark()).Reward()
		if err := seat.AbsorbReward(ctx, reward, board); err != nil {
			errs = append(errs, fmt.Errorf("%s failed to absorb reward: %w", seat.Mark(), err))
		}
	}

	return errors.Join(errs...)
}
