package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
)

type scoreRepo interface {
	Record(ctx context.Context, name string, outcome entity.Outcome) error
	Get(ctx context.Context, name string) (*repository.Score, error)
}

// Session plays rounds between a human and the agent and keeps the agent's
// running score under the model name.
type Session struct {
	logger *slog.Logger

	controller gamePlayer
	agentMark  entity.Mark
	scoreRepo  scoreRepo
	modelName  string
	out        io.Writer
}

func NewSession(logger *slog.Logger, controller gamePlayer, agentMark entity.Mark, scoreRepo scoreRepo, modelName string, out io.Writer) *Session {
	return &Session{
		logger:     logger.With("component", "session"),
		controller: controller,
		agentMark:  agentMark,
		scoreRepo:  scoreRepo,
		modelName:  modelName,
		out:        out,
	}
}

// PlayRound plays one game, records it and prints the running score.
func (that *Session) PlayRound(ctx context.Context) (*tictactoe.Result, *repository.Score, error) {
	result, err := that.controller.Play(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to play round: %w", err)
	}

	if err = that.scoreRepo.Record(ctx, that.modelName, result.Outcome(that.agentMark)); err != nil {
		return result, nil, fmt.Errorf("failed to record score: %w", err)
	}

	score, err := that.scoreRepo.Get(ctx, that.modelName)
	if err != nil {
		return result, nil, fmt.Errorf("failed to get score: %w", err)
	}

	fmt.Fprintf(that.out, "Scores: AI %d - Human %d (ties %d)\n", score.Wins, score.Losses, score.Ties)

	return result, score, nil
}

// Run plays rounds until the human input ends or ctx is done.
func (that *Session) Run(ctx context.Context) error {
	for {
		_, _, err := that.PlayRound(ctx)

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			that.logger.Info("session ended")
			return nil
		default:
			return err
		}
	}
}

// ConsoleView renders the board after every move and announces the result.
type ConsoleView struct {
	out io.Writer
}

func NewConsoleView(out io.Writer) *ConsoleView {
	return &ConsoleView{out: out}
}

func (that *ConsoleView) MoveApplied(board entity.Board, mark entity.Mark, action int) {
	fmt.Fprintf(that.out, "\n%s plays %d\n%s", mark, action+1, board)
}

func (that *ConsoleView) GameOver(result *tictactoe.Result) {
	if result.Winner == entity.EmptyCell {
		fmt.Fprintln(that.out, "It's a tie!")
		return
	}

	fmt.Fprintf(that.out, "%s wins!\n", result.Winner)
}
