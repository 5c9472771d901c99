package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

var ErrNotANumber = errors.New("not a number")

// Human reads moves from a line-oriented input. Cells are numbered 1-9.
type Human struct {
	mark    entity.Mark
	scanner *bufio.Scanner
	out     io.Writer
}

func NewHuman(mark entity.Mark, in io.Reader, out io.Writer) *Human {
	return &Human{
		mark:    mark,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

func (that *Human) Mark() entity.Mark {
	return that.mark
}

// MakeMove prompts until a legal cell is entered. It only fails when the input
// ends or ctx is done.
func (that *Human) MakeMove(ctx context.Context, board entity.Board) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fmt.Fprint(that.out, board.String())
		fmt.Fprintf(that.out, "Your next move as %s (cell index 1-9): ", that.mark)

		if !that.scanner.Scan() {
			if err := that.scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read move: %w", err)
			}

			return 0, io.EOF
		}

		move, err := parseMove(that.scanner.Text(), board)
		if err != nil {
			fmt.Fprintf(that.out, "Invalid move (%v); try again\n", err)
			continue
		}

		return move, nil
	}
}

func (that *Human) AbsorbReward(_ context.Context, _ float64, _ entity.Board) error {
	return nil
}

// parseMove converts a 1-based cell number into a legal 0-based action.
func parseMove(input string, board entity.Board) (int, error) {
	number, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, ErrNotANumber
	}

	move := number - 1
	if move < 0 || move >= entity.BoardSize {
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidCell, number)
	}

	if !board.IsLegal(move) {
		return 0, fmt.Errorf("%w: %d", apperror.ErrCellOccupied, number)
	}

	return move, nil
}
