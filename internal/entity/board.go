package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
)

// Mark is the content of a single board cell.
type Mark string

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	EmptyCell Mark = ""
)

const BoardSize = 9

// WinCombos lists the rows, then the columns, then the two diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return EmptyCell
	}
}

func (that Mark) IsPlayer() bool {
	return that == PlayerX || that == PlayerO
}

// ParseMark accepts "X" or "O" in any case.
func ParseMark(s string) (Mark, error) {
	switch Mark(strings.ToUpper(strings.TrimSpace(s))) {
	case PlayerX:
		return PlayerX, nil
	case PlayerO:
		return PlayerO, nil
	default:
		return EmptyCell, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, s)
	}
}

// Board is a row-major snapshot of the grid, index = 3*row + col.
// It is a value type: Apply returns a new board and never mutates the receiver.
type Board [BoardSize]Mark

func NewBoard() Board {
	return Board{}
}

// LegalActions returns the empty cells in ascending order.
func (that Board) LegalActions() []int {
	actions := make([]int, 0, BoardSize)
	for i, cell := range that {
		if cell == EmptyCell {
			actions = append(actions, i)
		}
	}

	return actions
}

func (that Board) IsLegal(action int) bool {
	return action >= 0 && action < BoardSize && that[action] == EmptyCell
}

// Winner returns the mark that completed a line, or EmptyCell.
// X lines are checked before O lines.
func (that Board) Winner() Mark {
	for _, mark := range [2]Mark{PlayerX, PlayerO} {
		for _, combo := range WinCombos {
			if that[combo[0]] == mark && that[combo[1]] == mark && that[combo[2]] == mark {
				return mark
			}
		}
	}

	return EmptyCell
}

func (that Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

// IsTerminal reports whether a line is complete or no empty cell remains.
func (that Board) IsTerminal() bool {
	return that.Winner() != EmptyCell || that.IsFull()
}

// Apply places mark on the cell and returns the resulting board.
func (that Board) Apply(action int, mark Mark) (Board, error) {
	if action < 0 || action >= BoardSize {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, action)
	}

	if !mark.IsPlayer() {
		return that, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	if that.IsTerminal() {
		return that, apperror.ErrGameFinished
	}

	if that[action] != EmptyCell {
		return that, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, action)
	}

	that[action] = mark

	return that, nil
}

// String renders the board as three "a|b|c" rows, empty cells as spaces.
func (that Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cell := that[3*row+col]
			if cell == EmptyCell {
				cells[col] = " "
			} else {
				cells[col] = string(cell)
			}
		}

		sb.WriteString(strings.Join(cells, "|"))
		sb.WriteByte('\n')
	}

	return sb.String()
}
