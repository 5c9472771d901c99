package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/internal/repository"
	"github.com/rocketscienceinc/tictactoe-rl/internal/tictactoe"
)

type mockGamePlayer struct {
	mock.Mock
}

func (that *mockGamePlayer) Play(ctx context.Context) (*tictactoe.Result, error) {
	args := that.Called(ctx)
	result, _ := args.Get(0).(*tictactoe.Result)
	return result, args.Error(1)
}

type mockModelRepo struct {
	mock.Mock
}

func (that *mockModelRepo) Save(ctx context.Context, name string, data []byte) error {
	return that.Called(ctx, name, data).Error(0)
}

func (that *mockModelRepo) Load(ctx context.Context, name string) ([]byte, error) {
	args := that.Called(ctx, name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockMarshaler struct {
	mock.Mock
}

func (that *mockMarshaler) Marshal() ([]byte, error) {
	args := that.Called()
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type mockScoreRepo struct {
	mock.Mock
}

func (that *mockScoreRepo) Record(ctx context.Context, name string, outcome entity.Outcome) error {
	return that.Called(ctx, name, outcome).Error(0)
}

func (that *mockScoreRepo) Get(ctx context.Context, name string) (*repository.Score, error) {
	args := that.Called(ctx, name)
	score, _ := args.Get(0).(*repository.Score)
	return score, args.Error(1)
}

func resultWonBy(winner entity.Mark) *tictactoe.Result {
	board := entity.Board{}
	for _, cell := range entity.WinCombos[0] {
		board[cell] = winner
	}

	return &tictactoe.Result{
		ID:     "game",
		Board:  board,
		Winner: winner,
		First:  winner,
		Moves:  []int{0, 3, 1, 4, 2},
	}
}

func tiedResult() *tictactoe.Result {
	return &tictactoe.Result{
		ID: "tie",
		Board: entity.Board{
			entity.PlayerX, entity.PlayerO, entity.PlayerX,
			entity.PlayerX, entity.PlayerO, entity.PlayerO,
			entity.PlayerO, entity.PlayerX, entity.PlayerX,
		},
		Winner: entity.EmptyCell,
		First:  entity.PlayerX,
		Moves:  []int{0, 1, 2, 4, 3, 5, 7, 6, 8},
	}
}
