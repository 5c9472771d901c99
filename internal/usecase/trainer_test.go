package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

var (
	errSomeError  = errors.New("some error")
	errRedisDown  = errors.New("redis down")
	errBadWeights = errors.New("bad weights")
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrainer_Run(t *testing.T) {
	ctx := context.Background()
	weights := []byte("weights")

	t.Run("Plays every episode and saves on interval and at the end", func(t *testing.T) {
		// Given: five scripted game results for a learner playing X
		player := &mockGamePlayer{}
		player.On("Play", mock.Anything).Return(resultWonBy(entity.PlayerX), nil).Once()
		player.On("Play", mock.Anything).Return(resultWonBy(entity.PlayerO), nil).Once()
		player.On("Play", mock.Anything).Return(tiedResult(), nil).Once()
		player.On("Play", mock.Anything).Return(resultWonBy(entity.PlayerX), nil).Twice()

		model := &mockMarshaler{}
		model.On("Marshal").Return(weights, nil).Times(3)

		repo := &mockModelRepo{}
		repo.On("Save", mock.Anything, "default", weights).Return(nil).Times(3)

		trainer := NewTrainer(newLogger(), player, entity.PlayerX, model, repo, TrainerConfig{
			ModelName:      "default",
			Episodes:       5,
			ReportInterval: 2,
			SaveInterval:   2,
		})

		// When: training runs
		stats, err := trainer.Run(ctx)

		// Then: the tallies match and the model was saved after episodes 2, 4 and 5
		require.NoError(t, err)
		assert.Equal(t, 5, stats.Episodes)
		assert.Equal(t, 3, stats.Wins)
		assert.Equal(t, 1, stats.Losses)
		assert.Equal(t, 1, stats.Ties)
		assert.InDelta(t, 60.0, stats.WinRate(), 1e-9)
		player.AssertExpectations(t)
		model.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("Returns ErrNoEpisodes when nothing is configured", func(t *testing.T) {
		trainer := NewTrainer(newLogger(), &mockGamePlayer{}, entity.PlayerX, &mockMarshaler{}, &mockModelRepo{}, TrainerConfig{})

		_, err := trainer.Run(ctx)

		assert.ErrorIs(t, err, ErrNoEpisodes)
	})

	t.Run("Stops when a game fails", func(t *testing.T) {
		// Given: the second game fails
		player := &mockGamePlayer{}
		player.On("Play", mock.Anything).Return(resultWonBy(entity.PlayerX), nil).Once()
		player.On("Play", mock.Anything).Return(nil, errSomeError).Once()

		repo := &mockModelRepo{}
		trainer := NewTrainer(newLogger(), player, entity.PlayerX, &mockMarshaler{}, repo, TrainerConfig{
			ModelName: "default",
			Episodes:  3,
		})

		// When: training runs
		stats, err := trainer.Run(ctx)

		// Then: the error surfaces with the stats so far and nothing is saved
		require.ErrorIs(t, err, errSomeError)
		assert.Equal(t, 1, stats.Episodes)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Saves and reports cancellation", func(t *testing.T) {
		// Given: a context cancelled before training starts
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		model := &mockMarshaler{}
		model.On("Marshal").Return(weights, nil).Once()
		repo := &mockModelRepo{}
		repo.On("Save", mock.Anything, "default", weights).Return(nil).Once()

		trainer := NewTrainer(newLogger(), &mockGamePlayer{}, entity.PlayerX, model, repo, TrainerConfig{
			ModelName: "default",
			Episodes:  10,
		})

		// When: training runs
		stats, err := trainer.Run(cancelled)

		// Then: the model is still saved and the cancellation is returned
		require.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, stats.Episodes)
		repo.AssertExpectations(t)
	})

	t.Run("Fails when the model cannot be saved", func(t *testing.T) {
		player := &mockGamePlayer{}
		player.On("Play", mock.Anything).Return(tiedResult(), nil).Once()

		model := &mockMarshaler{}
		model.On("Marshal").Return(weights, nil).Once()
		repo := &mockModelRepo{}
		repo.On("Save", mock.Anything, "default", weights).Return(errRedisDown).Once()

		trainer := NewTrainer(newLogger(), player, entity.PlayerX, model, repo, TrainerConfig{
			ModelName: "default",
			Episodes:  1,
		})

		_, err := trainer.Run(ctx)

		require.ErrorIs(t, err, errRedisDown)
	})

	t.Run("Fails when the model cannot be serialised", func(t *testing.T) {
		player := &mockGamePlayer{}
		player.On("Play", mock.Anything).Return(tiedResult(), nil).Once()

		model := &mockMarshaler{}
		model.On("Marshal").Return(nil, errBadWeights).Once()

		trainer := NewTrainer(newLogger(), player, entity.PlayerO, model, &mockModelRepo{}, TrainerConfig{
			ModelName: "default",
			Episodes:  1,
		})

		stats, err := trainer.Run(ctx)

		require.ErrorIs(t, err, errBadWeights)
		assert.Equal(t, 1, stats.Ties)
	})
}
