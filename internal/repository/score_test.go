package repository

import (
	"testing"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rl/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRepository_RecordAndGet(t *testing.T) {
	ctx, st := suite.New(t)

	scoreRepo := NewScoreRepository(st.Storage)

	// Given: two wins, a loss and a tie
	for _, outcome := range []entity.Outcome{entity.OutcomeWin, entity.OutcomeWin, entity.OutcomeLose, entity.OutcomeTie} {
		require.NoError(t, scoreRepo.Record(ctx, "default", outcome))
	}

	// When: reading the score
	score, err := scoreRepo.Get(ctx, "default")

	// Then: the tallies match
	require.NoError(t, err)
	assert.Equal(t, &Score{Wins: 2, Losses: 1, Ties: 1}, score)
	assert.Equal(t, int64(4), score.Games())
}

func TestScoreRepository_Get(t *testing.T) {
	t.Run("Unknown name is a zero score", func(t *testing.T) {
		ctx, st := suite.New(t)

		scoreRepo := NewScoreRepository(st.Storage)

		score, err := scoreRepo.Get(ctx, "nobody")

		require.NoError(t, err)
		assert.Equal(t, &Score{}, score)
	})

	t.Run("Corrupt counter is an error", func(t *testing.T) {
		ctx, st := suite.New(t)

		scoreRepo := NewScoreRepository(st.Storage)
		require.NoError(t, st.Storage.HSet(ctx, "score:broken", "win", "many").Err())

		_, err := scoreRepo.Get(ctx, "broken")

		require.Error(t, err)
	})
}

func TestScoreRepository_Reset(t *testing.T) {
	ctx, st := suite.New(t)

	scoreRepo := NewScoreRepository(st.Storage)
	require.NoError(t, scoreRepo.Record(ctx, "default", entity.OutcomeWin))

	// When: the score is reset
	require.NoError(t, scoreRepo.Reset(ctx, "default"))

	// Then: it reads back as zero
	score, err := scoreRepo.Get(ctx, "default")
	require.NoError(t, err)
	assert.Zero(t, score.Games())
}
