package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rl/internal/entity"
)

// Score is a running tally seen from one side.
type Score struct {
	Wins   int64 `json:"wins"`
	Losses int64 `json:"losses"`
	Ties   int64 `json:"ties"`
}

func (that Score) Games() int64 {
	return that.Wins + that.Losses + that.Ties
}

type ScoreRepository interface {
	Record(ctx context.Context, name string, outcome entity.Outcome) error
	Get(ctx context.Context, name string) (*Score, error)
	Reset(ctx context.Context, name string) error
}

type dbScore struct {
	client *redis.Client
}

func NewScoreRepository(client *redis.Client) ScoreRepository {
	return &dbScore{
		client: client,
	}
}

func (that *dbScore) Record(ctx context.Context, name string, outcome entity.Outcome) error {
	if err := that.client.HIncrBy(ctx, scoreKey(name), string(outcome), 1).Err(); err != nil {
		return fmt.Errorf("failed to record score: %w", err)
	}

	return nil
}

// Get returns a zero score for an unknown name.
func (that *dbScore) Get(ctx context.Context, name string) (*Score, error) {
	fields, err := that.client.HGetAll(ctx, scoreKey(name)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get score: %w", err)
	}

	score := &Score{}
	for outcome, target := range map[entity.Outcome]*int64{
		entity.OutcomeWin:  &score.Wins,
		entity.OutcomeLose: &score.Losses,
		entity.OutcomeTie:  &score.Ties,
	} {
		raw, ok := fields[string(outcome)]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("failed to parse %s count: %w", outcome, err)
		}
	}

	return score, nil
}

func (that *dbScore) Reset(ctx context.Context, name string) error {
	if err := that.client.Del(ctx, scoreKey(name)).Err(); err != nil {
		return fmt.Errorf("failed to reset score: %w", err)
	}

	return nil
}

func scoreKey(name string) string {
	return "score:" + name
}
