package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rl/internal/apperror"
)

type ModelRepository interface {
	Save(ctx context.Context, name string, data []byte) error
	Load(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}

type dbModel struct {
	client *redis.Client
}

func NewModelRepository(client *redis.Client) ModelRepository {
	return &dbModel{
		client: client,
	}
}

// Save stores the serialised network and stamps its save time.
func (that *dbModel) Save(ctx context.Context, name string, data []byte) error {
	_, err := that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, modelKey(name), data, 0)
		pipe.HSet(ctx, modelMetaKey(name), "saved_at", time.Now().UTC().Format(time.RFC3339), "size", len(data))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	return nil
}

func (that *dbModel) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := that.client.Get(ctx, modelKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrModelNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get model by name: %w", err)
	}

	return data, nil
}

func (that *dbModel) Delete(ctx context.Context, name string) error {
	deleted, err := that.client.Del(ctx, modelKey(name), modelMetaKey(name)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete model: %w", err)
	}

	if deleted == 0 {
		return apperror.ErrModelNotFound
	}

	return nil
}

func modelKey(name string) string {
	return "model:" + name
}

func modelMetaKey(name string) string {
	return "model:" + name + ":meta"
}
