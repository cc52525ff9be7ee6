package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"slide-generator/internal/model"
)

var _ PresentationRepository = (*redisRepository)(nil)

// redisRepository хранит JSON каждой презентации в отдельном ключе
// и sorted set {prefix}created (score = unix millis создания) для ретеншна.
type redisRepository struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisRepository creates a Redis-backed repository. Keys are namespaced with prefix.
func NewRedisRepository(client *redis.Client, prefix string, logger *zap.Logger) PresentationRepository {
	return &redisRepository{
		client: client,
		prefix: prefix,
		logger: logger.Named("RedisPresentationRepo"),
	}
}

func (r *redisRepository) key(id string) string {
	return r.prefix + "presentation:" + id
}

func (r *redisRepository) createdKey() string {
	return r.prefix + "created"
}

func (r *redisRepository) Put(ctx context.Context, p *model.Presentation) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: presentation id is required", model.ErrInvalidInput)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal presentation %s: %w", p.ID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(p.ID), data, 0)
		pipe.ZAdd(ctx, r.createdKey(), redis.Z{Score: float64(p.CreatedAt.UnixMilli()), Member: p.ID})
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to store presentation in redis", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to store presentation in redis: %w", err)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, id string) (*model.Presentation, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		r.logger.Error("Failed to get presentation from redis", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get presentation from redis: %w", err)
	}
	var p model.Presentation
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presentation %s: %w", id, err)
	}
	return &p, nil
}

func (r *redisRepository) Update(ctx context.Context, p *model.Presentation) error {
	if p == nil {
		return fmt.Errorf("%w: presentation is nil", model.ErrInvalidInput)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal presentation %s: %w", p.ID, err)
	}
	// SET XX: только если ключ уже существует
	ok, err := r.client.SetXX(ctx, r.key(p.ID), data, 0).Result()
	if err != nil {
		r.logger.Error("Failed to update presentation in redis", zap.String("id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to update presentation in redis: %w", err)
	}
	if !ok {
		return model.ErrNotFound
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, id string) error {
	var delCmd *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		delCmd = pipe.Del(ctx, r.key(id))
		pipe.ZRem(ctx, r.createdKey(), id)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to delete presentation from redis", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete presentation from redis: %w", err)
	}
	if delCmd.Val() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *redisRepository) ListExpired(ctx context.Context, before time.Time) ([]string, error) {
	ids, err := r.client.ZRangeByScore(ctx, r.createdKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(before.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list expired presentations: %w", err)
	}
	return ids, nil
}

func (r *redisRepository) Oldest(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := r.client.ZRange(ctx, r.createdKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list oldest presentations: %w", err)
	}
	return ids, nil
}

func (r *redisRepository) Count(ctx context.Context) (int, error) {
	n, err := r.client.ZCard(ctx, r.createdKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count presentations: %w", err)
	}
	return int(n), nil
}
