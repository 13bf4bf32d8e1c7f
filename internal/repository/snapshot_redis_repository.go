package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotRepository Redis 实现，ttl 为 0 时不过期
type RedisSnapshotRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotRepository 创建 Redis 快照仓库
func NewRedisSnapshotRepository(client *redis.Client, ttl time.Duration) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{client: client, ttl: ttl}
}

// Get 读取快照
func (r *RedisSnapshotRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return nil, false, err
	}
	value, err := r.client.Get(ctx, normalized).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapSnapshotErr("redis", "get", err)
	}
	return value, true, nil
}

// Put 写入快照
func (r *RedisSnapshotRepository) Put(ctx context.Context, key string, value []byte) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	return wrapSnapshotErr("redis", "put", r.client.Set(ctx, normalized, value, r.ttl).Err())
}

// Delete 删除快照
func (r *RedisSnapshotRepository) Delete(ctx context.Context, key string) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	return wrapSnapshotErr("redis", "delete", r.client.Del(ctx, normalized).Err())
}
