package service

import (
	"context"
	"time"

	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/repository"

	jsoniter "github.com/json-iterator/go"
)

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultSnapshotTimeout = 2 * time.Second

// SnapshotStore 持久化适配器：Load 永不失败，Save 尽力而为
type SnapshotStore struct {
	repo    repository.SnapshotRepository
	timeout time.Duration
}

// NewSnapshotStore 创建持久化适配器
func NewSnapshotStore(repo repository.SnapshotRepository, timeout time.Duration) *SnapshotStore {
	if timeout <= 0 {
		timeout = defaultSnapshotTimeout
	}
	return &SnapshotStore{repo: repo, timeout: timeout}
}

// SnapshotState 读取快照的结果
type SnapshotState int

const (
	// SnapshotMissing key 不存在或存储不可用
	SnapshotMissing SnapshotState = iota
	// SnapshotLoaded 已成功解码到 dest
	SnapshotLoaded
	// SnapshotCorrupt key 存在但内容无法解析
	SnapshotCorrupt
)

// Load 读取并反序列化到 dest；缺失、解析失败、存储异常均返回 false，此时 dest 内容不可用
func (s *SnapshotStore) Load(ctx context.Context, key string, dest interface{}) bool {
	return s.LoadState(ctx, key, dest) == SnapshotLoaded
}

// LoadState 与 Load 相同，但区分缺失与损坏
func (s *SnapshotStore) LoadState(ctx context.Context, key string, dest interface{}) SnapshotState {
	if s == nil || s.repo == nil {
		return SnapshotMissing
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, found, err := s.repo.Get(ctx, key)
	if err != nil {
		logger.Warnw("snapshot_load_failed", "key", key, "error", err)
		return SnapshotMissing
	}
	if !found || len(raw) == 0 {
		return SnapshotMissing
	}
	if err := snapshotJSON.Unmarshal(raw, dest); err != nil {
		logger.Warnw("snapshot_decode_failed", "key", key, "error", err)
		return SnapshotCorrupt
	}
	return SnapshotLoaded
}

// Save 整体覆盖写入，失败只记录日志
func (s *SnapshotStore) Save(ctx context.Context, key string, value interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	payload, err := snapshotJSON.Marshal(value)
	if err != nil {
		logger.Warnw("snapshot_encode_failed", "key", key, "error", err)
		return
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Put(ctx, key, payload); err != nil {
		logger.Warnw("snapshot_save_failed", "key", key, "error", err)
	}
}

// Remove 删除快照，失败只记录日志
func (s *SnapshotStore) Remove(ctx context.Context, key string) {
	if s == nil || s.repo == nil {
		return
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Delete(ctx, key); err != nil {
		logger.Warnw("snapshot_remove_failed", "key", key, "error", err)
	}
}

func (s *SnapshotStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}
