package repository

import (
	"context"
	"sync"
)

// MemorySnapshotRepository 进程内实现，用于测试与单机开发
type MemorySnapshotRepository struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemorySnapshotRepository 创建内存快照仓库
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{items: make(map[string][]byte)}
}

// Get 读取快照
func (r *MemorySnapshotRepository) Get(_ context.Context, key string) ([]byte, bool, error) {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return nil, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.items[normalized]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Put 写入快照
func (r *MemorySnapshotRepository) Put(_ context.Context, key string, value []byte) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	r.mu.Lock()
	r.items[normalized] = stored
	r.mu.Unlock()
	return nil
}

// Delete 删除快照
func (r *MemorySnapshotRepository) Delete(_ context.Context, key string) error {
	normalized, err := normalizeSnapshotKey(key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.items, normalized)
	r.mu.Unlock()
	return nil
}

// Len 当前快照数量
func (r *MemorySnapshotRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
