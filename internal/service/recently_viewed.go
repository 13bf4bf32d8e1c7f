package service

import (
	"context"
	"strings"

	"github.com/zrg-storefront/internal/constants"
	"github.com/zrg-storefront/internal/models"
)

// RecentlyViewed 最近浏览列表，按 id 去重，最新在前，最多保留 10 条
type RecentlyViewed struct {
	key       string
	limit     int
	items     []models.Script
	snapshots *SnapshotStore
}

// NewRecentlyViewed 创建空列表
func NewRecentlyViewed(key string, snapshots *SnapshotStore) *RecentlyViewed {
	return &RecentlyViewed{key: key, limit: constants.RecentlyViewedLimit, snapshots: snapshots}
}

// LoadRecentlyViewed 从快照恢复，丢弃无 id 的条目；快照损坏时直接删除
func LoadRecentlyViewed(ctx context.Context, key string, snapshots *SnapshotStore) *RecentlyViewed {
	store := NewRecentlyViewed(key, snapshots)
	var persisted []models.Script
	switch snapshots.LoadState(ctx, key, &persisted) {
	case SnapshotLoaded:
		store.items = store.sanitize(persisted)
	case SnapshotCorrupt:
		snapshots.Remove(ctx, key)
	}
	return store
}

// Push 记录一次浏览，无 id 的脚本被忽略
func (r *RecentlyViewed) Push(ctx context.Context, script models.Script) {
	id := strings.TrimSpace(script.ID)
	if id == "" {
		return
	}
	script.ID = id
	next := make([]models.Script, 0, len(r.items)+1)
	next = append(next, script)
	for _, item := range r.items {
		if item.ID != id {
			next = append(next, item)
		}
	}
	if len(next) > r.limit {
		next = next[:r.limit]
	}
	r.items = next
	r.snapshots.Save(ctx, r.key, r.items)
}

// Items 最新在前
func (r *RecentlyViewed) Items() []models.Script {
	out := make([]models.Script, len(r.items))
	copy(out, r.items)
	return out
}

// Len 条目数量
func (r *RecentlyViewed) Len() int {
	return len(r.items)
}

// Clear 清空并删除持久化 key
func (r *RecentlyViewed) Clear(ctx context.Context) {
	r.items = nil
	r.snapshots.Remove(ctx, r.key)
}

func (r *RecentlyViewed) sanitize(items []models.Script) []models.Script {
	out := make([]models.Script, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		item.ID = id
		out = append(out, item)
		if len(out) == r.limit {
			break
		}
	}
	return out
}
