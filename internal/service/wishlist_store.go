package service

import (
	"context"
	"strings"

	"github.com/zrg-storefront/internal/models"
)

// WishlistStore 心愿单状态容器，按 slug 唯一，保持加入顺序
type WishlistStore struct {
	key       string
	items     []models.Script
	snapshots *SnapshotStore
}

// NewWishlistStore 创建空心愿单
func NewWishlistStore(key string, snapshots *SnapshotStore) *WishlistStore {
	return &WishlistStore{key: key, snapshots: snapshots}
}

// LoadWishlistStore 从快照恢复心愿单
func LoadWishlistStore(ctx context.Context, key string, snapshots *SnapshotStore) *WishlistStore {
	store := NewWishlistStore(key, snapshots)
	var persisted []models.Script
	if snapshots.Load(ctx, key, &persisted) {
		store.items = sanitizeWishlist(persisted)
	}
	return store
}

// Add 幂等加入
func (w *WishlistStore) Add(ctx context.Context, script models.Script) {
	slug := strings.TrimSpace(script.Slug)
	if slug == "" || w.indexOf(slug) >= 0 {
		return
	}
	script.Slug = slug
	w.items = append(w.items, script)
	w.persist(ctx)
}

// Remove 幂等删除
func (w *WishlistStore) Remove(ctx context.Context, slug string) {
	idx := w.indexOf(slug)
	if idx < 0 {
		return
	}
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	w.persist(ctx)
}

// Contains 是否包含指定 slug
func (w *WishlistStore) Contains(slug string) bool {
	return w.indexOf(slug) >= 0
}

// Get 获取单个条目
func (w *WishlistStore) Get(slug string) (models.Script, bool) {
	idx := w.indexOf(slug)
	if idx < 0 {
		return models.Script{}, false
	}
	return w.items[idx], true
}

// Items 按加入顺序返回副本
func (w *WishlistStore) Items() []models.Script {
	out := make([]models.Script, len(w.items))
	copy(out, w.items)
	return out
}

// Len 条目数量
func (w *WishlistStore) Len() int {
	return len(w.items)
}

func (w *WishlistStore) indexOf(slug string) int {
	normalized := strings.TrimSpace(slug)
	if normalized == "" {
		return -1
	}
	for i := range w.items {
		if w.items[i].Slug == normalized {
			return i
		}
	}
	return -1
}

func (w *WishlistStore) persist(ctx context.Context) {
	items := w.items
	if items == nil {
		items = []models.Script{}
	}
	w.snapshots.Save(ctx, w.key, items)
}

func sanitizeWishlist(items []models.Script) []models.Script {
	out := make([]models.Script, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		slug := strings.TrimSpace(item.Slug)
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		item.Slug = slug
		out = append(out, item)
	}
	return out
}
