package service

import (
	"context"
	"strings"

	"github.com/zrg-storefront/internal/models"

	"github.com/shopspring/decimal"
)

// CartSummary 购物车金额汇总，税费不属于购物车状态
type CartSummary struct {
	Items     []models.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  models.Money      `json:"subtotal"`
	Tax       models.Money      `json:"tax"`
	Total     models.Money      `json:"total"`
}

// CartStore 购物车状态容器，按 slug 唯一，数量恒为正
// 不做加锁，由所属会话串行调用
type CartStore struct {
	key       string
	items     []models.LineItem
	snapshots *SnapshotStore
	onAdd     func()
}

// NewCartStore 创建空购物车，snapshots 为空时仅保存在内存
func NewCartStore(key string, snapshots *SnapshotStore) *CartStore {
	return &CartStore{key: key, snapshots: snapshots}
}

// LoadCartStore 从快照恢复购物车，非法行项目逐条丢弃
func LoadCartStore(ctx context.Context, key string, snapshots *SnapshotStore) *CartStore {
	store := NewCartStore(key, snapshots)
	var persisted []models.LineItem
	if snapshots.Load(ctx, key, &persisted) {
		store.items = sanitizeLineItems(persisted)
	}
	return store
}

// OnAdd 注册加入购物车后的回调（用于打开购物车面板）
func (c *CartStore) OnAdd(fn func()) {
	c.onAdd = fn
}

// Add 新增行项目（数量 1）或已有行数量加 1
func (c *CartStore) Add(ctx context.Context, script models.Script) {
	slug := strings.TrimSpace(script.Slug)
	if slug == "" {
		return
	}
	if idx := c.indexOf(slug); idx >= 0 {
		c.items[idx].Quantity++
	} else {
		script.Slug = slug
		c.items = append(c.items, models.LineItem{Script: script, Quantity: 1})
	}
	c.persist(ctx)
	if c.onAdd != nil {
		c.onAdd()
	}
}

// Remove 删除行项目，不存在时为空操作
func (c *CartStore) Remove(ctx context.Context, slug string) {
	idx := c.indexOf(slug)
	if idx < 0 {
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.persist(ctx)
}

// SetQuantity 数量 <= 0 等同 Remove；slug 不存在时不新建
func (c *CartStore) SetQuantity(ctx context.Context, slug string, quantity int) {
	if quantity <= 0 {
		c.Remove(ctx, slug)
		return
	}
	idx := c.indexOf(slug)
	if idx < 0 || c.items[idx].Quantity == quantity {
		return
	}
	c.items[idx].Quantity = quantity
	c.persist(ctx)
}

// Clear 清空购物车
func (c *CartStore) Clear(ctx context.Context) {
	if len(c.items) == 0 {
		return
	}
	c.items = nil
	c.persist(ctx)
}

// TotalItemCount 所有行数量之和
func (c *CartStore) TotalItemCount() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice 按折扣价优先计算的总价，不含税
func (c *CartStore) TotalPrice() models.Money {
	total := models.Money{}
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Contains 是否包含指定 slug
func (c *CartStore) Contains(slug string) bool {
	return c.indexOf(slug) >= 0
}

// Get 获取单个行项目
func (c *CartStore) Get(slug string) (models.LineItem, bool) {
	idx := c.indexOf(slug)
	if idx < 0 {
		return models.LineItem{}, false
	}
	return c.items[idx], true
}

// Items 按加入顺序返回副本
func (c *CartStore) Items() []models.LineItem {
	out := make([]models.LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len 行项目数量
func (c *CartStore) Len() int {
	return len(c.items)
}

// Summary 计算小计、税费与合计，税费四舍五入到分
func (c *CartStore) Summary(taxRate decimal.Decimal) CartSummary {
	subtotal := c.TotalPrice()
	tax := models.NewMoneyFromDecimal(subtotal.Decimal.Mul(taxRate))
	return CartSummary{
		Items:     c.Items(),
		ItemCount: c.TotalItemCount(),
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     subtotal.Add(tax),
	}
}

func (c *CartStore) indexOf(slug string) int {
	normalized := strings.TrimSpace(slug)
	if normalized == "" {
		return -1
	}
	for i := range c.items {
		if c.items[i].Slug == normalized {
			return i
		}
	}
	return -1
}

func (c *CartStore) persist(ctx context.Context) {
	items := c.items
	if items == nil {
		items = []models.LineItem{}
	}
	c.snapshots.Save(ctx, c.key, items)
}

func sanitizeLineItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		slug := strings.TrimSpace(item.Slug)
		if slug == "" || item.Quantity <= 0 {
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
