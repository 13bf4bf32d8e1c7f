package models

// LineItem 购物车行项目，数量恒为正
type LineItem struct {
	Script
	Quantity int `json:"quantity"`
}

// Subtotal 行小计
func (l LineItem) Subtotal() Money {
	return l.EffectivePrice().MulInt(l.Quantity)
}
