package public

import (
	"github.com/zrg-storefront/internal/provider"
)

// Handler 前台/公开接口处理器入口
// 说明：目录与内容接口无需访客身份，购物车、心愿单、最近浏览需要访客令牌。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
