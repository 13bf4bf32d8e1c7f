package public

import (
	"strings"

	"github.com/zrg-storefront/internal/http/response"
	"github.com/zrg-storefront/internal/models"
	"github.com/zrg-storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 加入购物车请求
type CartItemRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// CartQuantityRequest 修改数量请求，数量 <= 0 视为删除
type CartQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartPanelRequest 购物车面板开关
type CartPanelRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	var view service.CartView
	err := h.withVisitorSession(c, func(session *service.Session) error {
		view = h.CheckoutService.CartView(session)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	var view service.CartView
	err := h.withVisitorSession(c, func(session *service.Session) error {
		session.Cart.Clear(c.Request.Context())
		view = h.CheckoutService.CartView(session)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// SetCartPanel 打开/关闭购物车面板
func (h *Handler) SetCartPanel(c *gin.Context) {
	var req CartPanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	var view service.CartView
	err := h.withVisitorSession(c, func(session *service.Session) error {
		session.SetCartOpen(*req.Open)
		view = h.CheckoutService.CartView(session)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已存在时数量加 1
func (h *Handler) AddCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	// 目录查询不持有会话锁
	script, err := h.CatalogService.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		respondScriptError(c, err)
		return
	}

	var view service.CartView
	err = h.withVisitorSession(c, func(session *service.Session) error {
		session.Cart.Add(c.Request.Context(), *script)
		view = h.CheckoutService.CartView(session)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// GetCartItem 获取单个购物车行
func (h *Handler) GetCartItem(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	var (
		found bool
		item  models.LineItem
	)
	err := h.withVisitorSession(c, func(session *service.Session) error {
		item, found = session.Cart.Get(slug)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	if !found {
		respondError(c, response.CodeNotFound, "error.cart_item_not_found", nil)
		return
	}
	response.Success(c, item)
}

// UpdateCartItem 设置数量；slug 不在购物车时不做任何修改
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", err)
		return
	}
	slug := strings.TrimSpace(c.Param("slug"))

	var view service.CartView
	err := h.withVisitorSession(c, func(session *service.Session) error {
		session.Cart.SetQuantity(c.Request.Context(), slug, *req.Quantity)
		view = h.CheckoutService.CartView(session)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 删除购物车行（幂等）
func (h *Handler) RemoveCartItem(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	var view service.CartView
	err := h.withVisitorSession(c, func(session *service.Session) error {
		session.Cart.Remove(c.Request.Context(), slug)
		view = h.CheckoutService.CartView(session)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// Checkout 生成外部结账地址，购物车保持不变
func (h *Handler) Checkout(c *gin.Context) {
	var checkoutURL string
	err := h.withVisitorSession(c, func(session *service.Session) error {
		built, err := h.CheckoutService.BuildCheckoutURL(session.Cart.Items())
		if err != nil {
			return err
		}
		checkoutURL = built
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, gin.H{"checkout_url": checkoutURL})
}
