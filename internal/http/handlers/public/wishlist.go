package public

import (
	"strings"

	"github.com/zrg-storefront/internal/http/response"
	"github.com/zrg-storefront/internal/models"
	"github.com/zrg-storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// WishlistItemRequest 加入心愿单请求
type WishlistItemRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// WishlistMoveResponse 移入购物车后的两侧状态
type WishlistMoveResponse struct {
	Moved    int                  `json:"moved"`
	Cart     service.CartView     `json:"cart"`
	Wishlist service.WishlistView `json:"wishlist"`
}

// GetWishlist 获取心愿单
func (h *Handler) GetWishlist(c *gin.Context) {
	var view service.WishlistView
	err := h.withVisitorSession(c, func(session *service.Session) error {
		view = service.NewWishlistView(session.Wishlist)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// AddWishlistItem 加入心愿单（幂等）
func (h *Handler) AddWishlistItem(c *gin.Context) {
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	script, err := h.CatalogService.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		respondScriptError(c, err)
		return
	}

	var view service.WishlistView
	err = h.withVisitorSession(c, func(session *service.Session) error {
		session.Wishlist.Add(c.Request.Context(), *script)
		view = service.NewWishlistView(session.Wishlist)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// GetWishlistItem 查询是否已加入心愿单
func (h *Handler) GetWishlistItem(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	var (
		found  bool
		script models.Script
	)
	err := h.withVisitorSession(c, func(session *service.Session) error {
		script, found = session.Wishlist.Get(slug)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	if !found {
		respondError(c, response.CodeNotFound, "error.wishlist_item_not_found", nil)
		return
	}
	response.Success(c, script)
}

// RemoveWishlistItem 从心愿单删除（幂等）
func (h *Handler) RemoveWishlistItem(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	var view service.WishlistView
	err := h.withVisitorSession(c, func(session *service.Session) error {
		session.Wishlist.Remove(c.Request.Context(), slug)
		view = service.NewWishlistView(session.Wishlist)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, view)
}

// MoveWishlistItemToCart 单个条目移入购物车
func (h *Handler) MoveWishlistItemToCart(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	var (
		moved bool
		resp  WishlistMoveResponse
	)
	err := h.withVisitorSession(c, func(session *service.Session) error {
		moved = session.MoveToCart(c.Request.Context(), slug)
		resp = h.moveResponse(session)
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	if !moved {
		respondError(c, response.CodeNotFound, "error.wishlist_item_not_found", nil)
		return
	}
	resp.Moved = 1
	response.Success(c, resp)
}

// MoveAllWishlistToCart 全部移入购物车
func (h *Handler) MoveAllWishlistToCart(c *gin.Context) {
	var resp WishlistMoveResponse
	err := h.withVisitorSession(c, func(session *service.Session) error {
		moved := session.MoveAllToCart(c.Request.Context())
		resp = h.moveResponse(session)
		resp.Moved = moved
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, resp)
}

func (h *Handler) moveResponse(session *service.Session) WishlistMoveResponse {
	return WishlistMoveResponse{
		Cart:     h.CheckoutService.CartView(session),
		Wishlist: service.NewWishlistView(session.Wishlist),
	}
}
