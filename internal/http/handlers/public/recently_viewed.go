package public

import (
	"github.com/zrg-storefront/internal/http/response"
	"github.com/zrg-storefront/internal/models"
	"github.com/zrg-storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// RecentlyViewedRequest 记录浏览请求
type RecentlyViewedRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// GetRecentlyViewed 最近浏览，最新在前
func (h *Handler) GetRecentlyViewed(c *gin.Context) {
	var items []models.Script
	err := h.withVisitorSession(c, func(session *service.Session) error {
		items = session.Recent.Items()
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, items)
}

// PushRecentlyViewed 记录一次浏览
func (h *Handler) PushRecentlyViewed(c *gin.Context) {
	var req RecentlyViewedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	script, err := h.CatalogService.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		respondScriptError(c, err)
		return
	}

	var items []models.Script
	err = h.withVisitorSession(c, func(session *service.Session) error {
		session.Recent.Push(c.Request.Context(), *script)
		items = session.Recent.Items()
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, items)
}

// ClearRecentlyViewed 清空最近浏览
func (h *Handler) ClearRecentlyViewed(c *gin.Context) {
	err := h.withVisitorSession(c, func(session *service.Session) error {
		session.Recent.Clear(c.Request.Context())
		return nil
	})
	if err != nil {
		respondVisitorError(c, err)
		return
	}
	response.Success(c, []models.Script{})
}
