package public

import (
	"strconv"
	"strings"

	"github.com/zrg-storefront/internal/constants"
	"github.com/zrg-storefront/internal/http/response"
	"github.com/zrg-storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// PublicConfigView 前台公开配置
type PublicConfigView struct {
	service.PublicConfig
	Languages           []string `json:"languages"`
	SortOptions         []string `json:"sort_options"`
	RecentlyViewedLimit int      `json:"recently_viewed_limit"`
}

// GetConfig 获取前台配置
func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, PublicConfigView{
		PublicConfig:        h.CheckoutService.PublicConfig(),
		Languages:           []string{"en-US", "zh-CN"},
		SortOptions:         []string{constants.SortNewest, constants.SortPriceLow, constants.SortPriceHigh, constants.SortRating},
		RecentlyViewedLimit: constants.RecentlyViewedLimit,
	})
}

// GetProducts 获取脚本列表
func (h *Handler) GetProducts(c *gin.Context) {
	// 获取分页参数
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	page, pageSize = h.normalizePagination(page, pageSize)

	scripts, total, err := h.CatalogService.List(c.Request.Context(), service.CatalogListFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: strings.TrimSpace(c.Query("category")),
		Sort:     strings.TrimSpace(c.DefaultQuery("sort", constants.SortNewest)),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondScriptError(c, err)
		return
	}

	response.SuccessWithPage(c, scripts, response.NewPagination(page, pageSize, total))
}

// GetProductBySlug 根据 slug 获取脚本详情
func (h *Handler) GetProductBySlug(c *gin.Context) {
	script, err := h.CatalogService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondScriptError(c, err)
		return
	}
	response.Success(c, script)
}

// GetProductRecommendations 同分类推荐
func (h *Handler) GetProductRecommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	scripts, err := h.CatalogService.Recommendations(c.Request.Context(), c.Param("slug"), limit)
	if err != nil {
		respondScriptError(c, err)
		return
	}
	response.Success(c, scripts)
}

// GetRecommendations 无当前脚本时的评分最高推荐
func (h *Handler) GetRecommendations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	scripts, err := h.CatalogService.Recommendations(c.Request.Context(), "", limit)
	if err != nil {
		respondScriptError(c, err)
		return
	}
	response.Success(c, scripts)
}

// GetCategories 获取分类列表
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.CatalogService.Categories(c.Request.Context())
	if err != nil {
		respondWithMappedError(c, err, scriptErrorRules, response.CodeInternal, "error.category_fetch_failed")
		return
	}
	response.Success(c, categories)
}

// SubmitProductReview 提交脚本评价
func (h *Handler) SubmitProductReview(c *gin.Context) {
	var req service.ReviewSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.review_invalid", nil)
		return
	}
	if err := h.CatalogService.SubmitReview(c.Request.Context(), c.Param("slug"), req); err != nil {
		respondReviewError(c, err)
		return
	}
	response.Success(c, gin.H{"slug": c.Param("slug")})
}
