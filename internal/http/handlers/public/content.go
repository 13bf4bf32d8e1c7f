package public

import (
	"strconv"

	"github.com/zrg-storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetPosts 获取博客文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	page, pageSize = h.normalizePagination(page, pageSize)

	posts, err := h.ContentService.ListPosts(c.Request.Context())
	if err != nil {
		respondPostError(c, err)
		return
	}
	response.SuccessWithPage(c, paginate(posts, page, pageSize), response.NewPagination(page, pageSize, int64(len(posts))))
}

// GetPostBySlug 根据 slug 获取文章详情
func (h *Handler) GetPostBySlug(c *gin.Context) {
	post, err := h.ContentService.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondPostError(c, err)
		return
	}
	response.Success(c, post)
}

// GetFAQs 常见问题
func (h *Handler) GetFAQs(c *gin.Context) {
	faqs, err := h.ContentService.ListFAQs(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.Success(c, faqs)
}

// GetTestimonials 用户好评
func (h *Handler) GetTestimonials(c *gin.Context) {
	testimonials, err := h.ContentService.ListTestimonials(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.Success(c, testimonials)
}

// GetStats 站点统计
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.ContentService.GetStats(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.Success(c, stats)
}

// GetTeamMembers 团队成员
func (h *Handler) GetTeamMembers(c *gin.Context) {
	members, err := h.ContentService.ListTeamMembers(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.Success(c, members)
}

// GetFeaturedServers 合作服务器
func (h *Handler) GetFeaturedServers(c *gin.Context) {
	servers, err := h.ContentService.ListFeaturedServers(c.Request.Context())
	if err != nil {
		respondContentError(c, err)
		return
	}
	response.Success(c, servers)
}
