package public

import (
	"strings"

	"github.com/zrg-storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateSession 签发访客令牌；携带有效令牌时续签同一访客
func (h *Handler) CreateSession(c *gin.Context) {
	visitorID := ""
	if token := bearerToken(c.GetHeader("Authorization")); token != "" {
		if claims, err := h.VisitorTokenService.Parse(token); err == nil {
			visitorID = claims.VisitorID
		}
	}

	issued, err := h.VisitorTokenService.Issue(visitorID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.session_issue_failed", err)
		return
	}
	response.Success(c, issued)
}

// GetSSOLoginURL 获取外部单点登录跳转地址
func (h *Handler) GetSSOLoginURL(c *gin.Context) {
	loginURL, err := h.SSOService.LoginURL(c.Request.Context())
	if err != nil {
		respondSSOError(c, err)
		return
	}
	response.Success(c, gin.H{"url": loginURL})
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
