package shared

import (
	"strings"

	"github.com/zrg-storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// VisitorIDKey 访客 ID 在 gin 上下文中的 key
const VisitorIDKey = "visitor_id"

// GetVisitorID 从上下文读取访客 ID，缺失时直接返回 401。
func GetVisitorID(c *gin.Context) (string, bool) {
	value, exists := c.Get(VisitorIDKey)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.session_header_missing", nil)
		return "", false
	}
	visitorID, ok := value.(string)
	if !ok || strings.TrimSpace(visitorID) == "" {
		RespondError(c, response.CodeUnauthorized, "error.session_invalid", nil)
		return "", false
	}
	return visitorID, true
}
