package public

import (
	handlershared "github.com/zrg-storefront/internal/http/handlers/shared"
	"github.com/zrg-storefront/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getVisitorID(c *gin.Context) (string, bool) {
	return handlershared.GetVisitorID(c)
}

// withVisitorSession 在当前访客会话锁内执行 fn；会话错误统一映射
func (h *Handler) withVisitorSession(c *gin.Context, fn func(*service.Session) error) error {
	visitorID, ok := getVisitorID(c)
	if !ok {
		return errVisitorMissing
	}
	return h.SessionService.WithSession(c.Request.Context(), visitorID, fn)
}

func (h *Handler) normalizePagination(page, pageSize int) (int, int) {
	catalogCfg := h.Config.Catalog
	return handlershared.NormalizePagination(page, pageSize, catalogCfg.DefaultPageSize, catalogCfg.MaxPageSize)
}

func paginate[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
