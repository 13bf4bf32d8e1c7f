package shared

import (
	"github.com/zrg-storefront/internal/http/response"
	"github.com/zrg-storefront/internal/i18n"
	"github.com/zrg-storefront/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 与 visitor_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	kv := make([]interface{}, 0, 4)
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			kv = append(kv, "request_id", id)
		}
	}
	if visitorID, ok := c.Get(VisitorIDKey); ok {
		if id, ok := visitorID.(string); ok && id != "" {
			kv = append(kv, "visitor_id", id)
		}
	}
	return logger.SW(kv...)
}

// RespondError 返回国际化错误响应；5xx 记 error 日志，其余有原始错误时记 warn。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	appErr := response.WrapError(code, i18n.T(locale, key), err)
	if err != nil {
		log := RequestLog(c)
		if appErr.Code >= response.CodeInternal {
			log.Errorw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", err)
		} else {
			log.Warnw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", err)
		}
	}
	response.Error(c, appErr.Code, appErr.Message)
}
