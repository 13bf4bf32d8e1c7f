package public

import (
	"errors"

	"github.com/zrg-storefront/internal/http/response"
	"github.com/zrg-storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// errVisitorMissing 访客身份缺失，响应已由 getVisitorID 写出
var errVisitorMissing = errors.New("visitor id missing")

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	if errors.Is(err, errVisitorMissing) {
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var sessionErrorRules = []mappedHandlerError{
	{target: service.ErrSessionInvalid, code: response.CodeUnauthorized, key: "error.session_invalid"},
}

var scriptErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidSlug, code: response.CodeBadRequest, key: "error.slug_invalid"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.script_not_found"},
	{target: service.ErrCatalogUnavailable, code: response.CodeServiceUnavailable, key: "error.catalog_unavailable"},
}

var reviewErrorRules = []mappedHandlerError{
	{target: service.ErrReviewInvalid, code: response.CodeBadRequest, key: "error.review_invalid"},
}

var postErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidSlug, code: response.CodeBadRequest, key: "error.slug_invalid"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.post_not_found"},
	{target: service.ErrCatalogUnavailable, code: response.CodeServiceUnavailable, key: "error.catalog_unavailable"},
}

var contentErrorRules = []mappedHandlerError{
	{target: service.ErrCatalogUnavailable, code: response.CodeServiceUnavailable, key: "error.catalog_unavailable"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCheckoutItemInvalid, code: response.CodeBadRequest, key: "error.checkout_item_invalid"},
}

var ssoErrorRules = []mappedHandlerError{
	{target: service.ErrSSOUnavailable, code: response.CodeServiceUnavailable, key: "error.sso_unavailable"},
}

func respondScriptError(c *gin.Context, err error) {
	respondWithMappedError(c, err, scriptErrorRules, response.CodeInternal, "error.script_fetch_failed")
}

func respondPostError(c *gin.Context, err error) {
	respondWithMappedError(c, err, postErrorRules, response.CodeInternal, "error.post_fetch_failed")
}

func respondContentError(c *gin.Context, err error) {
	respondWithMappedError(c, err, contentErrorRules, response.CodeInternal, "error.content_fetch_failed")
}

// respondVisitorError 访客态接口：会话错误 + 目录错误 + 结账错误
func respondVisitorError(c *gin.Context, err error) {
	rules := concatMappedHandlerErrors(sessionErrorRules, scriptErrorRules, checkoutErrorRules)
	respondWithMappedError(c, err, rules, response.CodeInternal, "error.internal")
}

func respondSSOError(c *gin.Context, err error) {
	respondWithMappedError(c, err, ssoErrorRules, response.CodeInternal, "error.sso_unavailable")
}

func respondReviewError(c *gin.Context, err error) {
	rules := concatMappedHandlerErrors(reviewErrorRules, scriptErrorRules)
	respondWithMappedError(c, err, rules, response.CodeInternal, "error.review_submit_failed")
}
