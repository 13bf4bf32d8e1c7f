package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":             "Invalid request",
		"error.unauthorized":            "Unauthorized",
		"error.internal":                "Internal server error",
		"error.session_header_missing":  "Visitor token is missing",
		"error.session_invalid":         "Visitor session is invalid or expired",
		"error.session_issue_failed":    "Failed to start visitor session",
		"error.rate_limited":            "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":  "Rate limiter unavailable",
		"error.slug_invalid":            "Invalid script slug",
		"error.quantity_invalid":        "Quantity must be an integer",
		"error.script_not_found":        "Script not found",
		"error.script_fetch_failed":     "Failed to load scripts",
		"error.catalog_unavailable":     "Catalog is temporarily unavailable",
		"error.category_fetch_failed":   "Failed to load categories",
		"error.post_not_found":          "Post not found",
		"error.post_fetch_failed":       "Failed to load posts",
		"error.content_fetch_failed":    "Failed to load content",
		"error.cart_item_not_found":     "Item is not in the cart",
		"error.cart_empty":              "Your cart is empty",
		"error.checkout_item_invalid":   "An item in your cart cannot be checked out",
		"error.wishlist_item_not_found": "Item is not in the wishlist",
		"error.sso_unavailable":         "Login is temporarily unavailable",
		"error.review_invalid":          "All fields are required",
		"error.review_submit_failed":    "Failed to submit review",
	},
	LocaleZhCN: {
		"error.bad_request":             "请求参数错误",
		"error.unauthorized":            "未授权",
		"error.internal":                "服务器内部错误",
		"error.session_header_missing":  "缺少访客令牌",
		"error.session_invalid":         "访客会话无效或已过期",
		"error.session_issue_failed":    "创建访客会话失败",
		"error.rate_limited":            "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":  "限流服务不可用",
		"error.slug_invalid":            "脚本标识无效",
		"error.quantity_invalid":        "数量必须为整数",
		"error.script_not_found":        "脚本不存在",
		"error.script_fetch_failed":     "获取脚本失败",
		"error.catalog_unavailable":     "商品目录暂时不可用",
		"error.category_fetch_failed":   "获取分类失败",
		"error.post_not_found":          "文章不存在",
		"error.post_fetch_failed":       "获取文章失败",
		"error.content_fetch_failed":    "获取内容失败",
		"error.cart_item_not_found":     "购物车中没有该商品",
		"error.cart_empty":              "购物车为空",
		"error.checkout_item_invalid":   "购物车中存在无法结算的商品",
		"error.wishlist_item_not_found": "心愿单中没有该商品",
		"error.sso_unavailable":         "登录服务暂时不可用",
		"error.review_invalid":          "请填写所有字段",
		"error.review_submit_failed":    "提交评价失败",
	},
}
