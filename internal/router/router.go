package router

import (
	"fmt"
	"strings"

	"github.com/zrg-storefront/internal/cache"
	"github.com/zrg-storefront/internal/config"
	publichandlers "github.com/zrg-storefront/internal/http/handlers/public"
	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "zrg"
	}
	sessionRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:session", redisPrefix),
		WindowSeconds: cfg.Security.SessionRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.SessionRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.SessionRateLimit.BlockSeconds,
	}
	reviewRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:review", redisPrefix),
		WindowSeconds: cfg.Security.ReviewRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ReviewRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.ReviewRateLimit.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/config", h.GetConfig)
			public.GET("/products", h.GetProducts)
			public.GET("/products/:slug", h.GetProductBySlug)
			public.GET("/products/:slug/recommendations", h.GetProductRecommendations)
			public.POST("/products/:slug/reviews", RateLimitMiddleware(cache.Client(), reviewRule, KeyByIP), h.SubmitProductReview)
			public.GET("/recommendations", h.GetRecommendations)
			public.GET("/categories", h.GetCategories)
			public.GET("/posts", h.GetPosts)
			public.GET("/posts/:slug", h.GetPostBySlug)
			public.GET("/faqs", h.GetFAQs)
			public.GET("/testimonials", h.GetTestimonials)
			public.GET("/stats", h.GetStats)
			public.GET("/team-members", h.GetTeamMembers)
			public.GET("/featured-servers", h.GetFeaturedServers)
		}

		apiV1.GET("/auth/sso/login-url", h.GetSSOLoginURL)
		apiV1.POST("/session", RateLimitMiddleware(cache.Client(), sessionRule, KeyByIP), h.CreateSession)

		// 访客接口（需访客令牌）
		visitor := apiV1.Group("")
		visitor.Use(VisitorTokenMiddleware(c.VisitorTokenService))
		{
			visitor.GET("/cart", h.GetCart)
			visitor.DELETE("/cart", h.ClearCart)
			visitor.PUT("/cart/panel", h.SetCartPanel)
			visitor.POST("/cart/items", h.AddCartItem)
			visitor.GET("/cart/items/:slug", h.GetCartItem)
			visitor.PUT("/cart/items/:slug", h.UpdateCartItem)
			visitor.DELETE("/cart/items/:slug", h.RemoveCartItem)
			visitor.POST("/checkout", h.Checkout)

			visitor.GET("/wishlist", h.GetWishlist)
			visitor.POST("/wishlist/items", h.AddWishlistItem)
			visitor.GET("/wishlist/items/:slug", h.GetWishlistItem)
			visitor.DELETE("/wishlist/items/:slug", h.RemoveWishlistItem)
			visitor.POST("/wishlist/items/:slug/move-to-cart", h.MoveWishlistItemToCart)
			visitor.POST("/wishlist/move-all-to-cart", h.MoveAllWishlistToCart)

			visitor.GET("/recently-viewed", h.GetRecentlyViewed)
			visitor.POST("/recently-viewed", h.PushRecentlyViewed)
			visitor.DELETE("/recently-viewed", h.ClearRecentlyViewed)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{
			"status":          "ok",
			"storage":         cfg.Storage.Driver,
			"active_sessions": c.SessionService.ActiveCount(),
		})
	})

	return r
}
