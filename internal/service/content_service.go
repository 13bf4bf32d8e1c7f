package service

import (
	"context"
	"strings"
	"time"

	"github.com/zrg-storefront/internal/cache"
	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/models"
)

// ContentSource 营销内容来源
type ContentSource interface {
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, slug string) (*models.Post, error)
	ListFAQs(ctx context.Context) ([]models.FAQ, error)
	ListTestimonials(ctx context.Context) ([]models.Testimonial, error)
	GetStats(ctx context.Context) (*models.SiteStats, error)
	ListTeamMembers(ctx context.Context) ([]models.TeamMember, error)
	ListFeaturedServers(ctx context.Context) ([]models.FeaturedServer, error)
}

// ContentService 博客、FAQ、好评等内容的缓存透传
type ContentService struct {
	source ContentSource
	ttl    time.Duration
}

// NewContentService 创建内容服务
func NewContentService(source ContentSource, ttl time.Duration) *ContentService {
	return &ContentService{source: source, ttl: ttl}
}

// ListPosts 文章列表
func (s *ContentService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return readThrough(ctx, s.ttl, cache.KeyPosts, func() ([]models.Post, error) {
		return s.source.ListPosts(ctx)
	})
}

// GetPost 文章详情
func (s *ContentService) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	return readThrough(ctx, s.ttl, cache.PostKey(slug), func() (*models.Post, error) {
		return s.source.GetPost(ctx, slug)
	})
}

// ListFAQs 常见问题
func (s *ContentService) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	return readThrough(ctx, s.ttl, cache.KeyFAQs, func() ([]models.FAQ, error) {
		return s.source.ListFAQs(ctx)
	})
}

// ListTestimonials 用户好评
func (s *ContentService) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return readThrough(ctx, s.ttl, cache.KeyTestimonials, func() ([]models.Testimonial, error) {
		return s.source.ListTestimonials(ctx)
	})
}

// GetStats 站点统计
func (s *ContentService) GetStats(ctx context.Context) (*models.SiteStats, error) {
	return readThrough(ctx, s.ttl, cache.KeyStats, func() (*models.SiteStats, error) {
		return s.source.GetStats(ctx)
	})
}

// ListTeamMembers 团队成员
func (s *ContentService) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	return readThrough(ctx, s.ttl, cache.KeyTeamMembers, func() ([]models.TeamMember, error) {
		return s.source.ListTeamMembers(ctx)
	})
}

// ListFeaturedServers 合作服务器
func (s *ContentService) ListFeaturedServers(ctx context.Context) ([]models.FeaturedServer, error) {
	return readThrough(ctx, s.ttl, cache.KeyFeaturedServers, func() ([]models.FeaturedServer, error) {
		return s.source.ListFeaturedServers(ctx)
	})
}

// readThrough 缓存命中直接返回，否则回源并写缓存
func readThrough[T any](ctx context.Context, ttl time.Duration, key string, fetch func() (T, error)) (T, error) {
	var cached T
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warnw("content_cache_get_failed", "key", key, "error", err)
	}

	value, err := fetch()
	if err != nil {
		var zero T
		return zero, mapCatalogError(err, "key", key)
	}
	if err := cache.SetJSON(ctx, key, value, ttl); err != nil {
		logger.Warnw("content_cache_set_failed", "key", key, "error", err)
	}
	return value, nil
}
