package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/zrg-storefront/internal/cache"
	"github.com/zrg-storefront/internal/catalog"
	"github.com/zrg-storefront/internal/constants"
	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/models"
)

// CatalogSource 只读商品目录来源
type CatalogSource interface {
	ListScripts(ctx context.Context) ([]models.Script, error)
	GetScript(ctx context.Context, slug string) (*models.Script, error)
}

// ReviewSink 评价写入端
type ReviewSink interface {
	WriteReview(ctx context.Context, input catalog.ReviewInput) error
}

// ReviewSubmission 访客提交的评价
type ReviewSubmission struct {
	Name        string `json:"name"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

// CatalogListFilter 商品列表过滤条件
type CatalogListFilter struct {
	Search   string
	Category string
	Sort     string
	Page     int
	PageSize int
}

// CatalogService 商品目录服务，读穿 Redis 缓存
type CatalogService struct {
	source          CatalogSource
	reviews         ReviewSink
	invalidate      func(ctx context.Context, keys ...string) error
	ttl             time.Duration
	recommendations int
}

// NewCatalogService 创建目录服务
func NewCatalogService(source CatalogSource, ttl time.Duration, recommendations int) *CatalogService {
	if recommendations <= 0 {
		recommendations = constants.DefaultRecommendationLimit
	}
	reviews, _ := source.(ReviewSink)
	return &CatalogService{
		source:          source,
		reviews:         reviews,
		invalidate:      cache.Del,
		ttl:             ttl,
		recommendations: recommendations,
	}
}

// List 搜索、分类、排序后分页，返回当前页与总数
func (s *CatalogService) List(ctx context.Context, filter CatalogListFilter) ([]models.Script, int64, error) {
	scripts, err := s.allScripts(ctx)
	if err != nil {
		return nil, 0, err
	}
	filtered := filterScripts(scripts, filter.Search, filter.Category)
	sortScripts(filtered, filter.Sort)

	total := int64(len(filtered))
	return paginateScripts(filtered, filter.Page, filter.PageSize), total, nil
}

// GetBySlug 获取脚本详情
func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (*models.Script, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	var cached models.Script
	if hit, err := cache.GetJSON(ctx, cache.CatalogScriptKey(slug), &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		logger.Warnw("catalog_cache_get_failed", "key", cache.CatalogScriptKey(slug), "error", err)
	}

	script, err := s.source.GetScript(ctx, slug)
	if err != nil {
		return nil, mapCatalogError(err, "slug", slug)
	}
	s.store(ctx, cache.CatalogScriptKey(slug), script)
	return script, nil
}

// Categories 按首次出现顺序返回去重后的分类
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	scripts, err := s.allScripts(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, script := range scripts {
		for _, category := range script.Categories {
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			categories = append(categories, category)
		}
	}
	return categories, nil
}

// Recommendations 同分类推荐（排除自身，评分降序）；slug 为空时返回评分最高的脚本
func (s *CatalogService) Recommendations(ctx context.Context, slug string, limit int) ([]models.Script, error) {
	if limit <= 0 {
		limit = s.recommendations
	}
	scripts, err := s.allScripts(ctx)
	if err != nil {
		return nil, err
	}

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return topRated(scripts, limit), nil
	}
	current, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return recommendFor(*current, scripts, limit), nil
}

// Refresh 从上游拉取全量列表并写入缓存
func (s *CatalogService) Refresh(ctx context.Context) ([]models.Script, error) {
	scripts, err := s.source.ListScripts(ctx)
	if err != nil {
		return nil, mapCatalogError(err, "op", "refresh")
	}
	s.store(ctx, cache.KeyCatalogScripts, scripts)
	return scripts, nil
}

// WarmDetail 预热单个详情缓存
func (s *CatalogService) WarmDetail(ctx context.Context, slug string) error {
	script, err := s.source.GetScript(ctx, slug)
	if err != nil {
		return mapCatalogError(err, "slug", slug)
	}
	s.store(ctx, cache.CatalogScriptKey(slug), script)
	return nil
}

// SubmitReview 校验后转发评价，成功后清除该脚本与列表缓存
func (s *CatalogService) SubmitReview(ctx context.Context, slug string, input ReviewSubmission) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ErrInvalidSlug
	}
	review := catalog.ReviewInput{
		Name:        strings.TrimSpace(input.Name),
		Rating:      input.Rating,
		Description: strings.TrimSpace(input.Description),
	}
	if review.Name == "" || review.Description == "" ||
		review.Rating < constants.ReviewRatingMin || review.Rating > constants.ReviewRatingMax {
		return ErrReviewInvalid
	}
	if s.reviews == nil {
		logger.Warnw("catalog_review_sink_missing", "slug", slug)
		return ErrCatalogUnavailable
	}

	script, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	review.ScriptID = strings.TrimSpace(script.ID)
	if review.ScriptID == "" {
		return ErrNotFound
	}

	if err := s.reviews.WriteReview(ctx, review); err != nil {
		if errors.Is(err, catalog.ErrInvalidInput) {
			return ErrReviewInvalid
		}
		return mapCatalogError(err, "op", "write_review", "slug", slug)
	}
	if err := s.invalidate(ctx, cache.CatalogScriptKey(slug), cache.KeyCatalogScripts); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "slug", slug, "error", err)
	}
	return nil
}

func (s *CatalogService) allScripts(ctx context.Context) ([]models.Script, error) {
	var cached []models.Script
	if hit, err := cache.GetJSON(ctx, cache.KeyCatalogScripts, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		logger.Warnw("catalog_cache_get_failed", "key", cache.KeyCatalogScripts, "error", err)
	}
	return s.Refresh(ctx)
}

func (s *CatalogService) store(ctx context.Context, key string, value interface{}) {
	if err := cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		logger.Warnw("catalog_cache_set_failed", "key", key, "error", err)
	}
}

// mapCatalogError 上游 404 映射为 ErrNotFound，其余统一为 ErrCatalogUnavailable
func mapCatalogError(err error, kv ...interface{}) error {
	if errors.Is(err, catalog.ErrNotFound) {
		return ErrNotFound
	}
	logger.Warnw("catalog_upstream_failed", append(kv, "error", err)...)
	return ErrCatalogUnavailable
}

func filterScripts(scripts []models.Script, search, category string) []models.Script {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, "all") {
		category = ""
	}
	out := make([]models.Script, 0, len(scripts))
	for _, script := range scripts {
		if search != "" &&
			!strings.Contains(strings.ToLower(script.Title), search) &&
			!strings.Contains(strings.ToLower(script.Description), search) {
			continue
		}
		if category != "" && !script.Categories.Contains(category) {
			continue
		}
		out = append(out, script)
	}
	return out
}

// sortScripts newest 保持上游顺序；价格排序使用原价
func sortScripts(scripts []models.Script, sortBy string) {
	switch strings.TrimSpace(sortBy) {
	case constants.SortPriceLow:
		sort.SliceStable(scripts, func(i, j int) bool {
			return scripts[i].Price.LessThan(scripts[j].Price.Decimal)
		})
	case constants.SortPriceHigh:
		sort.SliceStable(scripts, func(i, j int) bool {
			return scripts[i].Price.GreaterThan(scripts[j].Price.Decimal)
		})
	case constants.SortRating:
		sortByRating(scripts)
	}
}

func sortByRating(scripts []models.Script) {
	sort.SliceStable(scripts, func(i, j int) bool {
		return scripts[i].Rating > scripts[j].Rating
	})
}

func paginateScripts(scripts []models.Script, page, pageSize int) []models.Script {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		return scripts
	}
	start := (page - 1) * pageSize
	if start >= len(scripts) {
		return []models.Script{}
	}
	end := start + pageSize
	if end > len(scripts) {
		end = len(scripts)
	}
	return scripts[start:end]
}

func topRated(scripts []models.Script, limit int) []models.Script {
	sorted := make([]models.Script, len(scripts))
	copy(sorted, scripts)
	sortByRating(sorted)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func recommendFor(current models.Script, scripts []models.Script, limit int) []models.Script {
	similar := make([]models.Script, 0)
	for _, script := range scripts {
		if script.Slug == current.Slug || (current.ID != "" && script.ID == current.ID) {
			continue
		}
		if current.SharesCategory(script) {
			similar = append(similar, script)
		}
	}
	sortByRating(similar)
	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar
}
