package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/models"

	"github.com/mitchellh/mapstructure"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// rawScript 上游脚本的宽松结构，字段类型与命名不稳定
type rawScript struct {
	ID                 interface{}              `mapstructure:"id"`
	Slug               string                   `mapstructure:"slug"`
	Title              string                   `mapstructure:"title"`
	Description        string                   `mapstructure:"description"`
	Price              interface{}              `mapstructure:"price"`
	DiscountPrice      interface{}              `mapstructure:"discount_price"`
	DiscountPriceAlias interface{}              `mapstructure:"discountPrice"`
	Image              interface{}              `mapstructure:"image"`
	Images             interface{}              `mapstructure:"images"`
	Categories         interface{}              `mapstructure:"categories"`
	Category           interface{}              `mapstructure:"category"`
	Frameworks         interface{}              `mapstructure:"frameworks"`
	ShowcaseServers    interface{}              `mapstructure:"showcase_servers"`
	Rating             interface{}              `mapstructure:"rating"`
	ReviewsCount       interface{}              `mapstructure:"reviews_count"`
	Reviews            []map[string]interface{} `mapstructure:"reviews"`
	Video              string                   `mapstructure:"video"`
	DemoVideo          string                   `mapstructure:"demoVideo"`
	TebexID            interface{}              `mapstructure:"tebex_id"`
	TebexIDAlias       interface{}              `mapstructure:"tebexId"`
	CoreFeatures       string                   `mapstructure:"core_features"`
	KeyBenefits        string                   `mapstructure:"key_benefits"`
	SystemRequirements string                   `mapstructure:"system_requirements"`
	IsFeatured         interface{}              `mapstructure:"is_featured"`
	IsBestseller       interface{}              `mapstructure:"is_bestseller"`
	Bestseller         interface{}              `mapstructure:"bestseller"`
	CreatedAt          interface{}              `mapstructure:"created_at"`
}

type rawPost struct {
	Slug          string      `mapstructure:"slug"`
	Title         string      `mapstructure:"title"`
	Description   string      `mapstructure:"description"`
	Content       string      `mapstructure:"content"`
	Author        string      `mapstructure:"author"`
	Category      string      `mapstructure:"category"`
	PublishedDate interface{} `mapstructure:"published_date"`
	ModifiedDate  interface{} `mapstructure:"modified_date"`
}

type rawTestimonial struct {
	Name    string      `mapstructure:"name"`
	Pfp     interface{} `mapstructure:"pfp"`
	Comment string      `mapstructure:"comment"`
	Date    interface{} `mapstructure:"date"`
}

// NormalizeScript 将上游宽松结构规整为 models.Script
func NormalizeScript(record map[string]interface{}) (models.Script, error) {
	return normalizeScript(record, "")
}

func normalizeScript(record map[string]interface{}, origin string) (models.Script, error) {
	var raw rawScript
	if err := decodeLoose(record, &raw); err != nil {
		return models.Script{}, err
	}

	script := models.Script{
		ID:                 looseString(raw.ID),
		Slug:               strings.TrimSpace(raw.Slug),
		Title:              strings.TrimSpace(raw.Title),
		Description:        raw.Description,
		Image:              resolveMediaURL(origin, looseString(raw.Image)),
		Images:             resolveMediaList(origin, looseStringList(raw.Images)),
		Categories:         mergeStringLists(looseStringList(raw.Categories), looseStringList(raw.Category)),
		Frameworks:         looseStringList(raw.Frameworks),
		ShowcaseServers:    looseStringList(raw.ShowcaseServers),
		Video:              firstNonEmpty(raw.Video, raw.DemoVideo),
		ExternalProductID:  firstNonEmpty(looseString(raw.TebexID), looseString(raw.TebexIDAlias)),
		CoreFeatures:       raw.CoreFeatures,
		KeyBenefits:        raw.KeyBenefits,
		SystemRequirements: raw.SystemRequirements,
		IsFeatured:         cast.ToBool(raw.IsFeatured),
		IsBestseller:       cast.ToBool(raw.IsBestseller) || cast.ToBool(raw.Bestseller),
		CreatedAt:          looseTime(raw.CreatedAt),
	}

	if price, ok := parseMoney(raw.Price); ok {
		script.Price = price
	} else if raw.Price != nil && !isNullLiteral(raw.Price) {
		logger.Warnw("catalog_script_price_invalid", "slug", script.Slug, "price", raw.Price)
	}
	discountRaw := raw.DiscountPrice
	if discountRaw == nil {
		discountRaw = raw.DiscountPriceAlias
	}
	if discount, ok := parseMoney(discountRaw); ok && discount.IsPositive() {
		script.DiscountPrice = &discount
	}

	script.Reviews = normalizeReviews(raw.Reviews)
	script.Rating = normalizeRating(raw.Rating, script.Reviews)
	if count, err := cast.ToIntE(raw.ReviewsCount); err == nil && raw.ReviewsCount != nil {
		script.ReviewsCount = count
	} else {
		script.ReviewsCount = len(script.Reviews)
	}
	return script, nil
}

func normalizeReviews(rawReviews []map[string]interface{}) []models.Review {
	if len(rawReviews) == 0 {
		return nil
	}
	reviews := make([]models.Review, 0, len(rawReviews))
	for _, item := range rawReviews {
		if item == nil {
			continue
		}
		reviews = append(reviews, models.Review{
			Name:        firstNonEmpty(readString(item, "name"), readString(item, "username")),
			Rating:      cast.ToInt(item["rating"]),
			Description: firstNonEmpty(readString(item, "description"), readString(item, "comment")),
			CreatedAt:   looseTime(firstNonNil(item["created_at"], item["date"])),
		})
	}
	return reviews
}

// normalizeRating 优先使用上游评分，缺失时按评价均值计算，保留 1 位小数
func normalizeRating(raw interface{}, reviews []models.Review) float64 {
	if raw != nil && !isNullLiteral(raw) {
		if value, err := cast.ToFloat64E(raw); err == nil {
			rounded, _ := stats.Round(value, 1)
			return rounded
		}
	}
	ratings := make(stats.Float64Data, 0, len(reviews))
	for _, review := range reviews {
		if review.Rating > 0 {
			ratings = append(ratings, float64(review.Rating))
		}
	}
	if len(ratings) == 0 {
		return 0
	}
	mean, err := stats.Mean(ratings)
	if err != nil {
		return 0
	}
	rounded, _ := stats.Round(mean, 1)
	return rounded
}

func normalizePost(record map[string]interface{}) (models.Post, error) {
	var raw rawPost
	if err := decodeLoose(record, &raw); err != nil {
		return models.Post{}, err
	}
	return models.Post{
		Slug:          strings.TrimSpace(raw.Slug),
		Title:         raw.Title,
		Description:   raw.Description,
		Content:       raw.Content,
		Author:        raw.Author,
		Category:      raw.Category,
		PublishedDate: looseTime(raw.PublishedDate),
		ModifiedDate:  looseTime(raw.ModifiedDate),
	}, nil
}

func normalizeTestimonial(record map[string]interface{}, origin string) (models.Testimonial, error) {
	var raw rawTestimonial
	if err := decodeLoose(record, &raw); err != nil {
		return models.Testimonial{}, err
	}
	return models.Testimonial{
		Name:    raw.Name,
		Pfp:     resolveMediaURL(origin, looseString(raw.Pfp)),
		Comment: raw.Comment,
		Date:    looseTime(raw.Date),
	}, nil
}

// decodeLoose 弱类型解码，兼容数字字符串、数字 id 等
func decodeLoose(input interface{}, out interface{}) error {
	return decodeWithTag(input, out, "mapstructure")
}

// decodeContent models 包内的内容结构直接复用 json tag
func decodeContent(input interface{}, out interface{}) error {
	return decodeWithTag(input, out, "json")
}

func decodeWithTag(input interface{}, out interface{}, tag string) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		TagName:          tag,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

func parseMoney(value interface{}) (models.Money, bool) {
	if value == nil || isNullLiteral(value) {
		return models.Money{}, false
	}
	switch v := value.(type) {
	case float64:
		return models.NewMoneyFromDecimal(decimal.NewFromFloat(v)), true
	case float32:
		return models.NewMoneyFromDecimal(decimal.NewFromFloat32(v)), true
	}
	text, err := cast.ToStringE(value)
	if err != nil {
		return models.Money{}, false
	}
	money, err := models.NewMoneyFromString(text)
	if err != nil || strings.TrimSpace(text) == "" {
		return models.Money{}, false
	}
	return money, true
}

// isNullLiteral 上游把空值序列化成 "None"/"null" 字符串
func isNullLiteral(value interface{}) bool {
	text, ok := value.(string)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "none", "null", "undefined":
		return true
	}
	return false
}

func looseString(value interface{}) string {
	if value == nil || isNullLiteral(value) {
		return ""
	}
	return strings.TrimSpace(cast.ToString(value))
}

func looseStringList(value interface{}) models.StringArray {
	out := models.StringArray{}
	switch v := value.(type) {
	case nil:
		return out
	case string:
		if text := looseString(v); text != "" {
			out = append(out, text)
		}
		return out
	case []interface{}:
		for _, item := range v {
			if text := looseString(item); text != "" {
				out = append(out, text)
			}
		}
		return out
	case []string:
		for _, item := range v {
			if text := looseString(item); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

func mergeStringLists(lists ...models.StringArray) models.StringArray {
	out := models.StringArray{}
	for _, list := range lists {
		for _, item := range list {
			if !out.Contains(item) {
				out = append(out, item)
			}
		}
	}
	return out
}

func looseTime(value interface{}) *time.Time {
	if value == nil || isNullLiteral(value) {
		return nil
	}
	parsed, err := cast.ToTimeE(value)
	if err != nil || parsed.IsZero() {
		return nil
	}
	return &parsed
}

func readString(record map[string]interface{}, key string) string {
	if record == nil {
		return ""
	}
	return looseString(record[key])
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstNonNil(values ...interface{}) interface{} {
	for _, value := range values {
		if value != nil {
			return value
		}
	}
	return nil
}

func resolveMediaURL(origin, raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" || origin == "" || !strings.HasPrefix(text, "/") || strings.HasPrefix(text, "//") {
		return text
	}
	return origin + text
}

func resolveMediaList(origin string, items models.StringArray) models.StringArray {
	for i := range items {
		items[i] = resolveMediaURL(origin, items[i])
	}
	return items
}
