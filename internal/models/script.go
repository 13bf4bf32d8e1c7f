package models

import "time"

// Script 商品目录中的脚本快照，加入购物车或心愿单后不再与目录同步
type Script struct {
	ID                 string      `json:"id"`
	Slug               string      `json:"slug"`
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	Price              Money       `json:"price"`
	DiscountPrice      *Money      `json:"discount_price,omitempty"`
	Image              string      `json:"image,omitempty"`
	Images             StringArray `json:"images,omitempty"`
	Categories         StringArray `json:"categories"`
	Frameworks         StringArray `json:"frameworks,omitempty"`
	ShowcaseServers    StringArray `json:"showcase_servers,omitempty"`
	Rating             float64     `json:"rating"`
	ReviewsCount       int         `json:"reviews_count"`
	Reviews            []Review    `json:"reviews,omitempty"`
	Video              string      `json:"video,omitempty"`
	ExternalProductID  string      `json:"external_product_id,omitempty"`
	CoreFeatures       string      `json:"core_features,omitempty"`
	KeyBenefits        string      `json:"key_benefits,omitempty"`
	SystemRequirements string      `json:"system_requirements,omitempty"`
	IsFeatured         bool        `json:"is_featured"`
	IsBestseller       bool        `json:"is_bestseller"`
	CreatedAt          *time.Time  `json:"created_at,omitempty"`
}

// Review 脚本评价
type Review struct {
	Name        string     `json:"name"`
	Rating      int        `json:"rating"`
	Description string     `json:"description,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// HasDiscount 是否存在有效折扣价
func (s Script) HasDiscount() bool {
	return s.DiscountPrice != nil && s.DiscountPrice.IsPositive()
}

// EffectivePrice 折扣价优先，否则为原价
func (s Script) EffectivePrice() Money {
	if s.HasDiscount() {
		return *s.DiscountPrice
	}
	return s.Price
}

// SharesCategory 判断两个脚本是否存在相同分类
func (s Script) SharesCategory(other Script) bool {
	for _, category := range other.Categories {
		if s.Categories.Contains(category) {
			return true
		}
	}
	return false
}
