package service

import (
	"fmt"
	"strings"

	"github.com/zrg-storefront/internal/models"

	"github.com/shopspring/decimal"
)

const defaultCheckoutBaseURL = "https://checkout.tebex.io/checkout"

// CheckoutService 结账跳转地址构造，不调用结账端点也不清空购物车
type CheckoutService struct {
	baseURL  string
	taxRate  decimal.Decimal
	currency string
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(baseURL string, taxRate float64, currency string) *CheckoutService {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultCheckoutBaseURL
	}
	if taxRate < 0 {
		taxRate = 0
	}
	return &CheckoutService{
		baseURL:  baseURL,
		taxRate:  decimal.NewFromFloat(taxRate),
		currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// BuildCheckoutURL <base>/<externalID:qty>,<externalID:qty>
func (s *CheckoutService) BuildCheckoutURL(items []models.LineItem) (string, error) {
	if len(items) == 0 {
		return "", ErrCartEmpty
	}
	pairs := make([]string, 0, len(items))
	for _, item := range items {
		externalID := strings.TrimSpace(item.ExternalProductID)
		if externalID == "" || item.Quantity <= 0 {
			return "", fmt.Errorf("%w: %s", ErrCheckoutItemInvalid, item.Slug)
		}
		pairs = append(pairs, fmt.Sprintf("%s:%d", externalID, item.Quantity))
	}
	return s.baseURL + "/" + strings.Join(pairs, ","), nil
}

// CartView 购物车视图，附带按配置税率计算的汇总
func (s *CheckoutService) CartView(session *Session) CartView {
	return CartView{
		CartSummary: session.Cart.Summary(s.taxRate),
		IsOpen:      session.CartOpen(),
	}
}

// PublicConfig 前台公开配置
type PublicConfig struct {
	TaxRate         float64 `json:"tax_rate"`
	CheckoutBaseURL string  `json:"checkout_base_url"`
	Currency        string  `json:"currency"`
}

// PublicConfig 返回前台需要的结账配置
func (s *CheckoutService) PublicConfig() PublicConfig {
	rate, _ := s.taxRate.Float64()
	return PublicConfig{
		TaxRate:         rate,
		CheckoutBaseURL: s.baseURL,
		Currency:        s.currency,
	}
}
