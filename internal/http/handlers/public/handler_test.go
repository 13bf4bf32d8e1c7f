package public

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/zrg-storefront/internal/catalog"
	"github.com/zrg-storefront/internal/config"
	handlershared "github.com/zrg-storefront/internal/http/handlers/shared"
	"github.com/zrg-storefront/internal/models"
	"github.com/zrg-storefront/internal/provider"
	"github.com/zrg-storefront/internal/repository"
	"github.com/zrg-storefront/internal/service"

	"github.com/gin-gonic/gin"
)

const testVisitorHeader = "X-Test-Visitor"

type fakeBackend struct {
	scripts     []models.Script
	reviews     []catalog.ReviewInput
	unavailable bool
}

func (f *fakeBackend) WriteReview(_ context.Context, input catalog.ReviewInput) error {
	if f.unavailable {
		return catalog.ErrRequestFailed
	}
	if input.ScriptID == "" || input.Name == "" || input.Rating == 0 || input.Description == "" {
		return fmt.Errorf("%w: All fields are required.", catalog.ErrInvalidInput)
	}
	f.reviews = append(f.reviews, input)
	return nil
}

func (f *fakeBackend) ListScripts(context.Context) ([]models.Script, error) {
	if f.unavailable {
		return nil, catalog.ErrRequestFailed
	}
	return append([]models.Script(nil), f.scripts...), nil
}

func (f *fakeBackend) GetScript(_ context.Context, slug string) (*models.Script, error) {
	if f.unavailable {
		return nil, catalog.ErrRequestFailed
	}
	for _, script := range f.scripts {
		if script.Slug == slug {
			found := script
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, slug)
}

func (f *fakeBackend) ListPosts(context.Context) ([]models.Post, error) {
	return []models.Post{{Title: "One", Slug: "one"}, {Title: "Two", Slug: "two"}, {Title: "Three", Slug: "three"}}, nil
}

func (f *fakeBackend) GetPost(_ context.Context, slug string) (*models.Post, error) {
	if slug != "one" {
		return nil, catalog.ErrNotFound
	}
	return &models.Post{Title: "One", Slug: "one"}, nil
}

func (f *fakeBackend) ListFAQs(context.Context) ([]models.FAQ, error) {
	if f.unavailable {
		return nil, catalog.ErrRequestFailed
	}
	return []models.FAQ{{Question: "Q", Answer: "A"}}, nil
}

func (f *fakeBackend) ListTestimonials(context.Context) ([]models.Testimonial, error) {
	return []models.Testimonial{}, nil
}

func (f *fakeBackend) GetStats(context.Context) (*models.SiteStats, error) {
	return &models.SiteStats{ActiveUsers: 10, PremiumScripts: 2}, nil
}

func (f *fakeBackend) ListTeamMembers(context.Context) ([]models.TeamMember, error) {
	return []models.TeamMember{}, nil
}

func (f *fakeBackend) ListFeaturedServers(context.Context) ([]models.FeaturedServer, error) {
	return []models.FeaturedServer{}, nil
}

func (f *fakeBackend) GetLoginURL(context.Context) (string, error) {
	return "https://backend.example/login", nil
}

func fixtureScript(slug, price, discount, externalID string, rating float64, categories ...string) models.Script {
	script := models.Script{
		ID:                slug + "-id",
		Slug:              slug,
		Title:             slug,
		Price:             models.MustMoney(price),
		ExternalProductID: externalID,
		Rating:            rating,
		Categories:        categories,
	}
	if discount != "" {
		d := models.MustMoney(discount)
		script.DiscountPrice = &d
	}
	return script
}

type testEnv struct {
	handler *Handler
	engine  *gin.Engine
	backend *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{scripts: []models.Script{
		fixtureScript("economy-job", "20", "15", "5012", 4.2, "jobs"),
		fixtureScript("vehicle-pack", "30", "", "5013", 4.9, "vehicles"),
		fixtureScript("taxi-job", "8", "", "", 4.8, "jobs"),
	}}
	snapshots := service.NewSnapshotStore(repository.NewMemorySnapshotRepository(), time.Second)
	sessions, err := service.NewSessionService(snapshots, "zrg", 16)
	if err != nil {
		t.Fatalf("new session service failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Catalog.DefaultPageSize = 2
	cfg.Catalog.MaxPageSize = 10
	h := New(&provider.Container{
		Config:              cfg,
		Snapshots:           snapshots,
		SessionService:      sessions,
		VisitorTokenService: service.NewVisitorTokenService("test-secret", 1),
		CatalogService:      service.NewCatalogService(backend, 0, 3),
		ContentService:      service.NewContentService(backend, 0),
		CheckoutService:     service.NewCheckoutService("https://checkout.tebex.io/checkout", 0.10, "USD"),
		SSOService:          service.NewSSOService(service.SSOOptions{}, backend),
	})

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if visitor := c.GetHeader(testVisitorHeader); visitor != "" {
			c.Set(handlershared.VisitorIDKey, visitor)
		}
		c.Next()
	})
	engine.GET("/config", h.GetConfig)
	engine.GET("/products", h.GetProducts)
	engine.GET("/products/:slug", h.GetProductBySlug)
	engine.GET("/products/:slug/recommendations", h.GetProductRecommendations)
	engine.POST("/products/:slug/reviews", h.SubmitProductReview)
	engine.GET("/posts", h.GetPosts)
	engine.GET("/posts/:slug", h.GetPostBySlug)
	engine.GET("/faqs", h.GetFAQs)
	engine.GET("/sso", h.GetSSOLoginURL)
	engine.POST("/session", h.CreateSession)
	engine.GET("/cart", h.GetCart)
	engine.DELETE("/cart", h.ClearCart)
	engine.PUT("/cart/panel", h.SetCartPanel)
	engine.POST("/cart/items", h.AddCartItem)
	engine.GET("/cart/items/:slug", h.GetCartItem)
	engine.PUT("/cart/items/:slug", h.UpdateCartItem)
	engine.DELETE("/cart/items/:slug", h.RemoveCartItem)
	engine.POST("/checkout", h.Checkout)
	engine.GET("/wishlist", h.GetWishlist)
	engine.POST("/wishlist/items", h.AddWishlistItem)
	engine.GET("/wishlist/items/:slug", h.GetWishlistItem)
	engine.DELETE("/wishlist/items/:slug", h.RemoveWishlistItem)
	engine.POST("/wishlist/items/:slug/move-to-cart", h.MoveWishlistItemToCart)
	engine.POST("/wishlist/move-all-to-cart", h.MoveAllWishlistToCart)
	engine.GET("/recently-viewed", h.GetRecentlyViewed)
	engine.POST("/recently-viewed", h.PushRecentlyViewed)
	engine.DELETE("/recently-viewed", h.ClearRecentlyViewed)

	return &testEnv{handler: h, engine: engine, backend: backend}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total     int64 `json:"total"`
		TotalPage int64 `json:"total_page"`
	} `json:"pagination"`
}

func (e *testEnv) do(t *testing.T, method, path, visitor, body string) envelope {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if visitor != "" {
		req.Header.Set(testVisitorHeader, visitor)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: http status want 200 got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: unmarshal failed: %v body=%s", method, path, err, w.Body.String())
	}
	return resp
}

func decodeData(t *testing.T, resp envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dest); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(resp.Data))
	}
}

type cartViewJSON struct {
	Items []struct {
		Slug     string `json:"slug"`
		Quantity int    `json:"quantity"`
	} `json:"items"`
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
	IsOpen    bool   `json:"is_open"`
}
