package catalog

import (
	"testing"
)

func TestNormalizeScriptDjangoShape(t *testing.T) {
	record := map[string]interface{}{
		"id":            float64(12),
		"title":         "Economy Job",
		"slug":          "economy-job",
		"price":         "20.00",
		"image":         "/media/scripts/images/economy.png",
		"categories":    []interface{}{"jobs", "economy"},
		"frameworks":    []interface{}{"esx", nil},
		"tebex_id":      "5551234",
		"rating":        float64(4.25),
		"reviews_count": float64(3),
		"is_bestseller": true,
		"created_at":    "2024-03-01T10:20:30.123Z",
		"images":        []interface{}{"/media/a.png", nil},
	}

	script, err := normalizeScript(record, "https://api.example.com")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if script.ID != "12" {
		t.Fatalf("int id should become string, got %q", script.ID)
	}
	if script.Price.String() != "20.00" {
		t.Fatalf("unexpected price: %s", script.Price)
	}
	if script.DiscountPrice != nil {
		t.Fatalf("missing discount should stay nil")
	}
	if script.ExternalProductID != "5551234" {
		t.Fatalf("tebex id not mapped: %q", script.ExternalProductID)
	}
	if script.Rating != 4.3 {
		t.Fatalf("rating should round to one decimal, got %v", script.Rating)
	}
	if script.ReviewsCount != 3 {
		t.Fatalf("unexpected reviews count: %d", script.ReviewsCount)
	}
	if len(script.Frameworks) != 1 || script.Frameworks[0] != "esx" {
		t.Fatalf("null framework should be dropped: %v", script.Frameworks)
	}
	if len(script.Images) != 1 || script.Images[0] != "https://api.example.com/media/a.png" {
		t.Fatalf("unexpected images: %v", script.Images)
	}
	if script.Image != "https://api.example.com/media/scripts/images/economy.png" {
		t.Fatalf("relative image not resolved: %s", script.Image)
	}
	if !script.IsBestseller || script.IsFeatured {
		t.Fatalf("unexpected flags: featured=%v bestseller=%v", script.IsFeatured, script.IsBestseller)
	}
	if script.CreatedAt == nil || script.CreatedAt.Year() != 2024 {
		t.Fatalf("created_at not parsed: %v", script.CreatedAt)
	}
}

func TestNormalizeScriptNonePrice(t *testing.T) {
	script, err := NormalizeScript(map[string]interface{}{
		"id":    "7",
		"slug":  "free-script",
		"price": "None",
	})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if !script.Price.IsZero() {
		t.Fatalf("None price should become zero, got %s", script.Price)
	}
}

func TestNormalizeScriptCategoryAliasAndDiscount(t *testing.T) {
	script, err := NormalizeScript(map[string]interface{}{
		"id":            "3",
		"slug":          "vehicle-pack",
		"price":         float64(30),
		"discountPrice": float64(25.5),
		"categories":    []interface{}{"vehicles"},
		"category":      []interface{}{"vehicles", "cars"},
	})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(script.Categories) != 2 || script.Categories[0] != "vehicles" || script.Categories[1] != "cars" {
		t.Fatalf("categories should merge without duplicates: %v", script.Categories)
	}
	if script.DiscountPrice == nil || script.DiscountPrice.String() != "25.50" {
		t.Fatalf("discountPrice alias not mapped: %v", script.DiscountPrice)
	}
	if script.EffectivePrice().String() != "25.50" {
		t.Fatalf("effective price should prefer discount")
	}
}

func TestNormalizeScriptZeroDiscountIsAbsent(t *testing.T) {
	script, err := NormalizeScript(map[string]interface{}{
		"id":             "4",
		"slug":           "maps",
		"price":          "10.00",
		"discount_price": "0",
	})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if script.DiscountPrice != nil {
		t.Fatalf("zero discount should collapse to absent")
	}
}

func TestNormalizeScriptRatingFromReviews(t *testing.T) {
	script, err := NormalizeScript(map[string]interface{}{
		"id":   "5",
		"slug": "hud",
		"reviews": []interface{}{
			map[string]interface{}{"name": "a", "rating": float64(5), "description": "great"},
			map[string]interface{}{"username": "b", "rating": float64(4), "comment": "good"},
			map[string]interface{}{"name": "c", "rating": float64(4)},
		},
	})
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if script.Rating != 4.3 {
		t.Fatalf("rating should be review mean 4.3, got %v", script.Rating)
	}
	if script.ReviewsCount != 3 {
		t.Fatalf("reviews count should fall back to len(reviews), got %d", script.ReviewsCount)
	}
	if script.Reviews[1].Name != "b" || script.Reviews[1].Description != "good" {
		t.Fatalf("review aliases not mapped: %+v", script.Reviews[1])
	}
}

func TestNormalizePostDates(t *testing.T) {
	post, err := normalizePost(map[string]interface{}{
		"title":          "Release notes",
		"slug":           "release-notes",
		"published_date": "2024-05-01T08:00:00Z",
		"modified_date":  nil,
	})
	if err != nil {
		t.Fatalf("normalize post failed: %v", err)
	}
	if post.PublishedDate == nil || post.PublishedDate.Month() != 5 {
		t.Fatalf("published date not parsed: %v", post.PublishedDate)
	}
	if post.ModifiedDate != nil {
		t.Fatalf("null modified date should stay nil")
	}
}
