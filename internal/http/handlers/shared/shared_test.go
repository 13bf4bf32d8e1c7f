package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		page, size, def, max int
		wantPage, wantSize   int
	}{
		{page: 0, size: 0, def: 0, max: 0, wantPage: 1, wantSize: 20},
		{page: 3, size: 500, def: 12, max: 50, wantPage: 3, wantSize: 50},
		{page: -1, size: 8, def: 12, max: 50, wantPage: 1, wantSize: 8},
		{page: 2, size: 0, def: 24, max: 50, wantPage: 2, wantSize: 24},
	}
	for _, tc := range cases {
		page, size := NormalizePagination(tc.page, tc.size, tc.def, tc.max)
		if page != tc.wantPage || size != tc.wantSize {
			t.Fatalf("NormalizePagination(%d,%d,%d,%d) = %d,%d want %d,%d",
				tc.page, tc.size, tc.def, tc.max, page, size, tc.wantPage, tc.wantSize)
		}
	}
}

func TestGetVisitorIDMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := GetVisitorID(c); ok {
		t.Fatalf("missing visitor id should fail")
	}
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", resp.StatusCode)
	}
}

func TestGetVisitorIDPresent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(VisitorIDKey, "visitor-1")

	got, ok := GetVisitorID(c)
	if !ok || got != "visitor-1" {
		t.Fatalf("want visitor-1 got %q ok=%v", got, ok)
	}
}
