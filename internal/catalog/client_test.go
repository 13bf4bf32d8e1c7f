package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newCatalogTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scripts/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/scripts/":
			_, _ = w.Write([]byte(`[
				{"id": 1, "slug": "economy-job", "title": "Economy Job", "price": "20.00", "categories": ["jobs"], "rating": 4.5},
				{"id": 2, "slug": "", "title": "Broken", "price": "1.00"},
				{"id": 3, "slug": "vehicle-pack", "title": "Vehicle Pack", "price": "None", "category": ["vehicles"], "rating": 3}
			]`))
		case "/api/scripts/economy-job/":
			_, _ = w.Write([]byte(`{"id": 1, "slug": "economy-job", "title": "Economy Job", "price": "20.00", "tebex_id": "99"}`))
		case "/api/scripts/missing/":
			_, _ = w.Write([]byte(`{"error": "No Script matches the given query."}`))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/api/faqs/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"question": "Q?", "answer": "A."}]`))
	})
	mux.HandleFunc("/api/stats/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"active_users": 1200, "premium_scripts": "45"}`))
	})
	mux.HandleFunc("/api/team-members/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "database is locked"}`))
	})
	mux.HandleFunc("/api/featured-servers/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name": "RP City", "image": "/media/featured_servers/rp.png", "url": "https://rp.example.com"}]`))
	})
	mux.HandleFunc("/api/fivem-login/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url": "https://idms.fivem.net/oauth2/authorize?response_type=code"}`))
	})
	mux.HandleFunc("/api/posts/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientListScriptsSkipsRecordsWithoutSlug(t *testing.T) {
	server := newCatalogTestServer(t)
	client := NewClient(server.URL+"/api/", time.Second)

	scripts, err := client.ListScripts(context.Background())
	if err != nil {
		t.Fatalf("list scripts failed: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("want 2 scripts got %d", len(scripts))
	}
	if scripts[0].Slug != "economy-job" || scripts[1].Slug != "vehicle-pack" {
		t.Fatalf("upstream order not kept: %s, %s", scripts[0].Slug, scripts[1].Slug)
	}
	if scripts[1].Categories[0] != "vehicles" {
		t.Fatalf("category alias not merged: %v", scripts[1].Categories)
	}
}

func TestClientGetScript(t *testing.T) {
	server := newCatalogTestServer(t)
	client := NewClient(server.URL+"/api", time.Second)

	script, err := client.GetScript(context.Background(), "economy-job")
	if err != nil {
		t.Fatalf("get script failed: %v", err)
	}
	if script.ExternalProductID != "99" {
		t.Fatalf("unexpected external id: %s", script.ExternalProductID)
	}

	if _, err := client.GetScript(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error body for unknown slug want ErrNotFound got %v", err)
	}
	if _, err := client.GetScript(context.Background(), "gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 want ErrNotFound got %v", err)
	}
}

func TestClientContentEndpoints(t *testing.T) {
	server := newCatalogTestServer(t)
	client := NewClient(server.URL+"/api", time.Second)
	ctx := context.Background()

	faqs, err := client.ListFAQs(ctx)
	if err != nil || len(faqs) != 1 || faqs[0].Answer != "A." {
		t.Fatalf("unexpected faqs: %+v err=%v", faqs, err)
	}

	stats, err := client.GetStats(ctx)
	if err != nil {
		t.Fatalf("get stats failed: %v", err)
	}
	if stats.ActiveUsers != 1200 || stats.PremiumScripts != 45 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	servers, err := client.ListFeaturedServers(ctx)
	if err != nil || len(servers) != 1 {
		t.Fatalf("unexpected servers: %+v err=%v", servers, err)
	}
	if servers[0].Image != server.URL+"/media/featured_servers/rp.png" {
		t.Fatalf("server image not resolved: %s", servers[0].Image)
	}

	loginURL, err := client.GetLoginURL(ctx)
	if err != nil || loginURL == "" {
		t.Fatalf("get login url failed: %q err=%v", loginURL, err)
	}
}

func TestClientErrorBodies(t *testing.T) {
	server := newCatalogTestServer(t)
	client := NewClient(server.URL+"/api", time.Second)

	if _, err := client.ListTeamMembers(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("error body want ErrRequestFailed got %v", err)
	}
	if _, err := client.ListPosts(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("500 want ErrRequestFailed got %v", err)
	}
}

func TestClientUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	if _, err := client.ListScripts(context.Background()); !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("unreachable backend want ErrRequestFailed got %v", err)
	}
}

// newReviewTestServer 按后端 write-review 接口的校验规则应答
func newReviewTestServer(t *testing.T, received *[]ReviewInput) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/write-review/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			_, _ = w.Write([]byte(`{"error": "Invalid request method."}`))
			return
		}
		var input ReviewInput
		if err := catalogJSON.NewDecoder(r.Body).Decode(&input); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "Invalid JSON data."}`))
			return
		}
		if input.ScriptID == "" || input.Name == "" || input.Rating == 0 || input.Description == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "All fields are required."}`))
			return
		}
		if input.ScriptID == "404" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error": "Script not found."}`))
			return
		}
		*received = append(*received, input)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "Review submitted successfully."}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestClientWriteReview(t *testing.T) {
	var received []ReviewInput
	server := newReviewTestServer(t, &received)
	client := NewClient(server.URL+"/api", time.Second)
	ctx := context.Background()

	input := ReviewInput{ScriptID: "1", Name: "Alex", Rating: 5, Description: "Works great"}
	if err := client.WriteReview(ctx, input); err != nil {
		t.Fatalf("write review failed: %v", err)
	}
	if len(received) != 1 || received[0] != input {
		t.Fatalf("unexpected upstream payload: %+v", received)
	}

	err := client.WriteReview(ctx, ReviewInput{ScriptID: "1", Name: "Alex", Rating: 5})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing description want ErrInvalidInput got %v", err)
	}
	if !strings.Contains(err.Error(), "All fields are required") {
		t.Fatalf("upstream message not kept: %v", err)
	}

	err = client.WriteReview(ctx, ReviewInput{ScriptID: "404", Name: "Alex", Rating: 4, Description: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown script want ErrNotFound got %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("rejected reviews should not be stored: %d", len(received))
	}
}

func TestClientWriteReviewUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	err := client.WriteReview(context.Background(), ReviewInput{ScriptID: "1", Name: "a", Rating: 1, Description: "b"})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("unreachable backend want ErrRequestFailed got %v", err)
	}
}
