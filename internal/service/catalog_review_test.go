package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/zrg-storefront/internal/cache"
	"github.com/zrg-storefront/internal/catalog"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewBackend struct {
	mu        sync.Mutex
	reviews   []catalog.ReviewInput
	failing   bool
	rejectAll bool
}

func (b *reviewBackend) received() []catalog.ReviewInput {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]catalog.ReviewInput(nil), b.reviews...)
}

func newReviewUpstream(t *testing.T, backend *reviewBackend) *catalog.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scripts/economy-job/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 7, "slug": "economy-job", "title": "Economy Job", "price": "20.00"}`))
	})
	mux.HandleFunc("/api/write-review/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if backend.failing {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "database is locked"}`))
			return
		}
		var input catalog.ReviewInput
		_ = jsoniter.NewDecoder(r.Body).Decode(&input)
		if backend.rejectAll || input.ScriptID == "" || input.Name == "" || input.Rating == 0 || input.Description == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "All fields are required."}`))
			return
		}
		backend.mu.Lock()
		backend.reviews = append(backend.reviews, input)
		backend.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "Review submitted successfully."}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return catalog.NewClient(server.URL+"/api", time.Second)
}

func newReviewCatalogService(t *testing.T, backend *reviewBackend) (*CatalogService, *[][]string) {
	t.Helper()
	svc := NewCatalogService(newReviewUpstream(t, backend), time.Minute, 3)
	invalidated := [][]string{}
	svc.invalidate = func(_ context.Context, keys ...string) error {
		invalidated = append(invalidated, keys)
		return nil
	}
	return svc, &invalidated
}

func TestSubmitReviewForwardsAndInvalidatesCache(t *testing.T) {
	backend := &reviewBackend{}
	svc, invalidated := newReviewCatalogService(t, backend)

	err := svc.SubmitReview(context.Background(), "economy-job", ReviewSubmission{
		Name:        "  Alex ",
		Rating:      5,
		Description: "Solid economy script",
	})
	require.NoError(t, err)

	reviews := backend.received()
	require.Len(t, reviews, 1)
	assert.Equal(t, catalog.ReviewInput{ScriptID: "7", Name: "Alex", Rating: 5, Description: "Solid economy script"}, reviews[0])
	require.Len(t, *invalidated, 1)
	assert.ElementsMatch(t, []string{cache.CatalogScriptKey("economy-job"), cache.KeyCatalogScripts}, (*invalidated)[0])
}

func TestSubmitReviewRequiresAllFields(t *testing.T) {
	backend := &reviewBackend{}
	svc, invalidated := newReviewCatalogService(t, backend)
	ctx := context.Background()

	cases := []ReviewSubmission{
		{Rating: 4, Description: "no name"},
		{Name: "Alex", Description: "no rating"},
		{Name: "Alex", Rating: 6, Description: "out of range"},
		{Name: "Alex", Rating: 3, Description: "   "},
	}
	for _, input := range cases {
		assert.ErrorIs(t, svc.SubmitReview(ctx, "economy-job", input), ErrReviewInvalid)
	}
	assert.ErrorIs(t, svc.SubmitReview(ctx, " ", ReviewSubmission{Name: "a", Rating: 1, Description: "b"}), ErrInvalidSlug)
	assert.Empty(t, backend.received())
	assert.Empty(t, *invalidated)
}

func TestSubmitReviewUpstreamRejection(t *testing.T) {
	backend := &reviewBackend{rejectAll: true}
	svc, invalidated := newReviewCatalogService(t, backend)

	err := svc.SubmitReview(context.Background(), "economy-job", ReviewSubmission{Name: "Alex", Rating: 2, Description: "meh"})
	assert.ErrorIs(t, err, ErrReviewInvalid)
	assert.Empty(t, *invalidated)
}

func TestSubmitReviewUnknownScript(t *testing.T) {
	backend := &reviewBackend{}
	svc, _ := newReviewCatalogService(t, backend)

	err := svc.SubmitReview(context.Background(), "missing", ReviewSubmission{Name: "Alex", Rating: 2, Description: "meh"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, backend.received())
}

func TestSubmitReviewUpstreamFailure(t *testing.T) {
	backend := &reviewBackend{failing: true}
	svc, invalidated := newReviewCatalogService(t, backend)

	err := svc.SubmitReview(context.Background(), "economy-job", ReviewSubmission{Name: "Alex", Rating: 2, Description: "meh"})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Empty(t, *invalidated)
}

func TestSubmitReviewWithoutSink(t *testing.T) {
	svc := NewCatalogService(catalogFixture(), 0, 3)
	err := svc.SubmitReview(context.Background(), "economy-job", ReviewSubmission{Name: "Alex", Rating: 2, Description: "meh"})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}
