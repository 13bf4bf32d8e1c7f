package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessionService(t *testing.T, maxActive int) (*SessionService, *SnapshotStore) {
	t.Helper()
	snapshots, _ := newTestSnapshots()
	svc, err := NewSessionService(snapshots, "zrg", maxActive)
	require.NoError(t, err)
	return svc, snapshots
}

func TestSessionAcquireRejectsEmptyVisitor(t *testing.T) {
	svc, _ := newTestSessionService(t, 4)
	_, err := svc.Acquire(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionAcquireReturnsSameInstance(t *testing.T) {
	svc, _ := newTestSessionService(t, 4)
	first, err := svc.Acquire(context.Background(), "visitor-1")
	require.NoError(t, err)
	second, err := svc.Acquire(context.Background(), "visitor-1")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, svc.ActiveCount())
}

func TestSessionsAreIsolatedPerVisitor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	a, _ := svc.Acquire(ctx, "a")
	b, _ := svc.Acquire(ctx, "b")

	a.Cart.Add(ctx, testScript("economy-job", "20", "15"))
	assert.Equal(t, 1, a.Cart.Len())
	assert.Equal(t, 0, b.Cart.Len())
}

func TestSessionReloadsAfterEviction(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 1)

	first, err := svc.Acquire(ctx, "visitor-1")
	require.NoError(t, err)
	first.Cart.Add(ctx, testScript("economy-job", "20", "15"))
	first.Wishlist.Add(ctx, testScript("vehicle-pack", "30", ""))
	first.Recent.Push(ctx, testScript("hud", "5", ""))

	_, err = svc.Acquire(ctx, "visitor-2")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.ActiveCount())

	reloaded, err := svc.Acquire(ctx, "visitor-1")
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, 1, reloaded.Cart.TotalItemCount())
	assert.Equal(t, "15.00", reloaded.Cart.TotalPrice().String())
	assert.True(t, reloaded.Wishlist.Contains("vehicle-pack"))
	require.Equal(t, 1, reloaded.Recent.Len())
	assert.Equal(t, "hud", reloaded.Recent.Items()[0].Slug)
}

func TestSessionForgetReloadsFromSnapshots(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	session, _ := svc.Acquire(ctx, "visitor-1")
	session.Cart.Add(ctx, testScript("a", "1", ""))

	svc.Forget("visitor-1")
	assert.Equal(t, 0, svc.ActiveCount())

	reloaded, _ := svc.Acquire(ctx, "visitor-1")
	assert.True(t, reloaded.Cart.Contains("a"))
}

func TestSessionCartOpensOnAdd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	session, _ := svc.Acquire(ctx, "visitor-1")
	assert.False(t, session.CartOpen())

	session.Cart.Add(ctx, testScript("a", "1", ""))
	assert.True(t, session.CartOpen())

	session.SetCartOpen(false)
	session.Cart.SetQuantity(ctx, "a", 3)
	assert.False(t, session.CartOpen())
}

func TestSessionMoveToCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	session, _ := svc.Acquire(ctx, "visitor-1")
	session.Wishlist.Add(ctx, testScript("vehicle-pack", "30", ""))

	assert.True(t, session.MoveToCart(ctx, "vehicle-pack"))
	assert.False(t, session.Wishlist.Contains("vehicle-pack"))
	assert.True(t, session.Cart.Contains("vehicle-pack"))
	assert.True(t, session.CartOpen())

	assert.False(t, session.MoveToCart(ctx, "vehicle-pack"))
}

func TestSessionMoveToCartIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	session, _ := svc.Acquire(ctx, "visitor-1")
	session.Cart.Add(ctx, testScript("a", "1", ""))
	session.Wishlist.Add(ctx, testScript("a", "1", ""))

	require.True(t, session.MoveToCart(ctx, "a"))
	item, ok := session.Cart.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
}

func TestSessionMoveAllToCart(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	session, _ := svc.Acquire(ctx, "visitor-1")
	for _, slug := range []string{"a", "b", "c"} {
		session.Wishlist.Add(ctx, testScript(slug, "1", ""))
	}

	assert.Equal(t, 3, session.MoveAllToCart(ctx))
	assert.Equal(t, 0, session.Wishlist.Len())
	assert.Equal(t, 3, session.Cart.TotalItemCount())
}

func TestWithSessionSerializesSameVisitor(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	script := testScript("a", "2", "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.WithSession(ctx, "visitor-1", func(session *Session) error {
				session.Cart.Add(ctx, script)
				return nil
			})
		}()
	}
	wg.Wait()

	err := svc.WithSession(ctx, "visitor-1", func(session *Session) error {
		assert.Equal(t, 50, session.Cart.TotalItemCount())
		assert.Equal(t, "100.00", session.Cart.TotalPrice().String())
		return nil
	})
	require.NoError(t, err)
}

func TestWithSessionPropagatesErrors(t *testing.T) {
	svc, _ := newTestSessionService(t, 4)
	err := svc.WithSession(context.Background(), "", func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrSessionInvalid)

	err = svc.WithSession(context.Background(), "v", func(*Session) error { return ErrCartEmpty })
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func pinnedRequests(svc *SessionService, visitorID string) int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if lock, ok := svc.locks[visitorID]; ok {
		return lock.refs
	}
	return 0
}

func TestWithSessionSurvivesEvictionDuringRequest(t *testing.T) {
	ctx := context.Background()
	svc, snapshots := newTestSessionService(t, 1)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 2)
	var first, second *Session

	go func() {
		done <- svc.WithSession(ctx, "visitor-a", func(session *Session) error {
			first = session
			close(entered)
			<-release
			session.Cart.Add(ctx, testScript("economy-job", "20", "15"))
			return nil
		})
	}()
	<-entered

	// visitor-b 挤出 visitor-a
	_, err := svc.Acquire(ctx, "visitor-b")
	require.NoError(t, err)

	go func() {
		done <- svc.WithSession(ctx, "visitor-a", func(session *Session) error {
			second = session
			session.Cart.Add(ctx, testScript("vehicle-pack", "30", ""))
			return nil
		})
	}()
	require.Eventually(t, func() bool {
		return pinnedRequests(svc, "visitor-a") == 2
	}, time.Second, time.Millisecond)
	close(release)

	require.NoError(t, <-done)
	require.NoError(t, <-done)
	assert.Same(t, first, second)
	assert.True(t, second.Cart.Contains("economy-job"))
	assert.True(t, second.Cart.Contains("vehicle-pack"))
	assert.Equal(t, 0, pinnedRequests(svc, "visitor-a"))

	fresh, err := NewSessionService(snapshots, "zrg", 1)
	require.NoError(t, err)
	reloaded, err := fresh.Acquire(ctx, "visitor-a")
	require.NoError(t, err)
	assert.True(t, reloaded.Cart.Contains("economy-job"))
	assert.True(t, reloaded.Cart.Contains("vehicle-pack"))
}

func TestWithSessionReleasesVisitorLock(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestSessionService(t, 4)
	err := svc.WithSession(ctx, "visitor-1", func(session *Session) error {
		assert.Equal(t, 1, pinnedRequests(svc, "visitor-1"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, pinnedRequests(svc, "visitor-1"))
}
