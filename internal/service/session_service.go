package service

import (
	"context"
	"strings"
	"sync"

	"github.com/zrg-storefront/internal/constants"
	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/models"
	"github.com/zrg-storefront/internal/repository"

	lru "github.com/hashicorp/golang-lru"
)

const defaultMaxActiveSessions = 10000

// Session 单个访客的购物车、心愿单与最近浏览
type Session struct {
	VisitorID string
	Cart      *CartStore
	Wishlist  *WishlistStore
	Recent    *RecentlyViewed

	cartOpen bool
}

// CartOpen 购物车面板是否处于打开状态
func (s *Session) CartOpen() bool {
	return s.cartOpen
}

// SetCartOpen 设置购物车面板状态
func (s *Session) SetCartOpen(open bool) {
	s.cartOpen = open
}

// MoveToCart 心愿单条目移入购物车：先加入购物车再从心愿单删除，无回滚
func (s *Session) MoveToCart(ctx context.Context, slug string) bool {
	script, ok := s.Wishlist.Get(slug)
	if !ok {
		return false
	}
	s.Cart.Add(ctx, script)
	s.Wishlist.Remove(ctx, script.Slug)
	return true
}

// MoveAllToCart 心愿单全部移入购物车，返回移动数量
func (s *Session) MoveAllToCart(ctx context.Context) int {
	moved := 0
	for _, script := range s.Wishlist.Items() {
		if s.MoveToCart(ctx, script.Slug) {
			moved++
		}
	}
	return moved
}

// SessionService 访客会话注册表，LRU 淘汰后下次访问从快照重新加载
type SessionService struct {
	snapshots *SnapshotStore
	prefix    string
	sessions  *lru.Cache

	mu    sync.Mutex
	locks map[string]*visitorLock
}

// visitorLock 独立于 LRU 的访客锁，refs 包含持有者与等待者
type visitorLock struct {
	mu      sync.Mutex
	refs    int
	session *Session
}

// NewSessionService 创建会话注册表
func NewSessionService(snapshots *SnapshotStore, prefix string, maxActive int) (*SessionService, error) {
	if maxActive <= 0 {
		maxActive = defaultMaxActiveSessions
	}
	sessions, err := lru.NewWithEvict(maxActive, func(key interface{}, _ interface{}) {
		logger.Debugw("visitor_session_evicted", "visitor_id", key)
	})
	if err != nil {
		return nil, err
	}
	return &SessionService{
		snapshots: snapshots,
		prefix:    strings.TrimSpace(prefix),
		sessions:  sessions,
		locks:     make(map[string]*visitorLock),
	}, nil
}

// Acquire 获取访客会话；未命中时优先复用仍在处理请求的会话，否则从快照加载
func (s *SessionService) Acquire(ctx context.Context, visitorID string) (*Session, error) {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return nil, ErrSessionInvalid
	}
	if session, ok := s.lookup(visitorID); ok {
		return session, nil
	}

	loaded := s.load(ctx, visitorID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.lookupLocked(visitorID); ok {
		return session, nil
	}
	s.sessions.Add(visitorID, loaded)
	return loaded, nil
}

// WithSession 在访客锁内执行 fn，同一访客的请求串行处理；锁不随 LRU 淘汰
func (s *SessionService) WithSession(ctx context.Context, visitorID string, fn func(*Session) error) error {
	visitorID = strings.TrimSpace(visitorID)
	if visitorID == "" {
		return ErrSessionInvalid
	}
	lock := s.pin(visitorID)
	defer s.unpin(visitorID, lock)

	lock.mu.Lock()
	defer lock.mu.Unlock()

	session, err := s.Acquire(ctx, visitorID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	lock.session = session
	s.mu.Unlock()
	return fn(session)
}

func (s *SessionService) lookup(visitorID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(visitorID)
}

// lookupLocked 需持有 s.mu；被淘汰但仍被引用的会话重新放回 LRU
func (s *SessionService) lookupLocked(visitorID string) (*Session, bool) {
	if cached, ok := s.sessions.Get(visitorID); ok {
		return cached.(*Session), true
	}
	if lock, ok := s.locks[visitorID]; ok && lock.session != nil {
		s.sessions.Add(visitorID, lock.session)
		return lock.session, true
	}
	return nil, false
}

func (s *SessionService) pin(visitorID string) *visitorLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[visitorID]
	if !ok {
		lock = &visitorLock{}
		s.locks[visitorID] = lock
	}
	lock.refs++
	return lock
}

func (s *SessionService) unpin(visitorID string, lock *visitorLock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock.refs--
	if lock.refs <= 0 {
		delete(s.locks, visitorID)
	}
}

// ActiveCount 当前内存中的会话数量
func (s *SessionService) ActiveCount() int {
	return s.sessions.Len()
}

// Forget 移出内存，下次访问重新加载；正在处理请求的会话不受影响
func (s *SessionService) Forget(visitorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Remove(strings.TrimSpace(visitorID))
}

func (s *SessionService) load(ctx context.Context, visitorID string) *Session {
	session := &Session{
		VisitorID: visitorID,
		Cart:      LoadCartStore(ctx, s.key(visitorID, constants.SnapshotKeyCart), s.snapshots),
		Wishlist:  LoadWishlistStore(ctx, s.key(visitorID, constants.SnapshotKeyWishlist), s.snapshots),
		Recent:    LoadRecentlyViewed(ctx, s.key(visitorID, constants.SnapshotKeyRecentlyViewed), s.snapshots),
	}
	session.Cart.OnAdd(func() {
		session.cartOpen = true
	})
	return session
}

func (s *SessionService) key(visitorID, name string) string {
	return repository.SnapshotKey(s.prefix, visitorID, name)
}

// CartView 购物车响应视图
type CartView struct {
	CartSummary
	IsOpen bool `json:"is_open"`
}

// WishlistView 心愿单响应视图
type WishlistView struct {
	Items []models.Script `json:"items"`
	Count int             `json:"count"`
}

// NewWishlistView 构造心愿单视图
func NewWishlistView(store *WishlistStore) WishlistView {
	return WishlistView{Items: store.Items(), Count: store.Len()}
}
