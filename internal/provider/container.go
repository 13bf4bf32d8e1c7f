package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zrg-storefront/internal/cache"
	"github.com/zrg-storefront/internal/catalog"
	"github.com/zrg-storefront/internal/config"
	"github.com/zrg-storefront/internal/constants"
	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/models"
	"github.com/zrg-storefront/internal/queue"
	"github.com/zrg-storefront/internal/repository"
	"github.com/zrg-storefront/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SnapshotPurger 支持按更新时间清理快照的存储
type SnapshotPurger interface {
	PurgeBefore(ctx context.Context, before time.Time) (int64, error)
}

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	SnapshotRepo   repository.SnapshotRepository
	SnapshotPurger SnapshotPurger

	// Clients
	CatalogClient *catalog.Client

	// Services
	Snapshots           *service.SnapshotStore
	SessionService      *service.SessionService
	VisitorTokenService *service.VisitorTokenService
	CatalogService      *service.CatalogService
	ContentService      *service.ContentService
	CheckoutService     *service.CheckoutService
	SSOService          *service.SSOService

	closers []func() error
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	if queueClient != nil {
		c.closers = append(c.closers, queueClient.Close)
	}

	// 1. 初始化 Repositories
	if err := c.initRepositories(); err != nil {
		_ = c.Close()
		return nil, err
	}

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// Close 释放容器持有的连接与文件句柄
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Container) initRepositories() error {
	storage := c.Config.Storage
	driver := strings.ToLower(strings.TrimSpace(storage.Driver))
	repo, err := buildSnapshotRepository(driver, storage, models.DB, cache.Client())
	if err != nil {
		return err
	}
	c.SnapshotRepo = repo
	if purger, ok := repo.(SnapshotPurger); ok {
		c.SnapshotPurger = purger
	}
	if closer, ok := repo.(interface{ Close() error }); ok {
		c.closers = append(c.closers, closer.Close)
	}
	logger.Infow("provider_snapshot_storage_ready", "driver", driver)
	return nil
}

func buildSnapshotRepository(driver string, storage config.StorageConfig, db *gorm.DB, redisClient *redis.Client) (repository.SnapshotRepository, error) {
	switch driver {
	case constants.StorageDriverMemory:
		return repository.NewMemorySnapshotRepository(), nil
	case "", constants.StorageDriverDatabase:
		if db == nil {
			return nil, errors.New("storage driver database requires an initialized database")
		}
		return repository.NewSnapshotRepository(db), nil
	case constants.StorageDriverRedis:
		if redisClient == nil {
			return nil, errors.New("storage driver redis requires redis.enabled=true")
		}
		return repository.NewRedisSnapshotRepository(redisClient, storage.TTL()), nil
	case constants.StorageDriverBolt:
		return repository.OpenBoltSnapshotRepository(storage.BoltPath)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", driver)
	}
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.Snapshots = service.NewSnapshotStore(c.SnapshotRepo, cfg.Storage.Timeout())
	sessions, err := service.NewSessionService(c.Snapshots, cfg.Storage.Prefix, cfg.Session.MaxActive)
	if err != nil {
		logger.Errorw("provider_init_session_service_failed", "error", err)
		return err
	}
	c.SessionService = sessions

	if len(strings.TrimSpace(cfg.Session.Secret)) == 0 {
		logger.Warnw("provider_session_secret_empty")
	}
	c.VisitorTokenService = service.NewVisitorTokenService(cfg.Session.Secret, cfg.Session.ExpireHours)

	c.CatalogClient = catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout())
	c.CatalogService = service.NewCatalogService(c.CatalogClient, cfg.Catalog.CacheTTL(), cfg.Catalog.Recommendations)
	c.ContentService = service.NewContentService(c.CatalogClient, cfg.Catalog.CacheTTL())
	c.CheckoutService = service.NewCheckoutService(cfg.Checkout.BaseURL, cfg.Checkout.TaxRate, cfg.Checkout.Currency)
	c.SSOService = service.NewSSOService(service.SSOOptions{
		AuthorizeURL: cfg.SSO.AuthorizeURL,
		ClientID:     cfg.SSO.ClientID,
		RedirectURI:  cfg.SSO.RedirectURI,
		Scope:        cfg.SSO.Scope,
	}, c.CatalogClient)
	return nil
}
