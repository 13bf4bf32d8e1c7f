package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zrg-storefront/internal/config"
	"github.com/zrg-storefront/internal/constants"
	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
)

const snapshotPurgeSpec = "@hourly"

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// TaskEnqueuer 定时任务投递
type TaskEnqueuer interface {
	EnqueueCatalogRefresh(payload queue.CatalogRefreshPayload, opts ...asynq.Option) error
	EnqueueSnapshotPurge(payload queue.SnapshotPurgePayload, opts ...asynq.Option) error
}

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	sched    *cron.Cron
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	var enqueuer TaskEnqueuer
	if consumer.Container != nil && consumer.QueueClient != nil {
		enqueuer = consumer.QueueClient
	}
	sched, err := buildScheduler(consumer, enqueuer)
	if err != nil {
		return nil, err
	}
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
		sched:    sched,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.sched != nil {
		s.sched.Start()
		go s.enqueueStartupRefresh()
	}
	_ = ctx
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	if s.sched != nil {
		stopped := s.sched.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
	}
	s.server.Shutdown()
	return nil
}

func (s *Service) enqueueStartupRefresh() {
	if s.consumer == nil || s.consumer.QueueClient == nil {
		return
	}
	err := s.consumer.QueueClient.EnqueueCatalogRefresh(queue.CatalogRefreshPayload{
		Trigger:     constants.RefreshTriggerStartup,
		WarmDetails: true,
	})
	if err != nil {
		logger.Warnw("worker_startup_refresh_enqueue_failed", "error", err)
	}
}

// buildScheduler 注册目录刷新与快照清理定时任务；enqueuer 为空时不启用调度
func buildScheduler(consumer *Consumer, enqueuer TaskEnqueuer) (*cron.Cron, error) {
	if consumer == nil || consumer.Container == nil || consumer.Config == nil || enqueuer == nil {
		return nil, nil
	}
	cfg := consumer.Config
	sched := cron.New(cron.WithParser(cronParser))

	if spec := strings.TrimSpace(cfg.Catalog.RefreshCron); spec != "" {
		_, err := sched.AddFunc(spec, func() {
			err := enqueuer.EnqueueCatalogRefresh(queue.CatalogRefreshPayload{
				Trigger:     constants.RefreshTriggerCron,
				WarmDetails: true,
			})
			if err != nil {
				logger.Warnw("worker_catalog_refresh_enqueue_failed", "error", err)
			}
		})
		if err != nil {
			logger.Errorw("worker_catalog_refresh_cron_invalid", "spec", spec, "error", err)
			return nil, err
		}
	}

	ttl := cfg.Storage.TTL()
	if consumer.SnapshotPurger != nil && ttl > 0 {
		_, err := sched.AddFunc(snapshotPurgeSpec, func() {
			before := time.Now().Add(-ttl)
			if err := enqueuer.EnqueueSnapshotPurge(queue.SnapshotPurgePayload{Before: before}); err != nil {
				logger.Warnw("worker_snapshot_purge_enqueue_failed", "error", err)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	return sched, nil
}
