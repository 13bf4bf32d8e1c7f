package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/provider"
	"github.com/zrg-storefront/internal/queue"

	"github.com/hibiken/asynq"
	"github.com/panjf2000/ants/v2"
)

const defaultWarmConcurrency = 8

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCatalogRefresh, c.handleCatalogRefresh)
	mux.HandleFunc(queue.TaskSnapshotPurge, c.handleSnapshotPurge)
}

func (c *Consumer) handleCatalogRefresh(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.CatalogService == nil || task == nil {
		logger.Debugw("worker_catalog_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCatalogRefreshPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_catalog_refresh_unmarshal_failed", "error", err)
		return err
	}

	start := time.Now()
	scripts, err := c.CatalogService.Refresh(ctx)
	if err != nil {
		logger.Warnw("worker_catalog_refresh_failed", "trigger", payload.Trigger, "error", err)
		return err
	}
	warmed, failed := 0, 0
	if payload.WarmDetails {
		slugs := make([]string, 0, len(scripts))
		for _, script := range scripts {
			if slug := strings.TrimSpace(script.Slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}
		warmed, failed = c.warmDetails(ctx, slugs)
	}
	logger.Infow("worker_catalog_refreshed",
		"trigger", payload.Trigger,
		"scripts", len(scripts),
		"warmed", warmed,
		"warm_failed", failed,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// warmDetails 并发预热详情缓存，单个失败不影响整体
func (c *Consumer) warmDetails(ctx context.Context, slugs []string) (int, int) {
	if len(slugs) == 0 {
		return 0, 0
	}
	size := defaultWarmConcurrency
	if c.Config != nil && c.Config.Catalog.WarmConcurrency > 0 {
		size = c.Config.Catalog.WarmConcurrency
	}
	pool, err := ants.NewPool(size)
	if err != nil {
		logger.Warnw("worker_catalog_warm_pool_failed", "error", err)
		return 0, len(slugs)
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		warmed int64
		failed int64
	)
	for _, slug := range slugs {
		slug := slug
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := c.CatalogService.WarmDetail(ctx, slug); err != nil {
				atomic.AddInt64(&failed, 1)
				logger.Debugw("worker_catalog_warm_detail_failed", "slug", slug, "error", err)
				return
			}
			atomic.AddInt64(&warmed, 1)
		})
		if submitErr != nil {
			wg.Done()
			atomic.AddInt64(&failed, 1)
			logger.Warnw("worker_catalog_warm_submit_failed", "slug", slug, "error", submitErr)
		}
	}
	wg.Wait()
	return int(warmed), int(failed)
}

func (c *Consumer) handleSnapshotPurge(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_snapshot_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if c.SnapshotPurger == nil {
		logger.Debugw("worker_snapshot_purge_skip_unsupported")
		return nil
	}
	payload, err := queue.ParseSnapshotPurgePayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_snapshot_purge_unmarshal_failed", "error", err)
		return err
	}
	if payload.Before.IsZero() {
		return fmt.Errorf("snapshot purge payload missing before: %w", asynq.SkipRetry)
	}
	removed, err := c.SnapshotPurger.PurgeBefore(ctx, payload.Before)
	if err != nil {
		logger.Warnw("worker_snapshot_purge_failed", "before", payload.Before, "error", err)
		return err
	}
	logger.Infow("worker_snapshot_purged", "before", payload.Before, "removed", removed)
	return nil
}
