package app

import (
	"errors"

	"github.com/zrg-storefront/internal/config"
	"github.com/zrg-storefront/internal/logger"
	"github.com/zrg-storefront/internal/provider"
	"github.com/zrg-storefront/internal/router"
	"github.com/zrg-storefront/internal/worker"
)

// BuildRunner 构建服务运行器，容器在所有服务停止后关闭
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}

	services, err := buildServices(cfg, mode, container)
	if err != nil {
		_ = container.Close()
		return nil, err
	}
	if len(services) == 0 {
		_ = container.Close()
		return nil, errors.New("no services initialized (check mode and config)")
	}

	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

func buildServices(cfg *config.Config, mode string, container *provider.Container) ([]Service, error) {
	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Addr(), engine, cfg.Server.ReadHeaderTimeout()))
	}

	// 初始化 Worker 服务；all 模式下队列未启用时仅提供 API
	if mode == ModeAll || mode == ModeWorker {
		if !cfg.Queue.Enabled && mode == ModeAll {
			logger.Warnw("app_worker_skipped_queue_disabled")
			return services, nil
		}
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}
	return services, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode, "storage", opts.Config.Storage.Driver)
	return RunWithOptions(runner, opts)
}
