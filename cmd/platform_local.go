//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-pollination-agent/internal/config"
	"github.com/KasumiMercury/primind-pollination-agent/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability"
	"github.com/KasumiMercury/primind-pollination-agent/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	tq := taskqueue.NewPrimindTasksClient(
		cfg.Notifier.TaskQueue.PrimindTasksURL,
		cfg.Notifier.TaskQueue.QueueName,
		cfg.Notifier.TaskQueue.TargetURL,
		cfg.Notifier.TaskQueue.MaxRetries,
	)

	slog.Info("task queue initialized",
		slog.String("type", "primind_tasks"),
		slog.String("url", cfg.Notifier.TaskQueue.PrimindTasksURL),
		slog.String("queue", cfg.Notifier.TaskQueue.QueueName),
	)

	return tq, tq.Close, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "pollination-agent"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		LogLevel:      config.ParseLogLevel(os.Getenv("LOG_LEVEL")),
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: moduleName,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
