//go:build gcloud

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

func initTaskQueue(ctx context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	tq := cfg.Notifier.TaskQueue
	cloudTasksClient, err := taskqueue.NewCloudTasksClient(ctx, taskqueue.CloudTasksConfig{
		ProjectID:  tq.GCloudProjectID,
		LocationID: tq.GCloudLocationID,
		QueueID:    tq.GCloudQueueID,
		TargetURL:  tq.GCloudTargetURL,
		MaxRetries: tq.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("task queue initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", tq.GCloudProjectID),
		slog.String("location", tq.GCloudLocationID),
		slog.String("queue", tq.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasksClient.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasksClient, cleanup, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "pollination-agent"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = os.Getenv("GCLOUD_PROJECT_ID")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		LogLevel:      config.ParseLogLevel(os.Getenv("LOG_LEVEL")),
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: moduleName,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
