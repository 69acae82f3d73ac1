package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port      string
	LogLevel  slog.Level
	Location  *time.Location
	Backend   *BackendConfig
	Reconcile *ReconcileConfig
	Window    *WindowConfig
	Notifier  NotifierConfig
	Redis     *RedisConfig
	Species   *SpeciesConfig
}

type NotifierKind string

const (
	NotifierLocal     NotifierKind = "local"
	NotifierTaskQueue NotifierKind = "taskqueue"
)

type NotifierConfig struct {
	Kind             NotifierKind
	PermissionDenied bool
	TaskQueue        TaskQueueConfig
}

type TaskQueueConfig struct {
	PrimindTasksURL string
	QueueName       string
	TargetURL       string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	loc, err := loadLocation(os.Getenv("TIMEZONE"))
	if err != nil {
		return nil, err
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	maxRetries := 3
	if v := os.Getenv("TASK_QUEUE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxRetries = parsed
		}
	}

	notifierKind := NotifierKind(strings.ToLower(os.Getenv("NOTIFIER")))
	if notifierKind != NotifierTaskQueue {
		notifierKind = NotifierLocal
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:      port,
		LogLevel:  ParseLogLevel(os.Getenv("LOG_LEVEL")),
		Location:  loc,
		Backend:   LoadBackendConfig(),
		Reconcile: LoadReconcileConfig(),
		Window:    LoadWindowConfig(),
		Notifier: NotifierConfig{
			Kind:             notifierKind,
			PermissionDenied: os.Getenv("NOTIFICATION_PERMISSION") == "denied",
			TaskQueue: TaskQueueConfig{
				PrimindTasksURL: os.Getenv("PRIMIND_TASKS_URL"),
				QueueName:       queueName,
				TargetURL:       os.Getenv("TASK_QUEUE_TARGET_URL"),

				GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
				GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
				GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
				GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

				MaxRetries: maxRetries,
			},
		},
		Redis:   redisConfig,
		Species: LoadSpeciesConfig(),
	}, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

// ParseLogLevel maps LOG_LEVEL values to slog levels, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
