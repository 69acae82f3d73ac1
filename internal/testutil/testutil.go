// Package testutil holds shared helpers for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

const (
	defaultRedisImage = "redis:8-alpine"
	redisImageEnv     = "TEST_REDIS_IMAGE"
)

// SetupRedisContainer starts a throwaway Redis for the ack outbox tests. The
// test is skipped, not failed, when no container runtime is available.
func SetupRedisContainer(ctx context.Context, t *testing.T) (*redis.Client, func()) {
	t.Helper()

	// testcontainers panics when no docker host can be found
	defer func() {
		if r := recover(); r != nil {
			t.Skipf("redis container unavailable: %v", r)
		}
	}()

	image := os.Getenv(redisImageEnv)
	if image == "" {
		image = defaultRedisImage
	}

	container, err := redismodule.Run(ctx, image)
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Skipf("redis endpoint unavailable: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = container.Terminate(ctx)
		t.Skipf("redis not reachable at %s: %v", endpoint, err)
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	return client, cleanup
}
