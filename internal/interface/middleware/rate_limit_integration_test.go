//go:build integration

package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestIntegration_RedisWindow(t *testing.T) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() { _ = container.Terminate(ctx) }()

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	w := NewRedisWindow(rdb, 300*time.Millisecond)
	for want := 1; want <= 3; want++ {
		q, err := w.Hit(ctx, "rl:test")
		require.NoError(t, err)
		require.Equal(t, want, q.Hits)
		require.Positive(t, q.Reset)
		require.LessOrEqual(t, q.Reset, 300*time.Millisecond)
	}

	require.Eventually(t, func() bool {
		q, err := w.Hit(ctx, "rl:test")
		return err == nil && q.Hits == 1
	}, 2*time.Second, 100*time.Millisecond, "a new window starts after expiry")
}
