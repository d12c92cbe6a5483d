//go:build integration

package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start Redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLocker_OneHolderPerKey(t *testing.T) {
	ctx := context.Background()
	client := newRedisClient(t)
	first := NewRedisLocker(client)
	second := NewRedisLocker(client)

	lock, err := first.Obtain(ctx, "snapshot:daily:2024-03-01", time.Minute)
	require.NoError(t, err)

	_, err = second.Obtain(ctx, "snapshot:daily:2024-03-01", time.Minute)
	require.ErrorIs(t, err, ErrLockNotObtained)

	other, err := second.Obtain(ctx, "snapshot:daily:2024-03-02", time.Minute)
	require.NoError(t, err)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lock.Release(ctx))
	again, err := second.Obtain(ctx, "snapshot:daily:2024-03-01", time.Minute)
	require.NoError(t, err)
	require.NoError(t, again.Release(ctx))
}

func TestRedisLocker_ExpiredLockReleasesQuietly(t *testing.T) {
	ctx := context.Background()
	locker := NewRedisLocker(newRedisClient(t))

	lock, err := locker.Obtain(ctx, "snapshot:daily:2024-03-03", 100*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(300 * time.Millisecond)

	assert.NoError(t, lock.Release(ctx))
}
