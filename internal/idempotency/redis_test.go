package idempotency

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

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisStore(client)

	require.NoError(t, s.Ping(ctx))

	ok, err := s.Reserve(ctx, "idem:u:POST:/api/swap:k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Reserve(ctx, "idem:u:POST:/api/swap:k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, "idem:u:POST:/api/swap:k", Record{Status: 201, ContentType: "application/json", Body: []byte(`{"data":1}`)}, time.Minute))

	record, err := s.Get(ctx, "idem:u:POST:/api/swap:k")
	require.NoError(t, err)
	assert.Equal(t, 201, record.Status)
	assert.Equal(t, `{"data":1}`, string(record.Body))

	require.NoError(t, s.Release(ctx, "idem:u:POST:/api/swap:k"))
	record, err = s.Get(ctx, "idem:u:POST:/api/swap:k")
	require.NoError(t, err)
	assert.Nil(t, record)
}
