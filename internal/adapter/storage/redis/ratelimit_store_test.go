package redis_test

import (
	"context"
	"testing"
	"time"

	"mpesa-payment-gateway/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_Increment(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewRateLimitStore(client)
	ctx := context.Background()

	t.Run("counts within a window", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			count, err := store.Increment(ctx, "api:10.0.0.1", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("different keys are independent", func(t *testing.T) {
		count, err := store.Increment(ctx, "api:10.0.0.2", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("window key expires", func(t *testing.T) {
		_, err := store.Increment(ctx, "api:10.0.0.3", time.Minute)
		require.NoError(t, err)

		// The counter key carries a TTL slightly beyond the window.
		mr.FastForward(2 * time.Minute)

		count, err := store.Increment(ctx, "api:10.0.0.3", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
