package redis_test

import (
	"context"
	"strconv"
	"testing"

	"mpesa-payment-gateway/config"
	"mpesa-payment-gateway/internal/adapter/storage/redis"
	"mpesa-payment-gateway/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	log := logger.New("error", false)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg := config.RedisConfig{Host: mr.Host(), Port: port}

	client, err := redis.NewClient(context.Background(), cfg, log)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewClient_Unreachable(t *testing.T) {
	log := logger.New("error", false)
	cfg := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	_, err := redis.NewClient(context.Background(), cfg, log)
	assert.Error(t, err)
}
