package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/shield-console/internal/infra"
)

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	l := NewRedisLimiter(rdb, 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Другой клиент считается отдельно
	ok, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, time.Minute, mr.TTL(infra.WaitlistLimitKey("10.0.0.1")))

	mr.FastForward(time.Minute + time.Second)
	ok, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "new window after expiry")
}

func TestRedisLimiter_ErrorWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	_, err := NewRedisLimiter(rdb, 2, time.Minute).Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}

func TestLocalLimiter_Burst(t *testing.T) {
	l := NewLocalLimiter(3, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow(ctx, "a")
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok)
}

// failFirstExpire роняет первый EXPIRE, остальные команды проходят
type failFirstExpire struct{ failed atomic.Bool }

func (h *failFirstExpire) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *failFirstExpire) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "expire" && h.failed.CompareAndSwap(false, true) {
			err := errors.New("expire: connection reset")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (h *failFirstExpire) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisLimiter_RecoversTTLAfterFailedExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	rdb.AddHook(&failFirstExpire{})

	l := NewRedisLimiter(rdb, 2, time.Minute)
	ctx := context.Background()
	key := infra.WaitlistLimitKey("10.0.0.1")

	_, err := l.Allow(ctx, "10.0.0.1")
	require.Error(t, err, "first EXPIRE is dropped")

	for i := 0; i < 4; i++ {
		_, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
	}
	assert.Equal(t, time.Minute, mr.TTL(key), "window TTL restored on the next request")

	mr.FastForward(time.Minute + time.Second)
	ok, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "client is not locked out after the window")
}

func TestLocalLimiter_BoundedKeys(t *testing.T) {
	l := NewLocalLimiter(1, time.Hour)
	ctx := context.Background()

	for i := 0; i < maxLocalKeys+500; i++ {
		ok, err := l.Allow(ctx, fmt.Sprintf("10.%d.%d.%d", i>>16&0xff, i>>8&0xff, i&0xff))
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.LessOrEqual(t, l.limiters.Len(), maxLocalKeys)
}

func TestLocalLimiter_RefillsAfterWindow(t *testing.T) {
	l := NewLocalLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	ok, _ := l.Allow(ctx, "a")
	assert.True(t, ok)
	ok, _ = l.Allow(ctx, "a")
	assert.False(t, ok)

	assert.Eventually(t, func() bool {
		ok, _ := l.Allow(ctx, "a")
		return ok
	}, time.Second, 20*time.Millisecond)
}
