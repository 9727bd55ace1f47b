package limiter

import (
	"context"
	"testing"
	"time"

	"app/internal/usecase"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, maxAttempts int, window time.Duration) (*RedisLoginLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLoginLimiter(client, maxAttempts, window), mr
}

func TestRedisLoginLimiter_UnderLimit(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Enforce(ctx, "alice@test.com"))
	}
}

func TestRedisLoginLimiter_OverLimit(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.NoError(t, l.Enforce(ctx, "alice@test.com"))
	}

	err := l.Enforce(ctx, "alice@test.com")
	assert.ErrorIs(t, err, usecase.ErrRateLimited)

	//別identifierはカウンタが独立
	assert.NoError(t, l.Enforce(ctx, "bob@test.com"))
}

func TestRedisLoginLimiter_WindowExpires(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestLimiter(t, 2, time.Minute)

	assert.NoError(t, l.Enforce(ctx, "alice@test.com"))
	assert.NoError(t, l.Enforce(ctx, "alice@test.com"))
	assert.ErrorIs(t, l.Enforce(ctx, "alice@test.com"), usecase.ErrRateLimited)

	//窓が過ぎればカウンタは消える
	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, l.Enforce(ctx, "alice@test.com"))
}

func TestRedisLoginLimiter_ResetClearsCounter(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t, 2, time.Minute)

	assert.NoError(t, l.Enforce(ctx, "alice@test.com"))
	assert.NoError(t, l.Enforce(ctx, "alice@test.com"))

	//ログイン成功＝Resetで振り出しに戻る
	assert.NoError(t, l.Reset(ctx, "alice@test.com"))

	assert.NoError(t, l.Enforce(ctx, "alice@test.com"))
}
