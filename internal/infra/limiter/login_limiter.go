package limiter

import (
	"context"
	"fmt"
	"time"

	"app/internal/usecase"

	"github.com/redis/go-redis/v9"
)

// RedisLoginLimiterはログイン失敗の連打をidentifier単位で抑える。
// 固定窓（INCR→最初の1回だけEXPIRE）。
type RedisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRedisLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLoginLimiter {
	return &RedisLoginLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *RedisLoginLimiter) Enforce(ctx context.Context, identifier string) error {
	key := "login:" + identifier

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter: %w", err)
		}
	}

	if count > int64(l.maxAttempts) {
		return usecase.ErrRateLimited
	}

	return nil
}

// 成功したらカウンタを消す
func (l *RedisLoginLimiter) Reset(ctx context.Context, identifier string) error {
	return l.client.Del(ctx, "login:"+identifier).Err()
}

// NoopLoginLimiterはRedis未設定のとき用（制限なし）。
type NoopLoginLimiter struct{}

func (NoopLoginLimiter) Enforce(ctx context.Context, identifier string) error { return nil }
func (NoopLoginLimiter) Reset(ctx context.Context, identifier string) error   { return nil }

var (
	_ usecase.LoginLimiter = (*RedisLoginLimiter)(nil)
	_ usecase.LoginLimiter = NoopLoginLimiter{}
)
