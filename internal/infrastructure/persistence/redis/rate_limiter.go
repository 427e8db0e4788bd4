package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// RateLimiter 滑动窗口限流器，多实例部署时共享计数
type RateLimiter struct {
	rdb redis.Cmdable
	now func() time.Time
}

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return newRateLimiter(client.rdb)
}

func newRateLimiter(rdb redis.Cmdable) *RateLimiter {
	return &RateLimiter{rdb: rdb, now: time.Now}
}

// Allow 记录本次请求并判断窗口内请求数是否超限。
// 被拒绝的请求同样计入窗口，持续超限的客户端需等待整个窗口。
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)
	defer span.End()

	now := l.now().UnixMilli()
	windowStart := now - window.Milliseconds()

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now),
		Member: fmt.Sprintf("%d-%s", now, uuid.NewString()),
	})
	countCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return false, err
	}

	count := countCmd.Val()
	allowed := count <= int64(limit)
	span.SetAttributes(
		attribute.Int64("ratelimit.current_count", count),
		attribute.Bool("ratelimit.allowed", allowed),
	)
	return allowed, nil
}

// Reset 重置限流计数
func (l *RateLimiter) Reset(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "ratelimit.Reset")
	span.SetAttributes(attribute.String("ratelimit.key", key))
	defer span.End()

	return l.rdb.Del(ctx, key).Err()
}

// BuildRateLimitKey 构建限流键：prefix:client:path
func BuildRateLimitKey(prefix, clientID, path string) string {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return fmt.Sprintf("%s:%s:%s", prefix, clientID, path)
}
