// Package ratelimit 提供单进程令牌桶限流
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const idleEviction = 10 * time.Minute

// LocalLimiter 每个键一个令牌桶；闲置的桶由 go-cache 回收
type LocalLimiter struct {
	mu      sync.Mutex
	buckets *cache.Cache
}

// NewLocalLimiter 创建本地限流器
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{buckets: cache.New(idleEviction, idleEviction)}
}

// Allow 窗口内最多 limit 次，令牌按 window/limit 匀速补充
func (l *LocalLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var lim *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		lim = v.(*rate.Limiter)
	} else {
		lim = rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)
	}
	l.buckets.SetDefault(key, lim)
	return lim.Allow(), nil
}
