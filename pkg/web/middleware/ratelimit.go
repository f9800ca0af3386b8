package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/web/result"
)

// RateLimitMiddleware 全局令牌桶限流，每 interval 补充一个令牌；rate <= 0 时不限流
func RateLimitMiddleware(rate int, interval time.Duration) app.HandlerFunc {
	if rate <= 0 || interval <= 0 {
		return passThrough
	}
	limiter := NewTokenBucket(rate, interval)

	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow() {
			hlog.CtxInfof(c, "[RATE LIMIT] path=%s", ctx.Path())
			ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, result.ErrorOf(bizerr.TooManyRequests))
			return
		}
		ctx.Next(c)
	}
}

// TokenBucket 令牌桶，创建时装满，取令牌时按流逝的时间补充
type TokenBucket struct {
	mu       sync.Mutex
	capacity int
	tokens   int
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func NewTokenBucket(capacity int, interval time.Duration) *TokenBucket {
	return newTokenBucket(capacity, interval, time.Now)
}

func newTokenBucket(capacity int, interval time.Duration, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		capacity: capacity,
		tokens:   capacity,
		interval: interval,
		last:     now(),
		now:      now,
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	if refill := int(now.Sub(tb.last) / tb.interval); refill > 0 {
		tb.tokens += refill
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = tb.last.Add(time.Duration(refill) * tb.interval)
	}

	if tb.tokens == 0 {
		return false
	}
	tb.tokens--
	return true
}
