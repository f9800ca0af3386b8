package middleware

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"boot-labs/pkg/common/metrics"
)

// MetricsMiddleware 记录请求数与耗时，path 使用路由模板避免标签爆炸
func MetricsMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if string(ctx.Path()) == "/metrics" {
			ctx.Next(c)
			return
		}

		start := time.Now()
		ctx.Next(c)

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start).Seconds()
		metrics.ObserveRequest(string(ctx.Method()), path, ctx.Response.StatusCode(), duration)

		hlog.CtxDebugf(c, "request metrics updated method=%s path=%s status=%d duration_seconds=%f",
			ctx.Method(), path, ctx.Response.StatusCode(), duration)
	}
}
