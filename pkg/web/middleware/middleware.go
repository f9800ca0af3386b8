package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/cors"

	"boot-labs/pkg/common/config"
	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/web/result"
)

// LoggerMiddleware 每个请求一行访问日志
func LoggerMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		start := time.Now()
		ctx.Next(c)

		hlog.CtxInfof(c, "| %3d | %13v | %15s | %-7s | %s | rid=%s",
			ctx.Response.StatusCode(),
			time.Since(start),
			ctx.ClientIP(),
			ctx.Method(),
			ctx.Path(),
			RequestIDFrom(ctx),
		)
	}
}

// panicDetail 非生产环境下随错误码一起返回
type panicDetail struct {
	Error string   `json:"error"`
	Stack []string `json:"stack"`
}

// RecoveryMiddleware 兜底的 panic 捕获，未经过 advice.Pipeline 的路由依赖它。
// 生产环境（APP_ENV=production）只返回 SYS_ERROR，不暴露堆栈
func RecoveryMiddleware(cfg *config.Config) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := string(debug.Stack())
			hlog.CtxErrorf(c, "[PANIC RECOVERED] path=%s rid=%s %v\n%s", ctx.Path(), RequestIDFrom(ctx), r, stack)

			body := result.ErrorOf(bizerr.SysError)
			if !cfg.IsProd() {
				body.Data = panicDetail{Error: fmt.Sprintf("%v", r), Stack: strings.Split(stack, "\n")}
			}
			ctx.AbortWithStatusJSON(consts.StatusInternalServerError, body)
		}()
		ctx.Next(c)
	}
}

// CORSMiddleware 跨域配置，配置了可信域名时按后缀动态校验来源
func CORSMiddleware(corsConfig config.CORSConfig) app.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     corsConfig.AllowOrigins,
		AllowMethods:     corsConfig.AllowMethods,
		AllowHeaders:     corsConfig.AllowHeaders,
		ExposeHeaders:    corsConfig.ExposeHeaders,
		AllowCredentials: corsConfig.AllowCredentials,
		MaxAge:           corsConfig.MaxAge,
	}
	if len(corsConfig.TrustedDomains) > 0 {
		exact := make(map[string]bool, len(corsConfig.AllowOrigins))
		for _, o := range corsConfig.AllowOrigins {
			exact[o] = true
		}
		cfg.AllowOrigins = nil
		cfg.AllowOriginFunc = func(origin string) bool {
			if exact[origin] {
				return true
			}
			for _, domain := range corsConfig.TrustedDomains {
				if strings.HasSuffix(origin, domain) {
					return true
				}
			}
			return false
		}
	}
	return cors.New(cfg)
}

func passThrough(c context.Context, ctx *app.RequestContext) {
	ctx.Next(c)
}

// TimeoutMiddleware 给后续处理器的 context 加上截止时间，处理器需要自己响应 ctx.Done()。
// 处理链在当前 goroutine 中执行，RequestContext 不会被其它 goroutine 持有；
// 返回时已超时则把响应改写为 503，已开始推送的 SSE 除外。seconds <= 0 时不做限制
func TimeoutMiddleware(seconds int) app.HandlerFunc {
	if seconds <= 0 {
		return passThrough
	}
	timeout := time.Duration(seconds) * time.Second

	return func(c context.Context, ctx *app.RequestContext) {
		timeoutCtx, cancel := context.WithTimeout(c, timeout)
		defer cancel()

		ctx.Next(timeoutCtx)

		if !errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return
		}
		hlog.CtxWarnf(c, "request timeout path=%s after %s", ctx.Path(), timeout)
		if bytes.HasPrefix(ctx.Response.Header.ContentType(), []byte("text/event-stream")) {
			return
		}
		ctx.Response.ResetBody()
		ctx.AbortWithStatusJSON(consts.StatusServiceUnavailable, result.ErrorOf(bizerr.RequestTimeout))
	}
}
