package middleware

import (
	"context"
	"regexp"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"boot-labs/pkg/common/config"
	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/web/result"
)

var (
	xssPattern          = regexp.MustCompile(`<script.*?>|</script>|alert\(|onerror=`)
	// 只匹配注入语句的形态，单独出现的 select、delete 等英文单词不拦截
	sqlInjectionPattern = regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b` +
		`|;\s*(drop|delete|insert|update|truncate|alter)\b` +
		`|\bdrop\s+(table|database)\b` +
		`|'\s*(or|and)\s+'?\w+'?\s*=\s*'?\w+` +
		`|'\s*--`)
)

// securityRejection 被拦截时的状态码与原因
type securityRejection struct {
	status int
	reason string
}

type securityChecker struct {
	maxBodySize int64
	allowed     map[string]bool
}

// SecurityCheckMiddleware 请求进入业务处理前的基础校验：
// User-Agent 必填、请求体大小、参数中的脚本与 SQL 注入语句、HTTP 方法白名单
func SecurityCheckMiddleware(cfg config.SecurityConfig) app.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}
	checker := &securityChecker{
		maxBodySize: cfg.MaxBodySize,
		allowed:     make(map[string]bool, len(cfg.AllowedMethods)),
	}
	for _, m := range cfg.AllowedMethods {
		checker.allowed[strings.ToUpper(m)] = true
	}

	return func(c context.Context, ctx *app.RequestContext) {
		if rej := checker.check(ctx); rej != nil {
			hlog.CtxWarnf(c, "SecurityAlert[status=%d] path=%s: %s", rej.status, ctx.Path(), rej.reason)
			body := result.ErrorOf(bizerr.IllegalRequest)
			body.Data = rej.reason
			ctx.AbortWithStatusJSON(rej.status, body)
			return
		}
		ctx.Next(c)
	}
}

func (s *securityChecker) check(ctx *app.RequestContext) *securityRejection {
	if len(ctx.GetHeader("User-Agent")) == 0 {
		return &securityRejection{consts.StatusBadRequest, "missing required header: User-Agent"}
	}
	if s.maxBodySize > 0 && int64(ctx.Request.Header.ContentLength()) > s.maxBodySize {
		return &securityRejection{consts.StatusRequestEntityTooLarge, "request body exceeds max size"}
	}
	if hasMaliciousArgs(ctx) {
		return &securityRejection{consts.StatusUnprocessableEntity, "request contains invalid characters"}
	}
	if !s.allowed[string(ctx.Method())] {
		return &securityRejection{consts.StatusMethodNotAllowed, "method not allowed"}
	}
	return nil
}

func hasMaliciousArgs(ctx *app.RequestContext) bool {
	found := false
	visit := func(key, value []byte) {
		if found {
			return
		}
		for _, data := range [][]byte{key, value} {
			if xssPattern.Match(data) || sqlInjectionPattern.Match(data) {
				found = true
				return
			}
		}
	}
	ctx.QueryArgs().VisitAll(visit)
	if !found {
		ctx.PostArgs().VisitAll(visit)
	}
	return found
}
