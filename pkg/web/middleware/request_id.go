package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware 透传或生成请求编号，并写回响应头
func RequestIDMiddleware() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		rid := string(ctx.GetHeader(HeaderRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Set(requestIDKey, rid)
		ctx.Header(HeaderRequestID, rid)
		ctx.Next(c)
	}
}

// RequestIDFrom 取出当前请求编号，没有时返回空串
func RequestIDFrom(ctx *app.RequestContext) string {
	return ctx.GetString(requestIDKey)
}
