package advice

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/json"
	"github.com/hertz-contrib/sse"

	"boot-labs/pkg/reactive"
)

const (
	contentTypeText   = "text/plain; charset=utf-8"
	contentTypeBinary = "application/octet-stream"
	mimeEventStream   = "text/event-stream"
)

// Render 字符串按纯文本写出，其余按 JSON 写出；nil 只写状态码
func Render(c *app.RequestContext, status int, body interface{}) {
	switch v := body.(type) {
	case nil:
		c.SetStatusCode(status)
	case string:
		c.Data(status, contentTypeText, []byte(v))
	case []byte:
		c.Data(status, contentTypeBinary, v)
	default:
		c.JSON(status, v)
	}
}

func acceptsEventStream(c *app.RequestContext) bool {
	return strings.Contains(string(c.GetHeader("Accept")), mimeEventStream)
}

// streamEvents 以 SSE 的方式逐个推送 Flux 中的元素
func streamEvents(ctx context.Context, c *app.RequestContext, pub reactive.Publisher) {
	c.SetStatusCode(200)
	stream := sse.NewStream(c)

	err := pub.SubscribeAny(ctx, func(v interface{}) bool {
		data, err := json.Marshal(v)
		if err != nil {
			hlog.CtxErrorf(ctx, "[streamEvents] marshal failed: %v", err)
			return false
		}
		if err := stream.Publish(&sse.Event{Data: data}); err != nil {
			hlog.CtxInfof(ctx, "[streamEvents] client gone path=%s: %v", c.Path(), err)
			return false
		}
		return true
	})
	if err != nil {
		// 响应头已经写出，只能记录日志
		hlog.CtxErrorf(ctx, "[streamEvents] path=%s: %v", c.Path(), err)
	}
}
