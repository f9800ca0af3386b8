package function

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"boot-labs/pkg/reactive"
	"boot-labs/pkg/web/advice"
)

// ServerResponse 函数式路由的响应，写出时不经过返回体增强
type ServerResponse struct {
	status      int
	headers     [][2]string
	contentType string
	body        interface{}
}

func (r *ServerResponse) StatusCode() int {
	return r.status
}

func (r *ServerResponse) Body() interface{} {
	return r.body
}

// WriteResponse 指定了 Content-Type 的字符串或字节按原样写出，其余沿用默认的序列化规则
func (r *ServerResponse) WriteResponse(_ context.Context, c *app.RequestContext) {
	for _, h := range r.headers {
		c.Response.Header.Add(h[0], h[1])
	}
	if r.contentType != "" {
		switch v := r.body.(type) {
		case string:
			c.Data(r.status, r.contentType, []byte(v))
			return
		case []byte:
			c.Data(r.status, r.contentType, v)
			return
		}
	}
	advice.Render(c, r.status, r.body)
}

// BodyBuilder 构建 ServerResponse
type BodyBuilder struct {
	resp *ServerResponse
}

func OK() *BodyBuilder {
	return Status(consts.StatusOK)
}

func Status(code int) *BodyBuilder {
	return &BodyBuilder{resp: &ServerResponse{status: code}}
}

func (b *BodyBuilder) Header(key, value string) *BodyBuilder {
	b.resp.headers = append(b.resp.headers, [2]string{key, value})
	return b
}

func (b *BodyBuilder) ContentType(ct string) *BodyBuilder {
	b.resp.contentType = ct
	return b
}

func (b *BodyBuilder) BodyValue(body interface{}) reactive.Mono[*ServerResponse] {
	b.resp.body = body
	return reactive.Just(b.resp)
}

// Build 没有返回体的响应
func (b *BodyBuilder) Build() reactive.Mono[*ServerResponse] {
	return reactive.Just(b.resp)
}
