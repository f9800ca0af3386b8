package function

import (
	"github.com/cloudwego/hertz/pkg/app"

	"boot-labs/pkg/web/advice"
)

// ServerRequest 处理函数可见的请求视图
type ServerRequest struct {
	c *app.RequestContext
}

func NewServerRequest(c *app.RequestContext) *ServerRequest {
	return &ServerRequest{c: c}
}

func (r *ServerRequest) Method() string {
	return string(r.c.Method())
}

func (r *ServerRequest) Path() string {
	return string(r.c.Path())
}

// QueryParam 参数不存在或为空时 ok 为 false
func (r *ServerRequest) QueryParam(name string) (string, bool) {
	v := r.c.Query(name)
	return v, v != ""
}

func (r *ServerRequest) PathVariable(name string) string {
	return r.c.Param(name)
}

func (r *ServerRequest) Header(name string) string {
	return string(r.c.GetHeader(name))
}

// BodyTo 绑定请求体
func (r *ServerRequest) BodyTo(obj interface{}) error {
	return advice.Bind(r.c, obj)
}

// RequestContext 底层的 Hertz 请求上下文
func (r *ServerRequest) RequestContext() *app.RequestContext {
	return r.c
}
