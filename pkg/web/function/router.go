// Package function 函数式路由：用谓词匹配请求，用返回 Mono 的处理函数生成响应。
package function

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"

	"boot-labs/pkg/reactive"
	"boot-labs/pkg/web/advice"
)

// RequestPredicate 按方法与路径匹配请求
type RequestPredicate struct {
	Method string
	Path   string
}

func GET(path string) RequestPredicate {
	return RequestPredicate{Method: consts.MethodGet, Path: path}
}

func POST(path string) RequestPredicate {
	return RequestPredicate{Method: consts.MethodPost, Path: path}
}

func PUT(path string) RequestPredicate {
	return RequestPredicate{Method: consts.MethodPut, Path: path}
}

func DELETE(path string) RequestPredicate {
	return RequestPredicate{Method: consts.MethodDelete, Path: path}
}

func (p RequestPredicate) Test(req *ServerRequest) bool {
	return strings.EqualFold(p.Method, req.Method()) && p.Path == req.Path()
}

func (p RequestPredicate) String() string {
	return p.Method + " " + p.Path
}

// HandlerFunction 处理函数，结果以 Mono 的形式延迟产生
type HandlerFunction func(ctx context.Context, req *ServerRequest) reactive.Mono[*ServerResponse]

type routeEntry struct {
	predicate RequestPredicate
	handler   HandlerFunction
}

// RouterFunction 一组按声明顺序排列的路由
type RouterFunction struct {
	routes []routeEntry
}

func Route(predicate RequestPredicate, handler HandlerFunction) *RouterFunction {
	return &RouterFunction{routes: []routeEntry{{predicate: predicate, handler: handler}}}
}

// And 组合两个 RouterFunction，先声明的优先
func (r *RouterFunction) And(other *RouterFunction) *RouterFunction {
	routes := make([]routeEntry, 0, len(r.routes)+len(other.routes))
	routes = append(routes, r.routes...)
	routes = append(routes, other.routes...)
	return &RouterFunction{routes: routes}
}

func (r *RouterFunction) AndRoute(predicate RequestPredicate, handler HandlerFunction) *RouterFunction {
	return r.And(Route(predicate, handler))
}

// Route 返回第一个匹配请求的处理函数
func (r *RouterFunction) Route(req *ServerRequest) (HandlerFunction, bool) {
	for _, e := range r.routes {
		if e.predicate.Test(req) {
			return e.handler, true
		}
	}
	return nil, false
}

// Register 把路由挂到 Hertz 上，处理结果交给 pipeline 写出；
// 重复声明的方法与路径只保留第一个
func (r *RouterFunction) Register(routes route.IRoutes, pipeline *advice.Pipeline) {
	seen := make(map[string]bool, len(r.routes))
	for _, e := range r.routes {
		key := e.predicate.String()
		if seen[key] {
			hlog.Warnf("[RouterFunction] duplicate route ignored: %s", key)
			continue
		}
		seen[key] = true

		handler := e.handler
		routes.Handle(e.predicate.Method, e.predicate.Path, pipeline.Wrap(
			func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
				return handler(ctx, NewServerRequest(c)), nil
			}))
	}
}
