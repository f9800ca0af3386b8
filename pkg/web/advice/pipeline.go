// Package advice 实现处理器外层的统一拦截：
// 处理器执行之后、序列化之前，依次经过异常解析与返回体增强。
package advice

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"boot-labs/pkg/reactive"
)

// Handler 返回值交给 Pipeline 统一序列化的处理器
type Handler func(ctx context.Context, c *app.RequestContext) (interface{}, error)

// BodyAdvice 在返回体写出之前检查并改写它
type BodyAdvice interface {
	Supports(c *app.RequestContext) bool
	BeforeBodyWrite(ctx context.Context, c *app.RequestContext, body interface{}) interface{}
}

// ExceptionResolver 把处理器返回的错误转换为 HTTP 状态码与返回体
type ExceptionResolver interface {
	Resolve(ctx context.Context, c *app.RequestContext, err error) (status int, body interface{})
}

// ResponseWriter 自己负责写出响应的返回体，不再经过 BodyAdvice
type ResponseWriter interface {
	WriteResponse(ctx context.Context, c *app.RequestContext)
}

// PanicError 处理器 panic 后被转换成的错误
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", e.Value)
}

type Pipeline struct {
	resolver ExceptionResolver
	advices  []BodyAdvice
}

type Option func(*Pipeline)

func WithExceptionResolver(r ExceptionResolver) Option {
	return func(p *Pipeline) {
		p.resolver = r
	}
}

// WithBodyAdvice 追加返回体增强，按添加顺序执行
func WithBodyAdvice(advices ...BodyAdvice) Option {
	return func(p *Pipeline) {
		p.advices = append(p.advices, advices...)
	}
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{resolver: NewDefaultErrorResolver()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wrap 将 Handler 适配为 Hertz 的处理函数
func (p *Pipeline) Wrap(h Handler) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		status := consts.StatusOK
		body, err := invoke(ctx, c, h)

		if err == nil {
			if pub, ok := body.(reactive.Publisher); ok {
				if pub.Cardinality() == reactive.Multi && acceptsEventStream(c) {
					streamEvents(ctx, c, pub)
					return
				}
				body, err = resolvePublisher(ctx, pub)
			}
		}
		if err != nil {
			status, body = p.resolver.Resolve(ctx, c, err)
		}

		if w, ok := body.(ResponseWriter); ok {
			w.WriteResponse(ctx, c)
			return
		}

		for _, a := range p.advices {
			if a.Supports(c) {
				body = a.BeforeBodyWrite(ctx, c, body)
			}
		}
		Render(c, status, body)
	}
}

func invoke(ctx context.Context, c *app.RequestContext, h Handler) (body interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			body, err = nil, &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h(ctx, c)
}

// resolvePublisher Mono 取出单个值（为空时为 nil），Flux 收集为列表
func resolvePublisher(ctx context.Context, pub reactive.Publisher) (interface{}, error) {
	if pub.Cardinality() == reactive.Single {
		var value interface{}
		err := pub.SubscribeAny(ctx, func(v interface{}) bool {
			value = v
			return false
		})
		return value, err
	}

	items := make([]interface{}, 0)
	err := pub.SubscribeAny(ctx, func(v interface{}) bool {
		items = append(items, v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
