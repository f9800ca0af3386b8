package advice

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/common/metrics"
	"boot-labs/pkg/web/result"
)

// GlobalExceptionHandler 统一把错误转换为 CommonResult，HTTP 状态码保持 200
//
// 匹配顺序：
//  1. ServiceError，直接使用其 code + message；
//  2. MissingParameterError，返回“参数缺失”；
//  3. 其它错误兜底，记录错误日志后返回“服务端发生异常”，不暴露内部细节。
type GlobalExceptionHandler struct{}

func NewGlobalExceptionHandler() *GlobalExceptionHandler {
	return &GlobalExceptionHandler{}
}

func (h *GlobalExceptionHandler) Resolve(ctx context.Context, c *app.RequestContext, err error) (int, interface{}) {
	var serviceErr *bizerr.ServiceError
	var missingErr *bizerr.MissingParameterError

	switch {
	case errors.As(err, &serviceErr):
		hlog.CtxDebugf(ctx, "[serviceExceptionHandler] %v", err)
		metrics.IncHandledError(serviceErr.Code)
		return consts.StatusOK, result.FromServiceError(serviceErr)

	case errors.As(err, &missingErr):
		hlog.CtxDebugf(ctx, "[missingRequestParameterExceptionHandler] %v", err)
		metrics.IncHandledError(bizerr.MissingRequestParamError.Code)
		return consts.StatusOK, result.ErrorOf(bizerr.MissingRequestParamError)

	default:
		logUnexpected(ctx, c, "[exceptionHandler]", err)
		metrics.IncHandledError(bizerr.SysError.Code)
		return consts.StatusOK, result.ErrorOf(bizerr.SysError)
	}
}

// ErrorAttributes 未启用统一返回时的默认错误响应
type ErrorAttributes struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
}

// DefaultErrorResolver 请求参数类错误返回 400，业务异常返回 400 并带上业务提示，
// 其它错误返回 500 且 message 为空
type DefaultErrorResolver struct {
	now func() time.Time
}

func NewDefaultErrorResolver() *DefaultErrorResolver {
	return &DefaultErrorResolver{now: time.Now}
}

func (r *DefaultErrorResolver) Resolve(ctx context.Context, c *app.RequestContext, err error) (int, interface{}) {
	status := consts.StatusInternalServerError
	message := ""

	var serviceErr *bizerr.ServiceError
	var missingErr *bizerr.MissingParameterError
	var mismatchErr *bizerr.TypeMismatchError
	var bindErr *bizerr.BindError

	switch {
	case errors.As(err, &missingErr), errors.As(err, &mismatchErr), errors.As(err, &bindErr):
		status = consts.StatusBadRequest
		message = err.Error()
		hlog.CtxDebugf(ctx, "[defaultErrorResolver] bad request: %v", err)
	case errors.As(err, &serviceErr):
		status = consts.StatusBadRequest
		message = serviceErr.Message
		hlog.CtxDebugf(ctx, "[defaultErrorResolver] %v", err)
	default:
		logUnexpected(ctx, c, "[defaultErrorResolver]", err)
	}

	return status, &ErrorAttributes{
		Timestamp: r.now(),
		Path:      string(c.Path()),
		Status:    status,
		Error:     consts.StatusMessage(status),
		Message:   message,
	}
}

func logUnexpected(ctx context.Context, c *app.RequestContext, tag string, err error) {
	var panicErr *PanicError
	if errors.As(err, &panicErr) {
		hlog.CtxErrorf(ctx, "%s %s %s: %v\n%s", tag, c.Method(), c.Path(), err, panicErr.Stack)
		return
	}
	hlog.CtxErrorf(ctx, "%s %s %s: %v", tag, c.Method(), c.Path(), err)
}
