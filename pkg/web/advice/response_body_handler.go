package advice

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"

	"boot-labs/pkg/web/result"
)

// GlobalResponseBodyHandler 把处理器的返回值包装成 CommonResult。
// 只拦截 basePaths 下的接口，避免影响健康检查、指标等其它接口；
// basePaths 为空时拦截全部。
type GlobalResponseBodyHandler struct {
	basePaths []string
}

func NewGlobalResponseBodyHandler(basePaths ...string) *GlobalResponseBodyHandler {
	return &GlobalResponseBodyHandler{basePaths: basePaths}
}

func (h *GlobalResponseBodyHandler) Supports(c *app.RequestContext) bool {
	if len(h.basePaths) == 0 {
		return true
	}
	path := string(c.Path())
	for _, base := range h.basePaths {
		base = strings.TrimSuffix(base, "/")
		if base == "" || path == base || strings.HasPrefix(path, base+"/") {
			return true
		}
	}
	return false
}

func (h *GlobalResponseBodyHandler) BeforeBodyWrite(_ context.Context, _ *app.RequestContext, body interface{}) interface{} {
	switch r := body.(type) {
	case *result.CommonResult:
		// 已经是 CommonResult 则直接返回
		if r != nil {
			return r
		}
	case result.CommonResult:
		return &r
	}
	// 约定走到这里的都是成功返回
	return result.Success(body)
}
