package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/web/advice"
	"boot-labs/pkg/web/model"
	"boot-labs/pkg/web/result"
)

// AdviceUserController 挂在 GlobalExceptionHandler 与 GlobalResponseBodyHandler 之后，
// 返回值与错误统一包装成 CommonResult
type AdviceUserController struct{}

func NewAdviceUserController() *AdviceUserController {
	return &AdviceUserController{}
}

func (h *AdviceUserController) List(_ context.Context, _ *app.RequestContext) (interface{}, error) {
	return model.FixedUsers(), nil
}

func (h *AdviceUserController) Get(_ context.Context, c *app.RequestContext) (interface{}, error) {
	id, err := advice.RequiredInt(c, "id")
	if err != nil {
		return nil, err
	}
	return usernameOf(id), nil
}

// Get2 自己返回 CommonResult，不会被重复包装
func (h *AdviceUserController) Get2(_ context.Context, c *app.RequestContext) (interface{}, error) {
	id, err := advice.RequiredInt(c, "id")
	if err != nil {
		return nil, err
	}
	return result.Success(usernameOf(id)), nil
}

// Exception01 模拟空指针之类的内部错误
func (h *AdviceUserController) Exception01(_ context.Context, _ *app.RequestContext) (interface{}, error) {
	var user *model.UserVO
	return user.Username, nil
}

// Exception02 模拟业务异常
func (h *AdviceUserController) Exception02(_ context.Context, _ *app.RequestContext) (interface{}, error) {
	return nil, bizerr.NewServiceError(bizerr.UserNotFound)
}

// DoSomething 没有返回值
func (h *AdviceUserController) DoSomething(ctx context.Context, _ *app.RequestContext) (interface{}, error) {
	hlog.CtxInfof(ctx, "[doSomething]")
	return nil, nil
}
