package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"boot-labs/pkg/core/user/service"
	"boot-labs/pkg/reactive"
	"boot-labs/pkg/web/advice"
	"boot-labs/pkg/web/model"
)

// ReactiveUserController 返回 Mono/Flux 的注解式控制器
type ReactiveUserController struct {
	userService service.UserService
}

func NewReactiveUserController(userService service.UserService) *ReactiveUserController {
	return &ReactiveUserController{userService: userService}
}

// List 请求头 Accept 为 text/event-stream 时逐个推送
func (h *ReactiveUserController) List(_ context.Context, _ *app.RequestContext) (interface{}, error) {
	return reactive.FromSlice(model.FixedUsers()), nil
}

func (h *ReactiveUserController) Get(_ context.Context, c *app.RequestContext) (interface{}, error) {
	id, err := advice.RequiredInt(c, "id")
	if err != nil {
		return nil, err
	}
	return reactive.Just(usernameOf(id)), nil
}

func (h *ReactiveUserController) GetV2(_ context.Context, c *app.RequestContext) (interface{}, error) {
	id, err := advice.RequiredInt(c, "id")
	if err != nil {
		return nil, err
	}
	return reactive.MonoFromFunc(func(ctx context.Context) (*model.UserVO, error) {
		return h.userService.Get(ctx, id)
	}), nil
}

// Add JSON 请求体
func (h *ReactiveUserController) Add(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	var dto model.UserAddDTO
	if err := advice.Bind(c, &dto); err != nil {
		return nil, err
	}
	hlog.CtxDebugf(ctx, "[ReactiveUserController.Add] username=%s", dto.Username)
	return reactive.Just(1), nil
}

// Add2 表单请求体
func (h *ReactiveUserController) Add2(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	var dto model.UserAddDTO
	if err := advice.Bind(c, &dto); err != nil {
		return nil, err
	}
	hlog.CtxDebugf(ctx, "[ReactiveUserController.Add2] username=%s", dto.Username)
	return reactive.Just(1), nil
}

func (h *ReactiveUserController) Update(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	var dto model.UserUpdateDTO
	if err := advice.Bind(c, &dto); err != nil {
		return nil, err
	}
	hlog.CtxDebugf(ctx, "[ReactiveUserController.Update] id=%d", dto.ID)
	return reactive.Just(true), nil
}

func (h *ReactiveUserController) Delete(_ context.Context, c *app.RequestContext) (interface{}, error) {
	if _, err := advice.RequiredInt(c, "id"); err != nil {
		return nil, err
	}
	return reactive.Just(true), nil
}
