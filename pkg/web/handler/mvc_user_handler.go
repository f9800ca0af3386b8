package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"boot-labs/pkg/core/user/service"
	"boot-labs/pkg/web/advice"
	"boot-labs/pkg/web/model"
)

// UserController 同步 CRUD 示例，返回值由 advice.Pipeline 直接序列化
type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

// List 查询用户列表
func (h *UserController) List(_ context.Context, _ *app.RequestContext) (interface{}, error) {
	return model.FixedUsers(), nil
}

// Get 获得指定用户编号的用户
func (h *UserController) Get(_ context.Context, c *app.RequestContext) (interface{}, error) {
	id, err := advice.PathInt(c, "id")
	if err != nil {
		return nil, err
	}
	return usernameOf(id), nil
}

// GetV2 通过 UserService 查询，测试时可以替换为 mock
func (h *UserController) GetV2(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	id, err := advice.PathInt(c, "id")
	if err != nil {
		return nil, err
	}
	return h.userService.Get(ctx, id)
}

// Add 添加用户，返回新用户的编号
func (h *UserController) Add(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	var dto model.UserAddDTO
	if err := advice.Bind(c, &dto); err != nil {
		return nil, err
	}
	hlog.CtxDebugf(ctx, "[UserController.Add] username=%s", dto.Username)
	return 1, nil
}

// Update 更新指定用户编号的用户
func (h *UserController) Update(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	id, err := advice.PathInt(c, "id")
	if err != nil {
		return nil, err
	}
	var dto model.UserUpdateDTO
	if err := advice.Bind(c, &dto); err != nil {
		return nil, err
	}
	dto.ID = id
	hlog.CtxDebugf(ctx, "[UserController.Update] id=%d username=%s", dto.ID, dto.Username)
	return true, nil
}

// Delete 不做任何删除，固定返回 false
func (h *UserController) Delete(_ context.Context, c *app.RequestContext) (interface{}, error) {
	if _, err := advice.PathInt(c, "id"); err != nil {
		return nil, err
	}
	return false, nil
}

func usernameOf(id int) model.UserVO {
	return model.UserVO{ID: id, Username: "username:" + strconv.Itoa(id)}
}
