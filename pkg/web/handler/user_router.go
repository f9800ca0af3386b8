package handler

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/reactive"
	"boot-labs/pkg/web/function"
	"boot-labs/pkg/web/model"
)

// NewUserRouter 函数式声明的 /users2 路由
func NewUserRouter() *function.RouterFunction {
	return function.Route(function.GET("/users2/list"), listUsers).
		AndRoute(function.GET("/users2/get"), getUser).
		AndRoute(function.GET("/users2/demo"), func(context.Context, *function.ServerRequest) reactive.Mono[*function.ServerResponse] {
			return function.OK().BodyValue("demo")
		})
}

func listUsers(_ context.Context, _ *function.ServerRequest) reactive.Mono[*function.ServerResponse] {
	return function.OK().BodyValue(model.FixedUsers())
}

// getUser 用户名为随机 UUID
func getUser(_ context.Context, req *function.ServerRequest) reactive.Mono[*function.ServerResponse] {
	raw, ok := req.QueryParam("id")
	if !ok {
		return reactive.MonoError[*function.ServerResponse](&bizerr.MissingParameterError{Name: "id", Type: "int"})
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return reactive.MonoError[*function.ServerResponse](&bizerr.TypeMismatchError{Name: "id", Value: raw, Type: "int", Err: err})
	}
	return function.OK().BodyValue(model.UserVO{ID: id, Username: uuid.NewString()})
}
