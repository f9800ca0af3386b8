package dao

import (
	"context"

	"boot-labs/pkg/core/user/model"
)

// UserRepository 用户数据访问，查不到时返回 errors.ErrRecordNotFound
type UserRepository interface {
	QueryByID(ctx context.Context, id int64) (model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
}
