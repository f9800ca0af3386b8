package dao

import (
	"context"

	"boot-labs/pkg/core/user/model"
	"boot-labs/pkg/core/user/repository/dao"
)

// StubUserRepository 不访问任何存储，按编号返回固定用户名
type StubUserRepository struct {
	Username string
}

var _ dao.UserRepository = (*StubUserRepository)(nil)

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{Username: "test"}
}

func (r *StubUserRepository) QueryByID(_ context.Context, id int64) (model.User, error) {
	return model.User{ID: id, Username: r.Username}, nil
}

// CreateUser 只回填编号
func (r *StubUserRepository) CreateUser(_ context.Context, user *model.User) error {
	if user.ID == 0 {
		user.ID = 1
	}
	return nil
}
