package service

import (
	"context"

	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/core/user/repository/dao"
	"boot-labs/pkg/web/model"
)

// UserService 控制器依赖的用户查询服务，测试中可以整体替换
type UserService interface {
	Get(ctx context.Context, id int) (*model.UserVO, error)
}

type userService struct {
	repo dao.UserRepository
}

func NewUserService(repo dao.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Get(ctx context.Context, id int) (*model.UserVO, error) {
	user, err := s.repo.QueryByID(ctx, int64(id))
	if err != nil {
		if bizerr.IsNotFound(err) {
			return nil, bizerr.NewServiceError(bizerr.UserNotFound)
		}
		return nil, err
	}
	return &model.UserVO{ID: int(user.ID), Username: user.Username}, nil
}
