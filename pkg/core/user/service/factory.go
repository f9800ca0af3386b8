package service

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"gorm.io/gorm"

	"boot-labs/pkg/common/config"
	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/core/user/model"
	"boot-labs/pkg/core/user/repository/dao"
	daoimpl "boot-labs/pkg/core/user/repository/dao/impl"
	webmodel "boot-labs/pkg/web/model"
)

// NewUserServiceFromConfig 按 user.store 选择存储；使用数据库时一并返回连接，由调用方负责关闭
func NewUserServiceFromConfig(cfg *config.Config) (UserService, *gorm.DB, error) {
	switch cfg.User.Store {
	case "", "stub":
		return NewUserService(daoimpl.NewStubUserRepository()), nil, nil
	case "mysql", "sqlite":
		dbCfg := *cfg
		dbCfg.Database.Driver = cfg.User.Store
		db, err := dbCfg.InitDB()
		if err != nil {
			return nil, nil, err
		}
		if err := model.AutoMigrate(db); err != nil {
			return nil, nil, fmt.Errorf("migrate users: %w", err)
		}
		repo := daoimpl.NewGormUserRepository(db)
		if _, err := SeedUsers(context.Background(), repo, webmodel.FixedUsers()); err != nil {
			return nil, nil, err
		}
		return NewUserService(repo), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported user store: %s", cfg.User.Store)
	}
}

// SeedUsers 写入演示用户，已存在的用户名跳过，返回新写入的数量
func SeedUsers(ctx context.Context, repo dao.UserRepository, users []webmodel.UserVO) (int, error) {
	created := 0
	for _, u := range users {
		err := repo.CreateUser(ctx, &model.User{ID: int64(u.ID), Username: u.Username})
		switch {
		case err == nil:
			created++
		case bizerr.IsDuplicateError(err):
			hlog.CtxDebugf(ctx, "[SeedUsers] skip existing user %s", u.Username)
		default:
			return created, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}
	return created, nil
}
