package dao

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/core/user/model"
	"boot-labs/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

var _ dao.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) QueryByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Select("id", "username", "created_at", "updated_at").
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return model.User{}, fmt.Errorf("query user %d: %w", id, bizerr.WrapGormError(err))
	}
	return user, nil
}

// CreateUser 在事务中创建用户，重复的用户名返回 ErrDuplicateEntry
func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if bizerr.IsDuplicateError(err) {
				return bizerr.ErrDuplicateEntry
			}
			return fmt.Errorf("create user: %w", bizerr.WrapGormError(err))
		}
		return nil
	})
}
