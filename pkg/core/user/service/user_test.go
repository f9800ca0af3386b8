package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"boot-labs/pkg/common/config"
	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/core/user/model"
	dao "boot-labs/pkg/core/user/repository/dao/impl"
	webmodel "boot-labs/pkg/web/model"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) QueryByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockRepo) CreateUser(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func TestGetWithStubRepository(t *testing.T) {
	svc := NewUserService(dao.NewStubUserRepository())

	vo, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, vo.ID)
	assert.Equal(t, "test", vo.Username)
}

func TestGetNotFoundBecomesServiceError(t *testing.T) {
	repo := new(mockRepo)
	repo.On("QueryByID", mock.Anything, int64(2)).Return(model.User{}, bizerr.ErrRecordNotFound)

	_, err := NewUserService(repo).Get(context.Background(), 2)

	var se *bizerr.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, bizerr.UserNotFound.Code, se.Code)
	repo.AssertExpectations(t)
}

func TestGetPassesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	repo := new(mockRepo)
	repo.On("QueryByID", mock.Anything, int64(3)).Return(model.User{}, boom)

	_, err := NewUserService(repo).Get(context.Background(), 3)
	assert.ErrorIs(t, err, boom)
}

func TestNewUserServiceFromConfig(t *testing.T) {
	cfg := config.Default()

	svc, db, err := NewUserServiceFromConfig(cfg)
	require.NoError(t, err)
	assert.Nil(t, db)
	vo, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &webmodel.UserVO{ID: 7, Username: "test"}, vo)

	cfg.User.Store = "sqlite"
	cfg.Database.DBName = filepath.Join(t.TempDir(), "users.db")
	cfg.Database.LogLevel = "silent"
	svc, db, err = NewUserServiceFromConfig(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	vo, err = svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &webmodel.UserVO{ID: 1, Username: "yudaoyuanma"}, vo)

	_, err = svc.Get(context.Background(), 99)
	var se *bizerr.ServiceError
	assert.True(t, errors.As(err, &se))

	// 再次启动时演示数据已存在，不会报错
	_, db2, err := NewUserServiceFromConfig(cfg)
	require.NoError(t, err)
	sqlDB2, err := db2.DB()
	require.NoError(t, err)
	defer sqlDB2.Close()

	cfg.User.Store = "mongo"
	_, _, err = NewUserServiceFromConfig(cfg)
	assert.Error(t, err)
}

func TestSeedUsers(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.ID == 1 })).Return(nil)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.ID == 2 })).Return(bizerr.ErrDuplicateEntry)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *model.User) bool { return u.ID == 3 })).Return(nil)

	n, err := SeedUsers(ctx, repo, webmodel.FixedUsers())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	repo.AssertExpectations(t)

	boom := errors.New("boom")
	failing := new(mockRepo)
	failing.On("CreateUser", mock.Anything, mock.Anything).Return(boom)
	_, err = SeedUsers(ctx, failing, webmodel.FixedUsers())
	assert.ErrorIs(t, err, boom)
}
