// Package bootstrap 各个示例进程共用的启动流程
package bootstrap

import (
	"context"
	"io"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"boot-labs/pkg/common/config"
	"boot-labs/pkg/common/logger"
	"boot-labs/pkg/common/metrics"
	"boot-labs/pkg/web/handler"
)

// Init 加载配置，并初始化日志与指标；未单独配置服务名时使用 boot-labs-<lab>
func Init(lab string) (*config.Config, io.Closer) {
	cfg := config.Load()
	if cfg.Server.Name == config.Default().Server.Name {
		cfg.Server.Name = cfg.Server.Name + "-" + lab
	}

	closer, err := logger.Init(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	metrics.MustRegister(cfg.Server.Name)

	hlog.Infof("[%s] starting env=%s addr=%s", cfg.Server.Name, cfg.Env, cfg.Server.Address)
	return cfg, closer
}

// NewServer 创建 Hertz 实例，关闭时释放 closers
func NewServer(cfg *config.Config, closers ...io.Closer) *server.Hertz {
	h := server.Default(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		server.WithExitWaitTime(3*time.Second),
	)
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		for _, c := range closers {
			if c == nil {
				continue
			}
			if err := c.Close(); err != nil {
				hlog.CtxWarnf(ctx, "[shutdown] close failed: %v", err)
			}
		}
	})
	return h
}

// DatabaseCheck 数据库连通性检查
func DatabaseCheck(db *gorm.DB) handler.HealthCheck {
	return handler.HealthCheck{
		Name:   "database",
		IsCore: true,
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
}

// RedisCheck Redis 连通性检查
func RedisCheck(client redis.UniversalClient) handler.HealthCheck {
	return handler.HealthCheck{
		Name:   "redis",
		IsCore: true,
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// CloserFunc 把函数适配为 io.Closer
type CloserFunc func() error

func (f CloserFunc) Close() error {
	return f()
}

// DBCloser 关闭 gorm 底层连接池，db 为 nil 时返回 nil
func DBCloser(db *gorm.DB) io.Closer {
	if db == nil {
		return nil
	}
	return CloserFunc(func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
}
