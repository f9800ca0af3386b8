package main

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"boot-labs/pkg/session"
	"boot-labs/pkg/web/bootstrap"
	"boot-labs/pkg/web/router"
)

func main() {
	cfg, logCloser := bootstrap.Init("session")

	// 连接 Redis
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	client, err := session.NewRedisClient(ctx, cfg.Redis)
	cancel()
	if err != nil {
		hlog.Fatalf("Failed to connect redis: %v", err)
	}

	repo, err := session.NewFromConfig(client, cfg.Session)
	if err != nil {
		hlog.Fatalf("Invalid session config: %v", err)
	}
	resolver, err := session.NewResolverFromConfig(cfg.Session)
	if err != nil {
		hlog.Fatalf("Invalid session config: %v", err)
	}

	// 定时清理过期 Session
	scheduler, err := session.NewCleanupScheduler(repo, cfg.Session.CleanupCron)
	if err != nil {
		hlog.Fatalf("Invalid session cleanup cron %q: %v", cfg.Session.CleanupCron, err)
	}
	scheduler.Start()

	// 按顺序关闭：先停止清理任务，再关闭 Redis 连接
	stopScheduler := bootstrap.CloserFunc(func() error {
		scheduler.Stop(context.Background())
		return nil
	})
	h := bootstrap.NewServer(cfg, stopScheduler, client, logCloser)

	router.RegisterCommon(h, cfg, bootstrap.RedisCheck(client))
	router.RegisterSession(h, session.NewManager(repo, resolver))

	hlog.Infof("session flushMode=%s namespace=%s maxInactive=%s",
		repo.FlushMode(), cfg.Session.Namespace, cfg.Session.MaxInactiveInterval())
	h.Spin()
}
