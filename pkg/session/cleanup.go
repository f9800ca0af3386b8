package session

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/robfig/cron/v3"

	"boot-labs/pkg/common/metrics"
)

// DefaultCleanupCron 每分钟的第 0 秒执行
const DefaultCleanupCron = "0 * * * * *"

// CleanupScheduler 定时清理过期 Session
type CleanupScheduler struct {
	cron    *cron.Cron
	repo    *RedisSessionRepository
	timeout time.Duration
}

// NewCleanupScheduler spec 为带秒字段的 cron 表达式
func NewCleanupScheduler(repo *RedisSessionRepository, spec string) (*CleanupScheduler, error) {
	if spec == "" {
		spec = DefaultCleanupCron
	}
	s := &CleanupScheduler{
		cron:    cron.New(cron.WithSeconds()),
		repo:    repo,
		timeout: 30 * time.Second,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CleanupScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce 立即执行一次清理
func (s *CleanupScheduler) RunOnce(ctx context.Context) int {
	cleaned, err := s.repo.CleanupExpiredSessions(ctx)
	if err != nil {
		hlog.CtxErrorf(ctx, "[session] cleanup expired sessions: %v", err)
	}
	if cleaned > 0 {
		hlog.CtxInfof(ctx, "[session] cleaned %d expired sessions", cleaned)
	}
	metrics.AddSessionsCleaned(cleaned)
	return cleaned
}

func (s *CleanupScheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度，并等待正在执行的任务结束
func (s *CleanupScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
