package session

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

const accessorKey = "session.accessor"

// ErrNoSessionMiddleware 路由没有挂载 Session 中间件
var ErrNoSessionMiddleware = errors.New("session middleware is not installed")

// Manager 把仓储与编号解析器组合成 Hertz 中间件
type Manager struct {
	repo     *RedisSessionRepository
	resolver IDResolver
}

func NewManager(repo *RedisSessionRepository, resolver IDResolver) *Manager {
	return &Manager{repo: repo, resolver: resolver}
}

func (m *Manager) Repository() *RedisSessionRepository {
	return m.repo
}

// accessor 每个请求一份，Session 在第一次访问时才加载
type accessor struct {
	m           *Manager
	requestedID string
	loaded      bool
	session     *Session
}

// Middleware 请求结束时提交 Session：
// 失效的删除并清除客户端编号，其余写入 Redis，编号变化时写回客户端
func (m *Manager) Middleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		acc := &accessor{m: m, requestedID: m.resolver.Resolve(c)}
		c.Set(accessorKey, acc)

		c.Next(ctx)

		if err := acc.commit(ctx, c); err != nil {
			hlog.CtxErrorf(ctx, "[session] commit failed path=%s: %v", c.Path(), err)
		}
	}
}

func (a *accessor) get(ctx context.Context, create bool) (*Session, error) {
	if !a.loaded {
		s, err := a.m.repo.FindByID(ctx, a.requestedID)
		if err != nil {
			return nil, err
		}
		a.session = s
		a.loaded = true
	}
	if a.session != nil && a.session.IsInvalidated() {
		if !create {
			return nil, nil
		}
		// 失效后再次获取时创建新的 Session，旧的在提交时删除
		if err := a.m.repo.DeleteByID(ctx, a.session.ID()); err != nil {
			return nil, err
		}
		a.session = nil
	}
	if a.session == nil && create {
		s, err := a.m.repo.CreateSession(ctx)
		if err != nil {
			return nil, err
		}
		a.session = s
	}
	return a.session, nil
}

func (a *accessor) commit(ctx context.Context, c *app.RequestContext) error {
	s := a.session
	if s == nil {
		return nil
	}
	if s.IsInvalidated() {
		a.m.resolver.ExpireSession(c)
		return a.m.repo.DeleteByID(ctx, s.ID())
	}
	if err := a.m.repo.Save(ctx, s); err != nil {
		return err
	}
	id := s.ID()
	hlog.CtxDebugf(ctx, "[session] saved id=%s attributes=%v", id, s.AttributeNames())
	if id != a.requestedID {
		a.m.resolver.SetSessionID(c, id)
	}
	return nil
}

// GetSession 取出当前请求的 Session；create 为 false 且不存在时返回 nil
func GetSession(ctx context.Context, c *app.RequestContext, create bool) (*Session, error) {
	v, ok := c.Get(accessorKey)
	if !ok {
		return nil, ErrNoSessionMiddleware
	}
	return v.(*accessor).get(ctx, create)
}
