package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"

	"boot-labs/pkg/session"
	"boot-labs/pkg/web/advice"
)

// SessionController 读写分布式 Session 的示例接口
type SessionController struct{}

func NewSessionController() *SessionController {
	return &SessionController{}
}

// Set 写入一个属性，请求结束时由 Session 中间件提交
func (h *SessionController) Set(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	key, err := advice.RequiredString(c, "key")
	if err != nil {
		return nil, err
	}
	value, err := advice.RequiredString(c, "value")
	if err != nil {
		return nil, err
	}
	s, err := session.GetSession(ctx, c, true)
	if err != nil {
		return nil, err
	}
	return nil, s.SetAttribute(key, value)
}

// GetAll 没有 Session 时返回空对象，不会创建新的 Session
func (h *SessionController) GetAll(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	s, err := session.GetSession(ctx, c, false)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return map[string]interface{}{}, nil
	}
	return s.Attributes(), nil
}

func (h *SessionController) ID(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	s, err := session.GetSession(ctx, c, true)
	if err != nil {
		return nil, err
	}
	return s.ID(), nil
}

func (h *SessionController) Invalidate(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	s, err := session.GetSession(ctx, c, false)
	if err != nil {
		return nil, err
	}
	if s != nil {
		s.Invalidate()
	}
	return nil, nil
}

// ChangeID 更换当前 Session 的编号，属性保持不变，新编号在响应中返回给客户端
func (h *SessionController) ChangeID(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	s, err := session.GetSession(ctx, c, true)
	if err != nil {
		return nil, err
	}
	return s.ChangeSessionID(), nil
}

// MaxInactive 修改当前 Session 的不活跃过期时长，seconds <= 0 表示永不过期
func (h *SessionController) MaxInactive(ctx context.Context, c *app.RequestContext) (interface{}, error) {
	seconds, err := advice.RequiredInt(c, "seconds")
	if err != nil {
		return nil, err
	}
	s, err := session.GetSession(ctx, c, true)
	if err != nil {
		return nil, err
	}
	if err := s.SetMaxInactiveInterval(time.Duration(seconds) * time.Second); err != nil {
		return nil, err
	}
	return seconds, nil
}
