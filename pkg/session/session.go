// Package session 实现基于 Redis 的分布式 HTTP Session。
//
// Key 布局（ns 为命名空间）：
//
//	<ns>:sessions:<id>             hash，保存创建时间、最后访问时间、过期时长与属性
//	<ns>:sessions:expires:<id>     过期标记，TTL 等于不活跃过期时长
//	<ns>:expirations:<minute-ms>   在该分钟内过期的 Session 集合，供定时清理
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FlushMode 会话刷新模式
type FlushMode int

const (
	// FlushOnSave 在请求执行完成时统一写入 Redis
	FlushOnSave FlushMode = iota
	// FlushImmediate 每次修改 Session 时立即写入 Redis
	FlushImmediate
)

func ParseFlushMode(s string) (FlushMode, error) {
	switch strings.ToLower(s) {
	case "", "on_save":
		return FlushOnSave, nil
	case "immediate":
		return FlushImmediate, nil
	default:
		return FlushOnSave, fmt.Errorf("unknown session flush mode: %q", s)
	}
}

func (m FlushMode) String() string {
	if m == FlushImmediate {
		return "immediate"
	}
	return "on_save"
}

type removed struct{}

// Session 一次请求内使用的会话，修改记录在 delta 中，保存时只写增量
type Session struct {
	mu sync.Mutex

	id         string
	originalID string

	creationTime     time.Time
	lastAccessedTime time.Time
	maxInactive      time.Duration

	attrs map[string]interface{}
	delta map[string]interface{}

	isNew       bool
	invalidated bool

	// 上次保存后的过期时间，用于从旧的过期集合中移除
	savedExpiry time.Time

	flush func(*Session) error
}

func newSession(now time.Time, maxInactive time.Duration) *Session {
	id := uuid.NewString()
	s := &Session{
		id:               id,
		originalID:       id,
		creationTime:     now,
		lastAccessedTime: now,
		maxInactive:      maxInactive,
		attrs:            make(map[string]interface{}),
		delta:            make(map[string]interface{}),
		isNew:            true,
	}
	s.delta[fieldCreationTime] = now
	s.delta[fieldLastAccessedTime] = now
	s.delta[fieldMaxInactiveInterval] = maxInactive
	return s
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *Session) CreationTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creationTime
}

func (s *Session) LastAccessedTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedTime
}

func (s *Session) MaxInactiveInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxInactive
}

// IsNew 本次请求中创建、尚未返回给客户端的 Session
func (s *Session) IsNew() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isNew
}

func (s *Session) IsInvalidated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.invalidated
}

// IsExpired maxInactive <= 0 表示永不过期
func (s *Session) IsExpired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiredLocked(now)
}

func (s *Session) expiredLocked(now time.Time) bool {
	if s.maxInactive <= 0 {
		return false
	}
	return !now.Before(s.lastAccessedTime.Add(s.maxInactive))
}

func (s *Session) GetAttribute(name string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[name]
	return v, ok
}

// AttributeNames 按字典序返回
func (s *Session) AttributeNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.attrs))
	for name := range s.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attributes 属性的拷贝
func (s *Session) Attributes() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]interface{}, len(s.attrs))
	for k, v := range s.attrs {
		out[k] = v
	}
	return out
}

// SetAttribute value 为 nil 等同于 RemoveAttribute
func (s *Session) SetAttribute(name string, value interface{}) error {
	if value == nil {
		return s.RemoveAttribute(name)
	}
	s.mu.Lock()
	s.attrs[name] = value
	s.delta[attrPrefix+name] = value
	s.mu.Unlock()
	return s.flushIfImmediate()
}

func (s *Session) RemoveAttribute(name string) error {
	s.mu.Lock()
	delete(s.attrs, name)
	s.delta[attrPrefix+name] = removed{}
	s.mu.Unlock()
	return s.flushIfImmediate()
}

func (s *Session) SetMaxInactiveInterval(d time.Duration) error {
	s.mu.Lock()
	s.maxInactive = d
	s.delta[fieldMaxInactiveInterval] = d
	s.mu.Unlock()
	return s.flushIfImmediate()
}

// ChangeSessionID 更换编号（防止会话固定攻击），保存时重命名 Redis 中的 key
func (s *Session) ChangeSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	return s.id
}

// Invalidate 标记失效，请求结束时删除
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessedTime = now
	s.delta[fieldLastAccessedTime] = now
}

func (s *Session) flushIfImmediate() error {
	if s.flush == nil {
		return nil
	}
	return s.flush(s)
}
