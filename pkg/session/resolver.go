package session

import (
	"encoding/base64"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"

	"boot-labs/pkg/common/config"
)

// IDResolver 从请求中读取 Session 编号，并把编号写回响应
type IDResolver interface {
	Resolve(c *app.RequestContext) string
	SetSessionID(c *app.RequestContext, id string)
	ExpireSession(c *app.RequestContext)
}

// CookieResolver 通过 Cookie 传递编号，默认对值做 base64 编码
type CookieResolver struct {
	Name         string
	Path         string
	Domain       string
	Secure       bool
	Base64Encode bool
}

func NewCookieResolver(name string) *CookieResolver {
	return &CookieResolver{Name: name, Path: "/", Base64Encode: true}
}

func (r *CookieResolver) Resolve(c *app.RequestContext) string {
	raw := string(c.Cookie(r.Name))
	if raw == "" || !r.Base64Encode {
		return raw
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func (r *CookieResolver) SetSessionID(c *app.RequestContext, id string) {
	value := id
	if r.Base64Encode {
		value = base64.StdEncoding.EncodeToString([]byte(id))
	}
	// maxAge 为 0 表示会话 Cookie
	c.SetCookie(r.Name, value, 0, r.Path, r.Domain, protocol.CookieSameSiteLaxMode, r.Secure, true)
}

func (r *CookieResolver) ExpireSession(c *app.RequestContext) {
	c.SetCookie(r.Name, "", -1, r.Path, r.Domain, protocol.CookieSameSiteLaxMode, r.Secure, true)
}

// HeaderResolver 通过请求头/响应头传递编号，适合非浏览器客户端
type HeaderResolver struct {
	Name string
}

func NewHeaderResolver(name string) *HeaderResolver {
	return &HeaderResolver{Name: name}
}

func (r *HeaderResolver) Resolve(c *app.RequestContext) string {
	return string(c.GetHeader(r.Name))
}

func (r *HeaderResolver) SetSessionID(c *app.RequestContext, id string) {
	c.Header(r.Name, id)
}

func (r *HeaderResolver) ExpireSession(c *app.RequestContext) {
	c.Header(r.Name, "")
}

// NewResolverFromConfig resolver 取值 cookie/header
func NewResolverFromConfig(cfg config.SessionConfig) (IDResolver, error) {
	switch cfg.Resolver {
	case "", "cookie":
		name := cfg.CookieName
		if name == "" {
			name = config.DefaultSessionCookieName
		}
		return NewCookieResolver(name), nil
	case "header":
		name := cfg.HeaderName
		if name == "" {
			name = config.DefaultSessionHeaderName
		}
		return NewHeaderResolver(name), nil
	default:
		return nil, fmt.Errorf("unknown session id resolver: %q", cfg.Resolver)
	}
}
