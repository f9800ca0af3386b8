package middleware

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"

	"boot-labs/pkg/common/config"
)

func ok(c context.Context, ctx *app.RequestContext) {
	ctx.String(200, "ok")
}

func TestSecurityCheckRequiresUserAgent(t *testing.T) {
	h := server.New()
	h.Use(SecurityCheckMiddleware(config.Default().Middleware.Security))
	h.GET("/users", ok)

	w := ut.PerformRequest(h.Engine, "GET", "/users", nil)
	assert.Equal(t, 400, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, "GET", "/users", nil, ut.Header{Key: "User-Agent", Value: "lab-test"})
	assert.Equal(t, 200, w.Result().StatusCode())
}

func TestSecurityCheckRejectsInjection(t *testing.T) {
	h := server.New()
	h.Use(SecurityCheckMiddleware(config.Default().Middleware.Security))
	h.GET("/users/get", ok)

	w := ut.PerformRequest(h.Engine, "GET", "/users/get?id=1%20UNION%20SELECT", nil, ut.Header{Key: "User-Agent", Value: "lab-test"})
	assert.Equal(t, 422, w.Result().StatusCode())
}

func TestSecurityCheckAllowsPlainWords(t *testing.T) {
	h := server.New()
	h.Use(SecurityCheckMiddleware(config.Default().Middleware.Security))
	h.GET("/users/get", ok)
	h.POST("/users", ok)

	ua := ut.Header{Key: "User-Agent", Value: "lab-test"}
	w := ut.PerformRequest(h.Engine, "GET", "/users/get?id=1&note=select", nil, ua)
	assert.Equal(t, 200, w.Result().StatusCode())

	form := "username=Delete&password=insert"
	w = ut.PerformRequest(h.Engine, "POST", "/users", &ut.Body{Body: strings.NewReader(form), Len: len(form)},
		ua, ut.Header{Key: "Content-Type", Value: "application/x-www-form-urlencoded"})
	assert.Equal(t, 200, w.Result().StatusCode())

	for _, q := range []string{
		"id=1%3B%20DROP%20TABLE%20users",
		"name=admin'--",
		"name=x'%20OR%20'1'%3D'1",
		"id=1%20union%20all%20select%20password",
	} {
		w = ut.PerformRequest(h.Engine, "GET", "/users/get?"+q, nil, ua)
		assert.Equal(t, 422, w.Result().StatusCode(), q)
	}
}

func TestSecurityCheckDisabled(t *testing.T) {
	cfg := config.Default().Middleware.Security
	cfg.Enabled = false

	h := server.New()
	h.Use(SecurityCheckMiddleware(cfg))
	h.GET("/users", ok)

	w := ut.PerformRequest(h.Engine, "GET", "/users", nil)
	assert.Equal(t, 200, w.Result().StatusCode())
}

func TestSecurityCheckMethods(t *testing.T) {
	cfg := config.Default().Middleware.Security
	cfg.AllowedMethods = []string{"get"}

	h := server.New()
	h.Use(SecurityCheckMiddleware(cfg))
	h.DELETE("/users/1", ok)

	w := ut.PerformRequest(h.Engine, "DELETE", "/users/1", nil, ut.Header{Key: "User-Agent", Value: "lab-test"})
	assert.Equal(t, 405, w.Result().StatusCode())
}

func TestRateLimit(t *testing.T) {
	h := server.New()
	h.Use(RateLimitMiddleware(2, time.Hour))
	h.GET("/users", ok)

	assert.Equal(t, 200, ut.PerformRequest(h.Engine, "GET", "/users", nil).Result().StatusCode())
	assert.Equal(t, 200, ut.PerformRequest(h.Engine, "GET", "/users", nil).Result().StatusCode())
	assert.Equal(t, 429, ut.PerformRequest(h.Engine, "GET", "/users", nil).Result().StatusCode())
}

func TestRateLimitDisabled(t *testing.T) {
	h := server.New()
	h.Use(RateLimitMiddleware(0, time.Second))
	h.GET("/users", ok)

	for i := 0; i < 5; i++ {
		assert.Equal(t, 200, ut.PerformRequest(h.Engine, "GET", "/users", nil).Result().StatusCode())
	}
}

func TestRequestID(t *testing.T) {
	h := server.New()
	h.Use(RequestIDMiddleware())
	h.GET("/users", func(c context.Context, ctx *app.RequestContext) {
		ctx.String(200, RequestIDFrom(ctx))
	})

	w := ut.PerformRequest(h.Engine, "GET", "/users", nil)
	generated := string(w.Result().Header.Peek(HeaderRequestID))
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, string(w.Result().Body()))

	w = ut.PerformRequest(h.Engine, "GET", "/users", nil, ut.Header{Key: HeaderRequestID, Value: "abc"})
	assert.Equal(t, "abc", string(w.Result().Header.Peek(HeaderRequestID)))
}

func TestRecoveryHidesDetailInProduction(t *testing.T) {
	cfg := config.Default()
	cfg.Env = "production"

	h := server.New()
	h.Use(RecoveryMiddleware(cfg))
	h.GET("/boom", func(c context.Context, ctx *app.RequestContext) {
		panic("secret")
	})

	w := ut.PerformRequest(h.Engine, "GET", "/boom", nil)
	assert.Equal(t, 500, w.Result().StatusCode())
	assert.NotContains(t, string(w.Result().Body()), "secret")
	assert.Contains(t, string(w.Result().Body()), "2001001000")
}

func TestTimeoutMiddlewarePassesThrough(t *testing.T) {
	h := server.New()
	h.Use(TimeoutMiddleware(5))
	h.GET("/users", ok)

	w := ut.PerformRequest(h.Engine, "GET", "/users", nil)
	assert.Equal(t, 200, w.Result().StatusCode())
	assert.Equal(t, "ok", string(w.Result().Body()))
}

func TestTimeoutMiddlewareRewritesSlowResponse(t *testing.T) {
	h := server.New()
	h.Use(TimeoutMiddleware(1))
	h.GET("/slow", func(c context.Context, ctx *app.RequestContext) {
		select {
		case <-c.Done():
		case <-time.After(3 * time.Second):
		}
		ctx.String(200, "late")
	})

	w := ut.PerformRequest(h.Engine, "GET", "/slow", nil)
	assert.Equal(t, 503, w.Result().StatusCode())
	assert.JSONEq(t, `{"code":2001001003,"message":"请求处理超时","data":null}`, string(w.Result().Body()))
}

func TestTimeoutMiddlewareSetsDeadline(t *testing.T) {
	h := server.New()
	h.Use(TimeoutMiddleware(1))
	h.GET("/users", func(c context.Context, ctx *app.RequestContext) {
		_, hasDeadline := c.Deadline()
		ctx.String(200, "%v", hasDeadline)
	})

	w := ut.PerformRequest(h.Engine, "GET", "/users", nil)
	assert.Equal(t, 200, w.Result().StatusCode())
	assert.Equal(t, "true", string(w.Result().Body()))
}

func TestRecoveryShowsDetailInDevelopment(t *testing.T) {
	h := server.New()
	h.Use(RecoveryMiddleware(config.Default()))
	h.GET("/boom", func(c context.Context, ctx *app.RequestContext) {
		panic("visible")
	})

	w := ut.PerformRequest(h.Engine, "GET", "/boom", nil)
	assert.Equal(t, 500, w.Result().StatusCode())
	assert.Contains(t, string(w.Result().Body()), `"error":"visible"`)
}

func TestTokenBucketRefills(t *testing.T) {
	now := time.Unix(0, 0)
	tb := newTokenBucket(2, time.Second, func() time.Time { return now })

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())

	// 补充不超过容量
	now = now.Add(time.Hour)
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestSecurityRejectionUsesEnvelope(t *testing.T) {
	h := server.New()
	h.Use(SecurityCheckMiddleware(config.Default().Middleware.Security))
	h.GET("/users", ok)

	w := ut.PerformRequest(h.Engine, "GET", "/users", nil)
	assert.JSONEq(t, `{"code":2001001004,"message":"非法请求","data":"missing required header: User-Agent"}`,
		string(w.Result().Body()))
}
