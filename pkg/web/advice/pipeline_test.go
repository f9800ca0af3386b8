package advice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bizerr "boot-labs/pkg/common/errors"
	"boot-labs/pkg/reactive"
	"boot-labs/pkg/web/result"
)

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

func envelopePipeline() *Pipeline {
	return New(
		WithExceptionResolver(NewGlobalExceptionHandler()),
		WithBodyAdvice(NewGlobalResponseBodyHandler("/users")),
	)
}

func perform(t *testing.T, p *Pipeline, path string, h Handler, target string) *ut.ResponseRecorder {
	t.Helper()
	s := server.New()
	s.GET(path, p.Wrap(h))
	return ut.PerformRequest(s.Engine, "GET", target, nil)
}

func decodeResult(t *testing.T, w *ut.ResponseRecorder) result.CommonResult {
	t.Helper()
	var r result.CommonResult
	require.NoError(t, json.Unmarshal(w.Result().Body(), &r))
	return r
}

func TestWrapsPlainPayload(t *testing.T) {
	w := perform(t, envelopePipeline(), "/users/get", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return user{ID: 1, Username: "username:1"}, nil
	}, "/users/get")

	assert.Equal(t, 200, w.Result().StatusCode())
	assert.JSONEq(t, `{"code":0,"message":"","data":{"id":1,"username":"username:1"}}`, string(w.Result().Body()))
}

func TestEnvelopePassesThroughUnchanged(t *testing.T) {
	already := result.Error(1001002000, "用户不存在")
	w := perform(t, envelopePipeline(), "/users/get2", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return already, nil
	}, "/users/get2")

	assert.JSONEq(t, `{"code":1001002000,"message":"用户不存在","data":null}`, string(w.Result().Body()))
}

func TestBodyAdviceIsIdempotent(t *testing.T) {
	h := NewGlobalResponseBodyHandler()
	once := h.BeforeBodyWrite(context.Background(), nil, []int{1, 2, 3})
	twice := h.BeforeBodyWrite(context.Background(), nil, once)
	assert.Same(t, once, twice)

	byValue := h.BeforeBodyWrite(context.Background(), nil, *result.Success("x"))
	assert.Equal(t, result.Success("x"), byValue)
}

func TestServiceErrorSurfacedVerbatim(t *testing.T) {
	w := perform(t, envelopePipeline(), "/users/exception-02", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return nil, bizerr.NewServiceError(bizerr.UserNotFound)
	}, "/users/exception-02")

	assert.Equal(t, 200, w.Result().StatusCode())
	r := decodeResult(t, w)
	assert.Equal(t, 1001002000, r.Code)
	assert.Equal(t, "用户不存在", r.Message)
}

func TestMissingParameterMapsToFixedCode(t *testing.T) {
	w := perform(t, envelopePipeline(), "/users/get", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		id, err := RequiredInt(c, "id")
		if err != nil {
			return nil, err
		}
		return id, nil
	}, "/users/get")

	r := decodeResult(t, w)
	assert.Equal(t, bizerr.MissingRequestParamError.Code, r.Code)
	assert.Equal(t, "参数缺失", r.Message)
	assert.NotContains(t, string(w.Result().Body()), "goroutine")
}

func TestPanicBecomesSystemError(t *testing.T) {
	w := perform(t, envelopePipeline(), "/users/exception-01", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		var u *user
		return u.Username, nil
	}, "/users/exception-01")

	assert.Equal(t, 200, w.Result().StatusCode())
	r := decodeResult(t, w)
	assert.Equal(t, bizerr.SysError.Code, r.Code)
	assert.Equal(t, "服务端发生异常", r.Message)
	assert.NotContains(t, string(w.Result().Body()), "nil pointer")
}

func TestUnknownErrorHidesDetail(t *testing.T) {
	w := perform(t, envelopePipeline(), "/users/x", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return nil, errors.New("dial tcp 10.0.0.1:3306: connection refused")
	}, "/users/x")

	r := decodeResult(t, w)
	assert.Equal(t, bizerr.SysError.Code, r.Code)
	assert.NotContains(t, string(w.Result().Body()), "10.0.0.1")
}

func TestAdviceSkipsPathsOutsideBase(t *testing.T) {
	w := perform(t, envelopePipeline(), "/health", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return map[string]string{"status": "ok"}, nil
	}, "/health")

	assert.JSONEq(t, `{"status":"ok"}`, string(w.Result().Body()))
}

func TestSupportsMatchesWholeSegments(t *testing.T) {
	h := NewGlobalResponseBodyHandler("/users/")
	s := server.New()
	var got []bool
	s.GET("/*any", func(ctx context.Context, c *app.RequestContext) {
		got = append(got, h.Supports(c))
	})
	for _, target := range []string{"/users", "/users/1", "/users2/list"} {
		ut.PerformRequest(s.Engine, "GET", target, nil)
	}
	assert.Equal(t, []bool{true, true, false}, got)
}

func TestRawModeMissingParameter(t *testing.T) {
	w := perform(t, New(), "/users2/get", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		_, err := RequiredInt(c, "id")
		return nil, err
	}, "/users2/get")

	assert.Equal(t, 400, w.Result().StatusCode())
	var attrs ErrorAttributes
	require.NoError(t, json.Unmarshal(w.Result().Body(), &attrs))
	assert.Equal(t, 400, attrs.Status)
	assert.Equal(t, "Bad Request", attrs.Error)
	assert.Equal(t, "/users2/get", attrs.Path)
	assert.Contains(t, attrs.Message, "'id'")
}

func TestRawModeTypeMismatch(t *testing.T) {
	w := perform(t, New(), "/users/get", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return RequiredInt(c, "id")
	}, "/users/get?id=abc")

	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestRawModeInternalErrorHasNoMessage(t *testing.T) {
	w := perform(t, New(), "/users", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		panic("secret detail")
	}, "/users")

	assert.Equal(t, 500, w.Result().StatusCode())
	var attrs ErrorAttributes
	require.NoError(t, json.Unmarshal(w.Result().Body(), &attrs))
	assert.Equal(t, "", attrs.Message)
	assert.NotContains(t, string(w.Result().Body()), "secret")
}

func TestRawModeScalars(t *testing.T) {
	w := perform(t, New(), "/demo", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return "demo", nil
	}, "/demo")
	assert.Equal(t, "demo", string(w.Result().Body()))
	assert.True(t, strings.HasPrefix(string(w.Result().Header.ContentType()), "text/plain"))

	w = perform(t, New(), "/add", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return 1, nil
	}, "/add")
	assert.Equal(t, "1", string(w.Result().Body()))

	w = perform(t, New(), "/delete", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return false, nil
	}, "/delete")
	assert.Equal(t, "false", string(w.Result().Body()))

	w = perform(t, New(), "/void", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return nil, nil
	}, "/void")
	assert.Equal(t, 200, w.Result().StatusCode())
	assert.Empty(t, w.Result().Body())
}

func TestEnvelopeWrapsVoid(t *testing.T) {
	w := perform(t, envelopePipeline(), "/users/do_something", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return nil, nil
	}, "/users/do_something")
	assert.JSONEq(t, `{"code":0,"message":"","data":null}`, string(w.Result().Body()))
}

func TestPublishersAreResolved(t *testing.T) {
	w := perform(t, New(), "/mono", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return reactive.Just(user{ID: 1, Username: "username:1"}), nil
	}, "/mono")
	assert.JSONEq(t, `{"id":1,"username":"username:1"}`, string(w.Result().Body()))

	w = perform(t, New(), "/flux", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return reactive.Items(user{ID: 1, Username: "a"}, user{ID: 2, Username: "b"}), nil
	}, "/flux")
	assert.JSONEq(t, `[{"id":1,"username":"a"},{"id":2,"username":"b"}]`, string(w.Result().Body()))

	w = perform(t, New(), "/empty", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return reactive.FromSlice[user](nil), nil
	}, "/empty")
	assert.JSONEq(t, `[]`, string(w.Result().Body()))

	w = perform(t, envelopePipeline(), "/users/mono-error", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return reactive.MonoError[int](bizerr.NewServiceError(bizerr.UserNotFound)), nil
	}, "/users/mono-error")
	assert.Equal(t, bizerr.UserNotFound.Code, decodeResult(t, w).Code)
}

type selfWriting struct{}

func (selfWriting) WriteResponse(_ context.Context, c *app.RequestContext) {
	c.Data(202, "text/plain; charset=utf-8", []byte("accepted"))
}

func TestResponseWriterBypassesAdvice(t *testing.T) {
	w := perform(t, envelopePipeline(), "/users/raw", func(ctx context.Context, c *app.RequestContext) (interface{}, error) {
		return selfWriting{}, nil
	}, "/users/raw")

	assert.Equal(t, 202, w.Result().StatusCode())
	assert.Equal(t, "accepted", string(w.Result().Body()))
}
