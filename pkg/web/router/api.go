package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"boot-labs/pkg/common/config"
	"boot-labs/pkg/common/metrics"
	"boot-labs/pkg/core/user/service"
	"boot-labs/pkg/session"
	"boot-labs/pkg/web/advice"
	"boot-labs/pkg/web/handler"
	"boot-labs/pkg/web/middleware"
)

// RegisterCommon 注册全局中间件与 /health、/metrics，需在业务路由之前调用
func RegisterCommon(h *server.Hertz, cfg *config.Config, checks ...handler.HealthCheck) {
	// 注册全局中间件（按执行顺序）
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.MetricsMiddleware(),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		),
	)

	// 基础接口组
	h.GET("/health", handler.NewHealthCheckHandler(checks...).AdvancedHealthCheck)
	h.GET("/metrics", metricsHandler())
}

// metricsHandler 通过 adaptor 把 promhttp 的 net/http 处理器挂到 Hertz 上
func metricsHandler() app.HandlerFunc {
	h := promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})
	return func(ctx context.Context, c *app.RequestContext) {
		req, err := adaptor.GetCompatRequest(&c.Request)
		if err != nil {
			hlog.CtxErrorf(ctx, "[metrics] convert request failed: %v", err)
			c.AbortWithStatus(consts.StatusInternalServerError)
			return
		}
		h.ServeHTTP(adaptor.GetCompatResponseWriter(&c.Response), req.WithContext(ctx))
	}
}

// RegisterMVC 同步 CRUD 示例，返回值不做包装
func RegisterMVC(h *server.Hertz, userService service.UserService) {
	p := advice.New()
	c := handler.NewUserController(userService)

	users := h.Group("/users")
	{
		users.GET("", p.Wrap(c.List))
		users.GET("/:id", p.Wrap(c.Get))
		users.GET("/v2/:id", p.Wrap(c.GetV2))
		users.POST("", p.Wrap(c.Add))
		users.PUT("/:id", p.Wrap(c.Update))
		users.DELETE("/:id", p.Wrap(c.Delete))
	}
}

// RegisterAdvice 全局异常处理与返回体包装示例
func RegisterAdvice(h *server.Hertz, cfg *config.Config) {
	p := advice.New(
		advice.WithExceptionResolver(advice.NewGlobalExceptionHandler()),
		advice.WithBodyAdvice(advice.NewGlobalResponseBodyHandler(cfg.Advice.BasePaths...)),
	)
	c := handler.NewAdviceUserController()

	users := h.Group("/users")
	{
		users.GET("/list", p.Wrap(c.List))
		users.GET("/get", p.Wrap(c.Get))
		users.GET("/get2", p.Wrap(c.Get2))
		users.GET("/exception-01", p.Wrap(c.Exception01))
		users.GET("/exception-02", p.Wrap(c.Exception02))
		users.POST("/do_something", p.Wrap(c.DoSomething))
	}
}

// RegisterWebFlux 注解式的 /users 与函数式的 /users2
func RegisterWebFlux(h *server.Hertz, userService service.UserService) {
	p := advice.New()
	c := handler.NewReactiveUserController(userService)

	users := h.Group("/users")
	{
		users.GET("/list", p.Wrap(c.List))
		users.GET("/get", p.Wrap(c.Get))
		users.GET("/v2/get", p.Wrap(c.GetV2))
		users.POST("/add", p.Wrap(c.Add))
		users.POST("/add2", p.Wrap(c.Add2))
		users.POST("/update", p.Wrap(c.Update))
		users.POST("/delete", p.Wrap(c.Delete))
	}

	handler.NewUserRouter().Register(h, p)
}

// RegisterSession 分布式 Session 示例，只有 /session 路由组挂载 Session 中间件
func RegisterSession(h *server.Hertz, sessions *session.Manager) {
	p := advice.New()
	c := handler.NewSessionController()

	group := h.Group("/session", sessions.Middleware())
	{
		group.GET("/set", p.Wrap(c.Set))
		group.GET("/get_all", p.Wrap(c.GetAll))
		group.GET("/id", p.Wrap(c.ID))
		group.POST("/invalidate", p.Wrap(c.Invalidate))
		group.POST("/change_id", p.Wrap(c.ChangeID))
		group.GET("/max_inactive", p.Wrap(c.MaxInactive))
	}
}
