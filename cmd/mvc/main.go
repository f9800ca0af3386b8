package main

import (
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"boot-labs/pkg/core/user/service"
	"boot-labs/pkg/web/bootstrap"
	"boot-labs/pkg/web/handler"
	"boot-labs/pkg/web/router"
)

func main() {
	// 初始化配置、日志与指标
	cfg, logCloser := bootstrap.Init("mvc")

	// 按 user.store 选择用户存储
	userService, db, err := service.NewUserServiceFromConfig(cfg)
	if err != nil {
		hlog.Fatalf("Failed to initialize user service: %v", err)
	}

	var checks []handler.HealthCheck
	if db != nil {
		checks = append(checks, bootstrap.DatabaseCheck(db))
	}

	h := bootstrap.NewServer(cfg, bootstrap.DBCloser(db), logCloser)

	// 注册路由
	router.RegisterCommon(h, cfg, checks...)
	router.RegisterMVC(h, userService)

	// 启动服务
	h.Spin()
}
