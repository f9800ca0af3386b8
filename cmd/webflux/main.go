package main

import (
	"github.com/cloudwego/hertz/pkg/common/hlog"

	"boot-labs/pkg/core/user/service"
	"boot-labs/pkg/web/bootstrap"
	"boot-labs/pkg/web/handler"
	"boot-labs/pkg/web/router"
)

func main() {
	cfg, logCloser := bootstrap.Init("webflux")

	userService, db, err := service.NewUserServiceFromConfig(cfg)
	if err != nil {
		hlog.Fatalf("Failed to initialize user service: %v", err)
	}

	var checks []handler.HealthCheck
	if db != nil {
		checks = append(checks, bootstrap.DatabaseCheck(db))
	}

	h := bootstrap.NewServer(cfg, bootstrap.DBCloser(db), logCloser)

	router.RegisterCommon(h, cfg, checks...)
	router.RegisterWebFlux(h, userService)

	h.Spin()
}
