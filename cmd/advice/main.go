package main

import (
	"boot-labs/pkg/web/bootstrap"
	"boot-labs/pkg/web/router"
)

func main() {
	cfg, logCloser := bootstrap.Init("advice")

	h := bootstrap.NewServer(cfg, logCloser)

	router.RegisterCommon(h, cfg)
	router.RegisterAdvice(h, cfg)

	h.Spin()
}
