package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
)

type HealthCheckHandler struct {
	checks  []HealthCheck
	timeout time.Duration
}

// HealthCheck 单个依赖组件的检查，IsCore 的组件失败时整体不可用
type HealthCheck struct {
	Name   string
	IsCore bool
	Check  func(ctx context.Context) error
}

func NewHealthCheckHandler(checks ...HealthCheck) *HealthCheckHandler {
	return &HealthCheckHandler{checks: checks, timeout: 2 * time.Second}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components []ComponentStatus `json:"components,omitempty"`
}

type ComponentStatus struct {
	Name    string        `json:"name"`
	Status  string        `json:"status"`
	IsCore  bool          `json:"is_core"`
	Latency time.Duration `json:"latency,omitempty"`
	Error   string        `json:"error,omitempty"`
}

var startupTime = time.Now()

// AdvancedHealthCheck 依次检查各组件，核心组件异常时返回 503
func (h *HealthCheckHandler) AdvancedHealthCheck(ctx context.Context, c *app.RequestContext) {
	status := HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(startupTime).Round(time.Second).String(),
		Components: make([]ComponentStatus, 0, len(h.checks)),
	}
	for _, check := range h.checks {
		status.Components = append(status.Components, h.run(ctx, check))
	}

	if hasCriticalErrors(status.Components) {
		status.Status = "degraded"
		c.JSON(503, status)
		return
	}

	c.JSON(200, status)
}

func (h *HealthCheckHandler) run(ctx context.Context, check HealthCheck) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := check.Check(ctx)
	cs := ComponentStatus{
		Name:    check.Name,
		Status:  "ok",
		IsCore:  check.IsCore,
		Latency: time.Since(start),
	}
	if err != nil {
		cs.Status = "error"
		cs.Error = err.Error()
	}
	return cs
}

func hasCriticalErrors(components []ComponentStatus) bool {
	for _, comp := range components {
		// 核心组件状态异常或任意组件发生严重错误
		if (comp.IsCore && comp.Status != "ok") || comp.Status == "critical" {
			return true
		}
	}
	return false
}
