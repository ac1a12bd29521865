package api

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/pkg/logger"
)

var startedAt = time.Now()

type HealthStatus struct {
	Status     string  `json:"status"`
	Uptime     string  `json:"uptime"`
	Goroutines int     `json:"goroutines"`
	MemTotal   uint64  `json:"memTotal,omitempty"`
	MemUsed    uint64  `json:"memUsed,omitempty"`
	MemPercent float64 `json:"memPercent,omitempty"`
}

// Health 存活检查，主机内存信息获取失败时仍返回 ok
func Health(c *fiber.Ctx) error {
	status := HealthStatus{
		Status:     "ok",
		Uptime:     time.Since(startedAt).Truncate(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemoryWithContext(c.UserContext()); err == nil {
		status.MemTotal = vm.Total
		status.MemUsed = vm.Used
		status.MemPercent = vm.UsedPercent
	} else {
		logger.Debug("获取内存信息失败", logger.F("err", err))
	}
	return c.JSON(service.OK(status))
}
