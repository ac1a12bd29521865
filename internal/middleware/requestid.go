package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/yockii/ppt_tools/pkg/logger"
)

const localRequestID = "requestid"

// RequestID 请求ID写入 X-Request-ID 响应头，已有时沿用
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  func() string { return xid.New().String() },
		ContextKey: localRequestID,
	})
}

// Logger 带请求ID和用户ID的日志
func Logger(c *fiber.Ctx) *zap.Logger {
	fields := make([]zap.Field, 0, 2)
	if id, ok := c.Locals(localRequestID).(string); ok {
		fields = append(fields, logger.F("requestId", id))
	}
	if uid := UserID(c); uid != "" {
		fields = append(fields, logger.F("userId", uid))
	}
	return logger.With(fields...)
}
