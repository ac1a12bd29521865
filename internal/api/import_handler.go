package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/ppt_tools/internal/importer"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/pkg/logger"
)

const maxImportSize = 50 * 1024 * 1024

type ImportHandler struct{}

func RegisterImportHandler() {
	Handlers = append(Handlers, &ImportHandler{})
}

func (h *ImportHandler) RegisterRoutes(router fiber.Router, _ Middlewares) {
	router.Post("/import", h.Import)
}

// Import 表单字段 file 为 .pptx 文档
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	name, data, err := formFile(c, "file", maxImportSize)
	if err != nil {
		return fail(c, err)
	}
	result, err := importer.ImportBytes(name, data)
	if err != nil {
		logger.Warn("导入文档失败", logger.F("file", name), logger.F("err", err))
		return fail(c, err)
	}
	return c.JSON(service.OK(result))
}
