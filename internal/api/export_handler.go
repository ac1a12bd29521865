package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/ppt_tools/internal/assembler"
	"github.com/yockii/ppt_tools/internal/render"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/pkg/logger"
)

type ExportHandler struct {
	options assembler.Options
}

func RegisterExportHandler(options assembler.Options) {
	Handlers = append(Handlers, NewExportHandler(options))
}

func NewExportHandler(options assembler.Options) *ExportHandler {
	return &ExportHandler{options: options}
}

func (h *ExportHandler) RegisterRoutes(router fiber.Router, _ Middlewares) {
	router.Post("/export", h.Export)
}

// ExportResult 导出结果
type ExportResult struct {
	Base64   string `json:"base64"`
	Filename string `json:"filename"`
}

// Export 渲染演示文稿，style、engine 查询参数可覆盖默认配置
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	p, err := decodePresentation(c.Body(), msgInvalidPresentation)
	if err != nil {
		return fail(c, err)
	}
	doc, err := assemble(p, h.overrides(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(ExportResult{Base64: doc.Base64(), Filename: doc.Filename}))
}

func (h *ExportHandler) overrides(c *fiber.Ctx) assembler.Options {
	opts := h.options
	if style := c.Query("style"); style != "" {
		opts.Style = render.ParseStyle(style)
	}
	if engine := c.Query("engine"); engine != "" {
		opts.Engine = assembler.ParseEngine(engine)
	}
	return opts
}

func assemble(p *slides.Presentation, opts assembler.Options) (*assembler.Document, error) {
	doc, err := assembler.Assemble(p, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("导出演示文稿", logger.F("title", p.Title), logger.F("slides", doc.SlideCount), logger.F("engine", opts.Engine))
	return doc, nil
}
