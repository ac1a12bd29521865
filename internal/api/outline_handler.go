package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/ppt_tools/internal/outline"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/internal/slides"
)

type OutlineHandler struct{}

func RegisterOutlineHandler() {
	Handlers = append(Handlers, &OutlineHandler{})
}

func (h *OutlineHandler) RegisterRoutes(router fiber.Router, _ Middlewares) {
	r := router.Group("/outline")
	{
		r.Post("/parse", h.Parse)
		r.Post("/serialize", h.Serialize)
	}
}

type ParseRequest struct {
	Text string `json:"text"`
}

type ParseResult struct {
	Slides []slides.Slide `json:"slides"`
	Issues []string       `json:"issues"`
}

// Parse 大纲文本转换为幻灯片，同时返回结构问题
func (h *OutlineHandler) Parse(c *fiber.Ctx) error {
	var req ParseRequest
	if err := parseBody(c, msgInvalidRequest, &req); err != nil {
		return fail(c, err)
	}
	deck := outline.Parse(req.Text)
	if deck == nil {
		deck = []slides.Slide{}
	}
	issues := outline.Validate(req.Text)
	if issues == nil {
		issues = []string{}
	}
	return c.JSON(service.OK(ParseResult{Slides: deck, Issues: issues}))
}

type SerializeRequest struct {
	Slides []slides.Slide `json:"slides"`
}

type SerializeResult struct {
	Text string `json:"text"`
}

func (h *OutlineHandler) Serialize(c *fiber.Ctx) error {
	var req SerializeRequest
	if err := parseBody(c, msgInvalidRequest, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(SerializeResult{Text: outline.Serialize(req.Slides)}))
}
