package api

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/internal/theme"
)

const maxLogoSize = 5 * 1024 * 1024

type ThemeHandler struct{}

func RegisterThemeHandler() {
	Handlers = append(Handlers, &ThemeHandler{})
}

func (h *ThemeHandler) RegisterRoutes(router fiber.Router, _ Middlewares) {
	r := router.Group("/themes")
	{
		r.Get("/", h.List)
		r.Post("/validate", h.Validate)
		r.Post("/from-logo", h.FromLogo)
	}
}

// List 内置主题
func (h *ThemeHandler) List(c *fiber.Ctx) error {
	return c.JSON(service.OK(theme.List()))
}

// Validate 校验自定义主题，通过时原样返回
func (h *ThemeHandler) Validate(c *fiber.Ctx) error {
	t := new(theme.Theme)
	if err := parseBody(c, "Invalid custom theme", t); err != nil {
		return fail(c, err)
	}
	if err := t.Validate(); err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(t))
}

// FromLogo 表单字段 logo 为图片文件，displayName 为主题显示名
func (h *ThemeHandler) FromLogo(c *fiber.Ctx) error {
	_, data, err := formFile(c, "logo", maxLogoSize)
	if err != nil {
		return fail(c, err)
	}
	t, err := theme.FromLogo(c.FormValue("displayName"), data)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(t))
}

// formFile 读取上传文件的名称和内容
func formFile(c *fiber.Ctx, field string, limit int64) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, constant.NewValidationError("Invalid upload", constant.FieldError{Field: field, Message: "is required"})
	}
	if fh.Size > limit {
		return "", nil, constant.NewValidationError("Invalid upload", constant.FieldError{Field: field, Message: "file is too large"})
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	return fh.Filename, data, err
}
