package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yockii/ppt_tools/internal/middleware"
	"github.com/yockii/ppt_tools/internal/model"
	"github.com/yockii/ppt_tools/internal/service"
)

type BrandThemeHandler struct {
	brandThemeService service.BrandThemeService
}

func RegisterBrandThemeHandler(brandThemeService service.BrandThemeService) {
	Handlers = append(Handlers, NewBrandThemeHandler(brandThemeService))
}

func NewBrandThemeHandler(brandThemeService service.BrandThemeService) *BrandThemeHandler {
	return &BrandThemeHandler{brandThemeService: brandThemeService}
}

func (h *BrandThemeHandler) RegisterRoutes(router fiber.Router, mw Middlewares) {
	r := router.Group("/brand-themes", mw.Auth)
	{
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/default", h.GetDefault)
		r.Get("/:id", h.Get)
		r.Delete("/:id", h.Delete)
	}
}

func (h *BrandThemeHandler) List(c *fiber.Ctx) error {
	offset, limit := service.Page(c.QueryInt("offset", 0), c.QueryInt("limit", service.DefaultPageSize))
	list, total, err := h.brandThemeService.List(c.UserContext(), middleware.UserID(c), offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}

func (h *BrandThemeHandler) Create(c *fiber.Ctx) error {
	record := new(model.BrandTheme)
	if err := parseBody(c, "Invalid custom theme", record); err != nil {
		return fail(c, err)
	}
	record.ID = 0
	record.UserID = middleware.UserID(c)
	if err := h.brandThemeService.Create(c.UserContext(), record); err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *BrandThemeHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	record, err := h.brandThemeService.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

// GetDefault 当前用户的默认品牌主题
func (h *BrandThemeHandler) GetDefault(c *fiber.Ctx) error {
	record, err := h.brandThemeService.GetDefault(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *BrandThemeHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.brandThemeService.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(nil))
}
