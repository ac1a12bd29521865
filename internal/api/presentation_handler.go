package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yockii/ppt_tools/internal/assembler"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/middleware"
	"github.com/yockii/ppt_tools/internal/model"
	"github.com/yockii/ppt_tools/internal/render"
	"github.com/yockii/ppt_tools/internal/service"
)

type PresentationHandler struct {
	presentationService service.PresentationService
	brandThemeService   service.BrandThemeService
	options             assembler.Options
}

func RegisterPresentationHandler(
	presentationService service.PresentationService,
	brandThemeService service.BrandThemeService,
	options assembler.Options,
) {
	Handlers = append(Handlers, NewPresentationHandler(presentationService, brandThemeService, options))
}

func NewPresentationHandler(
	presentationService service.PresentationService,
	brandThemeService service.BrandThemeService,
	options assembler.Options,
) *PresentationHandler {
	return &PresentationHandler{
		presentationService: presentationService,
		brandThemeService:   brandThemeService,
		options:             options,
	}
}

func (h *PresentationHandler) RegisterRoutes(router fiber.Router, mw Middlewares) {
	r := router.Group("/presentations", mw.Auth)
	{
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/:id", h.Get)
		r.Put("/:id", h.Update)
		r.Delete("/:id", h.Delete)
		r.Get("/:id/export", h.Export)
	}
}

func (h *PresentationHandler) List(c *fiber.Ctx) error {
	offset, limit := service.Page(c.QueryInt("offset", 0), c.QueryInt("limit", service.DefaultPageSize))
	list, total, err := h.presentationService.List(c.UserContext(), middleware.UserID(c), offset, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(service.NewListResponse(list, total, offset, limit)))
}

func (h *PresentationHandler) Create(c *fiber.Ctx) error {
	record, err := h.bind(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.presentationService.Create(c.UserContext(), record); err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *PresentationHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	record, err := h.presentationService.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *PresentationHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	record, err := h.bind(c)
	if err != nil {
		return fail(c, err)
	}
	record.ID = id
	if err := h.presentationService.Update(c.UserContext(), record.UserID, record); err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(record))
}

func (h *PresentationHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.presentationService.Delete(c.UserContext(), middleware.UserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(nil))
}

// Export 导出已保存的演示文稿，使用保存时的渲染风格
func (h *PresentationHandler) Export(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}
	record, err := h.presentationService.Get(c.UserContext(), middleware.UserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	opts := h.options
	if record.Style != "" {
		opts.Style = render.ParseStyle(record.Style)
	}
	doc, err := assemble(record.Deck(), opts)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(service.OK(ExportResult{Base64: doc.Base64(), Filename: doc.Filename}))
}

// bind 解析请求体，校验后关联当前用户和品牌主题
func (h *PresentationHandler) bind(c *fiber.Ctx) (*model.Presentation, error) {
	record := new(model.Presentation)
	if err := parseBody(c, msgInvalidPresentation, record); err != nil {
		return nil, err
	}
	record.ID = 0
	record.UserID = middleware.UserID(c)

	var details []constant.FieldError
	if strings.TrimSpace(record.Title) == "" {
		details = append(details, constant.FieldError{Field: "title", Message: "is required"})
	}
	if record.Style != "" && record.Style != string(render.StyleDecorated) && record.Style != string(render.StyleFlat) {
		details = append(details, constant.FieldError{Field: "style", Message: "must be one of [decorated flat]"})
	}
	details = append(details, checkDeck(record.Deck())...)
	if len(details) > 0 {
		return nil, constant.NewValidationError(msgInvalidPresentation, details...)
	}

	if record.BrandThemeID != 0 && record.CustomTheme == nil {
		brand, err := h.brandThemeService.Get(c.UserContext(), record.UserID, record.BrandThemeID)
		if err != nil {
			return nil, err
		}
		record.CustomTheme = &brand.Theme
	}
	return record, nil
}
