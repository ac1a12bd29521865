// Package api 演示文稿相关的 HTTP 接口
package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tidwall/gjson"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/middleware"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/internal/validate"
	"github.com/yockii/ppt_tools/pkg/logger"
	"github.com/yockii/ppt_tools/pkg/util"
)

var Handlers []Handler

// Middlewares 路由注册时按需挂载的中间件
type Middlewares struct {
	Auth         fiber.Handler
	OptionalAuth fiber.Handler
	RateLimit    fiber.Handler
}

type Handler interface {
	RegisterRoutes(router fiber.Router, mw Middlewares)
}

const (
	msgInvalidRequest      = "Invalid request"
	msgInvalidPresentation = "Invalid presentation data"
)

// fail 按错误类型输出状态码和错误响应
func fail(c *fiber.Ctx, err error) error {
	code := constant.GetErrorCode(err)
	if code >= fiber.StatusInternalServerError {
		middleware.Logger(c).Error("请求处理失败", logger.F("path", c.Path()), logger.F("err", err))
	}
	return c.Status(code).JSON(service.Error(err))
}

// bodyError 请求体不是合法的JSON对象
func bodyError(message string) error {
	return constant.NewValidationError(message, constant.FieldError{Field: "body", Message: "must be a JSON object"})
}

// parseBody 解析JSON请求体，失败时返回带 message 的校验错误
func parseBody(c *fiber.Ctx, message string, out interface{}) error {
	body := c.Body()
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return bodyError(message)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return constant.NewValidationError(message, constant.FieldError{Field: "body", Message: err.Error()})
	}
	return nil
}

// decodePresentation 解析并校验导出请求，id、title、slides 必须出现
func decodePresentation(body []byte, message string) (*slides.Presentation, error) {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, bodyError(message)
	}
	root := gjson.ParseBytes(body)

	var details []constant.FieldError
	for _, key := range []string{"id", "title"} {
		if root.Get(key).Type != gjson.String {
			details = append(details, constant.FieldError{Field: key, Message: "is required"})
		}
	}
	if !root.Get("slides").IsArray() {
		details = append(details, constant.FieldError{Field: "slides", Message: "is required"})
	}

	p := new(slides.Presentation)
	if err := json.Unmarshal(body, p); err != nil {
		details = append(details, constant.FieldError{Field: "body", Message: err.Error()})
		return nil, constant.NewValidationError(message, details...)
	}
	details = append(details, checkDeck(p)...)
	if len(details) > 0 {
		return nil, constant.NewValidationError(message, details...)
	}
	return p, nil
}

// checkDeck 幻灯片结构和内联主题的校验明细
func checkDeck(p *slides.Presentation) []constant.FieldError {
	var details []constant.FieldError
	details = append(details, fieldErrors(validate.Struct("", p), "")...)
	if p.CustomTheme != nil {
		details = append(details, fieldErrors(p.CustomTheme.Validate(), "customTheme.")...)
	}
	return details
}

func fieldErrors(err error, prefix string) []constant.FieldError {
	var verr *constant.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]constant.FieldError, len(verr.Details))
	for i, d := range verr.Details {
		out[i] = constant.FieldError{Field: prefix + d.Field, Message: d.Message}
	}
	return out
}

// pathID 解析路径中的记录ID
func pathID(c *fiber.Ctx) (uint64, error) {
	id, err := util.ParseID(c.Params("id"))
	if err != nil {
		return 0, constant.ErrRecordIDEmpty
	}
	return id, nil
}
