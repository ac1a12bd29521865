package generator

import "github.com/yockii/ppt_tools/internal/validate"

// Style 文案风格
type Style string

const (
	StyleFormal   Style = "formal"
	StyleCasual   Style = "casual"
	StyleCreative Style = "creative"
)

const (
	DefaultSlideCount = 8
	DefaultLanguage   = "en"
)

// Request 生成请求
type Request struct {
	Topic      string `json:"topic" validate:"required,max=500"`
	SlideCount int    `json:"slideCount" validate:"min=3,max=20"`
	Style      Style  `json:"style" validate:"oneof=formal casual creative"`
	Language   string `json:"language"`
}

// Normalize 填充默认值
func (r *Request) Normalize() {
	if r.SlideCount == 0 {
		r.SlideCount = DefaultSlideCount
	}
	if r.Style == "" {
		r.Style = StyleFormal
	}
	if r.Language == "" {
		r.Language = DefaultLanguage
	}
}

// Validate 校验请求，错误中列出每个不合法的字段
func (r *Request) Validate() error {
	return validate.Struct("Invalid request", r)
}
