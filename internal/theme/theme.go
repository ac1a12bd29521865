// Package theme 管理内置主题和用户自定义主题
package theme

import (
	"strings"

	"github.com/yockii/ppt_tools/internal/constant"
)

// Colors 六种语义颜色
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	Muted      string `json:"muted"`
}

// Fonts 标题和正文字体
type Fonts struct {
	Heading          string `json:"heading"`
	Body             string `json:"body"`
	HeadingUppercase bool   `json:"headingUppercase,omitempty"`
}

// Theme 主题
//
// Logo 为 data uri，可选
type Theme struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
	Colors      Colors `json:"colors"`
	Fonts       Fonts  `json:"fonts"`
	Logo        string `json:"logo,omitempty"`
}

// HasLogo 是否带logo
func (t *Theme) HasLogo() bool {
	return strings.TrimSpace(t.Logo) != ""
}

// Heading 应用 HeadingUppercase 后的标题文本
func (t *Theme) Heading(s string) string {
	if t.Fonts.HeadingUppercase {
		return strings.ToUpper(s)
	}
	return s
}

// Validate 校验自定义主题，缺失的字段全部列出
func (t *Theme) Validate() error {
	var details []constant.FieldError
	required := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			details = append(details, constant.FieldError{Field: field, Message: "is required"})
		}
	}
	color := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			required(field, value)
			return
		}
		if _, err := ParseColor(value); err != nil {
			details = append(details, constant.FieldError{Field: field, Message: "must be a hex color like #1e3a5f"})
		}
	}

	required("name", t.Name)
	required("displayName", t.DisplayName)
	required("description", t.Description)
	color("colors.primary", t.Colors.Primary)
	color("colors.secondary", t.Colors.Secondary)
	color("colors.background", t.Colors.Background)
	color("colors.text", t.Colors.Text)
	color("colors.accent", t.Colors.Accent)
	color("colors.muted", t.Colors.Muted)
	required("fonts.heading", t.Fonts.Heading)
	required("fonts.body", t.Fonts.Body)

	if len(details) > 0 {
		return constant.NewValidationError("Invalid custom theme", details...)
	}
	return nil
}
