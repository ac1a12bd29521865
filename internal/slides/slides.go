// Package slides 定义演示文稿的内容模型，解析器、导入器、生成器和渲染器共享这套结构
package slides

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yockii/ppt_tools/internal/theme"
)

// ElementType 元素类型，决定默认的渲染方式
type ElementType string

const (
	ElementText   ElementType = "text"
	ElementBullet ElementType = "bullet"
	ElementImage  ElementType = "image"
	ElementIcon   ElementType = "icon"
	ElementQuote  ElementType = "quote"
)

var elementTypes = []ElementType{ElementText, ElementBullet, ElementImage, ElementIcon, ElementQuote}

// Valid 是否为已知的元素类型
func (t ElementType) Valid() bool {
	for _, et := range elementTypes {
		if et == t {
			return true
		}
	}
	return false
}

// CoerceElementType 未知类型按普通文本处理
func CoerceElementType(s string) ElementType {
	if t := ElementType(s); t.Valid() {
		return t
	}
	return ElementText
}

// SlideElement 幻灯片中的一个内容单元
//
// Content 在部分布局中是以 | 分隔的记录，由渲染器按布局解释
type SlideElement struct {
	Type       ElementType `json:"type" validate:"required,oneof=text bullet image icon quote"`
	Content    string      `json:"content"`
	SubContent string      `json:"subContent,omitempty"`
}

// Slide 一页幻灯片
type Slide struct {
	ID       string         `json:"id"`
	Layout   Layout         `json:"layout" validate:"required,layout"`
	Title    string         `json:"title,omitempty"`
	Subtitle string         `json:"subtitle,omitempty"`
	Elements []SlideElement `json:"elements" validate:"dive"`
	Notes    string         `json:"notes,omitempty"`
}

// NewSlideID 生成新的幻灯片ID
func NewSlideID() string {
	return uuid.NewString()
}

// Renderable 过滤掉内容为空的元素，渲染前调用
func (s *Slide) Renderable() []SlideElement {
	out := make([]SlideElement, 0, len(s.Elements))
	for _, el := range s.Elements {
		if strings.TrimSpace(el.Content) == "" {
			continue
		}
		out = append(out, el)
	}
	return out
}

// ElementsOf 按类型过滤可渲染元素，保持原有顺序
func (s *Slide) ElementsOf(types ...ElementType) []SlideElement {
	var out []SlideElement
	for _, el := range s.Renderable() {
		for _, t := range types {
			if el.Type == t {
				out = append(out, el)
				break
			}
		}
	}
	return out
}

// Presentation 完整的演示文稿
//
// CustomTheme 不为空时覆盖 Theme 名称
type Presentation struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Theme       string       `json:"theme,omitempty" validate:"omitempty,theme"`
	CustomTheme *theme.Theme `json:"customTheme,omitempty"`
	Slides      []Slide      `json:"slides" validate:"dive"`
}

// ResolveTheme 返回渲染使用的主题
func (p *Presentation) ResolveTheme() theme.Theme {
	if p.CustomTheme != nil {
		return *p.CustomTheme
	}
	return theme.Resolve(p.Theme)
}
