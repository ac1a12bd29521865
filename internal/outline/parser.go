// Package outline 在大纲文本和幻灯片之间转换
//
// 大纲语法按行解析：
//
//	# 标题            标题页
//	## 标题           新的一页，"Section:" 或 "---" 前缀表示分节页
//	### 副标题        当前页的副标题
//	> 引用            引用页，"> — 作者" 设置出处
//	- 条目 / * 条目 / 1. 条目
//	其他非空且不以 # 开头的行作为正文
package outline

import (
	"regexp"
	"strings"

	"github.com/yockii/ppt_tools/internal/slides"
)

const (
	// 正文超过这个行数改用两栏
	twoColumnThreshold = 8
	// 超过这个页数校验时给出提示
	MaxSlides = 50
)

var (
	numberedItem  = regexp.MustCompile(`^\d+\.\s`)
	sectionPrefix = regexp.MustCompile(`(?i)^section:\s*`)
	dividerPrefix = regexp.MustCompile(`^---\s*`)
)

// section 扫描过程中的累积状态
type section struct {
	title    string
	subtitle string
	content  []string
	quote    bool
	divider  bool
	// 由一级标题开始
	top bool
}

func (s *section) layout() slides.Layout {
	switch {
	case s.quote:
		return slides.LayoutQuote
	case s.divider:
		return slides.LayoutSection
	case len(s.content) == 0:
		return slides.LayoutTitle
	case len(s.content) > twoColumnThreshold:
		return slides.LayoutTwoColumns
	default:
		return slides.LayoutTitleBullets
	}
}

func (s *section) toSlide() slides.Slide {
	elType := slides.ElementBullet
	subContent := ""
	if s.quote {
		elType = slides.ElementQuote
		subContent = s.subtitle
	}
	elements := make([]slides.SlideElement, 0, len(s.content))
	for _, c := range s.content {
		elements = append(elements, slides.SlideElement{Type: elType, Content: c, SubContent: subContent})
	}
	return slides.Slide{
		ID:       slides.NewSlideID(),
		Layout:   s.layout(),
		Title:    s.title,
		Subtitle: s.subtitle,
		Elements: elements,
	}
}

// Parse 把大纲文本解析为幻灯片，每页分配新的ID
func Parse(text string) []slides.Slide {
	sections := scan(text)
	out := make([]slides.Slide, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.toSlide())
	}
	return out
}

// scan 单次自上而下扫描，遇到一级或二级标题时结束当前页
func scan(text string) []*section {
	var (
		sections []*section
		current  *section
	)
	flush := func() {
		if current != nil {
			sections = append(sections, current)
		}
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "# "):
			flush()
			current = &section{title: strings.TrimSpace(trimmed[2:]), top: true}

		case strings.HasPrefix(trimmed, "## "):
			flush()
			current = newHeadingSection(strings.TrimSpace(trimmed[3:]))

		case current == nil:
			// 第一个标题之前的内容忽略

		case strings.HasPrefix(trimmed, "### "):
			current.subtitle = strings.TrimSpace(trimmed[4:])

		case strings.HasPrefix(trimmed, "> "):
			current.quote = true
			quoted := strings.TrimSpace(trimmed[2:])
			if attribution, ok := cutAttribution(quoted); ok {
				current.subtitle = attribution
			} else {
				current.content = append(current.content, quoted)
			}

		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			current.content = append(current.content, strings.TrimSpace(trimmed[2:]))

		case numberedItem.MatchString(trimmed):
			current.content = append(current.content, strings.TrimSpace(numberedItem.ReplaceAllString(trimmed, "")))

		case trimmed != "" && !strings.HasPrefix(trimmed, "#"):
			current.content = append(current.content, trimmed)
		}
	}
	flush()
	return sections
}

func newHeadingSection(title string) *section {
	s := &section{title: title}
	if sectionPrefix.MatchString(title) || dividerPrefix.MatchString(title) {
		s.divider = true
		title = sectionPrefix.ReplaceAllString(title, "")
		s.title = dividerPrefix.ReplaceAllString(title, "")
	}
	return s
}

// cutAttribution 引用中以 — 或 - 开头的行是出处
func cutAttribution(s string) (string, bool) {
	for _, marker := range []string{"—", "-"} {
		if rest, ok := strings.CutPrefix(s, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
