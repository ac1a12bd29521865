package render

import (
	"fmt"
	"strings"

	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/pkg/pptgen"
)

const (
	// title-bullets 最多显示的条目数，超出时最后一行改为 "+N more"
	maxBullets = 6
	// 左右图文布局的条目数
	maxSideBullets = 5
)

// drawTitle 左侧色块，右侧标题和副标题
func drawTitle(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.shape(pptgen.ShapeRect, 0, 0, 3.5, pptgen.SlideHeight, f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, 2.5, 3.5, 2, 2, f.colors.accent)
	f.logo(0.5, 0.5, 2, 1)

	style := f.headingStyle(40, f.colors.primary)
	style.VAlign = pptgen.VAlignMiddle
	if s.Title != "" {
		f.text(f.t.Heading(s.Title), 4, 1.5, 5.5, 1.5, style)
	}
	if s.Subtitle != "" {
		f.text(s.Subtitle, 4, 3.2, 5.5, 0.8, f.bodyStyle(20))
	}
	f.shape(pptgen.ShapeRect, 4, 3, 1.5, 0.08, f.colors.accent)
	return nil
}

// drawTitleContent 标题加一段连续正文，多个文本元素之间空一行
func drawTitleContent(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.ornament(pptgen.ShapeRect, 0, 0, 0.12, pptgen.SlideHeight, f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, 8.5, -0.8, 2, 2, f.colors.accent)
	f.ornament(pptgen.ShapeRect, 0, 5.35, 10, 0.275, f.colors.secondary)
	f.cornerLogo(false)

	if f.title(s.Title, 0.5, 0.3, 8, 0.8, 30, f.colors.primary, pptgen.AlignLeft) {
		f.shape(pptgen.ShapeRect, 0.5, 1.1, 1.5, 0.06, f.colors.accent)
	}
	f.outlined(pptgen.ShapeRoundRect, 0.4, 1.35, 9.2, 3.7, cardFill, f.colors.muted, 1)

	var parts []string
	for _, el := range s.ElementsOf(slides.ElementText) {
		parts = append(parts, el.Content)
	}
	if len(parts) > 0 {
		f.text(strings.Join(parts, "\n\n"), 0.6, 1.5, 8.8, 3.4, f.bodyStyle(16))
	}
	return nil
}

// drawTitleBullets 标题栏加圆点条目
func drawTitleBullets(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.ornament(pptgen.ShapeRect, 0, 0, 0.15, pptgen.SlideHeight, f.colors.primary)
	f.shape(pptgen.ShapeRect, 0, 0, 10, 1.2, f.colors.primary)
	f.cornerLogo(false)
	f.title(s.Title, 0.5, 0.3, 8, 0.7, 28, f.onColor(f.colors.primary), pptgen.AlignLeft)

	items := s.ElementsOf(slides.ElementBullet, slides.ElementText)
	shown, hidden := truncateWithMore(items, maxBullets)

	style := f.bodyStyle(16)
	style.VAlign = pptgen.VAlignMiddle
	for i, item := range shown {
		y := 1.5 + float64(i)*0.65
		f.shape(pptgen.ShapeEllipse, 0.5, y+0.08, 0.25, 0.25, f.colors.accent)
		f.text(item.Content, 0.9, y, 8.5, 0.5, style)
	}
	if hidden > 0 {
		y := 1.5 + float64(len(shown))*0.65
		more := pptgen.TextStyle{Font: f.body, Size: 14, Color: f.colors.muted, Italic: true, VAlign: pptgen.VAlignMiddle}
		f.text(MoreIndicator(hidden), 0.9, y, 8.5, 0.5, more)
	}
	return nil
}

// truncateWithMore 不超过容量时全部显示，否则留一行给提示
func truncateWithMore(items []slides.SlideElement, capacity int) ([]slides.SlideElement, int) {
	if len(items) <= capacity {
		return items, 0
	}
	return items[:capacity-1], len(items) - (capacity - 1)
}

// MoreIndicator 被截断条目的提示文字
func MoreIndicator(n int) string {
	return fmt.Sprintf("+%d more", n)
}

// drawTwoColumns 条目平分到两栏，奇数时左栏多一条
func drawTwoColumns(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.ornament(pptgen.ShapeRect, 0, 0, 10, 0.1, f.colors.primary)
	f.cornerLogo(false)
	if f.title(s.Title, 0.5, 0.3, 9, 0.7, 28, f.colors.primary, pptgen.AlignCenter) {
		f.shape(pptgen.ShapeRect, 4, 1, 2, 0.06, f.colors.accent)
	}

	items := s.ElementsOf(slides.ElementBullet, slides.ElementText)
	mid := (len(items) + 1) / 2
	columns := []struct {
		x     float64
		color string
		items []slides.SlideElement
	}{
		{0.4, f.colors.primary, items[:mid]},
		{5.2, f.colors.secondary, items[mid:]},
	}

	style := f.bodyStyle(13)
	style.VAlign = pptgen.VAlignMiddle
	for _, col := range columns {
		f.outlined(pptgen.ShapeRoundRect, col.x, 1.3, 4.4, 3.8, cardFill, col.color, 2)
		f.shape(pptgen.ShapeRect, col.x, 1.3, 4.4, 0.5, col.color)
		for i, item := range col.items {
			y := 2 + float64(i)*0.55
			f.shape(pptgen.ShapeEllipse, col.x+0.2, y+0.05, 0.18, 0.18, f.colors.accent)
			f.text(item.Content, col.x+0.5, y, 3.7, 0.45, style)
		}
	}
	return nil
}

// drawQuote 引用卡片，出处取元素的 SubContent，其次是副标题
func drawQuote(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.ornament(pptgen.ShapeEllipse, -2, 1, 4, 4, f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, 8, -0.5, 2, 2, f.colors.accent)
	f.ornament(pptgen.ShapeRect, 0, 5.2, 10, 0.425, f.colors.secondary)
	f.cornerLogo(false)

	quotes := s.ElementsOf(slides.ElementQuote, slides.ElementText)
	if len(quotes) == 0 {
		return nil
	}
	quote := quotes[0]

	f.shadow(pptgen.ShapeRoundRect, 1.55, 1.25, 7, 3.2)
	f.shape(pptgen.ShapeRoundRect, 1.5, 1.2, 7, 3.2, white)
	f.shape(pptgen.ShapeRect, 1.5, 1.2, 0.15, 3.2, f.colors.accent)
	f.text(`"`, 1.8, 1.1, 1, 1.2, pptgen.TextStyle{Font: quoteFont, Size: 80, Color: f.colors.accent})
	f.text(quote.Content, 2, 1.8, 6, 1.8, pptgen.TextStyle{
		Font:   quoteFont,
		Size:   22,
		Color:  f.colors.primary,
		Italic: true,
		Align:  pptgen.AlignCenter,
		VAlign: pptgen.VAlignMiddle,
	})

	author := orDefault(quote.SubContent, s.Subtitle)
	if strings.TrimSpace(author) != "" {
		f.shape(pptgen.ShapeRect, 4, 3.7, 2, 0.04, f.colors.accent)
		style := pptgen.TextStyle{Font: f.body, Size: 16, Color: f.colors.secondary, Bold: true, Align: pptgen.AlignCenter}
		f.text("— "+author, 2, 3.85, 6, 0.5, style)
	}
	return nil
}

// drawSection 主色背景的分节页，文字固定为白色
func drawSection(f *frame, s *slides.Slide) error {
	f.page(f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, 6.5, -1, 5, 5, f.colors.secondary)
	f.ornament(pptgen.ShapeEllipse, -1, 4, 3, 3, f.colors.accent)
	f.rotated(pptgen.ShapeRtTriangle, 0, 0, 2, 2, f.colors.accent, 180)
	f.shape(pptgen.ShapeRect, 2, 2.6, 6, 0.08, white)
	f.logo(4, 0.5, 2, 0.8)
	f.ornament(pptgen.ShapeEllipse, 4.5, 1.5, 1, 1, white)

	style := f.headingStyle(44, white)
	style.Align = pptgen.AlignCenter
	style.VAlign = pptgen.VAlignMiddle
	if s.Title != "" {
		f.text(f.t.Heading(s.Title), 0.5, 2.8, 9, 1.2, style)
	}
	f.shape(pptgen.ShapeRect, 3.5, 4, 3, 0.08, white)
	if s.Subtitle != "" {
		sub := pptgen.TextStyle{Font: f.body, Size: 18, Color: white, Align: pptgen.AlignCenter, VAlign: pptgen.VAlignMiddle}
		f.text(s.Subtitle, 0.5, 4.2, 9, 0.8, sub)
	}
	return nil
}
