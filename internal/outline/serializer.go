package outline

import (
	"strings"

	"github.com/yockii/ppt_tools/internal/slides"
)

// Serialize 把幻灯片转回大纲文本，便于用户以文本方式继续编辑
//
// title、section、quote 和列表类布局可以往返，其余布局只保留标题和条目
func Serialize(deck []slides.Slide) string {
	var lines []string
	for _, s := range deck {
		switch s.Layout {
		case slides.LayoutTitle:
			lines = append(lines, "# "+orDefault(s.Title, "Untitled"))
			if s.Subtitle != "" {
				lines = append(lines, "### "+s.Subtitle)
			}

		case slides.LayoutSection:
			lines = append(lines, "## Section: "+orDefault(s.Title, "Section"))
			if s.Subtitle != "" {
				lines = append(lines, "### "+s.Subtitle)
			}

		case slides.LayoutQuote:
			lines = append(lines, "## "+orDefault(s.Title, "Quote"))
			for _, el := range s.Elements {
				lines = append(lines, "> "+el.Content)
				if el.SubContent != "" {
					lines = append(lines, "> — "+el.SubContent)
				}
			}

		default:
			lines = append(lines, "## "+orDefault(s.Title, "Slide"))
			if s.Subtitle != "" {
				lines = append(lines, "### "+s.Subtitle)
			}
			for _, el := range s.Elements {
				if el.Type == slides.ElementBullet || el.Type == slides.ElementText {
					lines = append(lines, "- "+el.Content)
				}
			}
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
