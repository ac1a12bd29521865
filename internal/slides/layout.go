package slides

// Layout 幻灯片布局，固定的13种
type Layout string

const (
	LayoutTitle        Layout = "title"
	LayoutTitleContent Layout = "title-content"
	LayoutTitleBullets Layout = "title-bullets"
	LayoutTwoColumns   Layout = "two-columns"
	LayoutImageLeft    Layout = "image-left"
	LayoutImageRight   Layout = "image-right"
	LayoutQuote        Layout = "quote"
	LayoutSection      Layout = "section"
	LayoutStats        Layout = "stats"
	LayoutCards        Layout = "cards"
	LayoutTimeline     Layout = "timeline"
	LayoutComparison   Layout = "comparison"
	LayoutTable        Layout = "table"
)

var allLayouts = []Layout{
	LayoutTitle,
	LayoutTitleContent,
	LayoutTitleBullets,
	LayoutTwoColumns,
	LayoutImageLeft,
	LayoutImageRight,
	LayoutQuote,
	LayoutSection,
	LayoutStats,
	LayoutCards,
	LayoutTimeline,
	LayoutComparison,
	LayoutTable,
}

// AllLayouts 所有布局，顺序固定
func AllLayouts() []Layout {
	out := make([]Layout, len(allLayouts))
	copy(out, allLayouts)
	return out
}

// ParseLayout 判断是否为已知布局
func ParseLayout(s string) (Layout, bool) {
	for _, l := range allLayouts {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// CoerceLayout 未知布局统一降级为 title-bullets
func CoerceLayout(s string) Layout {
	if l, ok := ParseLayout(s); ok {
		return l
	}
	return LayoutTitleBullets
}

// Valid 是否为已知布局
func (l Layout) Valid() bool {
	_, ok := ParseLayout(string(l))
	return ok
}

// RoundTrips 是否可以无损转换为大纲文本
func (l Layout) RoundTrips() bool {
	switch l {
	case LayoutTitle, LayoutSection, LayoutQuote, LayoutTitleBullets, LayoutTitleContent:
		return true
	}
	return false
}

func (l Layout) String() string { return string(l) }
