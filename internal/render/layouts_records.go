package render

import (
	"strconv"

	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/pkg/pptgen"
)

// 各布局的容量，多余元素直接丢弃
const (
	maxStats        = 4
	maxCards        = 3
	maxSteps        = 5
	maxColumns      = 3
	maxFeatures     = 5
	tableRowHeight  = 0.55
	tableWidth      = 9.0
	statCardWidth   = 2.1
	statCardGap     = 0.3
	cardWidth       = 2.8
	cardGap         = 0.5
	columnGap       = 0.4
	timelineWidth   = 8.4
	timelineStartX  = 0.8
	wideColumnWidth = 4.2
	narrowColumn    = 2.9
)

// rotation 卡片、步骤和对比列按 主色/辅色/强调色 循环着色
func (f *frame) rotation(i int) string {
	colors := [...]string{f.colors.primary, f.colors.secondary, f.colors.accent}
	return colors[i%len(colors)]
}

// drawStats 主色背景上的数据卡片，内容为 value|label
func drawStats(f *frame, s *slides.Slide) error {
	f.page(f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, -1, -1, 3, 3, f.colors.secondary)
	f.ornament(pptgen.ShapeEllipse, 8.5, 4, 2.5, 2.5, f.colors.accent)
	f.title(s.Title, 0.5, 0.4, 9, 0.7, 28, white, pptgen.AlignCenter)

	stats := take(s.Renderable(), maxStats)
	startX := centeredStart(len(stats), statCardWidth, statCardGap)
	for i, el := range stats {
		x := startX + float64(i)*(statCardWidth+statCardGap)
		stat := slides.DecodeStat(el.Content)

		f.shadow(pptgen.ShapeRoundRect, x+0.05, 1.55, statCardWidth, 3.2)
		f.shape(pptgen.ShapeRoundRect, x, 1.5, statCardWidth, 3.2, white)
		f.ornament(pptgen.ShapeEllipse, x+(statCardWidth-0.6)/2, 1.7, 0.6, 0.6, f.colors.accent)

		value := f.headingStyle(36, f.colors.primary)
		value.Align = pptgen.AlignCenter
		value.VAlign = pptgen.VAlignMiddle
		f.text(stat.Value, x, 2.5, statCardWidth, 1, value)
		f.shape(pptgen.ShapeRect, x+0.4, 3.5, statCardWidth-0.8, 0.03, f.colors.accent)

		if stat.Label != "" {
			label := f.bodyStyle(12)
			label.Align = pptgen.AlignCenter
			f.text(stat.Label, x, 3.7, statCardWidth, 0.9, label)
		}
	}
	return nil
}

// drawCards 带序号的卡片，内容为 heading|body
func drawCards(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.shape(pptgen.ShapeRect, 0, 0, 10, 1.1, f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, 8.5, -0.5, 2, 2, f.colors.accent)
	f.cornerLogo(false)
	f.title(s.Title, 0.5, 0.3, 8, 0.6, 26, f.onColor(f.colors.primary), pptgen.AlignLeft)

	cards := take(s.Renderable(), maxCards)
	startX := centeredStart(len(cards), cardWidth, cardGap)
	for i, el := range cards {
		x := startX + float64(i)*(cardWidth+cardGap)
		color := f.rotation(i)
		card := slides.DecodeCard(el.Content)

		f.shadow(pptgen.ShapeRoundRect, x+0.08, 1.48, cardWidth, 3.6)
		f.outlined(pptgen.ShapeRoundRect, x, 1.4, cardWidth, 3.6, white, flatOutline(f, color), 1)
		f.shape(pptgen.ShapeRect, x, 1.4, cardWidth, 0.15, color)

		circleX := x + (cardWidth-0.9)/2
		f.shape(pptgen.ShapeEllipse, circleX, 1.7, 0.9, 0.9, color)
		number := f.headingStyle(24, white)
		number.Align = pptgen.AlignCenter
		number.VAlign = pptgen.VAlignMiddle
		f.text(strconv.Itoa(i+1), circleX, 1.7, 0.9, 0.9, number)

		body := f.bodyStyle(11)
		body.Align = pptgen.AlignCenter
		if card.HasHeading() {
			f.shape(pptgen.ShapeRect, x+0.6, 2.75, cardWidth-1.2, 0.04, color)
			heading := f.headingStyle(14, f.colors.primary)
			heading.Align = pptgen.AlignCenter
			f.text(card.Heading, x, 2.9, cardWidth, 0.6, heading)
			f.text(card.Body, x+0.2, 3.5, cardWidth-0.4, 1.3, body)
			continue
		}
		body.Size = 12
		f.text(card.Body, x+0.2, 2.9, cardWidth-0.4, 1.9, body)
	}
	return nil
}

// flatOutline 没有阴影时给白色卡片加细边框，避免与白色背景融为一体
func flatOutline(f *frame, color string) string {
	if f.decorated() {
		return ""
	}
	return color
}

// drawTimeline 横向时间线，步骤编号按元素顺序从1开始，内容为 step|description
func drawTimeline(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.ornament(pptgen.ShapeRect, 0, 0, 0.12, pptgen.SlideHeight, f.colors.primary)
	f.ornament(pptgen.ShapeRect, 0, 5.2, 10, 0.425, f.colors.accent)
	f.cornerLogo(false)
	if f.title(s.Title, 0.5, 0.3, 9, 0.7, 28, f.colors.primary, pptgen.AlignCenter) {
		f.shape(pptgen.ShapeRect, 4, 1, 2, 0.06, f.colors.accent)
	}

	steps := take(s.Renderable(), maxSteps)
	if len(steps) == 0 {
		return nil
	}
	itemW := timelineWidth / float64(len(steps))
	f.shape(pptgen.ShapeRect, timelineStartX, 2.4, timelineWidth, 0.12, f.colors.primary)

	for i, el := range steps {
		x := timelineStartX + float64(i)*itemW + itemW/2
		color := f.rotation(i)
		step := slides.DecodeStep(el.Content)

		if i < len(steps)-1 {
			f.ornament(pptgen.ShapeRightArrow, x+0.3, 2.35, 0.5, 0.22, f.colors.accent)
		}
		f.shadow(pptgen.ShapeEllipse, x-0.32, 2.18, 0.6, 0.6)
		f.shape(pptgen.ShapeEllipse, x-0.35, 2.15, 0.6, 0.6, color)
		number := f.headingStyle(18, white)
		number.Align = pptgen.AlignCenter
		number.VAlign = pptgen.VAlignMiddle
		f.text(strconv.Itoa(i+1), x-0.35, 2.15, 0.6, 0.6, number)

		cardX := x - itemW/2 + 0.1
		f.outlined(pptgen.ShapeRoundRect, cardX, 2.95, itemW-0.2, 2, cardFill, color, 2)
		f.shape(pptgen.ShapeRect, cardX, 2.95, itemW-0.2, 0.08, color)

		heading := f.headingStyle(11, f.colors.primary)
		heading.Align = pptgen.AlignCenter
		f.text(step.Title, cardX, 3.1, itemW-0.2, 0.5, heading)
		if step.Description != "" {
			desc := f.bodyStyle(9)
			desc.Align = pptgen.AlignCenter
			f.text(step.Description, x-itemW/2+0.15, 3.55, itemW-0.3, 1.2, desc)
		}
	}
	return nil
}

// drawComparison 对比列，内容为 title|feature1|feature2...
//
// 恰好两列时列更宽
func drawComparison(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.shape(pptgen.ShapeRect, 0, 0, 10, 1.1, f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, -0.5, -0.5, 1.5, 1.5, f.colors.secondary)
	f.ornament(pptgen.ShapeEllipse, 9, 0.4, 1.2, 1.2, f.colors.accent)
	f.cornerLogo(false)
	f.title(s.Title, 0.5, 0.3, 8, 0.6, 26, f.onColor(f.colors.primary), pptgen.AlignLeft)

	items := take(s.Renderable(), maxColumns)
	colW := ColumnWidth(len(items))
	startX := centeredStart(len(items), colW, columnGap)
	for i, el := range items {
		x := startX + float64(i)*(colW+columnGap)
		color := f.rotation(i)
		col := slides.DecodeColumn(el.Content)

		f.shadow(pptgen.ShapeRoundRect, x+0.06, 1.36, colW, 3.9)
		f.outlined(pptgen.ShapeRoundRect, x, 1.3, colW, 3.9, white, flatOutline(f, color), 1)
		f.shape(pptgen.ShapeRoundRect, x, 1.3, colW, 0.8, color)
		f.shape(pptgen.ShapeRect, x, 1.8, colW, 0.3, color)
		f.ornament(pptgen.ShapeEllipse, x+(colW-0.5)/2, 1.4, 0.5, 0.5, white)

		heading := f.headingStyle(14, f.onColor(color))
		heading.Align = pptgen.AlignCenter
		heading.VAlign = pptgen.VAlignMiddle
		f.text(col.Title, x, 1.95, colW, 0.35, heading)
		f.shape(pptgen.ShapeRect, x+0.4, 2.4, colW-0.8, 0.04, color)

		feature := f.bodyStyle(11)
		feature.VAlign = pptgen.VAlignMiddle
		check := pptgen.TextStyle{Size: 10, Color: white, Align: pptgen.AlignCenter}
		for j, text := range take(col.Features, maxFeatures) {
			y := 2.6 + float64(j)*0.5
			f.shape(pptgen.ShapeEllipse, x+0.2, y+0.08, 0.22, 0.22, color)
			f.text("✓", x+0.2, y+0.02, 0.22, 0.3, check)
			f.text(text, x+0.5, y, colW-0.7, 0.45, feature)
		}
	}
	return nil
}

// ColumnWidth 对比列宽度，两列 4.2 英寸，其他情况 2.9 英寸
func ColumnWidth(columns int) float64 {
	if columns == 2 {
		return wideColumnWidth
	}
	return narrowColumn
}

// drawTable 第一行是表头，其余行隔行着色；列数以表头为准
func drawTable(f *frame, s *slides.Slide) error {
	f.page(f.colors.background)
	f.ornament(pptgen.ShapeRect, 0, 0, 0.12, pptgen.SlideHeight, f.colors.accent)
	f.ornament(pptgen.ShapeEllipse, 8.5, -0.5, 2, 2, f.colors.primary)
	f.cornerLogo(false)
	if f.title(s.Title, 0.5, 0.3, 8, 0.7, 28, f.colors.primary, pptgen.AlignLeft) {
		f.shape(pptgen.ShapeRect, 0.5, 1, 1.5, 0.06, f.colors.accent)
	}

	cells := TableCells(s.Renderable())
	if len(cells) > 0 {
		f.shadow(pptgen.ShapeRoundRect, 0.48, 1.28, 9.1, float64(len(cells))*tableRowHeight+0.1)

		rows := make([][]pptgen.Cell, len(cells))
		for r, row := range cells {
			rows[r] = make([]pptgen.Cell, len(row))
			for c, text := range row {
				rows[r][c] = f.tableCell(text, r, c)
			}
		}
		box := pptgen.Box{X: 0.5, Y: 1.25, W: tableWidth, H: float64(len(rows)) * tableRowHeight}
		style := pptgen.TableStyle{BorderColor: f.colors.primary, BorderWidth: 1, RowHeight: tableRowHeight}
		if err := f.c.AddTable(rows, box, style); err != nil {
			return err
		}
		f.ornament(pptgen.ShapeRect, 0.5, 1.78, tableWidth, 0.04, f.colors.accent)
	}

	f.ornament(pptgen.ShapeRect, 0, 5.35, 10, 0.275, f.colors.secondary)
	return nil
}

func (f *frame) tableCell(text string, row, col int) pptgen.Cell {
	if row == 0 {
		style := f.headingStyle(13, f.onColor(f.colors.primary))
		style.Align = pptgen.AlignCenter
		style.VAlign = pptgen.VAlignMiddle
		return pptgen.Cell{Text: text, Fill: f.colors.primary, Style: style}
	}
	fill := white
	if row%2 == 0 {
		fill = bandFill
	}
	style := f.bodyStyle(11)
	style.Bold = col == 0
	style.Align = pptgen.AlignCenter
	style.VAlign = pptgen.VAlignMiddle
	return pptgen.Cell{Text: text, Fill: fill, Style: style}
}

// TableCells 把元素解析为单元格，每行补齐或截断到表头的列数
func TableCells(elements []slides.SlideElement) [][]string {
	if len(elements) == 0 {
		return nil
	}
	header := slides.DecodeRow(elements[0].Content).Cells
	cols := len(header)
	out := make([][]string, 0, len(elements))
	out = append(out, header)
	for _, el := range elements[1:] {
		row := make([]string, cols)
		copy(row, slides.DecodeRow(el.Content).Cells)
		out = append(out, row)
	}
	return out
}
