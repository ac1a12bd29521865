package pptgen

import (
	"bytes"
	"fmt"
	"strings"

	ppt "github.com/VantageDataChat/GoPPT"
)

// GoPPTDocument 基于 GoPPT 的兼容写出器
//
// GoPPT 只提供矩形文本框，因此所有形状都绘制为填充矩形，
// 表格按单元格拆成文本框；透明度、边框、旋转和斜体不输出
type GoPPTDocument struct {
	p       *ppt.Presentation
	current *ppt.Slide
	palette Palette
	slides  int
}

// NewGoPPTDocument 创建 GoPPT 文档，画布为 16:9
func NewGoPPTDocument() *GoPPTDocument {
	g := &GoPPTDocument{p: ppt.New(), palette: DefaultPalette}
	g.SetPageSize(SlideWidth, SlideHeight)
	return g
}

// SetMeta 设置文档属性
func (g *GoPPTDocument) SetMeta(meta Meta) {
	props := g.p.GetDocumentProperties()
	props.Title = meta.Title
	props.Creator = meta.Author
	props.LastModifiedBy = meta.Author
	props.Subject = meta.Subject
}

// SetPageSize 设置画布尺寸，单位英寸，GoPPT 默认是 4:3
func (g *GoPPTDocument) SetPageSize(width, height float64) {
	g.p.GetLayout().SetCustomLayout(emu(width), emu(height))
}

// SetPalette GoPPT 不写主题部件，配色作为未指定颜色和字体的文字的默认值
func (g *GoPPTDocument) SetPalette(p Palette) {
	g.palette = p
}

// SlideCount 已添加的幻灯片数
func (g *GoPPTDocument) SlideCount() int {
	return g.slides
}

// AddSlide 新建一页，第一页复用 GoPPT 自带的活动页
func (g *GoPPTDocument) AddSlide(background string) {
	if g.slides == 0 {
		g.current = g.p.GetActiveSlide()
	} else {
		g.current = g.p.CreateSlide()
	}
	g.slides++
	if background != "" {
		g.addBlock(Box{W: SlideWidth, H: SlideHeight}, background, "", TextStyle{})
	}
}

func (g *GoPPTDocument) slide() *ppt.Slide {
	if g.current == nil {
		g.AddSlide("")
	}
	return g.current
}

// AddShape 无填充的形状只有边框，在 GoPPT 中不绘制
func (g *GoPPTDocument) AddShape(_ ShapeKind, box Box, style ShapeStyle) {
	if style.Fill == "" {
		return
	}
	g.addBlock(box, style.Fill, "", TextStyle{})
}

// AddText 绘制文本框
func (g *GoPPTDocument) AddText(text string, box Box, style TextStyle) {
	g.addBlock(box, "", text, style)
}

// AddImage 绘制图片
func (g *GoPPTDocument) AddImage(data []byte, mime string, box Box) error {
	if len(data) == 0 {
		return ErrEmptyImage
	}
	if mime == "" {
		mime = imageContentTypes[imageExt("", data)]
	}
	img := g.slide().CreateDrawingShape()
	img.SetImageData(data, mime)
	img.SetOffsetX(emu(box.X)).SetOffsetY(emu(box.Y))
	img.SetWidth(emu(box.W)).SetHeight(emu(box.H))
	return nil
}

// AddTable 每个单元格绘制为一个文本框
func (g *GoPPTDocument) AddTable(rows [][]Cell, box Box, style TableStyle) error {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return ErrInvalidTable
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	colW := box.W / float64(cols)
	rowH := style.RowHeight
	if rowH <= 0 {
		rowH = box.H / float64(len(rows))
	}
	for r, row := range rows {
		for c, cell := range row {
			cellBox := Box{X: box.X + float64(c)*colW, Y: box.Y + float64(r)*rowH, W: colW, H: rowH}
			g.addBlock(cellBox, cell.Fill, cell.Text, cell.Style)
		}
	}
	return nil
}

// addBlock 创建一个矩形文本框，fill 为空不填充，text 为空不写文本
func (g *GoPPTDocument) addBlock(box Box, fill, text string, style TextStyle) {
	shape := g.slide().CreateRichTextShape()
	shape.SetOffsetX(emu(box.X)).SetOffsetY(emu(box.Y))
	shape.SetWidth(max(emu(box.W), 0)).SetHeight(max(emu(box.H), 0))
	if fill != "" {
		shape.SetFill(ppt.NewFill().SetSolid(ppt.NewColor("FF" + normalizeColor(fill))))
	}
	if text == "" {
		return
	}

	color := ppt.NewColor("FF" + normalizeColor(orDefault(style.Color, g.palette.Text)))
	name := orDefault(style.Font, g.palette.BodyFont)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			shape.CreateParagraph()
		}
		font := shape.CreateTextRun(line).GetFont()
		font.SetBold(style.Bold).SetColor(color).SetName(name)
		// GoPPT 的字号按整数磅设置，这里取最接近的档位
		switch size := style.Size; {
		case size >= 60:
			font.SetSize(72)
		case size >= 42:
			font.SetSize(44)
		case size >= 38:
			font.SetSize(40)
		case size >= 33:
			font.SetSize(36)
		case size >= 29:
			font.SetSize(30)
		case size >= 27:
			font.SetSize(28)
		case size >= 25:
			font.SetSize(26)
		case size >= 23:
			font.SetSize(24)
		case size >= 21:
			font.SetSize(22)
		case size >= 19:
			font.SetSize(20)
		case size >= 17:
			font.SetSize(18)
		case size >= 15:
			font.SetSize(16)
		case size >= 13.5:
			font.SetSize(14)
		case size >= 12.5:
			font.SetSize(13)
		case size >= 11.5:
			font.SetSize(12)
		case size >= 10.5:
			font.SetSize(11)
		case size >= 9.5:
			font.SetSize(10)
		default:
			font.SetSize(9)
		}

		switch style.Align {
		case AlignCenter:
			shape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
		case AlignRight:
			shape.GetActiveParagraph().SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalRight))
		}
	}
}

// Bytes 返回 .pptx 内容
func (g *GoPPTDocument) Bytes() ([]byte, error) {
	w, err := ppt.NewWriter(g.p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("create goppt writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write goppt document: %w", err)
	}
	return buf.Bytes(), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
