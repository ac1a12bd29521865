// Package pptgen 把绘图指令写成 PowerPoint 2007+ (.pptx) 文档
//
// 坐标和尺寸以英寸为单位，字号以磅为单位，颜色为不带 # 的六位十六进制
package pptgen

import (
	"bytes"
	"errors"
)

// EMUPerInch 每英寸对应的 EMU
const EMUPerInch = 914400

// 16:9 画布，单位英寸
const (
	SlideWidth  = 10.0
	SlideHeight = 5.625
)

var (
	ErrEmptyImage   = errors.New("empty image data")
	ErrInvalidTable = errors.New("table has no rows")
)

// ShapeKind 预设形状
type ShapeKind string

const (
	ShapeRect       ShapeKind = "rect"
	ShapeEllipse    ShapeKind = "ellipse"
	ShapeRoundRect  ShapeKind = "roundRect"
	ShapeRtTriangle ShapeKind = "rtTriangle"
	ShapeRightArrow ShapeKind = "rightArrow"
)

// Align 水平对齐
type Align string

const (
	AlignLeft   Align = "l"
	AlignCenter Align = "ctr"
	AlignRight  Align = "r"
)

// VAlign 垂直对齐
type VAlign string

const (
	VAlignTop    VAlign = "t"
	VAlignMiddle VAlign = "ctr"
	VAlignBottom VAlign = "b"
)

// Box 元素的位置和大小
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// ShapeStyle 形状样式，Fill 为空表示不填充，Line 为空表示无边框
type ShapeStyle struct {
	Fill         string  `json:"fill,omitempty"`
	Transparency int     `json:"transparency,omitempty"` // 0-100
	Line         string  `json:"line,omitempty"`
	LineWidth    float64 `json:"lineWidth,omitempty"` // 磅
	Rotate       float64 `json:"rotate,omitempty"`    // 度
}

// TextStyle 文本样式
type TextStyle struct {
	Font   string  `json:"font,omitempty"`
	Size   float64 `json:"size"`
	Color  string  `json:"color,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Align  Align   `json:"align,omitempty"`
	VAlign VAlign  `json:"valign,omitempty"`
}

// Cell 表格单元格
type Cell struct {
	Text  string    `json:"text"`
	Fill  string    `json:"fill,omitempty"`
	Style TextStyle `json:"style"`
}

// TableStyle 表格边框和行高
type TableStyle struct {
	BorderColor string  `json:"borderColor,omitempty"`
	BorderWidth float64 `json:"borderWidth,omitempty"` // 磅
	RowHeight   float64 `json:"rowHeight"`
}

// Meta 文档属性
type Meta struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Subject string `json:"subject"`
}

// Palette 写入 theme1.xml 的配色和字体，决定文档在 Office 中的主题色
type Palette struct {
	Name        string
	Primary     string
	Secondary   string
	Accent      string
	Background  string
	Text        string
	Muted       string
	HeadingFont string
	BodyFont    string
}

// DefaultPalette 未设置配色时使用
var DefaultPalette = Palette{
	Name:        "Office",
	Primary:     "1E3A5F",
	Secondary:   "4A6FA5",
	Accent:      "3B82F6",
	Background:  "FFFFFF",
	Text:        "1A1A1A",
	Muted:       "6B7280",
	HeadingFont: "Arial",
	BodyFont:    "Arial",
}

// Document 内存中的演示文稿，按 AddSlide 之后的调用顺序记录元素
//
// Document 不是并发安全的，每次导出使用独立实例
type Document struct {
	meta    Meta
	palette Palette
	width   float64
	height  float64
	slides  []*slide
	media   []media
}

// NewDocument 创建空文档，默认 16:9 画布和 Office 配色
func NewDocument() *Document {
	return &Document{
		palette: DefaultPalette,
		width:   SlideWidth,
		height:  SlideHeight,
	}
}

// SetMeta 设置文档属性
func (d *Document) SetMeta(meta Meta) {
	d.meta = meta
}

// SetPageSize 设置画布尺寸，单位英寸
func (d *Document) SetPageSize(width, height float64) {
	d.width, d.height = width, height
}

// SetPalette 设置主题配色
func (d *Document) SetPalette(p Palette) {
	d.palette = p
}

// SlideCount 已添加的幻灯片数
func (d *Document) SlideCount() int {
	return len(d.slides)
}

// AddSlide 新增一页并设为当前页，background 为空时使用白色
func (d *Document) AddSlide(background string) {
	d.slides = append(d.slides, &slide{background: background})
}

func (d *Document) active() *slide {
	if len(d.slides) == 0 {
		// 未显式创建页时自动补一页，与 GoPPT 的活动页行为一致
		d.AddSlide("")
	}
	return d.slides[len(d.slides)-1]
}

// AddShape 在当前页绘制预设形状
func (d *Document) AddShape(kind ShapeKind, box Box, style ShapeStyle) {
	d.active().add(&shapeElement{Kind: kind, Box: box, Style: style})
}

// AddText 在当前页绘制文本框，文本中的换行拆分为段落
func (d *Document) AddText(text string, box Box, style TextStyle) {
	d.active().add(&textElement{Text: text, Box: box, Style: style})
}

// AddImage 在当前页绘制图片，mime 为空时按内容识别
func (d *Document) AddImage(data []byte, mime string, box Box) error {
	if len(data) == 0 {
		return ErrEmptyImage
	}
	ext := imageExt(mime, data)
	d.media = append(d.media, media{data: data, ext: ext})
	index := len(d.media)
	s := d.active()
	s.add(&imageElement{Box: box, media: index, ext: ext, relID: s.nextRel()})
	return nil
}

// AddTable 在当前页绘制表格，列宽平均分配
func (d *Document) AddTable(rows [][]Cell, box Box, style TableStyle) error {
	if len(rows) == 0 {
		return ErrInvalidTable
	}
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return ErrInvalidTable
	}
	d.active().add(&tableElement{Rows: rows, Box: box, Style: style, cols: cols})
	return nil
}

// Bytes 返回 .pptx 内容
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.writePackage(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func emu(inches float64) int64 {
	if inches >= 0 {
		return int64(inches*EMUPerInch + 0.5)
	}
	return int64(inches*EMUPerInch - 0.5)
}
