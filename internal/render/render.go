// Package render 把一页幻灯片按布局转换为绘图指令
//
// 画布固定为 10 x 5.625 英寸，所有坐标以英寸为单位
package render

import (
	"strings"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/internal/theme"
	"github.com/yockii/ppt_tools/pkg/logger"
	"github.com/yockii/ppt_tools/pkg/pptgen"
	"github.com/yockii/ppt_tools/pkg/util"
)

// Canvas 接收绘图指令的文档
type Canvas interface {
	AddSlide(background string)
	AddShape(kind pptgen.ShapeKind, box pptgen.Box, style pptgen.ShapeStyle)
	AddText(text string, box pptgen.Box, style pptgen.TextStyle)
	AddImage(data []byte, mime string, box pptgen.Box) error
	AddTable(rows [][]pptgen.Cell, box pptgen.Box, style pptgen.TableStyle) error
}

// Style 渲染风格
type Style string

const (
	// StyleDecorated 带装饰图形和阴影
	StyleDecorated Style = "decorated"
	// StyleFlat 只绘制承载内容的图形
	StyleFlat Style = "flat"
)

// ParseStyle 未知值按 decorated 处理
func ParseStyle(s string) Style {
	if Style(strings.ToLower(strings.TrimSpace(s))) == StyleFlat {
		return StyleFlat
	}
	return StyleDecorated
}

const (
	white      = "FFFFFF"
	black      = "000000"
	cardFill   = "F8FAFC"
	bandFill   = "F0F9FF"
	quoteFont  = "Georgia"
	shadowFade = 80
)

type layoutFunc func(f *frame, s *slides.Slide) error

// layouts 每种布局对应一个绘制函数，测试保证覆盖全部布局
var layouts = map[slides.Layout]layoutFunc{
	slides.LayoutTitle:        drawTitle,
	slides.LayoutTitleContent: drawTitleContent,
	slides.LayoutTitleBullets: drawTitleBullets,
	slides.LayoutTwoColumns:   drawTwoColumns,
	slides.LayoutImageLeft:    drawImageLeft,
	slides.LayoutImageRight:   drawImageRight,
	slides.LayoutQuote:        drawQuote,
	slides.LayoutSection:      drawSection,
	slides.LayoutStats:        drawStats,
	slides.LayoutCards:        drawCards,
	slides.LayoutTimeline:     drawTimeline,
	slides.LayoutComparison:   drawComparison,
	slides.LayoutTable:        drawTable,
}

// Renderer 幻灯片渲染器，无内部状态，可并发使用
type Renderer struct {
	style Style
}

// New 创建渲染器
func New(style Style) *Renderer {
	if style == "" {
		style = StyleDecorated
	}
	return &Renderer{style: style}
}

// Style 当前渲染风格
func (r *Renderer) Style() Style {
	return r.style
}

// Render 在画布上新增一页并绘制幻灯片，未知布局按 title-content 绘制
//
// 元素数量超过布局容量时截断，不会因为元素数量报错
func (r *Renderer) Render(index int, s slides.Slide, t theme.Theme, c Canvas) error {
	draw, ok := layouts[s.Layout]
	if !ok {
		draw = drawTitleContent
	}
	f := newFrame(c, t, r.style)
	if err := draw(f, &s); err != nil {
		logger.Error("渲染幻灯片失败", logger.F("index", index), logger.F("layout", s.Layout), logger.F("error", err))
		return &constant.RenderError{SlideIndex: index, Err: err}
	}
	return nil
}

// palette 主题颜色的不带 # 形式
type palette struct {
	primary    string
	secondary  string
	accent     string
	background string
	text       string
	muted      string
}

// frame 单页绘制的上下文
type frame struct {
	c       Canvas
	t       theme.Theme
	style   Style
	colors  palette
	heading string
	body    string
}

func newFrame(c Canvas, t theme.Theme, style Style) *frame {
	def := theme.Default()
	return &frame{
		c:     c,
		t:     t,
		style: style,
		colors: palette{
			primary:    theme.HexBare(t.Colors.Primary, def.Colors.Primary),
			secondary:  theme.HexBare(t.Colors.Secondary, def.Colors.Secondary),
			accent:     theme.HexBare(t.Colors.Accent, def.Colors.Accent),
			background: theme.HexBare(t.Colors.Background, def.Colors.Background),
			text:       theme.HexBare(t.Colors.Text, def.Colors.Text),
			muted:      theme.HexBare(t.Colors.Muted, def.Colors.Muted),
		},
		heading: orDefault(t.Fonts.Heading, def.Fonts.Heading),
		body:    orDefault(t.Fonts.Body, def.Fonts.Body),
	}
}

func (f *frame) decorated() bool {
	return f.style != StyleFlat
}

// onColor 画在主题色块上的文字颜色，浅色块上用深色字
func (f *frame) onColor(fill string) string {
	return theme.HexBare(theme.ContrastText(fill), white)
}

func (f *frame) page(background string) {
	f.c.AddSlide(background)
}

// shape 承载内容的图形，两种风格都绘制
func (f *frame) shape(kind pptgen.ShapeKind, x, y, w, h float64, fill string) {
	f.c.AddShape(kind, pptgen.Box{X: x, Y: y, W: w, H: h}, pptgen.ShapeStyle{Fill: fill})
}

// outlined 带边框的卡片
func (f *frame) outlined(kind pptgen.ShapeKind, x, y, w, h float64, fill, line string, width float64) {
	f.c.AddShape(kind, pptgen.Box{X: x, Y: y, W: w, H: h}, pptgen.ShapeStyle{Fill: fill, Line: line, LineWidth: width})
}

// ornament 纯装饰图形，flat 风格不绘制
func (f *frame) ornament(kind pptgen.ShapeKind, x, y, w, h float64, fill string) {
	if f.decorated() {
		f.shape(kind, x, y, w, h, fill)
	}
}

func (f *frame) rotated(kind pptgen.ShapeKind, x, y, w, h float64, fill string, degrees float64) {
	if f.decorated() {
		f.c.AddShape(kind, pptgen.Box{X: x, Y: y, W: w, H: h}, pptgen.ShapeStyle{Fill: fill, Rotate: degrees})
	}
}

// shadow 卡片下方的半透明阴影，flat 风格不绘制
func (f *frame) shadow(kind pptgen.ShapeKind, x, y, w, h float64) {
	if f.decorated() {
		f.c.AddShape(kind, pptgen.Box{X: x, Y: y, W: w, H: h}, pptgen.ShapeStyle{Fill: black, Transparency: shadowFade})
	}
}

func (f *frame) text(s string, x, y, w, h float64, style pptgen.TextStyle) {
	f.c.AddText(s, pptgen.Box{X: x, Y: y, W: w, H: h}, style)
}

// headingStyle 标题字体
func (f *frame) headingStyle(size float64, color string) pptgen.TextStyle {
	return pptgen.TextStyle{Font: f.heading, Size: size, Color: color, Bold: true}
}

// bodyStyle 正文字体
func (f *frame) bodyStyle(size float64) pptgen.TextStyle {
	return pptgen.TextStyle{Font: f.body, Size: size, Color: f.colors.text}
}

// title 绘制页标题，空标题不绘制
func (f *frame) title(s string, x, y, w, h, size float64, color string, align pptgen.Align) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	style := f.headingStyle(size, color)
	style.Align = align
	f.text(f.t.Heading(s), x, y, w, h, style)
	return true
}

// logo 在指定位置绘制主题logo，没有logo或无法解码时跳过
func (f *frame) logo(x, y, w, h float64) {
	if !f.t.HasLogo() {
		return
	}
	data, mime, err := util.DecodeDataURI(f.t.Logo)
	if err != nil {
		logger.Debug("主题logo无法解码，跳过", logger.F("theme", f.t.Name), logger.F("error", err))
		return
	}
	if err := f.c.AddImage(data, mime, pptgen.Box{X: x, Y: y, W: w, H: h}); err != nil {
		logger.Debug("绘制logo失败", logger.F("theme", f.t.Name), logger.F("error", err))
	}
}

// cornerLogo 页面角落的logo
func (f *frame) cornerLogo(left bool) {
	if left {
		f.logo(0.3, 0.2, 1, 0.5)
		return
	}
	f.logo(8.5, 0.2, 1, 0.5)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// take 取前n个
func take[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// centeredStart 一组等宽卡片水平居中时第一张的x坐标
func centeredStart(count int, width, gap float64) float64 {
	if count == 0 {
		return 0
	}
	total := float64(count)*width + float64(count-1)*gap
	return (pptgen.SlideWidth - total) / 2
}
