package render

import (
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/pkg/pptgen"
	"github.com/yockii/ppt_tools/pkg/util"
)

// sideLayout 图文布局中图片和文字两侧的位置
type sideLayout struct {
	panelX    float64 // 主色面板
	circleX   float64
	circleY   float64
	imageX    float64
	textX     float64
	textW     float64
	logoLeft  bool
	bottomBar bool
}

var (
	imageLeft = sideLayout{
		panelX: 0, circleX: 3, circleY: 3.5,
		imageX: 0.3, textX: 4.8, textW: 4.4,
	}
	imageRight = sideLayout{
		panelX: 5.5, circleX: 4.5, circleY: -0.5,
		imageX: 5.9, textX: 0.5, textW: 4.3,
		logoLeft: true, bottomBar: true,
	}
)

func drawImageLeft(f *frame, s *slides.Slide) error {
	return drawSideImage(f, s, imageLeft)
}

func drawImageRight(f *frame, s *slides.Slide) error {
	return drawSideImage(f, s, imageRight)
}

// drawSideImage 一侧图片占位，另一侧标题和最多5个条目
//
// 幻灯片中第一个可解码的 image 元素会画进占位框，否则显示占位图标
func drawSideImage(f *frame, s *slides.Slide, l sideLayout) error {
	f.page(f.colors.background)
	f.shape(pptgen.ShapeRect, l.panelX, 0, 4.5, pptgen.SlideHeight, f.colors.primary)
	f.ornament(pptgen.ShapeEllipse, l.circleX, l.circleY, 2.5, 2.5, f.colors.accent)
	if l.bottomBar {
		f.ornament(pptgen.ShapeRect, 0, 5.2, 5.5, 0.425, f.colors.secondary)
	}

	f.shadow(pptgen.ShapeRoundRect, l.imageX+0.08, 0.58, 3.8, 4.5)
	f.shape(pptgen.ShapeRoundRect, l.imageX, 0.5, 3.8, 4.5, cardFill)
	if !f.picture(s, pptgen.Box{X: l.imageX + 0.1, Y: 0.6, W: 3.6, H: 4.3}) {
		f.text("📷", l.imageX, 2.2, 3.8, 1, pptgen.TextStyle{Size: 48, Align: pptgen.AlignCenter})
		f.text("Image", l.imageX, 3, 3.8, 0.5, pptgen.TextStyle{Font: f.body, Size: 14, Color: f.colors.muted, Align: pptgen.AlignCenter})
	}
	f.cornerLogo(l.logoLeft)

	titleX := l.textX
	titleW := 4.8
	if l.logoLeft {
		titleW = 4.6
	}
	if f.title(s.Title, titleX, 0.5, titleW, 0.8, 26, f.colors.primary, pptgen.AlignLeft) {
		f.shape(pptgen.ShapeRect, titleX, 1.3, 1.2, 0.06, f.colors.accent)
	}

	style := f.bodyStyle(14)
	style.VAlign = pptgen.VAlignMiddle
	items := take(s.ElementsOf(slides.ElementBullet, slides.ElementText), maxSideBullets)
	for i, item := range items {
		y := 1.6 + float64(i)*0.7
		f.shape(pptgen.ShapeEllipse, l.textX, y+0.12, 0.22, 0.22, f.colors.accent)
		f.text(item.Content, l.textX+0.35, y, l.textW, 0.6, style)
	}
	return nil
}

// picture 绘制第一个 image 元素，成功返回 true
func (f *frame) picture(s *slides.Slide, box pptgen.Box) bool {
	for _, el := range s.ElementsOf(slides.ElementImage) {
		data, mime, err := util.DecodeDataURI(el.Content)
		if err != nil || util.ImageExt(mime) == "" {
			continue
		}
		if err := f.c.AddImage(data, mime, box); err == nil {
			return true
		}
	}
	return false
}
