package pptgen

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 透明 PNG
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(b)
	}
	return out
}

func sampleDocument(t *testing.T) *Document {
	d := NewDocument()
	d.SetPalette(Palette{Name: "Tech", Primary: "#0f172a", Secondary: "1e293b", Accent: "06b6d4", Background: "fff", Text: "0f172a", Muted: "64748b", HeadingFont: "Inter", BodyFont: "Inter"})
	d.SetMeta(Meta{Title: "R&D <Review>", Author: "PPT Generator", Subject: "R&D <Review>"})

	d.AddSlide("0F172A")
	d.AddShape(ShapeEllipse, Box{X: -1, Y: -1, W: 3, H: 3}, ShapeStyle{Fill: "1e293b", Transparency: 30})
	d.AddShape(ShapeRtTriangle, Box{W: 2, H: 2}, ShapeStyle{Fill: "06b6d4", Rotate: 180})
	d.AddText("Line one\nLine two", Box{X: 0.5, Y: 0.4, W: 9, H: 0.7}, TextStyle{Font: "Inter", Size: 28, Bold: true, Color: "FFFFFF", Align: AlignCenter})

	d.AddSlide("")
	require.NoError(t, d.AddImage(tinyPNG, "", Box{X: 8.5, Y: 0.2, W: 1, H: 0.5}))
	require.NoError(t, d.AddTable([][]Cell{
		{{Text: "Name", Fill: "0f172a"}, {Text: "Score"}},
		{{Text: "A"}},
	}, Box{X: 0.5, Y: 1.25, W: 9}, TableStyle{BorderColor: "0f172a", BorderWidth: 1, RowHeight: 0.55}))
	return d
}

func TestDocumentPackage(t *testing.T) {
	d := sampleDocument(t)
	assert.Equal(t, 2, d.SlideCount())

	data, err := d.Bytes()
	require.NoError(t, err)
	parts := readParts(t, data)

	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "docProps/core.xml", "docProps/app.xml",
		"ppt/presentation.xml", "ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml", "ppt/slideLayouts/slideLayout1.xml", "ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "ppt/slides/_rels/slide2.xml.rels",
		"ppt/media/image1.png",
	} {
		assert.Contains(t, parts, name)
	}

	assert.Contains(t, parts["ppt/presentation.xml"], `<p:sldSz cx="9144000" cy="5143500"/>`)
	assert.Contains(t, parts["ppt/presentation.xml"], `<p:sldId id="257" r:id="rId3"/>`)
	assert.Contains(t, parts["[Content_Types].xml"], `<Default Extension="png" ContentType="image/png"/>`)
	assert.Contains(t, parts["[Content_Types].xml"], `/ppt/slides/slide2.xml`)
	assert.Contains(t, parts["docProps/core.xml"], `<dc:title>R&amp;D &lt;Review&gt;</dc:title>`)
	assert.Contains(t, parts["docProps/core.xml"], `<dc:creator>PPT Generator</dc:creator>`)
	assert.Contains(t, parts["ppt/theme/theme1.xml"], `<a:dk2><a:srgbClr val="0F172A"/></a:dk2>`)
	assert.Contains(t, parts["ppt/theme/theme1.xml"], `<a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>`)

	s1 := parts["ppt/slides/slide1.xml"]
	assert.Contains(t, s1, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="0F172A"/>`)
	assert.Contains(t, s1, `<a:off x="-914400" y="-914400"/>`)
	assert.Contains(t, s1, `<a:alpha val="70000"/>`)
	assert.Contains(t, s1, `<a:xfrm rot="10800000">`)
	assert.Contains(t, s1, `prst="rtTriangle"`)
	assert.Contains(t, s1, `sz="2800" b="1"`)
	assert.Contains(t, s1, `<a:pPr algn="ctr"/>`)
	assert.Contains(t, s1, `<a:t>Line one</a:t>`)
	assert.Contains(t, s1, `<a:t>Line two</a:t>`)

	s2 := parts["ppt/slides/slide2.xml"]
	assert.Contains(t, s2, `r:embed="rId2"`)
	assert.Contains(t, s2, `<a:gridCol w="4114800"/>`)
	assert.Contains(t, s2, `<a:tr h="502920">`)
	assert.Equal(t, 4, bytes.Count([]byte(s2), []byte("<a:tc>")))
	assert.Contains(t, parts["ppt/slides/_rels/slide2.xml.rels"], `Target="../media/image1.png"`)
}

func TestDocumentDeterministic(t *testing.T) {
	a, err := sampleDocument(t).Bytes()
	require.NoError(t, err)
	b, err := sampleDocument(t).Bytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDocumentImplicitSlide(t *testing.T) {
	d := NewDocument()
	d.AddText("hello", Box{W: 1, H: 1}, TextStyle{Size: 12})
	assert.Equal(t, 1, d.SlideCount())
}

func TestDocumentErrors(t *testing.T) {
	d := NewDocument()
	d.AddSlide("")
	assert.ErrorIs(t, d.AddImage(nil, "image/png", Box{}), ErrEmptyImage)
	assert.ErrorIs(t, d.AddTable(nil, Box{}, TableStyle{}), ErrInvalidTable)
	assert.ErrorIs(t, d.AddTable([][]Cell{{}}, Box{}, TableStyle{}), ErrInvalidTable)
}

func TestSummary(t *testing.T) {
	sum := sampleDocument(t).Summary()
	require.Len(t, sum, 2)
	assert.Equal(t, "0F172A", sum[0].Background)
	require.Len(t, sum[0].Elements, 3)
	assert.Equal(t, "ellipse", sum[0].Elements[0].Shape)
	assert.Equal(t, "Line one\nLine two", sum[0].Elements[2].Text)
	assert.Equal(t, "table", sum[1].Elements[1].Kind)
	assert.Equal(t, 2, sum[1].Elements[1].Cols)
}

func TestNormalizeColor(t *testing.T) {
	assert.Equal(t, "1E3A5F", normalizeColor("#1e3a5f"))
	assert.Equal(t, "FFFFFF", normalizeColor("fff"))
	assert.Equal(t, "000000", normalizeColor("not-a-color"))
}

func TestImageExt(t *testing.T) {
	assert.Equal(t, "png", imageExt("", tinyPNG))
	assert.Equal(t, "jpeg", imageExt("image/jpeg", nil))
	assert.Equal(t, "webp", imageExt("image/webp", nil))
}

func TestPageSize(t *testing.T) {
	d := NewDocument()
	d.SetPageSize(10, 7.5)
	d.AddSlide("")
	data, err := d.Bytes()
	require.NoError(t, err)
	assert.Contains(t, readParts(t, data)["ppt/presentation.xml"], `<p:sldSz cx="9144000" cy="6858000"/>`)

	g := NewGoPPTDocument()
	g.AddSlide("")
	data, err = g.Bytes()
	require.NoError(t, err)
	assert.Contains(t, readParts(t, data)["ppt/presentation.xml"], `<p:sldSz cx="9144000" cy="5143500"`)
}

func TestGoPPTDocument(t *testing.T) {
	g := NewGoPPTDocument()
	g.SetMeta(Meta{Title: "Deck", Author: "Team", Subject: "Roadmap"})
	g.SetPalette(Palette{Text: "334155", BodyFont: "Georgia"})
	g.AddSlide("0F172A")
	g.AddText("plain", Box{X: 1, Y: 1, W: 4, H: 1}, TextStyle{Size: 16})
	g.AddText("styled", Box{X: 1, Y: 2, W: 4, H: 1}, TextStyle{Font: "Inter", Size: 16, Color: "FF0000"})
	require.NoError(t, g.AddTable([][]Cell{{{Text: "A"}, {Text: "B"}}}, Box{X: 1, Y: 3, W: 4, H: 1}, TableStyle{}))
	assert.ErrorIs(t, g.AddImage(nil, "", Box{}), ErrEmptyImage)
	assert.ErrorIs(t, g.AddTable(nil, Box{}, TableStyle{}), ErrInvalidTable)
	g.AddSlide("")
	assert.Equal(t, 2, g.SlideCount())

	data, err := g.Bytes()
	require.NoError(t, err)
	parts := readParts(t, data)
	assert.Contains(t, parts["docProps/core.xml"], "<dc:subject>Roadmap</dc:subject>")
	assert.Contains(t, parts["docProps/core.xml"], "<dc:creator>Team</dc:creator>")

	// 未指定字体和颜色的文字使用配色中的默认值
	slide := parts["ppt/slides/slide1.xml"]
	assert.Contains(t, slide, `typeface="Georgia"`)
	assert.Contains(t, slide, "334155")
	assert.Contains(t, slide, `typeface="Inter"`)
	assert.Contains(t, slide, "FF0000")
}
