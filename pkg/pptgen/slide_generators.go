package pptgen

import (
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

// element 幻灯片上的一个绘图元素
type element interface {
	writeXML(b *strings.Builder, id int)
	summary() ElementSummary
}

type slide struct {
	background string
	elements   []element
	rels       int
}

func (s *slide) add(el element) {
	s.elements = append(s.elements, el)
}

// nextRel 返回新的关系ID，rId1 固定指向版式
func (s *slide) nextRel() string {
	s.rels++
	return fmt.Sprintf("rId%d", s.rels+1)
}

type shapeElement struct {
	Kind  ShapeKind
	Box   Box
	Style ShapeStyle
}

type textElement struct {
	Text  string
	Box   Box
	Style TextStyle
}

type imageElement struct {
	Box   Box
	media int
	ext   string
	relID string
}

type tableElement struct {
	Rows  [][]Cell
	Box   Box
	Style TableStyle
	cols  int
}

// 生成幻灯片XML内容
func (s *slide) xml() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s"><p:cSld>`, nsA, nsR, nsP)
	if s.background != "" {
		b.WriteString(`<p:bg><p:bgPr>`)
		writeSolidFill(&b, s.background, 0)
		b.WriteString(`<a:effectLst/></p:bgPr></p:bg>`)
	}
	b.WriteString(`<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	for i, el := range s.elements {
		// id 1 保留给形状树本身
		el.writeXML(&b, i+2)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

// 生成幻灯片关系XML
func (s *slide) relsXML() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`)
	for _, el := range s.elements {
		img, ok := el.(*imageElement)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image%d.%s"/>`,
			img.relID, img.media, img.ext)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (e *shapeElement) writeXML(b *strings.Builder, id int) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr><p:spPr>`, id, e.Kind, id)
	writeXfrm(b, e.Box, e.Style.Rotate)
	fmt.Fprintf(b, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, e.Kind)
	if e.Style.Fill != "" {
		writeSolidFill(b, e.Style.Fill, e.Style.Transparency)
	} else {
		b.WriteString(`<a:noFill/>`)
	}
	writeLine(b, "a:ln", e.Style.Line, e.Style.LineWidth)
	b.WriteString(`</p:spPr></p:sp>`)
}

func (e *textElement) writeXML(b *strings.Builder, id int) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>`, id, id)
	writeXfrm(b, e.Box, 0)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom><a:noFill/></p:spPr>`)
	anchor := e.Style.VAlign
	if anchor == "" {
		anchor = VAlignTop
	}
	fmt.Fprintf(b, `<p:txBody><a:bodyPr wrap="square" lIns="91440" tIns="45720" rIns="91440" bIns="45720" anchor="%s"><a:normAutofit/></a:bodyPr><a:lstStyle/>`, anchor)
	for _, line := range strings.Split(e.Text, "\n") {
		writeParagraph(b, line, e.Style)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func (e *imageElement) writeXML(b *strings.Builder, id int) {
	fmt.Fprintf(b, `<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`, id, id)
	fmt.Fprintf(b, `<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill><p:spPr>`, e.relID)
	writeXfrm(b, e.Box, 0)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}

func (e *tableElement) writeXML(b *strings.Builder, id int) {
	colW := emu(e.Box.W / float64(e.cols))
	rowH := emu(e.Style.RowHeight)
	if rowH <= 0 {
		rowH = emu(e.Box.H / float64(len(e.Rows)))
	}

	fmt.Fprintf(b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="Table %d"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`, id, id)
	fmt.Fprintf(b, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		emu(e.Box.X), emu(e.Box.Y), colW*int64(e.cols), rowH*int64(len(e.Rows)))
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
	for i := 0; i < e.cols; i++ {
		fmt.Fprintf(b, `<a:gridCol w="%d"/>`, colW)
	}
	b.WriteString(`</a:tblGrid>`)

	for _, row := range e.Rows {
		fmt.Fprintf(b, `<a:tr h="%d">`, rowH)
		for c := 0; c < e.cols; c++ {
			// 行内单元格不足时补空单元格
			var cell Cell
			if c < len(row) {
				cell = row[c]
			}
			b.WriteString(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>`)
			writeParagraph(b, cell.Text, cell.Style)
			anchor := cell.Style.VAlign
			if anchor == "" {
				anchor = VAlignMiddle
			}
			fmt.Fprintf(b, `</a:txBody><a:tcPr anchor="%s">`, anchor)
			for _, side := range []string{"a:lnL", "a:lnR", "a:lnT", "a:lnB"} {
				writeLine(b, side, e.Style.BorderColor, e.Style.BorderWidth)
			}
			if cell.Fill != "" {
				writeSolidFill(b, cell.Fill, 0)
			}
			b.WriteString(`</a:tcPr></a:tc>`)
		}
		b.WriteString(`</a:tr>`)
	}
	b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

func writeXfrm(b *strings.Builder, box Box, rotate float64) {
	if rotate != 0 {
		fmt.Fprintf(b, `<a:xfrm rot="%d">`, int64(rotate*60000))
	} else {
		b.WriteString(`<a:xfrm>`)
	}
	fmt.Fprintf(b, `<a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		emu(box.X), emu(box.Y), max(emu(box.W), 0), max(emu(box.H), 0))
}

func writeSolidFill(b *strings.Builder, color string, transparency int) {
	if transparency > 0 {
		alpha := (100 - min(transparency, 100)) * 1000
		fmt.Fprintf(b, `<a:solidFill><a:srgbClr val="%s"><a:alpha val="%d"/></a:srgbClr></a:solidFill>`, normalizeColor(color), alpha)
		return
	}
	fmt.Fprintf(b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, normalizeColor(color))
}

func writeLine(b *strings.Builder, tag, color string, width float64) {
	if color == "" {
		fmt.Fprintf(b, `<%s><a:noFill/></%s>`, tag, tag)
		return
	}
	if width <= 0 {
		width = 1
	}
	fmt.Fprintf(b, `<%s w="%d">`, tag, int64(width*12700))
	writeSolidFill(b, color, 0)
	fmt.Fprintf(b, `</%s>`, tag)
}

func writeParagraph(b *strings.Builder, text string, style TextStyle) {
	b.WriteString(`<a:p>`)
	if style.Align != "" {
		fmt.Fprintf(b, `<a:pPr algn="%s"/>`, style.Align)
	}
	props := runProps(style)
	if text == "" {
		fmt.Fprintf(b, `<a:endParaRPr %s/></a:p>`, props)
		return
	}
	fmt.Fprintf(b, `<a:r><a:rPr %s>`, props)
	if style.Color != "" {
		writeSolidFill(b, style.Color, 0)
	}
	if style.Font != "" {
		font := escape(style.Font)
		fmt.Fprintf(b, `<a:latin typeface="%s"/><a:ea typeface="%s"/><a:cs typeface="%s"/>`, font, font, font)
	}
	fmt.Fprintf(b, `</a:rPr><a:t>%s</a:t></a:r></a:p>`, escape(text))
}

func runProps(style TextStyle) string {
	props := `lang="en-US"`
	if style.Size > 0 {
		props += fmt.Sprintf(` sz="%d"`, int(style.Size*100+0.5))
	}
	if style.Bold {
		props += ` b="1"`
	}
	if style.Italic {
		props += ` i="1"`
	}
	return props + ` dirty="0"`
}

// normalizeColor 去掉 # 并转为大写，非法值回退为黑色
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	if len(c) != 6 {
		return "000000"
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return "000000"
		}
	}
	return c
}

func escape(s string) string {
	var b strings.Builder
	// 写入 strings.Builder 不会出错
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
