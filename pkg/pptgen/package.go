package pptgen

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/yockii/ppt_tools/pkg/logger"
	"github.com/yockii/ppt_tools/pkg/util"
)

const relsNS = "http://schemas.openxmlformats.org/package/2006/relationships"

type media struct {
	data []byte
	ext  string
}

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// imageExt 根据mime或内容确定图片扩展名，无法识别时按png处理
func imageExt(mime string, data []byte) string {
	if mime == "" {
		mime = util.SniffImageMime(data)
	}
	if ext := util.ImageExt(strings.ToLower(mime)); ext != "" {
		return ext
	}
	return "png"
}

type part struct {
	name    string
	content func() []byte
}

// writePackage 按固定顺序写出全部部件，相同输入得到相同字节
func (d *Document) writePackage(w io.Writer) error {
	zw := zip.NewWriter(w)

	parts := []part{
		{"[Content_Types].xml", d.contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", d.coreXML},
		{"docProps/app.xml", d.appXML},
		{"ppt/presentation.xml", d.presentationXML},
		{"ppt/_rels/presentation.xml.rels", d.presentationRelsXML},
		{"ppt/presProps.xml", staticPart(presPropsXML)},
		{"ppt/viewProps.xml", staticPart(viewPropsXML)},
		{"ppt/tableStyles.xml", staticPart(tableStylesXML)},
		{"ppt/slideMasters/slideMaster1.xml", staticPart(slideMasterXML)},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", staticPart(slideMasterRelsXML)},
		{"ppt/slideLayouts/slideLayout1.xml", staticPart(slideLayoutXML)},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", staticPart(slideLayoutRelsXML)},
		{"ppt/theme/theme1.xml", d.themeXML},
	}
	for i, s := range d.slides {
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), func() []byte { return []byte(s.xml()) }},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), func() []byte { return []byte(s.relsXML()) }},
		)
	}
	for i, m := range d.media {
		parts = append(parts, part{fmt.Sprintf("ppt/media/image%d.%s", i+1, m.ext), staticBytes(m.data)})
	}

	for _, p := range parts {
		fw, err := zw.Create(p.name)
		if err != nil {
			logger.Error("创建文件失败", logger.F("filename", p.name), logger.F("error", err))
			return err
		}
		if _, err := fw.Write(p.content()); err != nil {
			logger.Error("写入文件内容失败", logger.F("filename", p.name), logger.F("error", err))
			return err
		}
	}
	return zw.Close()
}

func staticPart(s string) func() []byte {
	return func() []byte { return []byte(xml.Header + s) }
}

func staticBytes(b []byte) func() []byte {
	return func() []byte { return b }
}

// 内容类型，幻灯片和用到的图片格式逐个登记
func (d *Document) contentTypesXML() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	seen := map[string]bool{}
	for _, m := range d.media {
		if seen[m.ext] {
			continue
		}
		seen[m.ext] = true
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, m.ext, imageContentTypes[m.ext])
	}

	overrides := [][2]string{
		{"/ppt/presentation.xml", "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"},
		{"/ppt/presProps.xml", "application/vnd.openxmlformats-officedocument.presentationml.presProps+xml"},
		{"/ppt/viewProps.xml", "application/vnd.openxmlformats-officedocument.presentationml.viewProps+xml"},
		{"/ppt/tableStyles.xml", "application/vnd.openxmlformats-officedocument.presentationml.tableStyles+xml"},
		{"/ppt/slideMasters/slideMaster1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"},
		{"/ppt/slideLayouts/slideLayout1.xml", "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"},
		{"/ppt/theme/theme1.xml", "application/vnd.openxmlformats-officedocument.theme+xml"},
		{"/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml"},
		{"/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml"},
	}
	for _, o := range overrides {
		fmt.Fprintf(&b, `<Override PartName="%s" ContentType="%s"/>`, o[0], o[1])
	}
	for i := range d.slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
	}
	b.WriteString(`</Types>`)
	return []byte(b.String())
}

func rootRelsXML() []byte {
	return []byte(xml.Header + `<Relationships xmlns="` + relsNS + `">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
		`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
		`</Relationships>`)
}

func (d *Document) coreXML() []byte {
	return []byte(xml.Header + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:dcmitype="http://purl.org/dc/dcmitype/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + escape(d.meta.Title) + `</dc:title>` +
		`<dc:subject>` + escape(d.meta.Subject) + `</dc:subject>` +
		`<dc:creator>` + escape(d.meta.Author) + `</dc:creator>` +
		`<cp:lastModifiedBy>` + escape(d.meta.Author) + `</cp:lastModifiedBy>` +
		`</cp:coreProperties>`)
}

func (d *Document) appXML() []byte {
	return []byte(xml.Header + `<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties" xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">` +
		`<Application>ppt_tools</Application><PresentationFormat>On-screen Show (16:9)</PresentationFormat>` +
		fmt.Sprintf(`<Slides>%d</Slides>`, len(d.slides)) +
		`</Properties>`)
}

// 演示文稿主文件：rId1 母版，rId2 起为幻灯片，最后是主题等部件
func (d *Document) presentationXML() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">`, nsA, nsR, nsP)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if len(d.slides) > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := range d.slides {
			// 幻灯片 ID 从 256 开始递增
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, 2+i)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/>`, emu(d.width), emu(d.height))
	b.WriteString(`</p:presentation>`)
	return []byte(b.String())
}

func (d *Document) presentationRelsXML() []byte {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<Relationships xmlns="` + relsNS + `">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="slideMasters/slideMaster1.xml"/>`)
	for i := range d.slides {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, 2+i, i+1)
	}
	next := len(d.slides) + 2
	for i, target := range []string{"presProps", "viewProps", "theme", "tableStyles"} {
		file := target + ".xml"
		if target == "theme" {
			file = "theme/theme1.xml"
		}
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/%s" Target="%s"/>`, next+i, target, file)
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

// 主题部件使用文档配色，Office 中的主题色与幻灯片一致
func (d *Document) themeXML() []byte {
	p := d.palette
	color := func(tag, val string) string {
		return fmt.Sprintf(`<a:%s><a:srgbClr val="%s"/></a:%s>`, tag, normalizeColor(val), tag)
	}
	fill := `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	line := func(w int) string {
		return fmt.Sprintf(`<a:ln w="%d"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>`, w)
	}

	var b strings.Builder
	b.WriteString(xml.Header)
	fmt.Fprintf(&b, `<a:theme xmlns:a="%s" name="%s"><a:themeElements>`, nsA, escape(p.Name))
	fmt.Fprintf(&b, `<a:clrScheme name="%s">`, escape(p.Name))
	b.WriteString(color("dk1", p.Text))
	b.WriteString(color("lt1", p.Background))
	b.WriteString(color("dk2", p.Primary))
	b.WriteString(color("lt2", "F8FAFC"))
	b.WriteString(color("accent1", p.Primary))
	b.WriteString(color("accent2", p.Secondary))
	b.WriteString(color("accent3", p.Accent))
	b.WriteString(color("accent4", p.Muted))
	b.WriteString(color("accent5", p.Secondary))
	b.WriteString(color("accent6", p.Accent))
	b.WriteString(color("hlink", p.Accent))
	b.WriteString(color("folHlink", p.Secondary))
	b.WriteString(`</a:clrScheme>`)

	fmt.Fprintf(&b, `<a:fontScheme name="%s">`, escape(p.Name))
	fmt.Fprintf(&b, `<a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`, escape(p.HeadingFont))
	fmt.Fprintf(&b, `<a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`, escape(p.BodyFont))
	b.WriteString(`</a:fontScheme>`)

	fmt.Fprintf(&b, `<a:fmtScheme name="%s">`, escape(p.Name))
	b.WriteString(`<a:fillStyleLst>` + strings.Repeat(fill, 3) + `</a:fillStyleLst>`)
	b.WriteString(`<a:lnStyleLst>` + line(6350) + line(12700) + line(19050) + `</a:lnStyleLst>`)
	b.WriteString(`<a:effectStyleLst>` + strings.Repeat(`<a:effectStyle><a:effectLst/></a:effectStyle>`, 3) + `</a:effectStyleLst>`)
	b.WriteString(`<a:bgFillStyleLst>` + strings.Repeat(fill, 3) + `</a:bgFillStyleLst>`)
	b.WriteString(`</a:fmtScheme></a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`)
	return []byte(b.String())
}

const presPropsXML = `<p:presentationPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"/>`

const viewPropsXML = `<p:viewPr xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"><p:gridSpacing cx="76200" cy="76200"/></p:viewPr>`

const tableStylesXML = `<a:tblStyleLst xmlns:a="` + nsA + `" def="{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"/>`

const emptySpTree = `<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr></p:spTree>`

const slideMasterXML = `<p:sldMaster xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `">` +
	`<p:cSld><p:bg><p:bgRef idx="1001"><a:schemeClr val="bg1"/></p:bgRef></p:bg>` + emptySpTree + `</p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideMasterRelsXML = `<Relationships xmlns="` + relsNS + `">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme" Target="../theme/theme1.xml"/>` +
	`</Relationships>`

const slideLayoutXML = `<p:sldLayout xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `" type="blank" preserve="1">` +
	`<p:cSld name="Blank">` + emptySpTree + `</p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`

const slideLayoutRelsXML = `<Relationships xmlns="` + relsNS + `">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster" Target="../slideMasters/slideMaster1.xml"/>` +
	`</Relationships>`
