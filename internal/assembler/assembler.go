// Package assembler 把演示文稿渲染为完整的 PPTX 文档
package assembler

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/yockii/ppt_tools/internal/render"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/internal/theme"
	"github.com/yockii/ppt_tools/pkg/config"
	"github.com/yockii/ppt_tools/pkg/logger"
	"github.com/yockii/ppt_tools/pkg/pptgen"
)

// Engine 文档写入引擎
type Engine string

const (
	// EngineOOXML 内置的 OOXML 写入器，支持全部图形
	EngineOOXML Engine = "ooxml"
	// EngineGoPPT 基于 GoPPT 的兼容写入器，图形退化为色块
	EngineGoPPT Engine = "goppt"
)

// DefaultAuthor 文档作者
const DefaultAuthor = "PPT Generator"

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9]`)

// builder 渲染目标，两种引擎都实现
type builder interface {
	render.Canvas
	SetMeta(meta pptgen.Meta)
	SetPageSize(width, height float64)
	SetPalette(p pptgen.Palette)
	SlideCount() int
	Bytes() ([]byte, error)
}

// Options 导出选项，零值使用配置中的默认值
type Options struct {
	Engine Engine
	Style  render.Style
	Author string
	// DumpPath 不为空时把每页的元素结构写成JSON，仅 ooxml 引擎支持
	DumpPath string
}

// DefaultOptions 从配置读取导出选项
func DefaultOptions() Options {
	return Options{
		Engine: ParseEngine(config.GetString("export.engine")),
		Style:  render.ParseStyle(config.GetString("render.style")),
		Author: config.GetString("export.author"),
	}
}

// ParseEngine 未知值按 ooxml 处理
func ParseEngine(s string) Engine {
	if Engine(strings.ToLower(strings.TrimSpace(s))) == EngineGoPPT {
		return EngineGoPPT
	}
	return EngineOOXML
}

// Document 导出结果
type Document struct {
	Bytes      []byte
	Filename   string
	Meta       pptgen.Meta
	SlideCount int
}

// Base64 文档内容的 base64 编码
func (d *Document) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Bytes)
}

// Filename 标题中每个非字母数字的字符替换为下划线，加 .pptx 后缀
func Filename(title string) string {
	return unsafeFilename.ReplaceAllString(title, "_") + ".pptx"
}

// Assemble 按顺序渲染所有幻灯片，每次调用使用独立的写入器
func Assemble(p *slides.Presentation, opts Options) (*Document, error) {
	if p == nil {
		return nil, fmt.Errorf("assemble: nil presentation")
	}
	if opts.Author == "" {
		opts.Author = DefaultAuthor
	}
	t := p.ResolveTheme()
	meta := pptgen.Meta{Title: p.Title, Author: opts.Author, Subject: p.Title}

	b := newBuilder(opts.Engine)
	b.SetMeta(meta)
	b.SetPageSize(pptgen.SlideWidth, pptgen.SlideHeight)
	b.SetPalette(Palette(t))

	r := render.New(opts.Style)
	for i, s := range p.Slides {
		if err := r.Render(i, s, t, b); err != nil {
			return nil, err
		}
	}

	if opts.DumpPath != "" {
		if d, ok := b.(interface{ DumpSlideStructure(string) error }); ok {
			if err := d.DumpSlideStructure(opts.DumpPath); err != nil {
				logger.Warn("写入版式结构失败", logger.F("path", opts.DumpPath), logger.F("error", err))
			}
		}
	}

	data, err := b.Bytes()
	if err != nil {
		logger.Error("写入文档失败", logger.F("title", p.Title), logger.F("engine", opts.Engine), logger.F("error", err))
		return nil, err
	}
	logger.Debug("文档导出完成",
		logger.F("title", p.Title),
		logger.F("theme", t.Name),
		logger.F("slides", b.SlideCount()),
		logger.F("size", len(data)),
	)
	return &Document{
		Bytes:      data,
		Filename:   Filename(p.Title),
		Meta:       meta,
		SlideCount: b.SlideCount(),
	}, nil
}

func newBuilder(engine Engine) builder {
	if engine == EngineGoPPT {
		return pptgen.NewGoPPTDocument()
	}
	return pptgen.NewDocument()
}

// Palette 主题对应的文档配色
func Palette(t theme.Theme) pptgen.Palette {
	def := pptgen.DefaultPalette
	return pptgen.Palette{
		Name:        orDefault(t.DisplayName, def.Name),
		Primary:     theme.HexBare(t.Colors.Primary, def.Primary),
		Secondary:   theme.HexBare(t.Colors.Secondary, def.Secondary),
		Accent:      theme.HexBare(t.Colors.Accent, def.Accent),
		Background:  theme.HexBare(t.Colors.Background, def.Background),
		Text:        theme.HexBare(t.Colors.Text, def.Text),
		Muted:       theme.HexBare(t.Colors.Muted, def.Muted),
		HeadingFont: orDefault(t.Fonts.Heading, def.HeadingFont),
		BodyFont:    orDefault(t.Fonts.Body, def.BodyFont),
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
