// Package importer 从已有的 .pptx 文档中提取幻灯片文本
package importer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/pkg/logger"
)

// DrawingML 文本运行所在的命名空间
const drawingMLNamespace = "http://schemas.openxmlformats.org/drawingml/2006/main"

const (
	// 只有一两段文本且首段短于此长度时视为标题或分节页
	shortTitleLength = 50
	// 单页XML的读取上限
	maxSlideXMLSize = 32 << 20
)

var slideMember = regexp.MustCompile(`ppt/slides/slide(\d+)\.xml$`)

// 导入失败原因
var (
	ErrNotPPTX   = errors.New("not a .pptx file")
	ErrNoSlides  = errors.New("no slides found in presentation")
	ErrBadFormat = errors.New("cannot open document")
)

// Result 导入结果
type Result struct {
	Title  string         `json:"title"`
	Slides []slides.Slide `json:"slides"`
}

type slidePart struct {
	number int
	file   *zip.File
	texts  []string
}

// ImportFile 从磁盘读取文档
func ImportFile(path string) (*Result, error) {
	if err := checkExtension(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &constant.ImportError{Reason: "open file", Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &constant.ImportError{Reason: "stat file", Err: err}
	}
	return Import(filepath.Base(path), f, info.Size())
}

// ImportBytes 从内存中的文档导入
func ImportBytes(name string, data []byte) (*Result, error) {
	return Import(name, bytes.NewReader(data), int64(len(data)))
}

// Import 解析文档中的全部幻灯片，按幻灯片编号排序
//
// 每页第一段文本作为标题，其余文本作为条目；第一页固定为标题页
func Import(name string, r io.ReaderAt, size int64) (*Result, error) {
	if err := checkExtension(name); err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &constant.ImportError{Reason: ErrBadFormat.Error(), Err: err}
	}

	parts := collectSlideParts(zr)
	if len(parts) == 0 {
		return nil, &constant.ImportError{Reason: ErrNoSlides.Error(), Err: ErrNoSlides}
	}

	var g errgroup.Group
	for _, part := range parts {
		g.Go(func() error {
			texts, err := readSlideTexts(part.file)
			if err != nil {
				return fmt.Errorf("%s: %w", part.file.Name, err)
			}
			part.texts = texts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("解析幻灯片失败", logger.F("file", name), logger.F("error", err))
		return nil, &constant.ImportError{Reason: ErrBadFormat.Error(), Err: err}
	}

	result := &Result{Slides: make([]slides.Slide, 0, len(parts))}
	for i, part := range parts {
		result.Slides = append(result.Slides, buildSlide(i, part.texts))
	}

	result.Title = strings.TrimSuffix(name, filepath.Ext(name))
	if first := firstText(parts[0].texts); first != "" {
		result.Title = first
	}

	logger.Debug("导入演示文稿", logger.F("file", name), logger.F("slides", len(result.Slides)))
	return result, nil
}

func checkExtension(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".pptx") {
		return &constant.ImportError{Reason: ErrNotPPTX.Error(), Err: ErrNotPPTX}
	}
	return nil
}

// collectSlideParts 匹配幻灯片成员并按编号数值排序，slide10 排在 slide2 之后
func collectSlideParts(zr *zip.Reader) []*slidePart {
	var parts []*slidePart
	for _, f := range zr.File {
		m := slideMember.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, &slidePart{number: n, file: f})
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return parts[i].number < parts[j].number
	})
	return parts
}

// readSlideTexts 按文档顺序收集 a:t 文本运行，去除空白后丢弃空文本
func readSlideTexts(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	dec := xml.NewDecoder(io.LimitReader(rc, maxSlideXMLSize))
	var texts []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return texts, nil
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "t" || start.Name.Space != drawingMLNamespace {
			continue
		}
		var run string
		if err := dec.DecodeElement(&run, &start); err != nil {
			return nil, err
		}
		if run = strings.TrimSpace(run); run != "" {
			texts = append(texts, run)
		}
	}
}

func firstText(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}

// classify 根据文本段数猜测布局
func classify(texts []string) slides.Layout {
	if len(texts) <= 2 && utf8.RuneCountInString(firstText(texts)) < shortTitleLength {
		if len(texts) == 1 {
			return slides.LayoutSection
		}
		return slides.LayoutTitle
	}
	return slides.LayoutTitleBullets
}

func buildSlide(index int, texts []string) slides.Slide {
	title := firstText(texts)
	var rest []string
	if len(texts) > 1 {
		rest = texts[1:]
	}

	// 没有文本的页按一段空标题参与分类
	classified := texts
	if len(classified) == 0 {
		classified = []string{""}
	}
	layout := classify(classified)
	if index == 0 {
		layout = slides.LayoutTitle
	}

	if title == "" {
		title = fmt.Sprintf("Slide %d", index+1)
	}

	elements := make([]slides.SlideElement, 0, len(rest))
	for _, text := range rest {
		elements = append(elements, slides.SlideElement{Type: slides.ElementBullet, Content: text})
	}

	return slides.Slide{
		ID:       slides.NewSlideID(),
		Layout:   layout,
		Title:    title,
		Elements: elements,
	}
}
