package pptgen

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ElementSummary 元素概要，调试输出和测试断言使用
type ElementSummary struct {
	Kind  string `json:"kind"`
	Shape string `json:"shape,omitempty"`
	Text  string `json:"text,omitempty"`
	Box   Box    `json:"box"`
	Fill  string `json:"fill,omitempty"`
	Rows  int    `json:"rows,omitempty"`
	Cols  int    `json:"cols,omitempty"`
}

// SlideSummary 单页概要
type SlideSummary struct {
	Index      int              `json:"index"`
	Background string           `json:"background,omitempty"`
	Elements   []ElementSummary `json:"elements"`
}

func (e *shapeElement) summary() ElementSummary {
	return ElementSummary{Kind: "shape", Shape: string(e.Kind), Box: e.Box, Fill: e.Style.Fill}
}

func (e *textElement) summary() ElementSummary {
	return ElementSummary{Kind: "text", Text: e.Text, Box: e.Box, Fill: e.Style.Color}
}

func (e *imageElement) summary() ElementSummary {
	return ElementSummary{Kind: "image", Box: e.Box}
}

func (e *tableElement) summary() ElementSummary {
	return ElementSummary{Kind: "table", Box: e.Box, Rows: len(e.Rows), Cols: e.cols}
}

// Summary 按页列出全部元素
func (d *Document) Summary() []SlideSummary {
	out := make([]SlideSummary, 0, len(d.slides))
	for i, s := range d.slides {
		ss := SlideSummary{Index: i, Background: s.background, Elements: make([]ElementSummary, 0, len(s.elements))}
		for _, el := range s.elements {
			ss.Elements = append(ss.Elements, el.summary())
		}
		out = append(out, ss)
	}
	return out
}

// DumpSlideStructure 将元素结构写成JSON文件，用于排查版式问题
func (d *Document) DumpSlideStructure(filePath string) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(d.Summary(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
