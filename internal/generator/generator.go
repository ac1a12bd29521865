// Package generator 调用文本生成服务生成演示文稿大纲
package generator

import (
	"context"
	"errors"
	"io"
	"iter"
	"regexp"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tidwall/gjson"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/pkg/logger"
)

const (
	msgNoText     = "No text content in response"
	msgBadJSON    = "Failed to parse AI response as JSON"
	msgRequest    = "Generation request failed"
	msgIncomplete = "Stream was not fully consumed"
)

var fencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// Outline 生成结果
type Outline struct {
	Title  string         `json:"title"`
	Slides []slides.Slide `json:"slides"`
}

// Presentation 转换为演示文稿
func (o *Outline) Presentation(themeName string) *slides.Presentation {
	return &slides.Presentation{
		ID:     slides.NewSlideID(),
		Title:  o.Title,
		Theme:  themeName,
		Slides: o.Slides,
	}
}

// Generator 大纲生成器，不做重试
type Generator struct {
	model model.BaseChatModel
}

// New 创建生成器
func New(m model.BaseChatModel) *Generator {
	return &Generator{model: m}
}

func messages(req Request) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(SystemPrompt),
		schema.UserMessage(UserPrompt(req)),
	}
}

// prepare 填充默认值并校验
func prepare(req *Request) error {
	req.Normalize()
	return req.Validate()
}

// Generate 阻塞式生成
func (g *Generator) Generate(ctx context.Context, req Request) (*Outline, error) {
	if err := prepare(&req); err != nil {
		return nil, err
	}
	logger.Info("开始生成大纲", logger.F("topic", req.Topic), logger.F("slideCount", req.SlideCount), logger.F("style", req.Style))

	msg, err := g.model.Generate(ctx, messages(req))
	if err != nil {
		logger.Error("调用生成服务失败", logger.F("err", err))
		return nil, &constant.GenerationError{Message: msgRequest, Err: err}
	}
	if msg == nil {
		return nil, &constant.GenerationError{Message: msgNoText}
	}
	return ParseReply(msg.Content)
}

// Stream 流式生成，调用方遍历 Chunks 后调用 Result 获取解析结果
func (g *Generator) Stream(ctx context.Context, req Request) (*OutlineStream, error) {
	if err := prepare(&req); err != nil {
		return nil, err
	}
	logger.Info("开始流式生成大纲", logger.F("topic", req.Topic), logger.F("slideCount", req.SlideCount))

	// Close 时取消请求，上游空闲时也能立即释放连接
	ctx, cancel := context.WithCancel(ctx)
	sr, err := g.model.Stream(ctx, messages(req))
	if err != nil {
		cancel()
		logger.Error("调用生成服务失败", logger.F("err", err))
		return nil, &constant.GenerationError{Message: msgRequest, Err: err}
	}
	return &OutlineStream{sr: sr, cancel: cancel}, nil
}

// OutlineStream 一次流式生成，只能遍历一次
type OutlineStream struct {
	sr        *schema.StreamReader[*schema.Message]
	cancel    context.CancelFunc
	text      strings.Builder
	exhausted bool
	err       error
	closeOnce sync.Once
}

// Chunks 原始文本片段，提前退出遍历会关闭底层连接
func (s *OutlineStream) Chunks() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.exhausted || s.err != nil {
			return
		}
		defer s.Close()
		for {
			msg, err := s.sr.Recv()
			if errors.Is(err, io.EOF) {
				s.exhausted = true
				return
			}
			if err != nil {
				logger.Error("读取生成结果失败", logger.F("err", err))
				s.err = &constant.GenerationError{Message: msgRequest, Err: err}
				yield("", s.err)
				return
			}
			if msg == nil || msg.Content == "" {
				continue
			}
			s.text.WriteString(msg.Content)
			if !yield(msg.Content, nil) {
				return
			}
		}
	}
}

// Text 目前为止收到的全部文本
func (s *OutlineStream) Text() string {
	return s.text.String()
}

// Result 流结束后解析完整文本
func (s *OutlineStream) Result() (*Outline, error) {
	if s.err != nil {
		return nil, s.err
	}
	if !s.exhausted {
		return nil, &constant.GenerationError{Message: msgIncomplete}
	}
	return ParseReply(s.text.String())
}

// Close 取消请求并释放底层连接，可以重复调用
func (s *OutlineStream) Close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.sr.Close()
	})
}

// StripFence 存在代码块时取第一个代码块的内容
func StripFence(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	return strings.TrimSpace(text)
}

// ParseReply 解析模型回复，布局和元素类型按已知值修正，幻灯片ID重新生成
func ParseReply(text string) (*Outline, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &constant.GenerationError{Message: msgNoText}
	}
	body := StripFence(text)
	if !gjson.Valid(body) {
		logger.Warn("回复不是合法JSON", logger.F("length", len(text)))
		return nil, &constant.GenerationError{Message: msgBadJSON}
	}
	root := gjson.Parse(body)
	if !root.IsObject() {
		return nil, &constant.GenerationError{Message: msgBadJSON}
	}

	out := &Outline{Title: root.Get("title").String(), Slides: []slides.Slide{}}
	root.Get("slides").ForEach(func(_, value gjson.Result) bool {
		s := slides.Slide{
			ID:       slides.NewSlideID(),
			Layout:   slides.CoerceLayout(value.Get("layout").String()),
			Title:    value.Get("title").String(),
			Subtitle: value.Get("subtitle").String(),
			Notes:    value.Get("notes").String(),
			Elements: []slides.SlideElement{},
		}
		value.Get("elements").ForEach(func(_, el gjson.Result) bool {
			s.Elements = append(s.Elements, slides.SlideElement{
				Type:       slides.CoerceElementType(el.Get("type").String()),
				Content:    el.Get("content").String(),
				SubContent: el.Get("subContent").String(),
			})
			return true
		})
		out.Slides = append(out.Slides, s)
		return true
	})
	return out, nil
}
