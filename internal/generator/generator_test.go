package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/llm"
	"github.com/yockii/ppt_tools/internal/slides"
)

// fakeModel 返回固定回复的模型
type fakeModel struct {
	reply  string
	chunks []string
	err    error
	input  []*schema.Message
}

func (m *fakeModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	return &schema.Message{Role: schema.Assistant, Content: m.reply}, nil
}

func (m *fakeModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.input = input
	if m.err != nil {
		return nil, m.err
	}
	msgs := make([]*schema.Message, 0, len(m.chunks))
	for _, c := range m.chunks {
		msgs = append(msgs, &schema.Message{Role: schema.Assistant, Content: c})
	}
	return schema.StreamReaderFromArray(msgs), nil
}

const fiveSlides = "Here you go:\n```json\n" + `{
  "title": "Remote Work",
  "slides": [
    {"layout": "title", "title": "Remote Work", "subtitle": "A practical guide", "elements": []},
    {"layout": "stats", "title": "By the numbers", "elements": [
      {"type": "text", "content": "85%|Prefer hybrid"},
      {"type": "text", "content": 42}
    ]},
    {"id": "model-id", "layout": "mystery", "title": "Tips", "elements": [
      {"type": "bullet", "content": "Set hours"},
      {"type": "sparkle", "content": "Take breaks"}
    ]},
    {"layout": "quote", "elements": [{"type": "quote", "content": "Work is what you do", "subContent": "Jane"}]},
    {"layout": "timeline", "title": "Rollout", "elements": [{"type": "text", "content": "Pilot|Two teams"}]}
  ]
}` + "\n```\nEnjoy!"

func TestGenerateFiveSlides(t *testing.T) {
	m := &fakeModel{reply: fiveSlides}
	out, err := New(m).Generate(context.Background(), Request{Topic: "Remote work", SlideCount: 5})
	require.NoError(t, err)

	assert.Equal(t, "Remote Work", out.Title)
	require.Len(t, out.Slides, 5)
	var layouts []slides.Layout
	ids := map[string]bool{}
	for _, s := range out.Slides {
		layouts = append(layouts, s.Layout)
		assert.NotEmpty(t, s.ID)
		assert.NotEqual(t, "model-id", s.ID)
		ids[s.ID] = true
	}
	assert.Len(t, ids, 5)
	assert.Equal(t, []slides.Layout{
		slides.LayoutTitle, slides.LayoutStats, slides.LayoutTitleBullets, slides.LayoutQuote, slides.LayoutTimeline,
	}, layouts)

	assert.Equal(t, "42", out.Slides[1].Elements[1].Content)
	assert.Equal(t, slides.ElementText, out.Slides[2].Elements[1].Type)
	assert.Equal(t, "Jane", out.Slides[3].Elements[0].SubContent)
	assert.Empty(t, out.Slides[0].Elements)
	assert.NotNil(t, out.Slides[0].Elements)

	require.Len(t, m.input, 2)
	assert.Equal(t, schema.System, m.input[0].Role)
	assert.Equal(t, SystemPrompt, m.input[0].Content)
	assert.Contains(t, m.input[1].Content, `Create a 5-slide presentation about: "Remote work"`)
	assert.Contains(t, m.input[1].Content, "Write all content in English.")
}

func TestGenerateValidation(t *testing.T) {
	g := New(&fakeModel{reply: "{}"})
	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{"empty topic", Request{}, "topic"},
		{"long topic", Request{Topic: strings.Repeat("x", 501)}, "topic"},
		{"too few slides", Request{Topic: "t", SlideCount: 2}, "slideCount"},
		{"too many slides", Request{Topic: "t", SlideCount: 21}, "slideCount"},
		{"bad style", Request{Topic: "t", Style: "loud"}, "style"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Generate(context.Background(), tc.req)
			var verr *constant.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "Invalid request", verr.Message)
			require.NotEmpty(t, verr.Details)
			assert.Equal(t, tc.field, verr.Details[0].Field)
		})
	}
}

func TestRequestDefaults(t *testing.T) {
	req := Request{Topic: strings.Repeat("字", 500)}
	req.Normalize()
	assert.Equal(t, DefaultSlideCount, req.SlideCount)
	assert.Equal(t, StyleFormal, req.Style)
	assert.Equal(t, DefaultLanguage, req.Language)
	assert.NoError(t, req.Validate())
}

func TestGenerateErrors(t *testing.T) {
	_, err := New(&fakeModel{reply: "I cannot help with that."}).Generate(context.Background(), Request{Topic: "t"})
	var gerr *constant.GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, msgBadJSON, gerr.Message)
	assert.False(t, gerr.NotConfigured())

	_, err = New(&fakeModel{reply: "  "}).Generate(context.Background(), Request{Topic: "t"})
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, msgNoText, gerr.Message)

	_, err = New(&fakeModel{err: constant.ErrModelNotConfigured}).Generate(context.Background(), Request{Topic: "t"})
	require.ErrorAs(t, err, &gerr)
	assert.True(t, gerr.NotConfigured())
	assert.Equal(t, 500, constant.GetErrorCode(err))

	_, err = New(&fakeModel{err: errors.New("timeout")}).Generate(context.Background(), Request{Topic: "t"})
	require.ErrorAs(t, err, &gerr)
	assert.False(t, gerr.NotConfigured())
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripFence("  {\"a\":1}\n"))
	assert.Equal(t, "first", StripFence("```\nfirst\n```\n```\nsecond\n```"))
}

func TestParseReplyRejectsNonObject(t *testing.T) {
	_, err := ParseReply("[1,2,3]")
	var gerr *constant.GenerationError
	require.ErrorAs(t, err, &gerr)

	out, err := ParseReply(`{"title":"Only title"}`)
	require.NoError(t, err)
	assert.Empty(t, out.Slides)
}

func TestStream(t *testing.T) {
	m := &fakeModel{chunks: []string{"```json\n{\"title\":", "\"Deck\",\"slides\":[", "{\"layout\":\"section\",\"title\":\"Intro\"}]}", "\n```"}}
	stream, err := New(m).Stream(context.Background(), Request{Topic: "t"})
	require.NoError(t, err)

	_, err = stream.Result()
	assert.Error(t, err)

	var got []string
	for chunk, err := range stream.Chunks() {
		require.NoError(t, err)
		got = append(got, chunk)
	}
	assert.Equal(t, m.chunks, got)

	out, err := stream.Result()
	require.NoError(t, err)
	assert.Equal(t, "Deck", out.Title)
	require.Len(t, out.Slides, 1)
	assert.Equal(t, slides.LayoutSection, out.Slides[0].Layout)

	// 只能遍历一次
	for range stream.Chunks() {
		t.Fatal("stream iterated twice")
	}
}

func TestStreamStopEarly(t *testing.T) {
	m := &fakeModel{chunks: []string{"a", "b", "c"}}
	stream, err := New(m).Stream(context.Background(), Request{Topic: "t"})
	require.NoError(t, err)

	for chunk := range stream.Chunks() {
		assert.Equal(t, "a", chunk)
		break
	}
	assert.Equal(t, "a", stream.Text())
	_, err = stream.Result()
	var gerr *constant.GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, msgIncomplete, gerr.Message)
	stream.Close()
}

func TestStreamCloseCancelsIdleUpstream(t *testing.T) {
	released := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"{\"}}\n\n")
		w.(http.Flusher).Flush()
		// 发完一块后不再发送，直到客户端断开
		<-r.Context().Done()
		close(released)
	}))
	defer server.Close()

	m := llm.NewAnthropicChatModel(llm.Config{APIKey: "test-key", BaseURL: server.URL})
	stream, err := New(m).Stream(context.Background(), Request{Topic: "t"})
	require.NoError(t, err)
	for chunk := range stream.Chunks() {
		assert.Equal(t, "{", chunk)
		break
	}

	select {
	case <-released:
	case <-time.After(3 * time.Second):
		t.Fatal("upstream connection still open after Close")
	}
}

func TestStreamModelError(t *testing.T) {
	_, err := New(&fakeModel{err: constant.ErrModelNotConfigured}).Stream(context.Background(), Request{Topic: "t"})
	var gerr *constant.GenerationError
	require.ErrorAs(t, err, &gerr)
	assert.True(t, gerr.NotConfigured())

	_, err = New(&fakeModel{}).Stream(context.Background(), Request{})
	var verr *constant.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPrompts(t *testing.T) {
	assert.Equal(t, "French", LanguageName("fr"))
	assert.Equal(t, "German", LanguageName("de"))
	assert.Equal(t, "Spanish", LanguageName("es"))
	assert.Equal(t, "English", LanguageName(""))
	assert.Equal(t, "English", LanguageName("not a language!"))

	p := UserPrompt(Request{Topic: "AI", SlideCount: 10, Style: StyleCasual, Language: "fr"})
	assert.Contains(t, p, "Create a 10-slide presentation about: \"AI\"")
	assert.Contains(t, p, "Generate exactly 10 slides")
	assert.Contains(t, p, styleGuides[StyleCasual])
	assert.Contains(t, p, "Write all content in French.")
	for _, l := range []string{"stats", "cards", "timeline", "comparison", "table", "section", "quote"} {
		assert.Contains(t, SystemPrompt, `"`+l+`"`)
	}
}

func TestOutlinePresentation(t *testing.T) {
	o := &Outline{Title: "Deck", Slides: []slides.Slide{{ID: "1", Layout: slides.LayoutTitle}}}
	p := o.Presentation("tech")
	assert.Equal(t, "Deck", p.Title)
	assert.Equal(t, "tech", p.Theme)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, p.Slides, 1)
}
