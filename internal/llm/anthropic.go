// Package llm 文本生成服务的客户端，实现 eino 的 BaseChatModel
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tidwall/gjson"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/pkg/config"
	"github.com/yockii/ppt_tools/pkg/logger"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultMaxTokens = 4096
	apiVersion       = "2023-06-01"
	// 单个SSE事件的上限
	maxEventSize = 1 << 20
)

// Config 服务配置
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// ConfigFromEnv 读取 anthropic.* 配置，api_key 为空时读取 ANTHROPIC_API_KEY 环境变量
func ConfigFromEnv() Config {
	key := config.GetString("anthropic.api_key")
	if key == "" {
		key = os.Getenv("ANTHROPIC_API_KEY")
	}
	return Config{
		APIKey:    key,
		BaseURL:   config.GetString("anthropic.base_url"),
		Model:     config.GetString("anthropic.model"),
		MaxTokens: config.GetInt("anthropic.max_tokens"),
		Timeout:   config.GetAnthropicTimeout(),
	}
}

// APIError 服务返回的非200响应
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API错误: %d %s: %s", e.StatusCode, e.Type, e.Message)
}

// Unwrap 鉴权失败视为未配置凭证
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return constant.ErrModelNotConfigured
	}
	return nil
}

// AnthropicChatModel Messages API 客户端
type AnthropicChatModel struct {
	cfg        Config
	httpClient *http.Client
}

var _ model.BaseChatModel = (*AnthropicChatModel)(nil)

// NewAnthropicChatModel 创建客户端，未填写的字段使用默认值
func NewAnthropicChatModel(cfg Config) *AnthropicChatModel {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &AnthropicChatModel{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured 是否填写了凭证
func (m *AnthropicChatModel) Configured() bool {
	return strings.TrimSpace(m.cfg.APIKey) != ""
}

type messageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"`
	Messages  []messageParam `json:"messages"`
	Stream    bool           `json:"stream,omitempty"`
}

func (m *AnthropicChatModel) buildRequest(input []*schema.Message, stream bool, opts ...model.Option) *messagesRequest {
	modelName, maxTokens := m.cfg.Model, m.cfg.MaxTokens
	o := model.GetCommonOptions(&model.Options{Model: &modelName, MaxTokens: &maxTokens}, opts...)

	req := &messagesRequest{Model: *o.Model, MaxTokens: *o.MaxTokens, Stream: stream}
	var system []string
	for _, msg := range input {
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			req.Messages = append(req.Messages, messageParam{Role: "assistant", Content: msg.Content})
		default:
			req.Messages = append(req.Messages, messageParam{Role: "user", Content: msg.Content})
		}
	}
	req.System = strings.Join(system, "\n")
	return req
}

// do 发送请求，非200响应转换为 APIError
func (m *AnthropicChatModel) do(ctx context.Context, body *messagesRequest) (*http.Response, error) {
	if !m.Configured() {
		logger.Error("未配置API密钥")
		return nil, constant.ErrModelNotConfigured
	}
	reqBody, err := json.Marshal(body)
	if err != nil {
		logger.Error("序列化请求体失败", logger.F("err", err))
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(m.cfg.BaseURL, "/")+"/v1/messages", bytes.NewReader(reqBody))
	if err != nil {
		logger.Error("创建请求失败", logger.F("err", err))
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", m.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", apiVersion)
	if body.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		logger.Error("发送请求失败", logger.F("err", err))
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		j := gjson.ParseBytes(raw)
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Type:       j.Get("error.type").String(),
			Message:    j.Get("error.message").String(),
		}
		if apiErr.Message == "" {
			apiErr.Message = string(raw)
		}
		logger.Error("API返回错误", logger.F("statusCode", resp.StatusCode), logger.F("type", apiErr.Type))
		return nil, apiErr
	}
	return resp, nil
}

// Generate 阻塞式调用，返回所有 text 块拼接的内容
func (m *AnthropicChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	resp, err := m.do(ctx, m.buildRequest(input, false, opts...))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("读取响应失败", logger.F("err", err))
		return nil, err
	}
	j := gjson.ParseBytes(raw)
	var text strings.Builder
	j.Get("content").ForEach(func(_, block gjson.Result) bool {
		if block.Get("type").String() == "text" {
			text.WriteString(block.Get("text").String())
		}
		return true
	})

	msg := &schema.Message{Role: schema.Assistant, Content: text.String()}
	if usage := j.Get("usage"); usage.Exists() {
		msg.ResponseMeta = &schema.ResponseMeta{
			FinishReason: j.Get("stop_reason").String(),
			Usage: &schema.TokenUsage{
				PromptTokens:     int(usage.Get("input_tokens").Int()),
				CompletionTokens: int(usage.Get("output_tokens").Int()),
				TotalTokens:      int(usage.Get("input_tokens").Int() + usage.Get("output_tokens").Int()),
			},
		}
	}
	return msg, nil
}

// Stream 流式调用，每个 text_delta 作为一条消息发送
//
// 调用方关闭 StreamReader 后，读取协程在下一个事件到达时退出；
// 需要立即释放连接时取消 ctx
func (m *AnthropicChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	resp, err := m.do(ctx, m.buildRequest(input, true, opts...))
	if err != nil {
		return nil, err
	}

	sr, sw := schema.Pipe[*schema.Message](16)
	go func() {
		defer resp.Body.Close()
		defer sw.Close()
		if err := readEvents(resp.Body, sw); err != nil {
			if ctx.Err() != nil {
				logger.Debug("流式请求已取消", logger.F("err", ctx.Err()))
				return
			}
			logger.Error("读取流式响应失败", logger.F("err", err))
			sw.Send(nil, err)
		}
	}()
	return sr, nil
}

// readEvents 按 SSE 事件解析响应体
func readEvents(body io.Reader, sw *schema.StreamWriter[*schema.Message]) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxEventSize)
	// 事件之间以空行分隔
	scanner.Split(func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}
		if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
			return i + 2, data[0:i], nil
		}
		if i := bytes.Index(data, []byte("\r\n\r\n")); i >= 0 {
			return i + 4, data[0:i], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	})

	for scanner.Scan() {
		data := eventData(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		j := gjson.ParseBytes(data)
		switch j.Get("type").String() {
		case "content_block_delta":
			if j.Get("delta.type").String() != "text_delta" {
				continue
			}
			msg := &schema.Message{Role: schema.Assistant, Content: j.Get("delta.text").String()}
			if closed := sw.Send(msg, nil); closed {
				logger.Debug("读取方已关闭流")
				return nil
			}
		case "error":
			return &APIError{
				StatusCode: http.StatusOK,
				Type:       j.Get("error.type").String(),
				Message:    j.Get("error.message").String(),
			}
		case "message_stop":
			return nil
		}
	}
	return scanner.Err()
}

// eventData 拼接事件中所有 data: 行
func eventData(event []byte) []byte {
	var out [][]byte
	for _, line := range bytes.Split(event, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if v, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			out = append(out, bytes.TrimPrefix(v, []byte(" ")))
		}
	}
	return bytes.Join(out, []byte("\n"))
}
