package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yockii/ppt_tools/internal/constant"
)

func newTestModel(url string) *AnthropicChatModel {
	return NewAnthropicChatModel(Config{APIKey: "test-key", BaseURL: url})
}

func TestGenerate(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"role":"assistant","stop_reason":"end_turn","content":[{"type":"text","text":"Hello "},{"type":"tool_use","id":"x"},{"type":"text","text":"world"}],"usage":{"input_tokens":10,"output_tokens":5}}`)
	}))
	defer server.Close()

	msg, err := newTestModel(server.URL).Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("hi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello world", msg.Content)
	require.NotNil(t, msg.ResponseMeta)
	assert.Equal(t, 15, msg.ResponseMeta.Usage.TotalTokens)

	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "sys", got.System)
	assert.False(t, got.Stream)
	assert.Equal(t, []messageParam{{Role: "user", Content: "hi"}}, got.Messages)
}

func TestGenerateOptions(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"content":[]}`)
	}))
	defer server.Close()

	msg, err := newTestModel(server.URL).Generate(context.Background(),
		[]*schema.Message{schema.UserMessage("hi")},
		model.WithModel("other"), model.WithMaxTokens(100))
	require.NoError(t, err)
	assert.Empty(t, msg.Content)
	assert.Equal(t, "other", got.Model)
	assert.Equal(t, 100, got.MaxTokens)
}

func TestNotConfigured(t *testing.T) {
	m := NewAnthropicChatModel(Config{})
	assert.False(t, m.Configured())
	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.ErrorIs(t, err, constant.ErrModelNotConfigured)
	_, err = m.Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	assert.ErrorIs(t, err, constant.ErrModelNotConfigured)
}

func TestAuthFailureCountsAsNotConfigured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	}))
	defer server.Close()

	_, err := newTestModel(server.URL).Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "authentication_error", apiErr.Type)
	assert.Equal(t, "invalid x-api-key", apiErr.Message)
	assert.ErrorIs(t, err, constant.ErrModelNotConfigured)
}

func TestServerErrorIsNotAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `overloaded`)
	}))
	defer server.Close()

	_, err := newTestModel(server.URL).Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "overloaded", apiErr.Message)
	assert.False(t, errors.Is(err, constant.ErrModelNotConfigured))
}

const streamBody = "event: message_start\n" +
	"data: {\"type\":\"message_start\",\"message\":{\"id\":\"m1\"}}\n\n" +
	"event: content_block_start\n" +
	"data: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n" +
	"event: ping\n" +
	"data: {\"type\": \"ping\"}\n\n" +
	"event: content_block_delta\n" +
	"data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"{\\\"title\\\":\"}}\n\n" +
	"event: content_block_delta\r\n" +
	"data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"\\\"Deck\\\"}\"}}\r\n\r\n" +
	"event: content_block_delta\n" +
	"data: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"input_json_delta\",\"partial_json\":\"x\"}}\n\n" +
	"event: message_stop\n" +
	"data: {\"type\":\"message_stop\"}\n\n"

func collect(t *testing.T, sr *schema.StreamReader[*schema.Message]) ([]string, error) {
	t.Helper()
	defer sr.Close()
	var chunks []string
	for {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			return chunks, nil
		}
		if err != nil {
			return chunks, err
		}
		chunks = append(chunks, msg.Content)
	}
}

func TestStream(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, streamBody)
	}))
	defer server.Close()

	sr, err := newTestModel(server.URL).Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	chunks, err := collect(t, sr)
	require.NoError(t, err)
	assert.True(t, got.Stream)
	assert.Equal(t, []string{`{"title":`, `"Deck"}`}, chunks)
}

func TestStreamErrorEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"a\"}}\n\n")
		fmt.Fprint(w, "event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}\n\n")
	}))
	defer server.Close()

	sr, err := newTestModel(server.URL).Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	chunks, err := collect(t, sr)
	assert.Equal(t, []string{"a"}, chunks)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "overloaded_error", apiErr.Type)
}

func TestStreamReaderCloseReleasesConnection(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(done)
		flusher := w.(http.Flusher)
		for i := 0; i < 1000; i++ {
			_, err := fmt.Fprintf(w, "data: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"%d\"}}\n\n", i)
			if err != nil {
				return
			}
			flusher.Flush()
			select {
			case <-r.Context().Done():
				return
			default:
			}
		}
	}))
	defer server.Close()

	sr, err := newTestModel(server.URL).Stream(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	msg, err := sr.Recv()
	require.NoError(t, err)
	assert.Equal(t, "0", msg.Content)
	sr.Close()
	<-done
}

func TestEventData(t *testing.T) {
	assert.Equal(t, "a\nb", string(eventData([]byte("event: x\ndata: a\r\ndata:b"))))
	assert.Empty(t, eventData([]byte(": comment")))
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	cfg := ConfigFromEnv()
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
}
