package service

import (
	"errors"

	"github.com/yockii/ppt_tools/internal/constant"
)

const (
	MsgNotConfigured = "API key not configured. Please set ANTHROPIC_API_KEY in your environment."
	MsgUnexpected    = "An unexpected error occurred"
)

// Response 通用响应结构
type Response struct {
	Success bool                  `json:"success"`
	Data    interface{}           `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
	Details []constant.FieldError `json:"details,omitempty"`
}

func OK(data interface{}) *Response {
	return &Response{Success: true, Data: data}
}

// Error 按错误类型生成失败响应，内部错误不透出原始信息
func Error(err error) *Response {
	return &Response{Success: false, Error: Message(err), Details: details(err)}
}

// Message 返回给调用方的错误信息
func Message(err error) string {
	var (
		validationErr *constant.ValidationError
		generationErr *constant.GenerationError
		importErr     *constant.ImportError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &generationErr):
		if generationErr.NotConfigured() {
			return MsgNotConfigured
		}
		return generationErr.Message
	case errors.As(err, &importErr):
		return importErr.Error()
	case constant.GetErrorCode(err) < 500:
		return err.Error()
	default:
		return MsgUnexpected
	}
}

func details(err error) []constant.FieldError {
	var validationErr *constant.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Details
	}
	return nil
}

// ListResponse 列表响应结构
type ListResponse struct {
	Total  int64       `json:"total"`
	Items  interface{} `json:"items"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

// NewListResponse 创建列表响应
func NewListResponse(items interface{}, total int64, offset, limit int) *ListResponse {
	return &ListResponse{
		Total:  total,
		Items:  items,
		Offset: offset,
		Limit:  limit,
	}
}
