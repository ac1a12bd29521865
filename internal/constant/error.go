package constant

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// 自定义错误
var (
	// 通用错误
	ErrInternalError    = errors.New("内部错误")
	ErrInvalidParams    = errors.New("参数错误")
	ErrUnauthorized     = errors.New("未授权")
	ErrForbidden        = errors.New("禁止访问")
	ErrDatabaseError    = errors.New("数据库错误")
	ErrInvalidToken     = errors.New("无效的token")
	ErrTokenExpired     = errors.New("token已过期")
	ErrRecordNotFound   = errors.New("记录不存在")
	ErrRecordIDEmpty    = errors.New("ID不能为空")
	ErrSerializeError   = errors.New("序列化错误")
	ErrDeserializeError = errors.New("反序列化错误")
	ErrCacheError       = errors.New("缓存错误")
	ErrTooManyRequests  = errors.New("请求过于频繁")

	// 生成服务未配置凭证
	ErrModelNotConfigured = errors.New("model credentials not configured")
)

// FieldError 字段级别的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError 调用方输入不合法，不做内部重试
type ValidationError struct {
	Message string
	Details []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, d.Field+": "+d.Message)
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// NewValidationError 创建校验错误
func NewValidationError(message string, details ...FieldError) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// GenerationError 模型没有返回可用文本，或者文本不是合法JSON
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NotConfigured 凭证缺失或鉴权失败
func (e *GenerationError) NotConfigured() bool {
	return errors.Is(e.Err, ErrModelNotConfigured)
}

// ImportError 导入的文档无法打开或没有幻灯片
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed: %s: %v", e.Reason, e.Err)
	}
	return "import failed: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

// RenderError 渲染阶段的错误，正常输入下不会出现
type RenderError struct {
	SlideIndex int
	Err        error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render slide %d: %v", e.SlideIndex, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// GetErrorCode 获取错误对应的HTTP状态码
func GetErrorCode(err error) int {
	var (
		validationErr *ValidationError
		importErr     *ImportError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &importErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidParams), errors.Is(err, ErrRecordIDEmpty):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
