// Package validate 请求结构校验，错误转换为带字段明细的 ValidationError
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/slides"
	"github.com/yockii/ppt_tools/internal/theme"
)

var (
	v    *validator.Validate
	once sync.Once
)

// Validator 共享的校验器，字段名使用 json 标签
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("layout", func(fl validator.FieldLevel) bool {
			return slides.Layout(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
			return theme.IsBuiltin(fl.Field().String())
		})
	})
	return v
}

// Struct 校验结构体，失败时返回 message 作为错误信息
func Struct(message string, s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return constant.NewValidationError(message, constant.FieldError{Field: "body", Message: err.Error()})
	}
	details := make([]constant.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, constant.FieldError{Field: fieldPath(fe), Message: describe(fe)})
	}
	return constant.NewValidationError(message, details...)
}

// fieldPath 去掉顶层结构体名，如 Presentation.slides[0].layout → slides[0].layout
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "layout":
		return fmt.Sprintf("must be one of [%s]", layoutNames())
	case "theme":
		return "must be a built-in theme"
	default:
		return "is invalid"
	}
}

func layoutNames() string {
	all := slides.AllLayouts()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = string(l)
	}
	return strings.Join(names, " ")
}
