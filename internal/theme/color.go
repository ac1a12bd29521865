package theme

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor 解析 #rrggbb / rrggbb / #rgb 格式的颜色
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, fmt.Errorf("empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(strings.ToLower(s))
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return c, nil
}

// HexBare 返回不带#的大写十六进制颜色，解析失败返回fallback
func HexBare(s, fallback string) string {
	c, err := ParseColor(s)
	if err != nil {
		c, err = ParseColor(fallback)
		if err != nil {
			return "000000"
		}
	}
	return strings.ToUpper(strings.TrimPrefix(c.Clamped().Hex(), "#"))
}

// IsDark 按Lab亮度判断颜色是否偏暗
func IsDark(s string) bool {
	c, err := ParseColor(s)
	if err != nil {
		return false
	}
	l, _, _ := c.Lab()
	return l < 0.6
}

// ContrastText 在给定背景上可读的文字颜色
func ContrastText(background string) string {
	if IsDark(background) {
		return "#ffffff"
	}
	return "#1a1a1a"
}

// Blend 按比例混合两种颜色，t=0 返回a，t=1 返回b
func Blend(a, b string, t float64) string {
	ca, errA := ParseColor(a)
	cb, errB := ParseColor(b)
	if errA != nil || errB != nil {
		return a
	}
	return ca.BlendRgb(cb, t).Clamped().Hex()
}
