package outline

import (
	"fmt"
	"strings"
)

// 校验提示
const (
	IssueEmpty    = "Markdown content is empty"
	IssueNoTitle  = "Presentation should start with a title (# Title)"
	IssueNoSlides = "No slides detected. Use # for title and ## for slides."
	IssueTooMany  = "Too many slides (max %d). Consider splitting your content."
)

// Validate 返回全部问题，为空表示通过；问题不影响 Parse 的结果
func Validate(src string) []string {
	if strings.TrimSpace(src) == "" {
		return []string{IssueEmpty}
	}

	var issues []string
	sections := scan(src)
	if !hasTitle(sections) {
		issues = append(issues, IssueNoTitle)
	}
	if len(sections) == 0 {
		issues = append(issues, IssueNoSlides)
	}
	if len(sections) > MaxSlides {
		issues = append(issues, fmt.Sprintf(IssueTooMany, MaxSlides))
	}
	return issues
}

// Valid 没有任何问题
func Valid(src string) bool {
	return len(Validate(src)) == 0
}

// hasTitle 与 Parse 使用同一次扫描，标题页判断保持一致
func hasTitle(sections []*section) bool {
	for _, s := range sections {
		if s.top {
			return true
		}
	}
	return false
}
