package slides

import "strings"

// RecordSeparator 元素内容中的字段分隔符
const RecordSeparator = "|"

// Stat stats 布局的 value|label
type Stat struct {
	Value string
	Label string
}

// Card cards 布局的 heading|body
type Card struct {
	Heading string
	Body    string
}

// HasHeading 内容中包含分隔符且标题不为空
func (c Card) HasHeading() bool { return c.Heading != "" }

// Step timeline 布局的 step|description
type Step struct {
	Title       string
	Description string
}

// Column comparison 布局的 title|feature1|feature2...
type Column struct {
	Title    string
	Features []string
}

// Row table 布局的一行
type Row struct {
	Cells []string
}

func split(content string) []string {
	return strings.Split(content, RecordSeparator)
}

func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}

// DecodeStat 没有分隔符时整段内容作为数值，标签为空
func DecodeStat(content string) Stat {
	parts := split(content)
	value := field(parts, 0)
	if value == "" {
		value = content
	}
	return Stat{Value: value, Label: field(parts, 1)}
}

// DecodeCard 没有分隔符时整段内容作为正文
func DecodeCard(content string) Card {
	parts := split(content)
	if len(parts) < 2 || parts[0] == "" {
		body := field(parts, 1)
		if body == "" {
			body = content
		}
		return Card{Body: body}
	}
	body := parts[1]
	if body == "" {
		body = content
	}
	return Card{Heading: parts[0], Body: body}
}

// DecodeStep 解析时间线步骤
func DecodeStep(content string) Step {
	parts := split(content)
	return Step{Title: field(parts, 0), Description: field(parts, 1)}
}

// DecodeColumn 解析对比列，特性去掉首尾空白并丢弃空项
func DecodeColumn(content string) Column {
	parts := split(content)
	col := Column{Title: strings.TrimSpace(field(parts, 0))}
	for _, f := range parts[1:] {
		if f = strings.TrimSpace(f); f != "" {
			col.Features = append(col.Features, f)
		}
	}
	return col
}

// DecodeRow 解析表格行，单元格去掉首尾空白
func DecodeRow(content string) Row {
	parts := split(content)
	row := Row{Cells: make([]string, len(parts))}
	for i, c := range parts {
		row.Cells[i] = strings.TrimSpace(c)
	}
	return row
}
