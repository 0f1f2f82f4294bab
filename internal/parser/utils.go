package parser

import (
	"regexp"
	"strings"
)

var headerSpaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeaderName 规范化列名用于别名匹配
// 去除所有空白（含换行制表符）并转小写，"Work  Email" 与 "work email" 视为同一列
func NormalizeHeaderName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	name = headerSpaceRe.ReplaceAllString(name, "")
	return strings.ToLower(name)
}

// NormalizeEmail 规范化邮箱（去首尾空白并转小写）
// 节点 id 与主管引用匹配都以此为准
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
