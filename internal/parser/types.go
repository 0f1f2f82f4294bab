package parser

import "strings"

// Field 逻辑字段（CSV 列最终映射到的固定字段集）
type Field string

const (
	FieldName         Field = "name"
	FieldWorkEmail    Field = "work_email"
	FieldManagerEmail Field = "manager_email"
	FieldTeam         Field = "team"
	FieldLocation     Field = "location"
	FieldPhotoURL     Field = "photo_url"
	FieldPod          Field = "pod"
)

// Label 规范列名（错误提示与导出表头使用）
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldWorkEmail:
		return "Work Email"
	case FieldManagerEmail:
		return "Manager Email"
	case FieldTeam:
		return "Team"
	case FieldLocation:
		return "Location"
	case FieldPhotoURL:
		return "Photo URL"
	case FieldPod:
		return "Pod"
	}
	return string(f)
}

// AllFields 全部逻辑字段（按规范列顺序）
func AllFields() []Field {
	return []Field{
		FieldName,
		FieldWorkEmail,
		FieldManagerEmail,
		FieldTeam,
		FieldLocation,
		FieldPhotoURL,
		FieldPod,
	}
}

// DefaultRequiredFields 默认必填表头（Pod 可选）
// 必填指表头行必须出现该字段的某个别名；数据值层面只有 Name 必填
func DefaultRequiredFields() []Field {
	return []Field{
		FieldName,
		FieldWorkEmail,
		FieldManagerEmail,
		FieldTeam,
		FieldLocation,
		FieldPhotoURL,
	}
}

// FieldColumns 逻辑字段 → 候选列索引（按别名优先级排序）
// 同一字段可能匹配多列（如同时存在 Work Email 与 Email 两列），
// 取值时按顺序取第一个非空单元格
type FieldColumns map[Field][]int

// NormalizeError 规范化失败
// MissingColumns 非空表示表头缺列；Row 非 0 表示数据行级错误
type NormalizeError struct {
	MissingColumns []string
	Row            int
	Message        string
}

func (e *NormalizeError) Error() string {
	return e.Message
}

// RowProblem 宽松模式下收集的行级问题（导入报告使用）
type RowProblem struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (p RowProblem) String() string {
	return p.Message
}

func missingColumnsMessage(labels []string) string {
	return "CSV 缺少必填列: " + strings.Join(labels, ", ")
}
