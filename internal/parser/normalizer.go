package parser

import (
	"fmt"
	"strings"

	"github.com/selinongun-dev/aspora-orgchart/internal/model"
)

// RowNormalizer 行规范化器
// 把别名表头 + 原始数据行转成固定字段的 Row 序列
type RowNormalizer struct {
	mapper *HeaderMapper
}

// NewRowNormalizer 创建行规范化器（默认必填表头）
func NewRowNormalizer() *RowNormalizer {
	return &RowNormalizer{mapper: NewHeaderMapper()}
}

// NewRowNormalizerWithRequired 创建行规范化器并指定必填表头
func NewRowNormalizerWithRequired(required []Field) *RowNormalizer {
	return &RowNormalizer{mapper: NewHeaderMapperWithRequired(required)}
}

// Normalize 严格模式规范化
// 必填表头缺失或数据行缺 Name 都直接失败，第一个行级错误即终止
func (n *RowNormalizer) Normalize(headers []string, records [][]string) ([]model.Row, error) {
	rows, problems, err := n.normalize(headers, records, true)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		p := problems[0]
		return nil, &NormalizeError{Row: p.Row, Message: p.Message}
	}
	return rows, nil
}

// NormalizeLenient 宽松模式规范化
// 表头缺列仍然失败；行级问题收集后跳过该行，供导入报告展示
func (n *RowNormalizer) NormalizeLenient(headers []string, records [][]string) ([]model.Row, []RowProblem, error) {
	return n.normalize(headers, records, false)
}

func (n *RowNormalizer) normalize(headers []string, records [][]string, failFast bool) ([]model.Row, []RowProblem, error) {
	columns, missing := n.mapper.Map(headers)
	if len(missing) > 0 {
		return nil, nil, &NormalizeError{
			MissingColumns: missing,
			Message:        missingColumnsMessage(missing),
		}
	}

	rows := make([]model.Row, 0, len(records))
	var problems []RowProblem

	for idx, record := range records {
		rowNo := idx + 1
		if recordBlank(record) {
			continue
		}

		row := model.Row{
			Name:         pickValue(record, columns[FieldName]),
			WorkEmail:    pickValue(record, columns[FieldWorkEmail]),
			ManagerEmail: pickValue(record, columns[FieldManagerEmail]),
			Team:         pickValue(record, columns[FieldTeam]),
			Location:     pickValue(record, columns[FieldLocation]),
			PhotoURL:     pickValue(record, columns[FieldPhotoURL]),
			Pod:          pickValue(record, columns[FieldPod]),
			RowNo:        rowNo,
		}

		if row.Name == "" {
			problem := RowProblem{
				Row:     rowNo,
				Message: fmt.Sprintf("第 %d 行缺少 Name，无法生成节点", rowNo),
			}
			if failFast {
				return nil, []RowProblem{problem}, nil
			}
			problems = append(problems, problem)
			continue
		}
		rows = append(rows, row)
	}
	return rows, problems, nil
}

// pickValue 按别名优先级取第一个非空单元格
func pickValue(record []string, cols []int) string {
	for _, col := range cols {
		if col >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[col]); v != "" {
			return v
		}
	}
	return ""
}

// recordBlank 整行为空（导出文件末尾常见的空行）
func recordBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
