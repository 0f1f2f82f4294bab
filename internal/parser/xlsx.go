package parser

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook 读取 xlsx 第一个工作表，返回表头行与数据行
// 名册只认第一个工作表，其余工作表忽略
func ReadWorkbook(content []byte) (headers []string, records [][]string, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("打开 Excel 失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &NormalizeError{Message: "Excel 中没有工作表"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("读取工作表 %s 失败: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, &NormalizeError{Message: "Excel 为空，缺少表头行"}
	}
	return rows[0], rows[1:], nil
}
