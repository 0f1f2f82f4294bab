package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV 读取 CSV 全部内容，返回表头行与数据行
// 自动剥离 UTF-8 BOM（Excel 另存为 CSV 常见），允许各行列数不一致
func ReadCSV(r io.Reader) (headers []string, records [][]string, err error) {
	br := bufio.NewReader(r)
	if err := stripUTF8BOM(br); err != nil {
		return nil, nil, fmt.Errorf("读取 CSV 失败: %w", err)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err = cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &NormalizeError{Message: "CSV 为空，缺少表头行"}
		}
		return nil, nil, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}

	for {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("读取 CSV 数据行失败: %w", err)
		}
		records = append(records, record)
	}
	return headers, records, nil
}

func stripUTF8BOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return err
		}
	}
	return nil
}

// EncodeCSV 将表头与数据行编码为 CSV 字节（xlsx 转存与导出使用）
func EncodeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("写入 CSV 表头失败: %w", err)
	}
	for _, record := range records {
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("写入 CSV 数据行失败: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("写入 CSV 失败: %w", err)
	}
	return buf.Bytes(), nil
}
