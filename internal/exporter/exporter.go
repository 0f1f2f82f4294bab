package exporter

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/selinongun-dev/aspora-orgchart/internal/model"
	"github.com/selinongun-dev/aspora-orgchart/internal/parser"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
	"github.com/selinongun-dev/aspora-orgchart/internal/tree"
)

const sheetName = "名册"

// ProgressEvent 导出进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int
	Stage   string
}

// Exporter 名册导出器
// 把当前 blob 的规范化行写成一张 xlsx：别名表头统一成规范列
type Exporter struct {
	store *store.Store
}

// NewExporter 创建导出器
func NewExporter(s *store.Store) *Exporter {
	return &Exporter{store: s}
}

// ExportOptions 导出选项
type ExportOptions struct {
	Progress func(ProgressEvent)
}

// Export 导出名册 Excel，返回工作簿与建议文件名
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, string, error) {
	report := func(percent int, stage string) {
		if opts.Progress == nil {
			return
		}
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
		opts.Progress(ProgressEvent{Percent: percent, Stage: stage})
	}

	report(10, "读取名册")
	blob, err := e.store.LatestBlob(store.OrgBlobName)
	if err != nil {
		return nil, "", err
	}

	report(30, "解析 CSV")
	headers, records, err := parser.ReadCSV(bytes.NewReader(blob.Content))
	if err != nil {
		return nil, "", fmt.Errorf("解析名册失败: %w", err)
	}

	report(50, "规范化行")
	rows, _, err := parser.NewRowNormalizer().NormalizeLenient(headers, records)
	if err != nil {
		return nil, "", fmt.Errorf("规范化名册失败: %w", err)
	}

	// 按汇报线建一次树，补出主管姓名与层级两列
	report(60, "解析汇报链")
	nodes := tree.NewBuilder(tree.Options{View: tree.ViewHierarchy}).Build(rows)
	byID := make(map[string]*model.ChartNode, len(nodes))
	var people []*model.ChartNode
	for _, n := range nodes {
		byID[n.ID] = n
		if n.Kind == model.NodeKindPerson {
			people = append(people, n)
		}
	}

	report(70, "写入工作表")
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("重命名工作表失败: %w", err)
	}

	fields := parser.AllFields()
	headerRow := make([]interface{}, 0, len(fields)+2)
	for _, field := range fields {
		headerRow = append(headerRow, field.Label())
	}
	headerRow = append(headerRow, "Manager Name", "Depth")
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		_ = f.Close()
		return nil, "", fmt.Errorf("写入表头失败: %w", err)
	}

	for i, row := range rows {
		values := []interface{}{
			row.Name, row.WorkEmail, row.ManagerEmail,
			row.Team, row.Location, row.PhotoURL, row.Pod,
			managerName(byID, people[i]), chainDepth(byID, people[i]),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			_ = f.Close()
			return nil, "", fmt.Errorf("写入第 %d 行失败: %w", i+1, err)
		}
	}

	report(90, "设置样式")
	if err := e.applyStyles(f, len(rows)); err != nil {
		_ = f.Close()
		return nil, "", err
	}

	f.SetActiveSheet(0)
	report(100, "完成")

	filename := fmt.Sprintf("orgchart_%s.xlsx", time.Now().Format("20060102_150405"))
	return f, filename, nil
}

// managerName 解析直属主管姓名，主管是合成节点或没有主管时为空
func managerName(byID map[string]*model.ChartNode, n *model.ChartNode) string {
	if n.ParentID == nil {
		return ""
	}
	mgr := byID[*n.ParentID]
	if mgr == nil || mgr.Kind != model.NodeKindPerson {
		return ""
	}
	return mgr.Name
}

// chainDepth 汇报链深度，链顶的人为 0，只数人员节点
func chainDepth(byID map[string]*model.ChartNode, n *model.ChartNode) int {
	depth := 0
	for n.ParentID != nil {
		mgr := byID[*n.ParentID]
		if mgr == nil || mgr.Kind != model.NodeKindPerson {
			break
		}
		depth++
		n = mgr
	}
	return depth
}

// applyStyles 表头加粗冻结首行，列宽按内容给定值
func (e *Exporter) applyStyles(f *excelize.File, rowCount int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("创建表头样式失败: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("设置表头样式失败: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "C", 26); err != nil {
		return fmt.Errorf("设置列宽失败: %w", err)
	}
	if err := f.SetColWidth(sheetName, "D", "H", 18); err != nil {
		return fmt.Errorf("设置列宽失败: %w", err)
	}
	if err := f.SetColWidth(sheetName, "I", "I", 8); err != nil {
		return fmt.Errorf("设置列宽失败: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("冻结首行失败: %w", err)
	}
	return nil
}
