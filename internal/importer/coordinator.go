package importer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/selinongun-dev/aspora-orgchart/internal/model"
	"github.com/selinongun-dev/aspora-orgchart/internal/parser"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
)

// Coordinator 导入协调器
// 接收上传文件，xlsx 先转成 CSV，宽松规范化生成报告，最后整体落库
// 报告只提示不拦截，上传的名册就算有问题也照存
type Coordinator struct {
	store      *store.Store
	normalizer *parser.RowNormalizer
	uploadsDir string
	logger     *logrus.Logger
}

// NewCoordinator 创建导入协调器
// uploadsDir 非空时在磁盘留一份原始上传文件便于排查
func NewCoordinator(s *store.Store, uploadsDir string, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		store:      s,
		normalizer: parser.NewRowNormalizer(),
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// Report 导入报告
type Report struct {
	Filename   string              `json:"filename"`
	Format     string              `json:"format"` // csv/xlsx
	TotalRows  int                 `json:"totalRows"`
	PeopleRows int                 `json:"peopleRows"`
	Problems   []parser.RowProblem `json:"problems,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
	Duration   time.Duration       `json:"duration"`
}

// Result 导入结果
type Result struct {
	Blob   model.BlobMeta `json:"blob"`
	Report Report         `json:"report"`
}

// Import 执行导入
// CSV 原样存储，解析问题只进报告；xlsx 无法读取时才返回错误
func (c *Coordinator) Import(filename string, content []byte) (*Result, error) {
	startTime := time.Now()

	report := Report{
		Filename: filename,
		Format:   "csv",
	}

	c.saveUploadCopy(filename, content)

	storedName := filename
	storedContent := content

	if isWorkbook(filename, content) {
		report.Format = "xlsx"
		headers, records, err := parser.ReadWorkbook(content)
		if err != nil {
			return nil, fmt.Errorf("转换 Excel 失败: %w", err)
		}
		csvBytes, err := parser.EncodeCSV(headers, records)
		if err != nil {
			return nil, fmt.Errorf("转换 Excel 失败: %w", err)
		}
		storedContent = csvBytes
		storedName = replaceExt(filename, ".csv")
		c.inspect(&report, headers, records)
	} else {
		headers, records, err := parser.ReadCSV(bytes.NewReader(content))
		if err != nil {
			// 原样存储，问题进报告
			report.Warnings = append(report.Warnings, err.Error())
		} else {
			c.inspect(&report, headers, records)
		}
	}

	blob := &model.CSVBlob{
		ID:          uuid.New().String(),
		Name:        store.OrgBlobName,
		Filename:    storedName,
		ContentType: "text/csv",
		Size:        int64(len(storedContent)),
		Content:     storedContent,
		UploadedAt:  time.Now().UTC(),
	}

	// 同名旧版本全部清掉，保证只有一份在册
	deleted, err := c.store.DeleteBlobs(store.OrgBlobName)
	if err != nil {
		return nil, fmt.Errorf("清理旧版本失败: %w", err)
	}
	if err := c.store.PutBlob(blob); err != nil {
		return nil, fmt.Errorf("存储名册失败: %w", err)
	}

	report.Duration = time.Since(startTime)
	c.logger.WithFields(logrus.Fields{
		"filename":    filename,
		"format":      report.Format,
		"people_rows": report.PeopleRows,
		"problems":    len(report.Problems),
		"replaced":    deleted,
	}).Info("名册导入完成")

	return &Result{Blob: blob.Meta(), Report: report}, nil
}

// inspect 宽松规范化，把行数与问题写进报告
func (c *Coordinator) inspect(report *Report, headers []string, records [][]string) {
	report.TotalRows = len(records)
	rows, problems, err := c.normalizer.NormalizeLenient(headers, records)
	if err != nil {
		report.Warnings = append(report.Warnings, err.Error())
		return
	}
	report.PeopleRows = len(rows)
	report.Problems = problems
}

// saveUploadCopy 磁盘留档，失败只记日志
func (c *Coordinator) saveUploadCopy(filename string, content []byte) {
	if c.uploadsDir == "" {
		return
	}
	name := time.Now().Format("20060102_150405") + "_" + filepath.Base(filename)
	path := filepath.Join(c.uploadsDir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		c.logger.WithError(err).Warn("上传文件留档失败")
	}
}

var workbookMagic = []byte{'P', 'K', 0x03, 0x04}

// isWorkbook 判断是否 Excel 工作簿（扩展名或 zip 魔数）
func isWorkbook(filename string, content []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return true
	case ".csv", ".txt":
		return false
	}
	return bytes.HasPrefix(content, workbookMagic)
}

func replaceExt(filename, ext string) string {
	base := filepath.Base(filename)
	old := filepath.Ext(base)
	return strings.TrimSuffix(base, old) + ext
}
