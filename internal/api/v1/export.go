package v1

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/selinongun-dev/aspora-orgchart/internal/exporter"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
)

// Export 导出名册 Excel，返回一次性下载地址
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
	exp := exporter.NewExporter(h.store)
	file, filename, err := exp.Export(exporter.ExportOptions{
		Progress: func(p exporter.ProgressEvent) {
			h.logger.WithFields(logrus.Fields{
				"percent": p.Percent,
				"stage":   p.Stage,
			}).Debug("导出进度")
		},
	})
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "尚未上传名册"})
			return
		}
		h.logger.WithError(err).Error("导出失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer file.Close()

	exportPath := filepath.Join(h.exportsDir, fmt.Sprintf("export_%d_%s", time.Now().UnixNano(), filename))
	if err := file.SaveAs(exportPath); err != nil {
		h.logger.WithError(err).Error("写入导出文件失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "写入导出文件失败"})
		return
	}

	token := h.downloads.put(exportPath, filename, 10*time.Minute)
	c.JSON(http.StatusOK, gin.H{
		"downloadUrl": "/api/export/download/" + token,
		"filename":    filename,
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
