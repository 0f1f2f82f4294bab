package v1

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/selinongun-dev/aspora-orgchart/internal/importer"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
)

// UploadSecretHeader 上传共享密钥请求头
const UploadSecretHeader = "X-Upload-Secret"

// GetOrg 下载当前名册 CSV
// GET /org
func (h *Handler) GetOrg(c *gin.Context) {
	blob, err := h.store.LatestBlob(store.OrgBlobName)
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "尚未上传名册"})
			return
		}
		h.logger.WithError(err).Error("读取名册失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取名册失败"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.Filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", blob.Content)
}

// UploadOrg 上传名册，覆盖旧版本
// POST /org
// 密钥不对 401，服务端未配置密钥 500，缺文件 400
func (h *Handler) UploadOrg(c *gin.Context) {
	if h.uploadSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务端未配置上传密钥"})
		return
	}
	provided := c.GetHeader(UploadSecretHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.uploadSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "上传密钥不正确"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("文件过大，上限 %d MB", h.maxUploadBytes/(1024*1024)),
		})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		return
	}

	coordinator := importer.NewCoordinator(h.store, h.uploadsDir, h.logger)
	result, err := coordinator.Import(fileHeader.Filename, content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":      h.blobURL(c),
		"pathname": result.Blob.Name,
		"report":   result.Report,
	})
}

// blobURL 当前名册的绝对地址
func (h *Handler) blobURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/org", scheme, c.Request.Host)
}
