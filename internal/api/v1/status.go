package v1

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selinongun-dev/aspora-orgchart/internal/parser"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
	"github.com/selinongun-dev/aspora-orgchart/internal/tree"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool   `json:"initialized"`          // 是否已有名册
	Filename    string `json:"filename,omitempty"`   // 当前名册文件名
	UploadedAt  string `json:"uploadedAt,omitempty"` // 上传时间
	Size        int64  `json:"size,omitempty"`       // 字节数
	PeopleCount int    `json:"peopleCount"`          // 有效人员行数
	TeamCount   int    `json:"teamCount"`            // 不同团队数
	PodCount    int    `json:"podCount"`             // 不同 Pod 数（变体收敛后）
	ProblemRows int    `json:"problemRows"`          // 有问题被跳过的行数
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	blob, err := h.store.LatestBlob(store.OrgBlobName)
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	resp := StatusResponse{
		Initialized: true,
		Filename:    blob.Filename,
		UploadedAt:  blob.UploadedAt.Format(time.RFC3339),
		Size:        blob.Size,
	}

	headers, records, err := parser.ReadCSV(bytes.NewReader(blob.Content))
	if err == nil {
		rows, problems, nerr := parser.NewRowNormalizer().NormalizeLenient(headers, records)
		if nerr == nil {
			resp.PeopleCount = len(rows)
			resp.ProblemRows = len(problems)

			teams := make(map[string]bool)
			pods := make(map[string]bool)
			for _, row := range rows {
				if row.Team != "" {
					teams[row.Team] = true
				}
				if label := tree.CanonicalPodLabel(row.Pod); label != "" {
					pods[label] = true
				}
			}
			resp.TeamCount = len(teams)
			resp.PodCount = len(pods)
		}
	}

	c.JSON(http.StatusOK, resp)
}
