package v1

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/selinongun-dev/aspora-orgchart/internal/model"
	"github.com/selinongun-dev/aspora-orgchart/internal/parser"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
	"github.com/selinongun-dev/aspora-orgchart/internal/tree"
)

// ChartResponse 图表响应
type ChartResponse struct {
	View  tree.View          `json:"view"`
	Nodes []*model.ChartNode `json:"nodes"`
}

// GetChart 获取图表节点
// GET /api/chart?view=hierarchy|pod
// 视图参数缺省时用配置里的 default_view
func (h *Handler) GetChart(c *gin.Context) {
	viewParam := c.Query("view")
	if viewParam == "" {
		v, err := h.store.GetConfigDefault(store.ConfigKeyDefaultView, string(tree.ViewHierarchy))
		if err != nil {
			v = string(tree.ViewHierarchy)
		}
		viewParam = v
	}
	view, err := tree.ParseView(viewParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不支持的视图: " + viewParam})
		return
	}

	rows, ok := h.loadRows(c)
	if !ok {
		return
	}

	nodes := tree.NewBuilder(h.builderOptions(view)).Build(rows)
	c.JSON(http.StatusOK, ChartResponse{View: view, Nodes: nodes})
}

// GetPeople 获取规范化后的人员行
// GET /api/people
func (h *Handler) GetPeople(c *gin.Context) {
	rows, ok := h.loadRows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(rows),
		"people": rows,
	})
}

// builderOptions 从运行配置拼建树选项，配置值损坏时落回默认
func (h *Handler) builderOptions(view tree.View) tree.Options {
	opts := tree.Options{View: view}

	if v, err := h.store.GetConfigDefault(store.ConfigKeyEmptyPodPolicy, string(tree.EmptyPodSkip)); err == nil {
		if policy, perr := tree.ParseEmptyPodPolicy(v); perr == nil {
			opts.EmptyPodPolicy = policy
		}
	}
	if v, err := h.store.GetConfigDefault(store.ConfigKeyOrgName, tree.DefaultRootLabel); err == nil {
		opts.RootLabel = v
	}
	return opts
}

// loadRows 读取当前名册并严格规范化，失败时直接写响应
func (h *Handler) loadRows(c *gin.Context) ([]model.Row, bool) {
	blob, err := h.store.LatestBlob(store.OrgBlobName)
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "尚未上传名册"})
			return nil, false
		}
		h.logger.WithError(err).Error("读取名册失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取名册失败"})
		return nil, false
	}

	headers, records, err := parser.ReadCSV(bytes.NewReader(blob.Content))
	if err != nil {
		h.writeNormalizeError(c, err)
		return nil, false
	}
	rows, err := parser.NewRowNormalizer().Normalize(headers, records)
	if err != nil {
		h.writeNormalizeError(c, err)
		return nil, false
	}
	return rows, true
}

// writeNormalizeError 解析/规范化失败统一返回 422，带缺列与行号
func (h *Handler) writeNormalizeError(c *gin.Context, err error) {
	var ne *parser.NormalizeError
	if errors.As(err, &ne) {
		resp := gin.H{"error": ne.Message}
		if len(ne.MissingColumns) > 0 {
			resp["missingColumns"] = ne.MissingColumns
		}
		if ne.Row > 0 {
			resp["row"] = ne.Row
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
}
