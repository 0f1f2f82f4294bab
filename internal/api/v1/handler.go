package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/selinongun-dev/aspora-orgchart/internal/store"
)

// Handler API 处理器
type Handler struct {
	store          *store.Store
	uploadSecret   string
	uploadsDir     string
	exportsDir     string
	maxUploadBytes int64
	downloads      *exportDownloadStore
	logger         *logrus.Logger
}

// Options 处理器依赖
type Options struct {
	UploadSecret   string
	UploadsDir     string // 上传留档目录，空则不留档
	ExportsDir     string // 导出文件落盘目录
	MaxUploadBytes int64  // 上传大小上限，0 不限制
}

// NewHandler 创建 API 处理器
func NewHandler(s *store.Store, opts Options, logger *logrus.Logger) *Handler {
	return &Handler{
		store:          s,
		uploadSecret:   opts.UploadSecret,
		uploadsDir:     opts.UploadsDir,
		exportsDir:     opts.ExportsDir,
		maxUploadBytes: opts.MaxUploadBytes,
		downloads:      newExportDownloadStore(),
		logger:         logger,
	}
}

// RegisterOrgRoutes 注册名册 blob 端点（挂在根路径）
func (h *Handler) RegisterOrgRoutes(router gin.IRouter) {
	router.GET("/org", h.GetOrg)
	router.POST("/org", h.UploadOrg)
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 图表与人员
	router.GET("/chart", h.GetChart)
	router.GET("/people", h.GetPeople)

	// 运行配置
	router.GET("/config", h.GetSettings)
	router.PATCH("/config", h.UpdateSettings)

	// 名册导出
	router.POST("/export", h.Export)
	router.GET("/export/download/:token", h.DownloadExport)
}
