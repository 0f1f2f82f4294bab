package server

import (
	"embed"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "github.com/selinongun-dev/aspora-orgchart/internal/api/v1"
	"github.com/selinongun-dev/aspora-orgchart/internal/config"
	"github.com/selinongun-dev/aspora-orgchart/internal/store"
)

//go:embed all:dist
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router *gin.Engine
	store  *store.Store
	api    *v1.Handler
	logger *logrus.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, logger *logrus.Logger) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "orgchart.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		logger.Fatalf("初始化数据库失败: %v", err)
	}

	// 创建 API 处理器
	apiHandler := v1.NewHandler(sqliteStore, v1.Options{
		UploadSecret:   cfg.Upload.Secret,
		UploadsDir:     filepath.Join(dataDir, "uploads"),
		ExportsDir:     filepath.Join(dataDir, "exports"),
		MaxUploadBytes: cfg.Upload.MaxSizeMB << 20,
	}, logger)

	s := &Server{
		router: gin.Default(),
		store:  sqliteStore,
		api:    apiHandler,
		logger: logger,
	}
	s.router.MaxMultipartMemory = cfg.Upload.MaxSizeMB << 20

	s.setupRoutes(devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+v1.UploadSecretHeader)
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 名册 blob 端点挂在根路径
	s.api.RegisterOrgRoutes(s.router)

	// API 路由
	api := s.router.Group("/api")
	{
		s.api.RegisterRoutes(api)
	}

	// 静态资源
	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	} else {
		// 生产模式：使用embed的静态资源
		sub, _ := fs.Sub(staticFiles, "dist")

		// 静态资源 - assets 目录
		assetsSub, _ := fs.Sub(sub, "assets")
		s.router.StaticFS("/assets", http.FS(assetsSub))

		// favicon
		s.router.GET("/favicon.svg", func(c *gin.Context) {
			data, err := fs.ReadFile(sub, "favicon.svg")
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.Data(http.StatusOK, "image/svg+xml", data)
		})

		// 首页
		s.router.GET("/", func(c *gin.Context) {
			data, _ := fs.ReadFile(sub, "index.html")
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})

		// SPA 路由 fallback
		s.router.NoRoute(func(c *gin.Context) {
			data, _ := fs.ReadFile(sub, "index.html")
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭底层存储
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
