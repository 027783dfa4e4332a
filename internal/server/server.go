package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/rhmoon-github/cesimAnalyze/internal/config"
	"github.com/rhmoon-github/cesimAnalyze/internal/store"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	store   *store.Store
	handler *Handler
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite Store
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, "cesim.db")

	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	s := &Server{
		router:  gin.Default(),
		store:   sqliteStore,
		handler: NewHandler(cfg, sqliteStore),
	}

	s.setupRoutes()

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(api)
	}

	// 首页：简单的使用说明
	s.router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 关闭服务器资源
func (s *Server) Close() error {
	return s.store.Close()
}

const indexHTML = `<!DOCTYPE html>
<html lang="zh-CN">
<head><meta charset="utf-8"><title>战报分析</title></head>
<body>
<h1>企业模拟经营战报分析</h1>
<ul>
<li>POST /api/analyze - 执行分析并保存报告</li>
<li>GET /api/status - 系统状态</li>
<li>GET /api/runs - 历史运行记录</li>
<li>GET /api/runs/:id/report - 获取报告</li>
<li>GET /api/runs/:id/health - 队伍健康度快照</li>
<li>GET /api/teams/:team/report - 单队伍报告</li>
<li>GET /api/teams/:team/gap - 单队伍差距对比报告</li>
</ul>
</body>
</html>`
