package server

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/rhmoon-github/cesimAnalyze/internal/analyzer"
	"github.com/rhmoon-github/cesimAnalyze/internal/config"
	"github.com/rhmoon-github/cesimAnalyze/internal/report"
	"github.com/rhmoon-github/cesimAnalyze/internal/store"
)

// Handler API 处理器
type Handler struct {
	cfg   *config.AppConfig
	store *store.Store

	mu     sync.RWMutex
	latest *analyzer.Result // 最近一次分析结果，供单队伍报告复用
}

// NewHandler 创建 API 处理器
func NewHandler(cfg *config.AppConfig, store *store.Store) *Handler {
	return &Handler{
		cfg:   cfg,
		store: store,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)
	router.POST("/analyze", h.Analyze)

	router.GET("/runs", h.ListRuns)
	router.GET("/runs/:id/report", h.GetRunReport)
	router.GET("/runs/:id/health", h.GetTeamHealth)

	router.GET("/teams/:team/report", h.GetTeamReport)
	router.GET("/teams/:team/gap", h.GetTeamGap)
}

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool     `json:"initialized"`
	InputDir    string   `json:"inputDir"`
	LatestRound string   `json:"latestRound,omitempty"`
	Rounds      []string `json:"rounds,omitempty"`
	Teams       []string `json:"teams,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	resp := StatusResponse{InputDir: h.cfg.Data.InputDir}
	if latest != nil {
		resp.Initialized = true
		resp.LatestRound = latest.LatestRound
		resp.Rounds = latest.Rounds
		resp.Teams = latest.Teams
	}
	c.JSON(http.StatusOK, resp)
}

// AnalyzeResponse 分析结果响应
type AnalyzeResponse struct {
	RunID       string   `json:"runId"`
	LatestRound string   `json:"latestRound"`
	Rounds      []string `json:"rounds"`
	Teams       []string `json:"teams"`
}

// Analyze 执行完整分析并保存报告
// POST /api/analyze
func (h *Handler) Analyze(c *gin.Context) {
	result, err := analyzer.New(h.cfg).Run()
	if err != nil {
		if errors.Is(err, analyzer.ErrNoData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	md := report.Comprehensive(result, h.cfg.Analysis.Regions)

	runID, err := h.store.SaveRun(result, md)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	h.latest = result
	h.mu.Unlock()

	c.JSON(http.StatusOK, AnalyzeResponse{
		RunID:       runID,
		LatestRound: result.LatestRound,
		Rounds:      result.Rounds,
		Teams:       result.Teams,
	})
}

// ListRuns 列出历史运行记录
// GET /api/runs
func (h *Handler) ListRuns(c *gin.Context) {
	runs, err := h.store.ListRuns(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": runs, "total": len(runs)})
}

// GetRunReport 获取某次运行的完整报告
// GET /api/runs/:id/report
func (h *Handler) GetRunReport(c *gin.Context) {
	md, err := h.store.GetRunReport(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// GetTeamHealth 获取某次运行的队伍健康度快照
// GET /api/runs/:id/health
func (h *Handler) GetTeamHealth(c *gin.Context) {
	rows, err := h.store.GetTeamHealth(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rows, "total": len(rows)})
}

// GetTeamReport 生成单队伍报告（基于最近一次分析结果）
// GET /api/teams/:team/report
func (h *Handler) GetTeamReport(c *gin.Context) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "尚未执行分析，请先调用 POST /api/analyze"})
		return
	}

	md, err := report.Team(latest, c.Param("team"), h.cfg.Analysis.Regions)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}

// GetTeamGap 生成单队伍差距对比报告（基于最近一次分析结果）
// GET /api/teams/:team/gap
func (h *Handler) GetTeamGap(c *gin.Context) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "尚未执行分析，请先调用 POST /api/analyze"})
		return
	}

	md, err := report.Gap(latest, c.Param("team"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(md))
}
