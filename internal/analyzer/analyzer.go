package analyzer

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rhmoon-github/cesimAnalyze/internal/config"
	"github.com/rhmoon-github/cesimAnalyze/internal/derive"
	"github.com/rhmoon-github/cesimAnalyze/internal/diagnose"
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/parser"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
	"github.com/rhmoon-github/cesimAnalyze/internal/scoring"
)

// ErrNoData 所有回合文件均不可读
var ErrNoData = errors.New("未能读取任何结果文件")

// Analyzer 战报分析流水线
// 按固定回合顺序读取结果文件，依次完成指标提取、衍生计算、诊断与评分。
type Analyzer struct {
	cfg     *config.AppConfig
	derive  *derive.Engine
	scoring *scoring.Engine
}

// Result 一次完整分析的输出
// 运行期间只读；每次分析都从源文件全量重建，不依赖任何历史状态。
type Result struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Rounds      []string  `json:"rounds"`      // 实际可用回合（按时间顺序）
	LatestRound string    `json:"latestRound"` // 最新回合
	Teams       []string  `json:"teams"`       // 标准化后的队伍列表（源表列序）

	Stores  map[string]*model.MetricStore     `json:"-"`
	Derived map[string]*model.DerivedMetrics  `json:"derived"`

	Health          map[string]*model.HealthRecord                   `json:"health"`
	CashFlow        map[string]*model.CashFlowInfo                   `json:"cashFlow"`
	Regional        map[string]map[string]*model.RegionalPerformance `json:"regional"`
	Competitive     map[string]*model.CompetitivePosition            `json:"competitive"`
	StrategyAlerts  map[string][]model.StrategyAlert                 `json:"strategyAlerts"`
	Predictions     map[string][]model.Signal                        `json:"predictions"`
	RegionEntries   map[string][]model.RegionEntry                   `json:"regionEntries"`
	Recommendations map[string]*model.Recommendation                 `json:"recommendations"`
	Checklist       map[string]map[string][]string                   `json:"checklist"`

	IntegrityIssues []model.IntegrityIssue     `json:"integrityIssues"`
	Anomalies       map[string][]model.Anomaly `json:"anomalies"`
	LogicIssues     []model.LogicIssue         `json:"logicIssues"`

	resolvers map[string]*resolver.Resolver
}

// New 创建分析器
func New(cfg *config.AppConfig) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		derive:  derive.New(),
		scoring: scoring.NewEngine(cfg.Thresholds),
	}
}

// Run 执行完整分析
// 缺失的回合文件记警告后跳过；所有回合都不可读时返回 ErrNoData。
func (a *Analyzer) Run() (*Result, error) {
	layout := parser.SheetLayout{
		SheetName:    a.cfg.Analysis.SheetName,
		TeamRow:      a.cfg.Analysis.TeamRow,
		DataStartRow: a.cfg.Analysis.DataStartRow,
	}

	result := &Result{
		GeneratedAt: time.Now(),
		Stores:      map[string]*model.MetricStore{},
		Derived:     map[string]*model.DerivedMetrics{},
		resolvers:   map[string]*resolver.Resolver{},
	}

	// 上一回合按固定回合序列的位置确定，缺档不顺延
	roundIDs := a.cfg.Analysis.RoundIDs()
	prevOf := make(map[string]string, len(roundIDs))
	for i := 1; i < len(roundIDs); i++ {
		prevOf[roundIDs[i]] = roundIDs[i-1]
	}

	// 第一步：数据基础建设
	for _, round := range roundIDs {
		path := filepath.Join(a.cfg.Data.InputDir, fmt.Sprintf(a.cfg.Analysis.FilePattern, round))
		if _, err := os.Stat(path); err != nil {
			log.Printf("警告: 回合 %s 的结果文件不存在: %s", round, path)
			continue
		}

		store, roundTeams, err := parser.ReadResultsFile(path, layout)
		if err != nil {
			log.Printf("警告: 回合 %s 读取失败: %v", round, err)
			continue
		}

		// 队伍标识统一用标准化后的名称，跨回合比较才有效
		store = normalizeStore(store, a.cfg.Analysis.TeamNames)
		if len(result.Teams) == 0 {
			result.Teams = normalizeTeamNames(roundTeams, a.cfg.Analysis.TeamNames)
		}

		result.Rounds = append(result.Rounds, round)
		result.Stores[round] = store
		result.resolvers[round] = resolver.New(store, a.cfg.Analysis.Priorities)
	}

	if len(result.Rounds) == 0 {
		return nil, ErrNoData
	}
	result.LatestRound = result.Rounds[len(result.Rounds)-1]

	// 衍生指标：严格按时间顺序计算
	// 增长与排名变化只对比序列上紧邻的上一回合，该回合文件缺失时不计算。
	for _, round := range result.Rounds {
		var prevRes *resolver.Resolver
		var prevDerived *model.DerivedMetrics
		if p, ok := prevOf[round]; ok {
			prevRes = result.resolvers[p]
			prevDerived = result.Derived[p]
		}
		result.Derived[round] = a.derive.Compute(result.resolvers[round], prevRes, prevDerived, result.Teams)
	}

	latest := result.resolvers[result.LatestRound]
	var prev *resolver.Resolver
	if p, ok := prevOf[result.LatestRound]; ok {
		prev = result.resolvers[p]
	}

	// 第二步：自身诊断分析
	result.IntegrityIssues = diagnose.ValidateIntegrity(latest, result.Teams)
	result.Anomalies = diagnose.DetectAnomalies(latest, result.Teams)
	result.Health = a.scoring.FinancialHealth(latest, result.Teams)
	result.CashFlow = a.scoring.CashFlowSource(latest, prev, result.Teams)
	result.Regional = a.scoring.RegionalMarket(latest, prev, a.cfg.Analysis.Regions, result.Teams)

	// 第三步：竞争分析解码
	result.Competitive = a.scoring.CompetitivePosition(latest, result.Teams)
	result.StrategyAlerts = a.scoring.StrategyChanges(roundIDs, result.resolvers, result.Teams)
	result.Predictions = a.scoring.PredictNextMove(latest, result.Derived[result.LatestRound], result.Teams)
	result.RegionEntries = a.scoring.DetectRegionEntry(result.Rounds, result.resolvers, a.cfg.Analysis.Regions, result.Teams)

	// 第四步：决策支持体系
	result.Recommendations = a.scoring.Recommend(result.Health, result.Competitive, result.Derived[result.LatestRound], result.Teams)
	result.Checklist = a.scoring.Checklist(result.Health, result.Regional, result.StrategyAlerts, a.cfg.Analysis.Regions, result.Teams)

	// 逻辑验证：发现的问题只上报，不做修正
	result.LogicIssues = diagnose.ValidateLogic(latest, result.Teams, result.Health, result.Derived, result.Rounds)

	return result, nil
}

// Resolver 获取某回合的指标解析器（报告层使用）
func (r *Result) Resolver(round string) *resolver.Resolver {
	return r.resolvers[round]
}

// HasTeam 判断队伍是否存在
func (r *Result) HasTeam(team string) bool {
	for _, t := range r.Teams {
		if t == team {
			return true
		}
	}
	return false
}

// normalizeTeamNames 队伍名称标准化：映射表中登记的原始队名换成标准短名，其余原样保留
func normalizeTeamNames(teams []string, mapping map[string]string) []string {
	normalized := make([]string, 0, len(teams))
	for _, team := range teams {
		if short, ok := mapping[team]; ok {
			normalized = append(normalized, short)
			continue
		}
		normalized = append(normalized, team)
	}
	return normalized
}

// normalizeStore 把指标存储中的队伍键替换为标准化名称
// 原结构不改动，返回重建后的新存储。
func normalizeStore(store *model.MetricStore, mapping map[string]string) *model.MetricStore {
	if len(mapping) == 0 {
		return store
	}

	normalized := model.NewMetricStore()
	for _, name := range store.Names() {
		vals, _ := store.Get(name)
		renamed := make(model.TeamValues, len(vals))
		for team, v := range vals {
			if short, ok := mapping[team]; ok {
				renamed[short] = v
				continue
			}
			renamed[team] = v
		}
		normalized.Add(name, renamed)
	}
	return normalized
}
