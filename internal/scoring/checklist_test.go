package scoring

import (
	"strings"
	"testing"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

// TestChecklist_HealthyTeam 健康队伍的检查项
func TestChecklist_HealthyTeam(t *testing.T) {
	health := map[string]*model.HealthRecord{
		"T": {
			Team: "T",
			Indicators: map[string]model.HealthIndicator{
				model.IndicatorCash:       {Value: model.Float(400000)},
				model.IndicatorDebtEquity: {Value: model.Float(30)},
			},
		},
	}
	regional := map[string]map[string]*model.RegionalPerformance{
		"T": {
			"美国": {Sales: 500000, Rank: 2},
			"亚洲": {Sales: 100000, Rank: 5},
		},
	}
	changes := map[string][]model.StrategyAlert{}

	checks := testEngine().Checklist(health, regional, changes, []string{"美国", "亚洲"}, []string{"T"})["T"]

	finance := strings.Join(checks[CheckFinance], "\n")
	if !strings.Contains(finance, "✅ 现金储备覆盖3个回合的亏损") {
		t.Errorf("现金检查错误: %v", checks[CheckFinance])
	}
	if !strings.Contains(finance, "✅ 财务健康度良好") {
		t.Errorf("红灯检查错误: %v", checks[CheckFinance])
	}
	if !strings.Contains(finance, "✅ 净债务/权益比在安全范围") {
		t.Errorf("负债检查错误: %v", checks[CheckFinance])
	}

	market := strings.Join(checks[CheckMarket], "\n")
	if !strings.Contains(market, "✅ 有区域销售额") || !strings.Contains(market, "1个区域排名前3") {
		t.Errorf("市场检查错误: %v", checks[CheckMarket])
	}

	if !strings.Contains(strings.Join(checks[CheckCompetition], "\n"), "✅ 对手策略稳定") {
		t.Errorf("竞争检查错误: %v", checks[CheckCompetition])
	}

	risk := strings.Join(checks[CheckRisk], "\n")
	if !strings.Contains(risk, "✅ 保留至少20%现金作为风险缓冲") {
		t.Errorf("风险检查错误: %v", checks[CheckRisk])
	}
}

// TestChecklist_TroubledTeam 问题队伍的检查项
func TestChecklist_TroubledTeam(t *testing.T) {
	health := map[string]*model.HealthRecord{
		"T": {
			Team:     "T",
			RedCount: 3,
			Indicators: map[string]model.HealthIndicator{
				model.IndicatorCash:       {Value: model.Float(20000)},
				model.IndicatorDebtEquity: {Value: model.Float(120)},
			},
		},
	}
	regional := map[string]map[string]*model.RegionalPerformance{
		"T": {"美国": {Sales: 0}},
	}
	changes := map[string][]model.StrategyAlert{
		"T": {{Type: "现金异常波动"}, {Type: "战略稳定性低"}},
	}

	checks := testEngine().Checklist(health, regional, changes, []string{"美国"}, []string{"T"})["T"]

	finance := strings.Join(checks[CheckFinance], "\n")
	if !strings.Contains(finance, "❌ 现金储备不足") {
		t.Errorf("现金检查错误: %v", checks[CheckFinance])
	}
	if !strings.Contains(finance, "❌ 财务健康度有2个以上红灯") {
		t.Errorf("红灯检查错误: %v", checks[CheckFinance])
	}
	if !strings.Contains(finance, "❌ 净债务/权益比过高") {
		t.Errorf("负债检查错误: %v", checks[CheckFinance])
	}

	market := strings.Join(checks[CheckMarket], "\n")
	if !strings.Contains(market, "⚠️ 区域销售额为零") || !strings.Contains(market, "⚠️ 主要市场排名未进前3") {
		t.Errorf("市场检查错误: %v", checks[CheckMarket])
	}

	if !strings.Contains(strings.Join(checks[CheckCompetition], "\n"), "检测到2个策略突变警报") {
		t.Errorf("竞争检查错误: %v", checks[CheckCompetition])
	}

	if !strings.Contains(strings.Join(checks[CheckRisk], "\n"), "❌ 风险缓冲不足") {
		t.Errorf("风险检查错误: %v", checks[CheckRisk])
	}
}

// TestChecklist_MissingHealthRecord 无健康记录时按零值处理
func TestChecklist_MissingHealthRecord(t *testing.T) {
	checks := testEngine().Checklist(nil, nil, nil, []string{"美国"}, []string{"T"})["T"]

	if len(checks[CheckFinance]) != 3 || len(checks[CheckRisk]) != 3 {
		t.Errorf("检查项数量错误: %+v", checks)
	}
	// 现金 0：储备不足、缓冲不足
	if !strings.Contains(checks[CheckFinance][0], "❌") {
		t.Errorf("现金零值检查错误: %v", checks[CheckFinance][0])
	}
}
