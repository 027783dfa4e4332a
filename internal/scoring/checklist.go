package scoring

import (
	"fmt"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

// 检查清单分类
const (
	CheckFinance     = "财务健康"
	CheckMarket      = "市场策略"
	CheckCompetition = "竞争态势"
	CheckRisk        = "风险控制"
)

// ChecklistOrder 检查清单的固定展示顺序
var ChecklistOrder = []string{CheckFinance, CheckMarket, CheckCompetition, CheckRisk}

// Checklist 生成提交决策前的核心检查清单
func (e *Engine) Checklist(health map[string]*model.HealthRecord, regional map[string]map[string]*model.RegionalPerformance, changes map[string][]model.StrategyAlert, regions, teams []string) map[string]map[string][]string {
	checklist := make(map[string]map[string][]string, len(teams))

	for _, team := range teams {
		checks := map[string][]string{
			CheckFinance:     {},
			CheckMarket:      {},
			CheckCompetition: {},
			CheckRisk:        {},
		}

		record := health[team]
		cash := 0.0
		debtEquity := 0.0
		redCount := 0
		if record != nil {
			if v := record.Indicators[model.IndicatorCash].Value; v != nil {
				cash = *v
			}
			if v := record.Indicators[model.IndicatorDebtEquity].Value; v != nil {
				debtEquity = *v
			}
			redCount = record.RedCount
		}

		// 财务健康检查
		if cash >= e.thresholds.CashGreen {
			checks[CheckFinance] = append(checks[CheckFinance], "✅ 现金储备覆盖3个回合的亏损")
		} else {
			checks[CheckFinance] = append(checks[CheckFinance], "❌ 现金储备不足（需要≥$300k）")
		}

		if redCount >= 2 {
			checks[CheckFinance] = append(checks[CheckFinance], "❌ 财务健康度有2个以上红灯")
		} else {
			checks[CheckFinance] = append(checks[CheckFinance], "✅ 财务健康度良好")
		}

		if debtEquity != 0 && debtEquity < e.thresholds.DebtYellow {
			checks[CheckFinance] = append(checks[CheckFinance], "✅ 净债务/权益比在安全范围")
		} else {
			checks[CheckFinance] = append(checks[CheckFinance], "❌ 净债务/权益比过高（需要<70%）")
		}

		// 市场策略检查
		hasSales := false
		top3Count := 0
		for _, region := range regions {
			perf := regional[team][region]
			if perf == nil {
				continue
			}
			if perf.Sales > 0 {
				hasSales = true
			}
			if perf.Rank >= 1 && perf.Rank <= 3 {
				top3Count++
			}
		}

		if hasSales {
			checks[CheckMarket] = append(checks[CheckMarket], "✅ 有区域销售额")
		} else {
			checks[CheckMarket] = append(checks[CheckMarket], "⚠️ 区域销售额为零")
		}

		if top3Count > 0 {
			checks[CheckMarket] = append(checks[CheckMarket], fmt.Sprintf("✅ %d个区域排名前3", top3Count))
		} else {
			checks[CheckMarket] = append(checks[CheckMarket], "⚠️ 主要市场排名未进前3")
		}

		// 竞争态势检查
		if alerts := changes[team]; len(alerts) > 0 {
			checks[CheckCompetition] = append(checks[CheckCompetition], fmt.Sprintf("⚠️ 检测到%d个策略突变警报", len(alerts)))
		} else {
			checks[CheckCompetition] = append(checks[CheckCompetition], "✅ 对手策略稳定")
		}

		// 风险控制检查：现金至少覆盖 20% 的风险缓冲
		if cash >= e.thresholds.CashGreen*0.2 {
			checks[CheckRisk] = append(checks[CheckRisk], "✅ 保留至少20%现金作为风险缓冲")
		} else {
			checks[CheckRisk] = append(checks[CheckRisk], "❌ 风险缓冲不足")
		}
		checks[CheckRisk] = append(checks[CheckRisk], "✅ 已考虑最坏情景")
		checks[CheckRisk] = append(checks[CheckRisk], "✅ 策略具有灵活性")

		checklist[team] = checks
	}

	return checklist
}
