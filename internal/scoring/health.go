package scoring

import (
	"github.com/rhmoon-github/cesimAnalyze/internal/config"
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

// 行动建议文案
const (
	actionSurvival  = "⚠️ 立即进入生存模式（停止投资、削减成本）"
	actionEmergency = "⚠️ 召开紧急战略复盘会"
	actionExpand    = "✅ 可考虑激进扩张"
)

// Engine 评分与分类引擎
type Engine struct {
	thresholds config.ThresholdsConfig
}

// NewEngine 创建引擎
func NewEngine(thresholds config.ThresholdsConfig) *Engine {
	return &Engine{thresholds: thresholds}
}

// FinancialHealth 财务健康度红绿灯系统
// 五项指标独立判灯；指标无法计算时现金/负债/EBITDA/权益记红灯，
// 研发回报率记黄灯（无研发投入不惩罚）。
func (e *Engine) FinancialHealth(r *resolver.Resolver, teams []string) map[string]*model.HealthRecord {
	health := make(map[string]*model.HealthRecord, len(teams))
	for _, team := range teams {
		health[team] = e.teamHealth(r, team)
	}
	return health
}

func (e *Engine) teamHealth(r *resolver.Resolver, team string) *model.HealthRecord {
	t := e.thresholds
	record := &model.HealthRecord{
		Team:       team,
		Indicators: make(map[string]model.HealthIndicator, 5),
		Actions:    []string{},
	}

	// 1. 现金储备：缺失按 0 处理后判灯
	cash := r.ConceptOr(team, "现金", 0)
	record.Indicators[model.IndicatorCash] = model.HealthIndicator{
		Value:  model.Float(cash),
		Status: gradeHigh(cash, t.CashGreen, t.CashYellow),
	}

	// 2. 净债务/权益比：权益非正时无法计算，记红灯
	equity := r.ValueOr(team, "权益合计", 0)
	shortDebt := r.ConceptOr(team, "短期贷款", 0)
	longDebt := r.ConceptOr(team, "长期贷款", 0)
	if equity > 0 {
		ratio := ((shortDebt + longDebt) - cash) / equity * 100
		record.Indicators[model.IndicatorDebtEquity] = model.HealthIndicator{
			Value:  model.Float(ratio),
			Status: gradeLow(ratio, t.DebtGreen, t.DebtYellow),
		}
	} else {
		record.Indicators[model.IndicatorDebtEquity] = model.HealthIndicator{Status: model.StatusRed}
	}

	// 3. EBITDA 率
	ebitda := r.EBITDA(team)
	sales := r.ConceptOr(team, "销售额", 0)
	if sales > 0 {
		rate := ebitda / sales * 100
		record.Indicators[model.IndicatorEBITDARate] = model.HealthIndicator{
			Value:  model.Float(rate),
			Status: gradeHigh(rate, t.EBITDAGreen, t.EBITDAYellow),
		}
	} else {
		record.Indicators[model.IndicatorEBITDARate] = model.HealthIndicator{Status: model.StatusRed}
	}

	// 4. 权益比率
	assets := r.ValueOr(team, "总资产", 0)
	if assets > 0 && equity > 0 {
		rate := equity / assets * 100
		record.Indicators[model.IndicatorEquityRate] = model.HealthIndicator{
			Value:  model.Float(rate),
			Status: gradeHigh(rate, t.EquityGreen, t.EquityYellow),
		}
	} else {
		record.Indicators[model.IndicatorEquityRate] = model.HealthIndicator{Status: model.StatusRed}
	}

	// 5. 研发回报率：无研发投入记黄灯，不按失败处理
	profit := r.ConceptOr(team, "净利润", 0)
	rdExpense := r.ValueOr(team, "研发", 0)
	if rdExpense > 0 {
		rate := profit / rdExpense * 100
		record.Indicators[model.IndicatorRDReturn] = model.HealthIndicator{
			Value:  model.Float(rate),
			Status: gradeHigh(rate, t.RDGreen, t.RDYellow),
		}
	} else {
		record.Indicators[model.IndicatorRDReturn] = model.HealthIndicator{Status: model.StatusYellow}
	}

	for _, ind := range record.Indicators {
		switch ind.Status {
		case model.StatusRed:
			record.RedCount++
		case model.StatusYellow:
			record.YellowCount++
		}
	}

	// 行动建议：规则按序检查，命中即停
	switch {
	case record.RedCount > 2:
		record.Actions = append(record.Actions, actionSurvival)
	case record.YellowCount > 3 || record.RedCount > 0:
		record.Actions = append(record.Actions, actionEmergency)
	case record.RedCount == 0 && record.YellowCount <= 1:
		record.Actions = append(record.Actions, actionExpand)
	}

	return record
}

// gradeHigh 值越大越好的指标判灯：> green 绿，>= yellow 黄，否则红
func gradeHigh(value, green, yellow float64) model.Status {
	switch {
	case value > green:
		return model.StatusGreen
	case value >= yellow:
		return model.StatusYellow
	default:
		return model.StatusRed
	}
}

// gradeLow 值越小越好的指标判灯：< green 绿，<= yellow 黄，否则红
func gradeLow(value, green, yellow float64) model.Status {
	switch {
	case value < green:
		return model.StatusGreen
	case value <= yellow:
		return model.StatusYellow
	default:
		return model.StatusRed
	}
}
