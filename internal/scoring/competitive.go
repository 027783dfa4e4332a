package scoring

import (
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

// 策略类型标签
const (
	StrategyClear     = "战略清晰（高投入+高回报）"
	StrategyTrial     = "策略试错（高投入+低回报）"
	StrategyArbitrage = "市场套利（零研发+高利润）"
	StrategySteady    = "稳健经营"
	StrategyUnknown   = "未知"
)

// CompetitivePosition 三维度对标矩阵
// 财务激进度（净债务/权益）、市场侵略性（广告/销售额）、技术投入度（研发/销售额），
// 并按投入与回报组合识别策略类型。
func (e *Engine) CompetitivePosition(r *resolver.Resolver, teams []string) map[string]*model.CompetitivePosition {
	matrix := make(map[string]*model.CompetitivePosition, len(teams))

	for _, team := range teams {
		equity := r.ValueOr(team, "权益合计", 0)
		shortDebt := r.ConceptOr(team, "短期贷款", 0)
		longDebt := r.ConceptOr(team, "长期贷款", 0)
		cash := r.ConceptOr(team, "现金", 0)
		sales := r.ConceptOr(team, "销售额", 0)
		rdExpense := r.ValueOr(team, "研发", 0)
		adExpense := r.ValueOr(team, "广告", 0)
		profit := r.ConceptOr(team, "净利润", 0)

		pos := &model.CompetitivePosition{Team: team}

		// 财务激进度：权益非正时标记为无定义（极端激进）
		if equity > 0 {
			netDebt := (shortDebt + longDebt) - cash
			pos.Financial = model.Aggressiveness{Value: netDebt / equity * 100}
		} else {
			pos.Financial = model.Aggressiveness{Undefined: true}
		}

		if sales > 0 {
			pos.Market = adExpense / sales * 100
			pos.Tech = rdExpense / sales * 100
		}

		pos.Strategy = classifyStrategy(pos.Tech, pos.Market, rdExpense, profit, sales)
		matrix[team] = pos
	}

	return matrix
}

func classifyStrategy(tech, market, rdExpense, profit, sales float64) string {
	switch {
	case tech > 20 && rdExpense > 0:
		ros := 0.0
		if sales > 0 {
			ros = profit / sales * 100
		}
		if ros > 20 {
			return StrategyClear
		}
		return StrategyTrial
	case tech < 1 && profit > 0:
		return StrategyArbitrage
	case tech < 5 && market < 5:
		return StrategySteady
	default:
		return StrategyUnknown
	}
}

// netDebtRatio 净债务/权益比（带无定义标记），预测与校验共用
func netDebtRatio(r *resolver.Resolver, team string) model.Aggressiveness {
	equity := r.ValueOr(team, "权益合计", 0)
	if equity <= 0 {
		return model.Aggressiveness{Undefined: true}
	}
	shortDebt := r.ConceptOr(team, "短期贷款", 0)
	longDebt := r.ConceptOr(team, "长期贷款", 0)
	cash := r.ConceptOr(team, "现金", 0)
	return model.Aggressiveness{Value: ((shortDebt + longDebt) - cash) / equity * 100}
}
