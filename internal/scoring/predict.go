package scoring

import (
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

// 无排名时使用的垫底名次
const unrankedPosition = 999

// PredictNextMove 下回合意图预测
// 独立规则集，所有命中的规则同时产生信号，互不排斥。
func (e *Engine) PredictNextMove(r *resolver.Resolver, derived *model.DerivedMetrics, teams []string) map[string][]model.Signal {
	predictions := make(map[string][]model.Signal, len(teams))

	for _, team := range teams {
		signals := []model.Signal{}

		cash := r.ConceptOr(team, "现金", 0)
		rdExpense := r.ValueOr(team, "研发", 0)
		ebitda := r.EBITDA(team)
		debtRatio := netDebtRatio(r, team)

		salesGrowth := 0.0
		if derived != nil {
			if g, ok := derived.Growth("销售额", team); ok {
				salesGrowth = g
			}
		}
		salesRank := unrankedPosition
		if derived != nil {
			if rank := derived.Rank("销售额", team); rank > 0 {
				salesRank = rank
			}
		}

		// 扩产信号
		if cash > 300000 && salesGrowth > 10 {
			signals = append(signals, model.Signal{Action: "扩产", Probability: 70, Reason: "现金充足+销售增长"})
		}

		// 价格战信号
		if cash > 500000 && salesRank > 8 {
			signals = append(signals, model.Signal{Action: "价格战", Probability: 60, Reason: "现金充足+排名靠后"})
		}

		// 技术投入信号
		if rdExpense > 400000 {
			signals = append(signals, model.Signal{Action: "技术投入", Probability: 75, Reason: "研发投入大，可能推出新技术"})
		}

		// 财务危机信号
		if debtRatio.Exceeds(100) && ebitda < 0 {
			signals = append(signals, model.Signal{Action: "出售资产/退出", Probability: 80, Reason: "财务危机（高负债+负EBITDA）"})
		}

		// 现金危机信号
		if cash < 50000 && debtRatio.Exceeds(70) {
			signals = append(signals, model.Signal{Action: "紧急融资", Probability: 85, Reason: "现金不足+高负债"})
		}

		predictions[team] = signals
	}

	return predictions
}
