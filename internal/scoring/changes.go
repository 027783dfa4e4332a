package scoring

import (
	"math"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

const (
	cashSwingLimit     = 500000
	stabilityThreshold = 0.3
)

// StrategyChanges 策略突变检测
// 对每对时间相邻且都有数据的回合检查现金异常波动与战略稳定性指数。
func (e *Engine) StrategyChanges(rounds []string, resolvers map[string]*resolver.Resolver, teams []string) map[string][]model.StrategyAlert {
	changes := make(map[string][]model.StrategyAlert, len(teams))

	for _, team := range teams {
		alerts := []model.StrategyAlert{}

		for i := 0; i+1 < len(rounds); i++ {
			r1 := resolvers[rounds[i]]
			r2 := resolvers[rounds[i+1]]
			if r1 == nil || r2 == nil {
				continue
			}

			// 现金异常波动
			cash1 := r1.ConceptOr(team, "现金", 0)
			cash2 := r2.ConceptOr(team, "现金", 0)
			cashChange := math.Abs(cash2 - cash1)
			if cashChange > cashSwingLimit {
				interpretation := "可能大幅投资/亏损"
				if cash2 > cash1 {
					interpretation = "可能融资/出售资产"
				}
				alerts = append(alerts, model.StrategyAlert{
					Type:           "现金异常波动",
					FromRound:      rounds[i],
					ToRound:        rounds[i+1],
					Value:          cashChange,
					Interpretation: interpretation,
				})
			}

			// 战略稳定性指数：EBITDA 与研发的变动相对上期总资产
			ebitda1 := r1.EBITDA(team)
			ebitda2 := r2.EBITDA(team)
			rd1 := r1.ValueOr(team, "研发", 0)
			rd2 := r2.ValueOr(team, "研发", 0)
			assets1 := r1.ValueOr(team, "总资产", 0)

			if assets1 > 0 {
				stability := 1 - (math.Abs(ebitda2-ebitda1)+math.Abs(rd2-rd1))/assets1
				if stability < stabilityThreshold {
					alerts = append(alerts, model.StrategyAlert{
						Type:           "战略稳定性低",
						FromRound:      rounds[i],
						ToRound:        rounds[i+1],
						Value:          stability,
						Interpretation: "策略变化剧烈，需重点关注",
					})
				}
			}
		}

		changes[team] = alerts
	}

	return changes
}
