package scoring

import (
	"fmt"
	"math"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

// 现金流类型
const (
	CashFlowOperating = "A. 经营驱动型（健康）"
	CashFlowFinancing = "B. 融资驱动型（危险）"
	CashFlowInvesting = "C. 投资消耗型（过渡期）"
)

// CashFlowSource 现金流源头分析
// prev 为上一回合解析器，无上一回合时传 nil（现金变化记 0）。
func (e *Engine) CashFlowSource(cur *resolver.Resolver, prev *resolver.Resolver, teams []string) map[string]*model.CashFlowInfo {
	result := make(map[string]*model.CashFlowInfo, len(teams))

	for _, team := range teams {
		cash := cur.ConceptOr(team, "现金", 0)
		prevCash := 0.0
		if prev != nil {
			prevCash = prev.ConceptOr(team, "现金", 0)
		}
		cashChange := cash - prevCash
		ebitda := cur.EBITDA(team)

		info := &model.CashFlowInfo{
			Team:       team,
			CashChange: cashChange,
			EBITDA:     ebitda,
		}

		switch {
		case ebitda > 100000:
			info.Class = CashFlowOperating
			info.Description = fmt.Sprintf("经营现金流+$%.0fk → 可扩张", ebitda/1000)
		case cashChange > 0 && math.Abs(ebitda) < math.Abs(cashChange)*0.5:
			info.Class = CashFlowFinancing
			info.Description = "融资现金流为主要来源 → 不可持续"
		default:
			info.Class = CashFlowInvesting
			info.Description = "投资现金流消耗现金 → 关注下回合回报"
		}

		result[team] = info
	}

	return result
}
