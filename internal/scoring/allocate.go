package scoring

import (
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

// 资源分配桶名称
const (
	BucketRD      = "研发"
	BucketAd      = "广告"
	BucketExpand  = "扩产"
	BucketReserve = "现金保留"
)

// 运营模式
const (
	ModeSurvival    = "生存模式"
	ModeMaintenance = "维持模式"
	ModeOffensive   = "进攻模式"
)

// Recommend 下回合策略建议（资源分配决策树）
// 分配百分比总和恒为 100：进攻模式保留 20% 现金缓冲，
// 剩余 80% 按 扩产→研发→广告 的优先级条件分配，未用完的预算折回现金保留。
func (e *Engine) Recommend(health map[string]*model.HealthRecord, competitive map[string]*model.CompetitivePosition, derived *model.DerivedMetrics, teams []string) map[string]*model.Recommendation {
	recommendations := make(map[string]*model.Recommendation, len(teams))

	for _, team := range teams {
		cash := 0.0
		if record := health[team]; record != nil {
			if v := record.Indicators[model.IndicatorCash].Value; v != nil {
				cash = *v
			}
		}

		salesGrowth := 0.0
		salesRank := unrankedPosition
		if derived != nil {
			if g, ok := derived.Growth("销售额", team); ok {
				salesGrowth = g
			}
			if rank := derived.Rank("销售额", team); rank > 0 {
				salesRank = rank
			}
		}

		tech := 0.0
		if pos := competitive[team]; pos != nil {
			tech = pos.Tech
		}

		recommendations[team] = buildRecommendation(cash, salesGrowth, salesRank, tech)
	}

	return recommendations
}

func buildRecommendation(cash, salesGrowth float64, salesRank int, tech float64) *model.Recommendation {
	if cash < 100000 {
		return &model.Recommendation{
			Mode:    ModeSurvival,
			Actions: []string{"停止所有投资", "出售闲置产能", "削减非必要费用"},
			Allocation: map[string]int{
				BucketRD:      0,
				BucketAd:      0,
				BucketReserve: 100,
			},
			RiskLevel: "高",
		}
	}

	if cash < 300000 {
		return &model.Recommendation{
			Mode:    ModeMaintenance,
			Actions: []string{"仅必要广告投入", "维持现有产能", "保留现金缓冲"},
			Allocation: map[string]int{
				BucketRD:      10,
				BucketAd:      20,
				BucketReserve: 70,
			},
			RiskLevel: "中",
		}
	}

	// 进攻模式：固定保留 20% 现金缓冲，剩余额度按条件依序分配
	const reservePct = 20
	const maxAvailable = 100 - reservePct

	actions := []string{}
	allocation := map[string]int{}
	allocated := 0

	if salesGrowth > 10 && allocated < maxAvailable {
		actions = append(actions, "销售增长>10% → 考虑扩产")
		pct := minInt(60, maxAvailable-allocated)
		allocation[BucketExpand] = pct
		allocated += pct
	}

	if tech < 5 && allocated < maxAvailable {
		actions = append(actions, "技术空白市场 → 研发+进入")
		pct := minInt(40, maxAvailable-allocated)
		allocation[BucketRD] = pct
		allocated += pct
	}

	if salesRank <= 3 && allocated < maxAvailable {
		actions = append(actions, "份额领先 → 增加广告巩固")
		pct := minInt(30, maxAvailable-allocated)
		allocation[BucketAd] = pct
		allocated += pct
	}

	// 无任何条件触发时默认适度投放广告
	if len(allocation) == 0 {
		actions = append(actions, "维持当前策略，适度投资")
		pct := minInt(30, maxAvailable)
		allocation[BucketAd] = pct
		allocated += pct
	}

	// 未分配预算折回现金保留，确保总和恒为 100
	allocation[BucketReserve] = reservePct + (maxAvailable - allocated)

	if len(actions) == 0 {
		actions = append(actions, "维持当前策略，观察对手动态")
	}

	return &model.Recommendation{
		Mode:       ModeOffensive,
		Actions:    actions,
		Allocation: allocation,
		RiskLevel:  "低",
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
