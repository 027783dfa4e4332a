package scoring

import (
	"sort"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

// 销售趋势标签
const (
	TrendGrowing = "增长"
	TrendFalling = "下降"
	TrendStable  = "稳定"
	TrendEntered = "新进入"
)

// 区域进入检测的最小销售额
const regionEntryMinSales = 10000

// regionSales 区域销售额取值
// 区域销售额指标名优先直接用区域名，其次尝试"在{区域}销售"与"{区域}销售额"。
func regionSales(r *resolver.Resolver, team, region string) float64 {
	v := r.Value(team, region)
	if v == nil || *v == 0 {
		v = r.Value(team, "在"+region+"销售")
	}
	if v == nil || *v == 0 {
		v = r.Value(team, region+"销售额")
	}
	if v == nil {
		return 0
	}
	return *v
}

// RegionalMarket 区域市场表现分析
// 市场份额与排名只统计销售额大于 0 的队伍；趋势对比紧邻上一回合。
func (e *Engine) RegionalMarket(cur *resolver.Resolver, prev *resolver.Resolver, regions, teams []string) map[string]map[string]*model.RegionalPerformance {
	// 各区域总销售额与参与排名的队伍
	type regionTotals struct {
		total     float64
		teamSales map[string]float64
	}
	totals := make(map[string]*regionTotals, len(regions))
	for _, region := range regions {
		rt := &regionTotals{teamSales: map[string]float64{}}
		for _, team := range teams {
			if sales := regionSales(cur, team, region); sales > 0 {
				rt.teamSales[team] = sales
				rt.total += sales
			}
		}
		totals[region] = rt
	}

	// 区域内排名：销售额降序，并列时保持队伍枚举顺序
	rankings := make(map[string]map[string]int, len(regions))
	for _, region := range regions {
		rt := totals[region]
		ordered := []string{}
		for _, team := range teams {
			if _, ok := rt.teamSales[team]; ok {
				ordered = append(ordered, team)
			}
		}
		sort.SliceStable(ordered, func(i, j int) bool {
			return rt.teamSales[ordered[i]] > rt.teamSales[ordered[j]]
		})
		ranks := make(map[string]int, len(ordered))
		for i, team := range ordered {
			ranks[team] = i + 1
		}
		rankings[region] = ranks
	}

	performance := make(map[string]map[string]*model.RegionalPerformance, len(teams))
	for _, team := range teams {
		performance[team] = make(map[string]*model.RegionalPerformance, len(regions))

		for _, region := range regions {
			sales := regionSales(cur, team, region)
			perf := &model.RegionalPerformance{
				Sales: sales,
				Trend: TrendStable,
			}

			if sales > 0 {
				if total := totals[region].total; total > 0 {
					perf.MarketShare = model.Float(sales / total * 100)
				}
				perf.Rank = rankings[region][team]
			}

			if prev != nil {
				prevSales := regionSales(prev, team, region)
				switch {
				case prevSales > 0:
					growth := (sales - prevSales) / prevSales * 100
					switch {
					case growth > 10:
						perf.Trend = TrendGrowing
					case growth < -10:
						perf.Trend = TrendFalling
					default:
						perf.Trend = TrendStable
					}
				case sales > 0:
					perf.Trend = TrendEntered
				}
			}

			perf.Suggestions = regionSuggestions(sales, perf.Rank, perf.Trend)
			performance[team][region] = perf
		}
	}

	return performance
}

// regionSuggestions 按排名区间与趋势给出区域策略建议
func regionSuggestions(sales float64, rank int, trend string) []string {
	suggestions := []string{}
	if sales <= 0 {
		return suggestions
	}

	switch {
	case rank >= 1 && rank <= 3:
		switch trend {
		case TrendGrowing:
			suggestions = append(suggestions, "巩固优势，考虑提价")
		case TrendStable:
			suggestions = append(suggestions, "增加功能或广告投入")
		case TrendFalling:
			suggestions = append(suggestions, "分析原因，调整策略")
		}
	case rank >= 4 && rank <= 8:
		switch trend {
		case TrendGrowing:
			suggestions = append(suggestions, "加大投入，抢占份额")
		case TrendFalling:
			suggestions = append(suggestions, "评估退出或差异化")
		}
	case rank > 8:
		suggestions = append(suggestions, "退出或大幅调整策略")
	}

	return suggestions
}

// DetectRegionEntry 区域市场进入检测
// 按回合顺序扫描：区域销售额从 0 跃升到 10k 以上记为新进入该市场。
func (e *Engine) DetectRegionEntry(rounds []string, resolvers map[string]*resolver.Resolver, regions, teams []string) map[string][]model.RegionEntry {
	entries := make(map[string][]model.RegionEntry, len(teams))

	for _, team := range teams {
		alerts := []model.RegionEntry{}

		for _, region := range regions {
			prevSales := 0.0
			first := true
			for _, round := range rounds {
				r := resolvers[round]
				if r == nil {
					continue
				}
				currentSales := regionSales(r, team, region)
				// 首个可用回合只建立基线，不算进入
				if !first && prevSales == 0 && currentSales > regionEntryMinSales {
					alerts = append(alerts, model.RegionEntry{
						Region: region,
						Round:  round,
						Sales:  currentSales,
					})
				}
				prevSales = currentSales
				first = false
			}
		}

		entries[team] = alerts
	}

	return entries
}
