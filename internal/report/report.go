package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rhmoon-github/cesimAnalyze/internal/analyzer"
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/scoring"
	"github.com/rhmoon-github/cesimAnalyze/internal/util"
)

// 报告中多回合趋势展示的基础指标
var trendMetrics = []string{"销售额", "净利润", "现金"}

// Comprehensive 生成综合分析报告（Markdown）
func Comprehensive(result *analyzer.Result, regions []string) string {
	var b strings.Builder

	b.WriteString("# 企业模拟经营战报分析报告\n\n")
	b.WriteString(fmt.Sprintf("生成时间：%s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("分析回合：%s（最新回合 %s）\n\n", strings.Join(result.Rounds, ", "), result.LatestRound))
	b.WriteString(strings.Repeat("=", 80) + "\n")

	writeExecutiveSummary(&b, result)
	writeDataFoundation(&b, result)
	writeSelfDiagnosis(&b, result, regions)
	writeCompetitiveAnalysis(&b, result)
	writeTrends(&b, result)
	writeRecommendations(&b, result)
	writeChecklist(&b, result)
	writeChartDescriptions(&b, result, regions)

	return b.String()
}

// writeExecutiveSummary 一、执行摘要
func writeExecutiveSummary(b *strings.Builder, result *analyzer.Result) {
	b.WriteString("\n## 一、执行摘要\n\n")

	derived := result.Derived[result.LatestRound]
	latest := result.Resolver(result.LatestRound)

	rankings := derived.Ranking("销售额")
	if len(rankings) > 0 {
		type entry struct {
			team string
			rank int
		}
		ordered := []entry{}
		for team, rank := range rankings {
			ordered = append(ordered, entry{team, rank})
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].rank < ordered[j].rank })
		if len(ordered) > 3 {
			ordered = ordered[:3]
		}

		b.WriteString("### 当前回合销售额排名TOP3\n\n")
		for i, e := range ordered {
			profit := latest.ConceptOr(e.team, "净利润", 0)
			cash := latest.ConceptOr(e.team, "现金", 0)

			b.WriteString(fmt.Sprintf("%d. **%s**（排名：第%d位）\n", i+1, e.team, e.rank))
			if growth, ok := derived.Growth("净利润", e.team); ok {
				b.WriteString(fmt.Sprintf("   - 净利润：%s（环比%s）\n", util.FormatK(profit), util.FormatSignedPercent(growth)))
			} else {
				b.WriteString(fmt.Sprintf("   - 净利润：%s\n", util.FormatK(profit)))
			}
			b.WriteString(fmt.Sprintf("   - 现金：%s\n", util.FormatK(cash)))
		}
	}

	b.WriteString("\n### 关键发现\n\n")

	highRisk := []string{}
	for _, team := range result.Teams {
		if record := result.Health[team]; record != nil && record.RedCount >= 2 {
			highRisk = append(highRisk, team)
		}
	}
	if len(highRisk) > 0 {
		if len(highRisk) > 5 {
			highRisk = highRisk[:5]
		}
		b.WriteString(fmt.Sprintf("- ⚠️ **高风险队伍**：%s（财务健康度有2个以上红灯）\n", strings.Join(highRisk, "、")))
	}

	mutated := []string{}
	for _, team := range result.Teams {
		if len(result.StrategyAlerts[team]) > 0 {
			mutated = append(mutated, team)
		}
	}
	if len(mutated) > 0 {
		if len(mutated) > 3 {
			mutated = mutated[:3]
		}
		b.WriteString(fmt.Sprintf("- 🔄 **策略突变队伍**：%s（需重点关注）\n", strings.Join(mutated, "、")))
	}
}

// writeDataFoundation 二、数据基础建设
func writeDataFoundation(b *strings.Builder, result *analyzer.Result) {
	b.WriteString("\n\n## 二、数据基础建设\n\n")

	b.WriteString("### 2.1 数据完整性验证\n\n")
	if len(result.IntegrityIssues) > 0 {
		b.WriteString("发现以下问题：\n\n")
		issues := result.IntegrityIssues
		if len(issues) > 5 {
			issues = issues[:5]
		}
		for _, issue := range issues {
			b.WriteString(fmt.Sprintf("- %s: 误差%.2f%% - %s\n", issue.Team, issue.ErrorRate, issue.Status))
		}
	} else {
		b.WriteString("✅ 数据完整性验证通过\n")
	}

	b.WriteString("\n### 2.2 异常值检测\n\n")
	anomalyCount := 0
	for _, team := range result.Teams {
		list := result.Anomalies[team]
		if len(list) == 0 {
			continue
		}
		anomalyCount++
		if anomalyCount > 5 {
			break
		}
		b.WriteString(fmt.Sprintf("**%s**：\n", team))
		for _, a := range list {
			b.WriteString(fmt.Sprintf("- %s: %.0f (%s)\n", a.Type, a.Value, a.Rule))
		}
		b.WriteString("\n")
	}
	if anomalyCount == 0 {
		b.WriteString("✅ 未发现异常值\n")
	}

	b.WriteString("\n### 2.3 自身逻辑校验\n\n")
	if len(result.LogicIssues) > 0 {
		for _, issue := range result.LogicIssues {
			b.WriteString(fmt.Sprintf("- ⚠️ %s: %s\n", issue.Type, issue.Description))
		}
	} else {
		b.WriteString("✅ 逻辑验证通过\n")
	}
}

// writeSelfDiagnosis 三、自身诊断分析
func writeSelfDiagnosis(b *strings.Builder, result *analyzer.Result, regions []string) {
	b.WriteString("\n\n## 三、自身诊断分析\n\n")

	b.WriteString("### 3.1 财务健康度红绿灯系统\n\n")
	b.WriteString("| 队伍 | 现金储备 | 净债务/权益比 | EBITDA率 | 权益比率 | 研发回报率 | 行动建议 |\n")
	b.WriteString("|------|---------|--------------|---------|---------|-----------|---------|\n")

	for _, team := range result.Teams {
		record := result.Health[team]
		if record == nil {
			continue
		}
		cells := []string{}
		for _, name := range model.IndicatorOrder {
			ind := record.Indicators[name]
			cells = append(cells, fmt.Sprintf("%s %s", indicatorCell(name, ind), ind.Status.Symbol()))
		}
		action := "-"
		if len(record.Actions) > 0 {
			action = record.Actions[0]
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", team, strings.Join(cells, " | "), action))
	}

	b.WriteString("\n### 3.2 现金流源头分析\n\n")
	b.WriteString("| 队伍 | 现金变化 | 经营现金流(EBITDA) | 现金流类型 |\n")
	b.WriteString("|------|---------|------------------|-----------|\n")
	for _, team := range result.Teams {
		cf := result.CashFlow[team]
		if cf == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", team, util.FormatK(cf.CashChange), util.FormatK(cf.EBITDA), cf.Class))
	}

	b.WriteString("\n### 3.3 区域市场表现分析\n\n")
	shown := 0
	for _, team := range result.Teams {
		if shown >= 5 {
			break
		}
		shown++

		b.WriteString(fmt.Sprintf("**%s**：\n", team))
		hasAnySales := false
		for _, region := range regions {
			perf := result.Regional[team][region]
			if perf == nil || perf.Sales <= 0 {
				continue
			}
			hasAnySales = true
			b.WriteString(fmt.Sprintf("- **%s**：销售额 %s", region, util.FormatK(perf.Sales)))
			if perf.MarketShare != nil {
				b.WriteString(fmt.Sprintf("，市场份额 %s", util.FormatPercent(*perf.MarketShare)))
			}
			if perf.Rank > 0 {
				b.WriteString(fmt.Sprintf("，排名第%d位", perf.Rank))
			}
			b.WriteString(fmt.Sprintf("，趋势：%s", perf.Trend))
			if len(perf.Suggestions) > 0 {
				b.WriteString(" → " + strings.Join(perf.Suggestions, "; "))
			}
			b.WriteString("\n")
		}
		if !hasAnySales {
			b.WriteString("- ⚠️ 暂无区域销售额数据\n")
		}
		b.WriteString("\n")
	}
}

// writeCompetitiveAnalysis 四、竞争分析解码
func writeCompetitiveAnalysis(b *strings.Builder, result *analyzer.Result) {
	b.WriteString("\n## 四、竞争分析解码\n\n")

	b.WriteString("### 4.1 三维度对标矩阵\n\n")
	b.WriteString("| 队伍 | 财务激进度 | 市场侵略性 | 技术投入度 | 策略类型 |\n")
	b.WriteString("|------|-----------|-----------|-----------|---------|\n")
	for _, team := range result.Teams {
		pos := result.Competitive[team]
		if pos == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			team, aggressivenessCell(pos.Financial), util.FormatPercent(pos.Market), util.FormatPercent(pos.Tech), pos.Strategy))
	}

	b.WriteString("\n### 4.2 策略突变检测\n\n")
	any := false
	for _, team := range result.Teams {
		alerts := result.StrategyAlerts[team]
		if len(alerts) == 0 {
			continue
		}
		any = true
		if len(alerts) > 3 {
			alerts = alerts[:3]
		}
		b.WriteString(fmt.Sprintf("**%s**：\n", team))
		for _, alert := range alerts {
			b.WriteString(fmt.Sprintf("- ⚠️ %s (%s→%s): %s\n", alert.Type, alert.FromRound, alert.ToRound, alert.Interpretation))
		}
		b.WriteString("\n")
	}
	if !any {
		b.WriteString("✅ 未检测到策略突变\n")
	}

	b.WriteString("\n### 4.3 下回合意图预测\n\n")
	for _, team := range result.Teams {
		signals := result.Predictions[team]
		if len(signals) == 0 {
			continue
		}
		if len(signals) > 3 {
			signals = signals[:3]
		}
		b.WriteString(fmt.Sprintf("**%s**：\n", team))
		for _, s := range signals {
			b.WriteString(fmt.Sprintf("- %s (概率%d%%): %s\n", s.Action, s.Probability, s.Reason))
		}
		b.WriteString("\n")
	}
}

// writeTrends 五、多回合趋势分析
func writeTrends(b *strings.Builder, result *analyzer.Result) {
	b.WriteString("\n## 五、多回合趋势分析\n")

	teams := result.Teams
	if len(teams) > 8 {
		teams = teams[:8]
	}

	for _, metric := range trendMetrics {
		b.WriteString(fmt.Sprintf("\n### %s趋势\n\n", metric))
		b.WriteString("| 队伍 | " + strings.Join(upperAll(result.Rounds), " | ") + " |\n")
		b.WriteString("|------|" + strings.Repeat("------|", len(result.Rounds)) + "\n")

		for _, team := range teams {
			values := []string{}
			for _, round := range result.Rounds {
				v := result.Resolver(round).Concept(team, metric)
				if v == nil {
					values = append(values, "N/A")
					continue
				}
				if metric == "现金" {
					values = append(values, util.FormatK(*v))
				} else {
					values = append(values, fmt.Sprintf("%.0fk", *v/1000))
				}
			}
			b.WriteString(fmt.Sprintf("| %s | %s |\n", team, strings.Join(values, " | ")))
		}

		if len(result.Rounds) > 1 {
			growthRounds := result.Rounds[1:]
			b.WriteString("\n**环比增长率**：\n\n")
			b.WriteString("| 队伍 | " + strings.Join(upperAll(growthRounds), " | ") + " |\n")
			b.WriteString("|------|" + strings.Repeat("------|", len(growthRounds)) + "\n")

			for _, team := range teams {
				rates := []string{}
				for _, round := range growthRounds {
					if g, ok := result.Derived[round].Growth(metric, team); ok {
						rates = append(rates, util.FormatSignedPercent(g))
					} else {
						rates = append(rates, "N/A")
					}
				}
				b.WriteString(fmt.Sprintf("| %s | %s |\n", team, strings.Join(rates, " | ")))
			}
		}
	}
}

// writeRecommendations 六、决策建议
func writeRecommendations(b *strings.Builder, result *analyzer.Result) {
	b.WriteString("\n\n## 六、决策建议\n\n")

	b.WriteString("### 6.1 下回合策略建议\n")
	teams := result.Teams
	if len(teams) > 5 {
		teams = teams[:5]
	}
	for _, team := range teams {
		rec := result.Recommendations[team]
		if rec == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n**%s**：\n", team))
		b.WriteString(fmt.Sprintf("- 模式：%s（风险等级：%s）\n", rec.Mode, rec.RiskLevel))
		b.WriteString("- 行动建议：\n")
		for _, action := range rec.Actions {
			b.WriteString(fmt.Sprintf("  - %s\n", action))
		}
		b.WriteString("- 资源分配：\n")
		for _, bucket := range allocationOrder(rec.Allocation) {
			b.WriteString(fmt.Sprintf("  - %s: %d%%\n", bucket, rec.Allocation[bucket]))
		}
	}

	b.WriteString("\n### 6.2 区域市场进入检测\n\n")
	any := false
	for _, team := range result.Teams {
		entries := result.RegionEntries[team]
		if len(entries) == 0 {
			continue
		}
		any = true
		if len(entries) > 3 {
			entries = entries[:3]
		}
		b.WriteString(fmt.Sprintf("**%s**：\n", team))
		for _, entry := range entries {
			b.WriteString(fmt.Sprintf("- ⚠️ 新进入%s市场（%s，销售额：%s）\n", entry.Region, entry.Round, util.FormatK(entry.Sales)))
		}
		b.WriteString("\n")
	}
	if !any {
		b.WriteString("未检测到新的区域市场进入\n")
	}
}

// writeChecklist 七、核心检查清单
func writeChecklist(b *strings.Builder, result *analyzer.Result) {
	b.WriteString("\n\n## 七、核心检查清单\n\n")
	b.WriteString("**提交决策前必答问题**：\n")

	teams := result.Teams
	if len(teams) > 3 {
		teams = teams[:3]
	}
	for _, team := range teams {
		checks := result.Checklist[team]
		if checks == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("\n### %s\n", team))
		for _, category := range scoring.ChecklistOrder {
			items := checks[category]
			if len(items) == 0 {
				continue
			}
			b.WriteString(fmt.Sprintf("\n**%s检查**：\n", category))
			for _, item := range items {
				b.WriteString(fmt.Sprintf("- %s\n", item))
			}
		}
	}
}

// writeChartDescriptions 八、关键图表描述
func writeChartDescriptions(b *strings.Builder, result *analyzer.Result, regions []string) {
	b.WriteString("\n\n## 八、关键图表描述\n\n")
	b.WriteString("> 注：以下为图表的文本描述，实际可视化图表可另行生成\n\n")

	// 财务健康度仪表盘
	b.WriteString("### 8.1 财务健康度仪表盘\n\n")
	teams := result.Teams
	if len(teams) > 5 {
		teams = teams[:5]
	}
	for _, team := range teams {
		record := result.Health[team]
		if record == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("**%s**：\n", team))
		for _, name := range model.IndicatorOrder {
			ind := record.Indicators[name]
			b.WriteString(fmt.Sprintf("- %s: %s %s\n", name, indicatorCell(name, ind), ind.Status.Symbol()))
		}
		b.WriteString("\n")
	}

	// 竞争态势矩阵
	b.WriteString("\n### 8.2 竞争态势矩阵图\n\n")
	b.WriteString("**维度分布**（X轴：财务激进度，Y轴：技术投入度，气泡大小：市场侵略性）：\n\n")
	b.WriteString("| 队伍 | 财务激进度 | 技术投入度 | 市场侵略性 | 策略类型 | 象限位置 |\n")
	b.WriteString("|------|-----------|-----------|-----------|---------|---------|\n")
	for _, team := range result.Teams {
		pos := result.Competitive[team]
		if pos == nil {
			continue
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			team, aggressivenessCell(pos.Financial), util.FormatPercent(pos.Tech), util.FormatPercent(pos.Market), pos.Strategy, quadrant(pos)))
	}

	// 多回合趋势对比
	b.WriteString("\n### 8.3 多回合趋势对比图\n\n")
	b.WriteString("**关键指标趋势**（详见第五章多回合趋势分析部分）：\n")
	b.WriteString("- 销售额：整体趋势向上/向下/稳定\n")
	b.WriteString("- 净利润：盈利改善/恶化/波动\n")
	b.WriteString("- 现金：现金流健康/紧张/危机\n")

	// 区域市场表现
	b.WriteString("\n### 8.4 区域市场表现图\n\n")
	b.WriteString("**区域销售额排名**：\n\n")
	for _, region := range regions {
		b.WriteString(fmt.Sprintf("**%s市场**：\n", region))

		type regionRank struct {
			team  string
			rank  int
			sales float64
			share float64
		}
		ranks := []regionRank{}
		for _, team := range result.Teams {
			perf := result.Regional[team][region]
			if perf == nil || perf.Rank <= 0 || perf.Sales <= 0 {
				continue
			}
			share := 0.0
			if perf.MarketShare != nil {
				share = *perf.MarketShare
			}
			ranks = append(ranks, regionRank{team, perf.Rank, perf.Sales, share})
		}

		if len(ranks) > 0 {
			sort.Slice(ranks, func(i, j int) bool { return ranks[i].rank < ranks[j].rank })
			if len(ranks) > 5 {
				ranks = ranks[:5]
			}
			b.WriteString("| 排名 | 队伍 | 销售额 | 市场份额 |\n")
			b.WriteString("|------|------|--------|---------|\n")
			for _, item := range ranks {
				b.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", item.rank, item.team, util.FormatK(item.sales), util.FormatPercent(item.share)))
			}
		}
		b.WriteString("\n")
	}
}

// indicatorCell 按指标语义格式化指标值
func indicatorCell(name string, ind model.HealthIndicator) string {
	if ind.Value == nil {
		return "N/A"
	}
	switch name {
	case model.IndicatorCash:
		return util.FormatK(*ind.Value)
	case model.IndicatorEBITDARate:
		return util.FormatRate(*ind.Value)
	default:
		return util.FormatPercent(*ind.Value)
	}
}

// aggressivenessCell 财务激进度展示：权益非正标记为极端激进
func aggressivenessCell(a model.Aggressiveness) string {
	if a.Undefined {
		return "极端激进（权益≤0）"
	}
	return util.FormatPercent(a.Value)
}

// quadrant 竞争矩阵象限标签
func quadrant(pos *model.CompetitivePosition) string {
	techPos := "低"
	if pos.Tech > 10 {
		techPos = "高"
	}
	if pos.Financial.Undefined {
		return "极端激进×" + techPos + "技术"
	}
	finPos := "低"
	if pos.Financial.Value > 50 {
		finPos = "高"
	}
	return finPos + "财务×" + techPos + "技术"
}

func upperAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func allocationOrder(allocation map[string]int) []string {
	order := []string{scoring.BucketExpand, scoring.BucketRD, scoring.BucketAd, scoring.BucketReserve}
	out := []string{}
	for _, bucket := range order {
		if _, ok := allocation[bucket]; ok {
			out = append(out, bucket)
		}
	}
	return out
}
