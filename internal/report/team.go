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

// Team 生成单队伍分析报告（Markdown）
// 队伍不存在时返回错误，错误信息中列出可选队伍。
func Team(result *analyzer.Result, team string, regions []string) (string, error) {
	if !result.HasTeam(team) {
		return "", fmt.Errorf("队伍 %q 不存在，可选队伍: %s", team, strings.Join(result.Teams, ", "))
	}

	var b strings.Builder
	latest := result.Resolver(result.LatestRound)
	derived := result.Derived[result.LatestRound]

	b.WriteString(fmt.Sprintf("# %s 队伍分析报告\n\n", team))
	b.WriteString(fmt.Sprintf("生成时间：%s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("分析回合：%s（最新回合 %s）\n", strings.Join(result.Rounds, ", "), result.LatestRound))

	// 核心指标概览
	b.WriteString("\n## 核心指标概览\n\n")
	b.WriteString("| 指标 | 数值 | 行业排名 | 环比增长 |\n")
	b.WriteString("|------|------|---------|---------|\n")
	for _, metric := range trendMetrics {
		value := "N/A"
		if v := latest.Concept(team, metric); v != nil {
			value = util.FormatK(*v)
		}
		rank := "-"
		if r := derived.Rank(metric, team); r > 0 {
			rank = fmt.Sprintf("第%d位", r)
		}
		growth := "-"
		if g, ok := derived.Growth(metric, team); ok {
			growth = util.FormatSignedPercent(g)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", metric, value, rank, growth))
	}

	// 财务健康度
	b.WriteString("\n## 财务健康度\n\n")
	if record := result.Health[team]; record != nil {
		for _, name := range model.IndicatorOrder {
			ind := record.Indicators[name]
			b.WriteString(fmt.Sprintf("- %s: %s %s\n", name, indicatorCell(name, ind), ind.Status.Symbol()))
		}
		b.WriteString(fmt.Sprintf("\n红灯 %d 项，黄灯 %d 项\n", record.RedCount, record.YellowCount))
		if len(record.Actions) > 0 {
			b.WriteString("\n**行动建议**：\n")
			for _, action := range record.Actions {
				b.WriteString(fmt.Sprintf("- %s\n", action))
			}
		}
	}

	// 现金流
	if cf := result.CashFlow[team]; cf != nil {
		b.WriteString("\n## 现金流分析\n\n")
		b.WriteString(fmt.Sprintf("- 现金变化：%s\n", util.FormatK(cf.CashChange)))
		b.WriteString(fmt.Sprintf("- 经营现金流(EBITDA)：%s\n", util.FormatK(cf.EBITDA)))
		b.WriteString(fmt.Sprintf("- 类型：%s（%s）\n", cf.Class, cf.Description))
	}

	// 区域表现
	b.WriteString("\n## 区域市场表现\n\n")
	hasRegional := false
	for _, region := range regions {
		perf := result.Regional[team][region]
		if perf == nil || perf.Sales <= 0 {
			continue
		}
		hasRegional = true
		b.WriteString(fmt.Sprintf("- **%s**：销售额 %s", region, util.FormatK(perf.Sales)))
		if perf.MarketShare != nil {
			b.WriteString(fmt.Sprintf("，市场份额 %s", util.FormatPercent(*perf.MarketShare)))
		}
		if perf.Rank > 0 {
			b.WriteString(fmt.Sprintf("，排名第%d位", perf.Rank))
		}
		b.WriteString(fmt.Sprintf("，趋势：%s\n", perf.Trend))
		for _, s := range perf.Suggestions {
			b.WriteString(fmt.Sprintf("  - %s\n", s))
		}
	}
	if !hasRegional {
		b.WriteString("⚠️ 暂无区域销售额数据\n")
	}

	// 竞争定位
	if pos := result.Competitive[team]; pos != nil {
		b.WriteString("\n## 竞争定位\n\n")
		b.WriteString(fmt.Sprintf("- 财务激进度：%s\n", aggressivenessCell(pos.Financial)))
		b.WriteString(fmt.Sprintf("- 市场侵略性：%s\n", util.FormatPercent(pos.Market)))
		b.WriteString(fmt.Sprintf("- 技术投入度：%s\n", util.FormatPercent(pos.Tech)))
		b.WriteString(fmt.Sprintf("- 策略类型：%s\n", pos.Strategy))
	}

	// 策略突变与意图预测
	if alerts := result.StrategyAlerts[team]; len(alerts) > 0 {
		b.WriteString("\n## 策略突变警报\n\n")
		for _, alert := range alerts {
			b.WriteString(fmt.Sprintf("- ⚠️ %s (%s→%s): %s\n", alert.Type, alert.FromRound, alert.ToRound, alert.Interpretation))
		}
	}
	if signals := result.Predictions[team]; len(signals) > 0 {
		b.WriteString("\n## 下回合意图预测\n\n")
		for _, s := range signals {
			b.WriteString(fmt.Sprintf("- %s (概率%d%%): %s\n", s.Action, s.Probability, s.Reason))
		}
	}

	// 多回合趋势
	b.WriteString("\n## 多回合趋势\n\n")
	b.WriteString("| 指标 | " + strings.Join(upperAll(result.Rounds), " | ") + " |\n")
	b.WriteString("|------|" + strings.Repeat("------|", len(result.Rounds)) + "\n")
	for _, metric := range trendMetrics {
		values := []string{}
		for _, round := range result.Rounds {
			if v := result.Resolver(round).Concept(team, metric); v != nil {
				values = append(values, util.FormatK(*v))
			} else {
				values = append(values, "N/A")
			}
		}
		b.WriteString(fmt.Sprintf("| %s | %s |\n", metric, strings.Join(values, " | ")))
	}

	// 决策建议
	if rec := result.Recommendations[team]; rec != nil {
		b.WriteString("\n## 决策建议\n\n")
		b.WriteString(fmt.Sprintf("- 模式：%s（风险等级：%s）\n", rec.Mode, rec.RiskLevel))
		for _, action := range rec.Actions {
			b.WriteString(fmt.Sprintf("- %s\n", action))
		}
		b.WriteString("\n**资源分配**：\n")
		for _, bucket := range allocationOrder(rec.Allocation) {
			b.WriteString(fmt.Sprintf("- %s: %d%%\n", bucket, rec.Allocation[bucket]))
		}
	}

	// 检查清单
	if checks := result.Checklist[team]; checks != nil {
		b.WriteString("\n## 核心检查清单\n")
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

	// 区域进入记录
	if entries := result.RegionEntries[team]; len(entries) > 0 {
		b.WriteString("\n## 区域市场进入记录\n\n")
		sorted := append([]model.RegionEntry{}, entries...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Round < sorted[j].Round })
		for _, entry := range sorted {
			b.WriteString(fmt.Sprintf("- %s：进入%s市场（销售额 %s）\n", entry.Round, entry.Region, util.FormatK(entry.Sales)))
		}
	}

	return b.String(), nil
}
