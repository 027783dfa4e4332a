package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rhmoon-github/cesimAnalyze/internal/analyzer"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
	"github.com/rhmoon-github/cesimAnalyze/internal/util"
)

// gapProfile 差距对比用的单队伍关键指标集合
// 比率类指标分母非正时无法计算，为 nil。
type gapProfile struct {
	Cash      float64
	Sales     float64
	Profit    float64
	Equity    float64
	Assets    float64
	ShortDebt float64
	LongDebt  float64
	EBITDA    float64
	NetDebt   float64

	DebtEquity   *float64
	EBITDARate   *float64
	ProfitMargin *float64
	EquityRatio  *float64
}

// gapProfileOf 从解析器提取单队伍的差距对比指标
func gapProfileOf(r *resolver.Resolver, team string) *gapProfile {
	p := &gapProfile{
		Cash:      r.ConceptOr(team, "现金", 0),
		Sales:     r.ConceptOr(team, "销售额", 0),
		Profit:    r.ConceptOr(team, "净利润", 0),
		Equity:    r.ValueOr(team, "权益合计", 0),
		Assets:    r.ValueOr(team, "总资产", 0),
		ShortDebt: r.ConceptOr(team, "短期贷款", 0),
		LongDebt:  r.ConceptOr(team, "长期贷款", 0),
	}

	// 绝对值过小的 EBITDA 多半是误入的百分比行，按无数据处理
	ebitda := r.EBITDA(team)
	if math.Abs(ebitda) < 100 {
		ebitda = 0
	}
	p.EBITDA = ebitda

	p.NetDebt = (p.ShortDebt + p.LongDebt) - p.Cash
	if p.Equity > 0 {
		v := p.NetDebt / p.Equity * 100
		p.DebtEquity = &v
	}
	if p.Sales > 0 {
		er := p.EBITDA / p.Sales * 100
		pm := p.Profit / p.Sales * 100
		p.EBITDARate = &er
		p.ProfitMargin = &pm
	}
	if p.Assets > 0 {
		v := p.Equity / p.Assets * 100
		p.EquityRatio = &v
	}

	return p
}

// rankTeams 按取值函数降序排列队伍（并列保持枚举顺序）
func rankTeams(teams []string, profiles map[string]*gapProfile, value func(*gapProfile) float64) []string {
	ordered := append([]string{}, teams...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return value(profiles[ordered[i]]) > value(profiles[ordered[j]])
	})
	return ordered
}

func indexOf(teams []string, team string) int {
	for i, t := range teams {
		if t == team {
			return i
		}
	}
	return -1
}

// gapPercent 差距百分比
// 基准为正时用基准，否则回退目标值，两者都非正时记 0。
func gapPercent(gap, base, fallback float64) float64 {
	switch {
	case base > 0:
		return gap / base * 100
	case fallback > 0:
		return gap / fallback * 100
	default:
		return 0
	}
}

// Gap 生成队伍差距对比分析报告（Markdown）
// 基于最新回合，对比目标队伍与 TOP3、行业均值的关键指标差距。
func Gap(result *analyzer.Result, team string) (string, error) {
	if !result.HasTeam(team) {
		return "", fmt.Errorf("队伍 %q 不存在，可选队伍: %s", team, strings.Join(result.Teams, ", "))
	}

	latest := result.Resolver(result.LatestRound)
	profiles := make(map[string]*gapProfile, len(result.Teams))
	for _, t := range result.Teams {
		profiles[t] = gapProfileOf(latest, t)
	}
	target := profiles[team]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s 与其他队伍差距对比分析报告\n\n", team))
	b.WriteString(fmt.Sprintf("生成时间：%s\n\n", result.GeneratedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("分析回合：%s\n\n", strings.ToUpper(result.LatestRound)))
	b.WriteString(strings.Repeat("=", 80) + "\n")

	// 一、整体排名对比
	b.WriteString("\n## 一、整体排名对比\n\n")

	salesRanking := rankTeams(result.Teams, profiles, func(p *gapProfile) float64 { return p.Sales })
	salesRank := indexOf(salesRanking, team) + 1
	b.WriteString("### 1.1 销售额排名\n\n")
	b.WriteString(fmt.Sprintf("- **%s排名**：第%d位 / 共%d支队伍\n", team, salesRank, len(result.Teams)))
	b.WriteString(fmt.Sprintf("- **销售额**：%s\n", util.FormatK(target.Sales)))
	if salesRank > 1 {
		ahead := salesRanking[salesRank-2]
		b.WriteString(fmt.Sprintf("- **距离上一名差距**：%s（%s）\n", util.FormatK(profiles[ahead].Sales-target.Sales), ahead))
	}
	if salesRank < len(result.Teams) {
		behind := salesRanking[salesRank]
		b.WriteString(fmt.Sprintf("- **领先下一名优势**：%s（%s）\n", util.FormatK(target.Sales-profiles[behind].Sales), behind))
	}

	profitRanking := rankTeams(result.Teams, profiles, func(p *gapProfile) float64 { return p.Profit })
	b.WriteString("\n### 1.2 净利润排名\n\n")
	b.WriteString(fmt.Sprintf("- **%s排名**：第%d位 / 共%d支队伍\n", team, indexOf(profitRanking, team)+1, len(result.Teams)))
	b.WriteString(fmt.Sprintf("- **净利润**：%s\n", util.FormatK(target.Profit)))

	cashRanking := rankTeams(result.Teams, profiles, func(p *gapProfile) float64 { return p.Cash })
	b.WriteString("\n### 1.3 现金储备排名\n\n")
	b.WriteString(fmt.Sprintf("- **%s排名**：第%d位 / 共%d支队伍\n", team, indexOf(cashRanking, team)+1, len(result.Teams)))
	b.WriteString(fmt.Sprintf("- **现金**：%s\n", util.FormatK(target.Cash)))

	// 二、与TOP3队伍详细对比
	top3 := salesRanking
	if len(top3) > 3 {
		top3 = top3[:3]
	}

	b.WriteString("\n## 二、与TOP3队伍详细对比\n\n")
	b.WriteString("| 指标 | " + team + " | " + strings.Join(top3, " | ") + " |\n")
	b.WriteString("|------|" + strings.Repeat("------|", len(top3)+1) + "\n")

	type gapRow struct {
		name  string
		value func(*gapProfile) (float64, bool)
		unit  string
	}
	rows := []gapRow{
		{"销售额", func(p *gapProfile) (float64, bool) { return p.Sales, true }, "k"},
		{"净利润", func(p *gapProfile) (float64, bool) { return p.Profit, true }, "k"},
		{"现金", func(p *gapProfile) (float64, bool) { return p.Cash, true }, "k"},
		{"权益合计", func(p *gapProfile) (float64, bool) { return p.Equity, true }, "k"},
		{"EBITDA", func(p *gapProfile) (float64, bool) { return p.EBITDA, true }, "k"},
		{"EBITDA率", func(p *gapProfile) (float64, bool) { return deref(p.EBITDARate) }, "%"},
		{"净利润率", func(p *gapProfile) (float64, bool) { return deref(p.ProfitMargin) }, "%"},
		{"净债务权益比", func(p *gapProfile) (float64, bool) { return deref(p.DebtEquity) }, "%"},
		{"权益比率", func(p *gapProfile) (float64, bool) { return deref(p.EquityRatio) }, "%"},
	}

	for _, row := range rows {
		v, ok := row.value(target)
		cells := []string{gapCell(v, ok, row.unit)}
		for _, t := range top3 {
			v, ok = row.value(profiles[t])
			cells = append(cells, gapCell(v, ok, row.unit))
		}
		b.WriteString(fmt.Sprintf("| %s | %s |\n", row.name, strings.Join(cells, " | ")))
	}

	// 三、关键差距分析
	b.WriteString("\n## 三、关键差距分析\n\n")

	top1 := top3[0]
	leader := profiles[top1]
	salesGap := leader.Sales - target.Sales
	b.WriteString(fmt.Sprintf("### 3.1 与第1名（%s）的差距\n\n", top1))
	b.WriteString(fmt.Sprintf("- **销售额差距**：%s（差距%.1f%%）\n", util.FormatK(salesGap), gapPercent(salesGap, leader.Sales, 0)))
	profitGap := leader.Profit - target.Profit
	b.WriteString(fmt.Sprintf("- **净利润差距**：%s（差距%.1f%%）\n", util.FormatK(profitGap), gapPercent(profitGap, leader.Profit, target.Profit)))
	cashGap := leader.Cash - target.Cash
	b.WriteString(fmt.Sprintf("- **现金差距**：%s（差距%.1f%%）\n", util.FormatK(cashGap), gapPercent(cashGap, leader.Cash, 0)))

	b.WriteString("\n### 3.2 与行业均值对比\n\n")
	avgSales := averageOf(result.Teams, profiles, func(p *gapProfile) float64 { return p.Sales })
	avgProfit := averageOf(result.Teams, profiles, func(p *gapProfile) float64 { return p.Profit })
	avgCash := averageOf(result.Teams, profiles, func(p *gapProfile) float64 { return p.Cash })

	b.WriteString(fmt.Sprintf("- **销售额**：%s（行业均值：%s，%s）\n",
		util.FormatK(target.Sales), util.FormatK(avgSales), util.FormatSignedPercent(gapPercent(target.Sales-avgSales, avgSales, 0))))
	b.WriteString(fmt.Sprintf("- **净利润**：%s（行业均值：%s，%s）\n",
		util.FormatK(target.Profit), util.FormatK(avgProfit), util.FormatSignedPercent(gapPercent(target.Profit-avgProfit, avgProfit, target.Profit))))
	b.WriteString(fmt.Sprintf("- **现金**：%s（行业均值：%s，%s）\n",
		util.FormatK(target.Cash), util.FormatK(avgCash), util.FormatSignedPercent(gapPercent(target.Cash-avgCash, avgCash, 0))))

	// 四、多回合趋势对比
	b.WriteString("\n## 四、多回合趋势对比\n\n")
	if len(result.Rounds) > 1 {
		b.WriteString("### 4.1 销售额趋势对比\n\n")
		b.WriteString("| 队伍 | " + strings.Join(upperAll(result.Rounds), " | ") + " |\n")
		b.WriteString("|------|" + strings.Repeat("------|", len(result.Rounds)) + "\n")

		display := []string{team}
		for _, t := range top3 {
			if t != team {
				display = append(display, t)
			}
		}
		for _, t := range display {
			values := []string{}
			for _, round := range result.Rounds {
				values = append(values, util.FormatK(result.Resolver(round).ConceptOr(t, "销售额", 0)))
			}
			b.WriteString(fmt.Sprintf("| %s | %s |\n", t, strings.Join(values, " | ")))
		}
	} else {
		b.WriteString("仅有单回合数据，暂无趋势对比\n")
	}

	// 五、改进建议
	b.WriteString("\n## 五、改进建议\n\n")
	b.WriteString("### 5.1 关键改进方向\n\n")
	if salesRank > 3 {
		b.WriteString(fmt.Sprintf("1. **提升销售额**：当前排名第%d位，需要提升%s才能追上第1名\n", salesRank, util.FormatK(salesGap)))
	}
	if target.EBITDARate != nil && *target.EBITDARate < 20 {
		b.WriteString("2. **提升盈利能力**：EBITDA率较低，需要优化成本结构或提升定价\n")
	}
	if target.Cash < 300000 {
		b.WriteString("3. **增加现金储备**：现金储备不足，建议保留更多现金缓冲\n")
	}
	if target.DebtEquity != nil && *target.DebtEquity > 30 {
		b.WriteString("4. **优化债务结构**：净债务/权益比较高，建议降低负债或增加权益\n")
	}

	b.WriteString("\n### 5.2 学习对象\n\n")
	b.WriteString(fmt.Sprintf("- **销售额标杆**：%s（%s）\n", top1, util.FormatK(leader.Sales)))
	profitLeader := profitRanking[0]
	b.WriteString(fmt.Sprintf("- **盈利能力标杆**：%s（净利润%s）\n", profitLeader, util.FormatK(profiles[profitLeader].Profit)))
	cashLeader := cashRanking[0]
	b.WriteString(fmt.Sprintf("- **现金管理标杆**：%s（现金%s）\n", cashLeader, util.FormatK(profiles[cashLeader].Cash)))

	return b.String(), nil
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// gapCell 对比表单元格：金额按千元，比率一位小数，无值 N/A
func gapCell(value float64, ok bool, unit string) string {
	if !ok {
		return "N/A"
	}
	if unit == "k" {
		return util.FormatK(value)
	}
	return fmt.Sprintf("%.1f%%", value)
}

func averageOf(teams []string, profiles map[string]*gapProfile, value func(*gapProfile) float64) float64 {
	if len(teams) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range teams {
		sum += value(profiles[t])
	}
	return sum / float64(len(teams))
}
