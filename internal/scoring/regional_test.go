package scoring

import (
	"testing"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

var testRegions = []string{"美国", "亚洲"}

// TestRegionalMarket_ShareAndRank 份额与排名只统计有销售额的队伍
func TestRegionalMarket_ShareAndRank(t *testing.T) {
	metrics := map[string]model.TeamValues{
		"在美国销售": {"A": model.Float(600000), "B": model.Float(400000), "C": model.Float(0)},
		"在亚洲销售": {"A": model.Float(100000)},
	}
	cur := buildResolver(metrics, []string{"在美国销售", "在亚洲销售"})

	perf := testEngine().RegionalMarket(cur, nil, testRegions, []string{"A", "B", "C"})

	us := perf["A"]["美国"]
	if us.MarketShare == nil || *us.MarketShare != 60 || us.Rank != 1 {
		t.Errorf("A 美国表现错误: %+v", us)
	}
	if perf["B"]["美国"].Rank != 2 {
		t.Errorf("B 排名错误: %+v", perf["B"]["美国"])
	}

	// 销售额为 0：无份额无排名
	c := perf["C"]["美国"]
	if c.MarketShare != nil || c.Rank != 0 {
		t.Errorf("零销售额不应有份额与排名: %+v", c)
	}
	if len(c.Suggestions) != 0 {
		t.Errorf("零销售额不应有建议: %+v", c)
	}
}

// TestRegionalMarket_Trend 趋势按上一回合增长率 ±10% 判定
func TestRegionalMarket_Trend(t *testing.T) {
	prev := buildResolver(map[string]model.TeamValues{
		"在美国销售": {"Up": model.Float(100000), "Down": model.Float(100000), "Flat": model.Float(100000), "New": model.Float(0)},
	}, []string{"在美国销售"})
	cur := buildResolver(map[string]model.TeamValues{
		"在美国销售": {"Up": model.Float(120000), "Down": model.Float(80000), "Flat": model.Float(105000), "New": model.Float(50000)},
	}, []string{"在美国销售"})

	perf := testEngine().RegionalMarket(cur, prev, []string{"美国"}, []string{"Up", "Down", "Flat", "New"})

	cases := map[string]string{
		"Up":   TrendGrowing,
		"Down": TrendFalling,
		"Flat": TrendStable,
		"New":  TrendEntered,
	}
	for team, want := range cases {
		if got := perf[team]["美国"].Trend; got != want {
			t.Errorf("%s 趋势错误: got %v want %v", team, got, want)
		}
	}
}

// TestRegionSuggestions 排名区间与趋势组合建议
func TestRegionSuggestions(t *testing.T) {
	cases := []struct {
		rank  int
		trend string
		want  string
	}{
		{1, TrendGrowing, "巩固优势，考虑提价"},
		{3, TrendStable, "增加功能或广告投入"},
		{2, TrendFalling, "分析原因，调整策略"},
		{5, TrendGrowing, "加大投入，抢占份额"},
		{8, TrendFalling, "评估退出或差异化"},
		{9, TrendStable, "退出或大幅调整策略"},
	}

	for _, tc := range cases {
		got := regionSuggestions(100000, tc.rank, tc.trend)
		if len(got) != 1 || got[0] != tc.want {
			t.Errorf("rank=%d trend=%s: got %v want %q", tc.rank, tc.trend, got, tc.want)
		}
	}

	// 4-8 名稳定趋势无建议
	if got := regionSuggestions(100000, 5, TrendStable); len(got) != 0 {
		t.Errorf("4-8名稳定不应有建议: %v", got)
	}
}

// TestDetectRegionEntry 从零跃升到 10k 以上记为新进入
func TestDetectRegionEntry(t *testing.T) {
	r1 := buildResolver(map[string]model.TeamValues{
		"在美国销售": {"T": model.Float(500000)},
	}, []string{"在美国销售"})
	r2 := buildResolver(map[string]model.TeamValues{
		"在美国销售": {"T": model.Float(600000)},
		"在亚洲销售": {"T": model.Float(50000)},
	}, []string{"在美国销售", "在亚洲销售"})

	resolvers := map[string]*resolver.Resolver{"pr01": r1, "pr02": r2}
	entries := testEngine().DetectRegionEntry([]string{"pr01", "pr02"}, resolvers, testRegions, []string{"T"})["T"]

	// 美国首回合已有销售额，不算进入；亚洲 0 -> 50k 记进入
	if len(entries) != 1 {
		t.Fatalf("进入记录数量错误: %+v", entries)
	}
	if entries[0].Region != "亚洲" || entries[0].Round != "pr02" || entries[0].Sales != 50000 {
		t.Errorf("进入记录错误: %+v", entries[0])
	}
}

// TestDetectRegionEntry_BelowThreshold 低于 10k 的跃升不记
func TestDetectRegionEntry_BelowThreshold(t *testing.T) {
	r1 := buildResolver(map[string]model.TeamValues{}, nil)
	r2 := buildResolver(map[string]model.TeamValues{
		"在美国销售": {"T": model.Float(8000)},
	}, []string{"在美国销售"})

	resolvers := map[string]*resolver.Resolver{"pr01": r1, "pr02": r2}
	entries := testEngine().DetectRegionEntry([]string{"pr01", "pr02"}, resolvers, []string{"美国"}, []string{"T"})["T"]

	if len(entries) != 0 {
		t.Errorf("低于阈值不应记进入: %+v", entries)
	}
}
