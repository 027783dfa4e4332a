package report

import (
	"strings"
	"testing"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

// TestIndicatorCell 指标值按语义格式化
func TestIndicatorCell(t *testing.T) {
	cases := []struct {
		name string
		ind  model.HealthIndicator
		want string
	}{
		{model.IndicatorCash, model.HealthIndicator{Value: model.Float(350000)}, "$350k"},
		{model.IndicatorDebtEquity, model.HealthIndicator{Value: model.Float(45.67)}, "45.7%"},
		{model.IndicatorEBITDARate, model.HealthIndicator{Value: model.Float(25.0)}, "25.0%"},
		{model.IndicatorEquityRate, model.HealthIndicator{}, "N/A"},
	}

	for _, tc := range cases {
		if got := indicatorCell(tc.name, tc.ind); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

// TestAggressivenessCell 无定义激进度标记为极端激进
func TestAggressivenessCell(t *testing.T) {
	if got := aggressivenessCell(model.Aggressiveness{Value: 75}); got != "75.0%" {
		t.Errorf("正常值格式错误: %q", got)
	}
	if got := aggressivenessCell(model.Aggressiveness{Undefined: true}); !strings.Contains(got, "极端激进") {
		t.Errorf("无定义应标记极端激进: %q", got)
	}
}

// TestQuadrant 竞争矩阵象限标签
func TestQuadrant(t *testing.T) {
	cases := []struct {
		pos  model.CompetitivePosition
		want string
	}{
		{model.CompetitivePosition{Financial: model.Aggressiveness{Value: 80}, Tech: 15}, "高财务×高技术"},
		{model.CompetitivePosition{Financial: model.Aggressiveness{Value: 20}, Tech: 5}, "低财务×低技术"},
		{model.CompetitivePosition{Financial: model.Aggressiveness{Undefined: true}, Tech: 15}, "极端激进×高技术"},
	}

	for _, tc := range cases {
		if got := quadrant(&tc.pos); got != tc.want {
			t.Errorf("got %q want %q", got, tc.want)
		}
	}
}

// TestAllocationOrder 资源分配固定展示顺序
func TestAllocationOrder(t *testing.T) {
	allocation := map[string]int{"现金保留": 20, "扩产": 60, "研发": 20}
	got := allocationOrder(allocation)

	want := []string{"扩产", "研发", "现金保留"}
	if len(got) != len(want) {
		t.Fatalf("数量错误: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("第 %d 项: got %s want %s", i, got[i], want[i])
		}
	}
}
