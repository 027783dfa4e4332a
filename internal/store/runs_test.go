package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rhmoon-github/cesimAnalyze/internal/analyzer"
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "cesim.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testResult() *analyzer.Result {
	return &analyzer.Result{
		GeneratedAt: time.Now(),
		Rounds:      []string{"ir00", "pr01"},
		LatestRound: "pr01",
		Teams:       []string{"Blue", "Black"},
		Health: map[string]*model.HealthRecord{
			"Blue": {
				Team:        "Blue",
				RedCount:    1,
				YellowCount: 2,
				Indicators: map[string]model.HealthIndicator{
					model.IndicatorCash:       {Value: model.Float(400000)},
					model.IndicatorDebtEquity: {Value: model.Float(-50)},
					model.IndicatorEBITDARate: {Value: model.Float(25)},
				},
			},
			"Black": {
				Team:       "Black",
				RedCount:   4,
				Indicators: map[string]model.HealthIndicator{},
			},
		},
	}
}

// TestSaveRun_RoundTrip 保存并读回运行记录
func TestSaveRun_RoundTrip(t *testing.T) {
	st := newTestStore(t)

	id, err := st.SaveRun(testResult(), "# 测试报告")
	if err != nil {
		t.Fatalf("save run: %v", err)
	}
	if id == "" {
		t.Fatal("运行 ID 不应为空")
	}

	runs, err := st.ListRuns(10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("记录数量错误: %d", len(runs))
	}
	run := runs[0]
	if run.ID != id || run.LatestRound != "pr01" || run.TeamCount != 2 {
		t.Errorf("记录内容错误: %+v", run)
	}
	if len(run.Rounds) != 2 || run.Rounds[0] != "ir00" {
		t.Errorf("回合列表错误: %v", run.Rounds)
	}

	report, err := st.GetRunReport(id)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if report != "# 测试报告" {
		t.Errorf("报告内容错误: %q", report)
	}
}

// TestGetTeamHealth 健康度快照含空值列
func TestGetTeamHealth(t *testing.T) {
	st := newTestStore(t)

	id, err := st.SaveRun(testResult(), "")
	if err != nil {
		t.Fatalf("save run: %v", err)
	}

	rows, err := st.GetTeamHealth(id)
	if err != nil {
		t.Fatalf("get team health: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("快照数量错误: %d", len(rows))
	}

	// 按队伍名排序：Black 在前
	black := rows[0]
	if black.Team != "Black" || black.RedCount != 4 {
		t.Errorf("Black 快照错误: %+v", black)
	}
	if black.Cash != nil {
		t.Errorf("无指标的队伍现金列应为 NULL: %v", *black.Cash)
	}

	blue := rows[1]
	if blue.Cash == nil || *blue.Cash != 400000 {
		t.Errorf("Blue 现金错误: %+v", blue)
	}
	if blue.DebtEquity == nil || *blue.DebtEquity != -50 {
		t.Errorf("Blue 负债比错误: %+v", blue)
	}
}

// TestGetRunReport_NotFound 不存在的记录返回错误
func TestGetRunReport_NotFound(t *testing.T) {
	st := newTestStore(t)

	if _, err := st.GetRunReport("no-such-id"); err == nil {
		t.Error("不存在的记录应返回错误")
	}
}
