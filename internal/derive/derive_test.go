package derive

import (
	"math"
	"testing"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

var teams = []string{"Alpha", "Beta", "Gamma"}

func buildResolver(metrics map[string]map[string]*float64) *resolver.Resolver {
	store := model.NewMetricStore()
	for _, name := range []string{"销售额", "净利润", "现金", "权益合计"} {
		if vals, ok := metrics[name]; ok {
			tv := model.TeamValues{}
			for team, v := range vals {
				tv[team] = v
			}
			store.Add(name, tv)
		}
	}
	return resolver.New(store, nil)
}

// TestCompute_Aggregates 行业均值、中位数与总体标准差
func TestCompute_Aggregates(t *testing.T) {
	cur := buildResolver(map[string]map[string]*float64{
		"销售额": {"Alpha": model.Float(100), "Beta": model.Float(200), "Gamma": model.Float(300)},
	})

	d := New().Compute(cur, nil, nil, teams)

	if got := d.Scalars["销售额_行业均值"]; got != 200 {
		t.Errorf("均值错误: %v", got)
	}
	if got := d.Scalars["销售额_行业中位数"]; got != 200 {
		t.Errorf("中位数错误: %v", got)
	}
	// 总体标准差 sqrt(((100-200)^2+(0)^2+(100)^2)/3)
	want := math.Sqrt(20000.0 / 3.0)
	if got := d.Scalars["销售额_行业标准差"]; math.Abs(got-want) > 1e-9 {
		t.Errorf("标准差错误: got %v want %v", got, want)
	}
}

// TestCompute_Rankings 降序排名，并列按队伍枚举顺序，名次不共享
func TestCompute_Rankings(t *testing.T) {
	cur := buildResolver(map[string]map[string]*float64{
		"销售额": {"Alpha": model.Float(100), "Beta": model.Float(300), "Gamma": model.Float(300)},
	})

	d := New().Compute(cur, nil, nil, teams)
	rankings := d.Ranking("销售额")

	if rankings["Beta"] != 1 || rankings["Gamma"] != 2 || rankings["Alpha"] != 3 {
		t.Errorf("排名错误: %v", rankings)
	}
}

// TestCompute_Growth 环比增长：上期缺失或为零时不计算
func TestCompute_Growth(t *testing.T) {
	prev := buildResolver(map[string]map[string]*float64{
		"销售额": {"Alpha": model.Float(200), "Beta": model.Float(0), "Gamma": nil},
	})
	cur := buildResolver(map[string]map[string]*float64{
		"销售额": {"Alpha": model.Float(300), "Beta": model.Float(100), "Gamma": model.Float(50)},
	})

	d := New().Compute(cur, prev, nil, teams)

	if g, ok := d.Growth("销售额", "Alpha"); !ok || g != 50 {
		t.Errorf("增长率错误: %v, %v", g, ok)
	}
	if _, ok := d.Growth("销售额", "Beta"); ok {
		t.Error("上期为零不应计算增长率")
	}
	if _, ok := d.Growth("销售额", "Gamma"); ok {
		t.Error("上期缺失不应计算增长率")
	}
}

// TestCompute_GrowthNegativeBase 负基数时按绝对值计算
func TestCompute_GrowthNegativeBase(t *testing.T) {
	prev := buildResolver(map[string]map[string]*float64{
		"净利润": {"Alpha": model.Float(-100)},
	})
	cur := buildResolver(map[string]map[string]*float64{
		"净利润": {"Alpha": model.Float(50)},
	})

	d := New().Compute(cur, prev, nil, []string{"Alpha"})

	// (50 - (-100)) / |-100| * 100 = 150
	if g, ok := d.Growth("净利润", "Alpha"); !ok || g != 150 {
		t.Errorf("负基数增长率错误: %v", g)
	}
}

// TestCompute_RankDelta 排名变化仅对两回合均有排名的队伍计算
func TestCompute_RankDelta(t *testing.T) {
	e := New()

	prevRes := buildResolver(map[string]map[string]*float64{
		"销售额": {"Alpha": model.Float(300), "Beta": model.Float(200), "Gamma": model.Float(100)},
	})
	prevDerived := e.Compute(prevRes, nil, nil, teams)

	cur := buildResolver(map[string]map[string]*float64{
		"销售额": {"Alpha": model.Float(100), "Beta": model.Float(200)},
	})
	d := e.Compute(cur, prevRes, prevDerived, teams)

	delta := d.RankDelta["销售额_排名变化"]
	// Alpha 从第1掉到第2，正数表示下滑
	if delta["Alpha"] != 1 {
		t.Errorf("Alpha 排名变化错误: %v", delta["Alpha"])
	}
	if delta["Beta"] != -1 {
		t.Errorf("Beta 排名变化错误: %v", delta["Beta"])
	}
	if _, ok := delta["Gamma"]; ok {
		t.Error("本期无排名的队伍不应计算排名变化")
	}
}

// TestCompute_Deviation 战略偏离度：行业均值为零时跳过
func TestCompute_Deviation(t *testing.T) {
	cur := buildResolver(map[string]map[string]*float64{
		"销售额": {"Alpha": model.Float(100), "Beta": model.Float(300)},
		"净利润": {"Alpha": model.Float(-50), "Beta": model.Float(50)},
	})

	d := New().Compute(cur, nil, nil, []string{"Alpha", "Beta"})

	dev := d.TeamVals["销售额_战略偏离度"]
	// 均值 200，|100-200|/200*100 = 50
	if dev["Alpha"] != 50 {
		t.Errorf("偏离度错误: %v", dev["Alpha"])
	}

	// 净利润均值为 0，跳过
	if _, ok := d.TeamVals["净利润_战略偏离度"]; ok {
		t.Error("均值为零不应计算偏离度")
	}
}

// TestCompute_NoData 无数据时输出为空结构而非 nil
func TestCompute_NoData(t *testing.T) {
	cur := buildResolver(nil)
	d := New().Compute(cur, nil, nil, teams)

	if d == nil {
		t.Fatal("输出不应为 nil")
	}
	if len(d.Scalars) != 0 || len(d.Rankings) != 0 {
		t.Errorf("无数据时应为空集合: %+v", d)
	}
}
