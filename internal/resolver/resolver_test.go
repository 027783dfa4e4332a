package resolver

import (
	"testing"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

var testPriorities = map[string][]string{
	"销售额": {"销售额合计", "本地销售额", "销售额"},
	"现金":  {"现金及等价物", "现金 31.12.", "现金"},
}

func buildStore(rows map[string]model.TeamValues, order []string) *model.MetricStore {
	store := model.NewMetricStore()
	for _, name := range order {
		store.Add(name, rows[name])
	}
	return store
}

// TestValue_SubstringMatch 子串匹配按源表行序取第一个命中
func TestValue_SubstringMatch(t *testing.T) {
	store := buildStore(map[string]model.TeamValues{
		"长期贷款利息": {"Alpha": model.Float(10)},
		"长期贷款":   {"Alpha": model.Float(500)},
	}, []string{"长期贷款利息", "长期贷款"})

	r := New(store, nil)

	// "长期贷款" 是 "长期贷款利息" 的子串，先出现的行命中
	if v := r.Value("Alpha", "长期贷款"); v == nil || *v != 10 {
		t.Errorf("子串匹配应按行序取第一个命中: %v", v)
	}
	if v := r.Value("Alpha", "不存在的指标"); v != nil {
		t.Errorf("无匹配应返回 nil: %v", *v)
	}
}

// TestValueAny_PriorityOrder 候选列表命中但无值时继续尝试下一候选
func TestValueAny_PriorityOrder(t *testing.T) {
	store := buildStore(map[string]model.TeamValues{
		"销售额合计": {"Alpha": nil},
		"本地销售额": {"Alpha": model.Float(900)},
	}, []string{"销售额合计", "本地销售额"})

	r := New(store, testPriorities)

	if v := r.Concept("Alpha", "销售额"); v == nil || *v != 900 {
		t.Errorf("首候选为空值时应回退下一候选: %v", v)
	}
}

// TestConcept_UnregisteredFallsBack 未登记概念退化为单名称匹配
func TestConcept_UnregisteredFallsBack(t *testing.T) {
	store := buildStore(map[string]model.TeamValues{
		"净利润": {"Alpha": model.Float(123)},
	}, []string{"净利润"})

	r := New(store, testPriorities)

	if v := r.Concept("Alpha", "净利润"); v == nil || *v != 123 {
		t.Errorf("未登记概念应单名称匹配: %v", v)
	}
	if got := r.ConceptOr("Alpha", "现金", -1); got != -1 {
		t.Errorf("缺失概念应返回默认值: %v", got)
	}
}

// TestEBITDA_Fallback EBITDA 缩写缺失时回退完整标签，命中空值按 0
func TestEBITDA_Fallback(t *testing.T) {
	store := buildStore(map[string]model.TeamValues{
		"息税折旧及摊销前利润": {"Alpha": model.Float(250000), "Beta": nil},
	}, []string{"息税折旧及摊销前利润"})

	r := New(store, nil)

	if got := r.EBITDA("Alpha"); got != 250000 {
		t.Errorf("完整标签回退失败: %v", got)
	}
	if got := r.EBITDA("Beta"); got != 0 {
		t.Errorf("命中但空值应按 0: %v", got)
	}
	if got := r.EBITDA("Gamma"); got != 0 {
		t.Errorf("无数据应按 0: %v", got)
	}
}

// TestEBITDA_PreferAbbrev 缩写标签优先于完整标签
func TestEBITDA_PreferAbbrev(t *testing.T) {
	store := buildStore(map[string]model.TeamValues{
		"EBITDA":     {"Alpha": model.Float(100)},
		"息税折旧及摊销前利润": {"Alpha": model.Float(999)},
	}, []string{"EBITDA", "息税折旧及摊销前利润"})

	r := New(store, nil)

	if got := r.EBITDA("Alpha"); got != 100 {
		t.Errorf("应优先缩写标签: %v", got)
	}
}
