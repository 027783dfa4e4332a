package resolver

import (
	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

// EBITDA 指标的完整标签（部分结果文件不带缩写）
const ebitdaFullLabel = "息税折旧及摊销前利润"

// Resolver 指标解析器
// 在单回合指标存储上做子串匹配取值，并集中管理标准指标的候选标签优先级表，
// 以容忍不同回合结果文件之间的标签漂移。
type Resolver struct {
	store      *model.MetricStore
	priorities map[string][]string
}

// New 创建解析器
// priorities 为 标准指标 -> 候选标签列表；未登记的指标按单名称子串匹配。
func New(store *model.MetricStore, priorities map[string][]string) *Resolver {
	return &Resolver{
		store:      store,
		priorities: priorities,
	}
}

// Store 返回底层指标存储
func (r *Resolver) Store() *model.MetricStore {
	return r.store
}

// Value 单名称取值
// 取第一个名称包含 name 的指标（按源表行序），返回该指标下 team 的值；
// 无匹配指标或该队伍无值时返回 nil。匹配为区分大小写的子串匹配。
func (r *Resolver) Value(team, name string) *float64 {
	vals, ok := r.store.FindContains(name)
	if !ok {
		return nil
	}
	return vals[team]
}

// ValueAny 依候选列表顺序取值
// 返回第一个解析出非空值的候选；候选命中指标但该队伍无值时继续尝试下一个。
func (r *Resolver) ValueAny(team string, names ...string) *float64 {
	for _, name := range names {
		vals, ok := r.store.FindContains(name)
		if !ok {
			continue
		}
		if v, exists := vals[team]; exists && v != nil {
			return v
		}
	}
	return nil
}

// Concept 按标准指标概念取值
// 登记过优先级列表的概念（销售额、净利润、现金、短期贷款、长期贷款）
// 依列表顺序匹配，其余概念退化为单名称匹配。
func (r *Resolver) Concept(team, concept string) *float64 {
	if list, ok := r.priorities[concept]; ok {
		return r.ValueAny(team, list...)
	}
	return r.Value(team, concept)
}

// ConceptOr 按概念取值，缺失时返回默认值
func (r *Resolver) ConceptOr(team, concept string, def float64) float64 {
	if v := r.Concept(team, concept); v != nil {
		return *v
	}
	return def
}

// ValueOr 单名称取值，缺失时返回默认值
func (r *Resolver) ValueOr(team, name string, def float64) float64 {
	if v := r.Value(team, name); v != nil {
		return *v
	}
	return def
}

// EBITDA 取 EBITDA 值
// 优先匹配缩写标签，缺失时回退完整标签；命中但为空的单元格按 0 处理。
func (r *Resolver) EBITDA(team string) float64 {
	v := r.Value(team, "EBITDA")
	if v == nil {
		v = r.Value(team, ebitdaFullLabel)
	}
	if v == nil {
		return 0
	}
	return *v
}
