package model

import "strings"

// TeamValues 单个指标在各队伍上的取值
// 值为 nil 表示单元格存在但不是有效数字；键不存在表示该队伍没有对应列。
// 两种情况对下游都按"无数据"处理。
type TeamValues map[string]*float64

// MetricStore 单回合的指标存储
// 按源文件行序保存 指标名 -> 各队伍取值，构建完成后只读。
type MetricStore struct {
	names  []string
	values map[string]TeamValues
}

// NewMetricStore 创建空的指标存储
func NewMetricStore() *MetricStore {
	return &MetricStore{
		names:  []string{},
		values: make(map[string]TeamValues),
	}
}

// Add 追加一个指标行
// 指标名重复时覆盖取值但保留首次出现的位置（与源表行序一致）。
func (s *MetricStore) Add(name string, vals TeamValues) {
	if _, ok := s.values[name]; !ok {
		s.names = append(s.names, name)
	}
	s.values[name] = vals
}

// Names 按插入顺序返回所有指标名
func (s *MetricStore) Names() []string {
	return s.names
}

// Get 按名称精确获取指标取值
func (s *MetricStore) Get(name string) (TeamValues, bool) {
	v, ok := s.values[name]
	return v, ok
}

// FindContains 返回第一个包含 keyword 的指标取值（按插入顺序扫描，区分大小写）
func (s *MetricStore) FindContains(keyword string) (TeamValues, bool) {
	for _, name := range s.names {
		if strings.Contains(name, keyword) {
			return s.values[name], true
		}
	}
	return nil, false
}

// Len 指标数量
func (s *MetricStore) Len() int {
	return len(s.names)
}

// DerivedMetrics 单回合衍生指标集合
// 键统一为 "{基础指标}_{类别}"，如 销售额_行业均值、现金_排名。
type DerivedMetrics struct {
	Scalars   map[string]float64            `json:"scalars"`   // 行业均值 / 行业中位数 / 行业标准差
	TeamVals  map[string]map[string]float64 `json:"teamVals"`  // 环比增长 / 战略偏离度
	Rankings  map[string]map[string]int     `json:"rankings"`  // 排名（1 为最佳）
	RankDelta map[string]map[string]int     `json:"rankDelta"` // 排名变化（正数表示排名下滑）
}

// NewDerivedMetrics 创建空的衍生指标集合
func NewDerivedMetrics() *DerivedMetrics {
	return &DerivedMetrics{
		Scalars:   make(map[string]float64),
		TeamVals:  make(map[string]map[string]float64),
		Rankings:  make(map[string]map[string]int),
		RankDelta: make(map[string]map[string]int),
	}
}

// Ranking 获取某个基础指标的排名表
func (d *DerivedMetrics) Ranking(metric string) map[string]int {
	return d.Rankings[metric+"_排名"]
}

// Growth 获取某队伍某指标的环比增长率
func (d *DerivedMetrics) Growth(metric, team string) (float64, bool) {
	m, ok := d.TeamVals[metric+"_环比增长"]
	if !ok {
		return 0, false
	}
	v, ok := m[team]
	return v, ok
}

// Rank 获取某队伍某指标的排名，无排名时返回 0
func (d *DerivedMetrics) Rank(metric, team string) int {
	m := d.Ranking(metric)
	if m == nil {
		return 0
	}
	return m[team]
}

// Float 浮点数指针辅助函数
func Float(v float64) *float64 {
	return &v
}
