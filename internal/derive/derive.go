package derive

import (
	"math"
	"sort"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

// Engine 衍生指标计算引擎
// 对每个回合计算行业统计量、排名、环比增长、排名变化与战略偏离度。
type Engine struct {
	aggregateMetrics []string // 参与行业统计量的基础指标
	rankedMetrics    []string // 参与排名/增长/偏离度的基础指标
}

// New 创建引擎（基础指标集合来自方法论第二章）
func New() *Engine {
	return &Engine{
		aggregateMetrics: []string{"销售额", "净利润", "现金", "权益合计"},
		rankedMetrics:    []string{"销售额", "净利润", "现金"},
	}
}

// Compute 计算单回合的衍生指标
// prev 与 prevDerived 为紧邻上一回合的解析器与衍生指标；初始回合传 nil。
// 回合必须按时间顺序逐个计算，本函数只读输入，输出为全新结构。
func (e *Engine) Compute(cur *resolver.Resolver, prev *resolver.Resolver, prevDerived *model.DerivedMetrics, teams []string) *model.DerivedMetrics {
	derived := model.NewDerivedMetrics()

	// 行业统计量
	for _, metric := range e.aggregateMetrics {
		values := []float64{}
		for _, team := range teams {
			if v := cur.Concept(team, metric); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) == 0 {
			continue
		}
		derived.Scalars[metric+"_行业均值"] = mean(values)
		derived.Scalars[metric+"_行业中位数"] = median(values)
		derived.Scalars[metric+"_行业标准差"] = stddev(values)
	}

	// 排名：降序，并列时保持队伍枚举顺序，名次依次递增不共享
	for _, metric := range e.rankedMetrics {
		type teamValue struct {
			team  string
			value float64
		}
		pairs := []teamValue{}
		for _, team := range teams {
			if v := cur.Concept(team, metric); v != nil {
				pairs = append(pairs, teamValue{team, *v})
			}
		}
		if len(pairs) == 0 {
			continue
		}
		sort.SliceStable(pairs, func(i, j int) bool {
			return pairs[i].value > pairs[j].value
		})
		rankings := make(map[string]int, len(pairs))
		for i, p := range pairs {
			rankings[p.team] = i + 1
		}
		derived.Rankings[metric+"_排名"] = rankings
	}

	// 环比增长：双方都有值且上期非零才计算，杜绝除零传播
	if prev != nil {
		for _, metric := range e.rankedMetrics {
			growth := map[string]float64{}
			for _, team := range teams {
				current := cur.Concept(team, metric)
				previous := prev.Concept(team, metric)
				if current == nil || previous == nil || *previous == 0 {
					continue
				}
				growth[team] = (*current - *previous) / math.Abs(*previous) * 100
			}
			if len(growth) > 0 {
				derived.TeamVals[metric+"_环比增长"] = growth
			}
		}
	}

	// 排名变化：仅对两回合均有排名的队伍计算，正数表示名次下滑
	if prevDerived != nil {
		for _, metric := range e.rankedMetrics {
			currentRankings := derived.Ranking(metric)
			previousRankings := prevDerived.Ranking(metric)
			if len(currentRankings) == 0 || len(previousRankings) == 0 {
				continue
			}
			changes := map[string]int{}
			for _, team := range teams {
				currentRank, okCur := currentRankings[team]
				previousRank, okPrev := previousRankings[team]
				if !okCur || !okPrev {
					continue
				}
				changes[team] = currentRank - previousRank
			}
			if len(changes) > 0 {
				derived.RankDelta[metric+"_排名变化"] = changes
			}
		}
	}

	// 战略偏离度：自身指标相对行业均值的偏离程度
	for _, metric := range e.rankedMetrics {
		industryMean, ok := derived.Scalars[metric+"_行业均值"]
		if !ok || industryMean == 0 {
			continue
		}
		deviations := map[string]float64{}
		for _, team := range teams {
			if v := cur.Concept(team, metric); v != nil {
				deviations[team] = math.Abs(*v-industryMean) / math.Abs(industryMean) * 100
			}
		}
		if len(deviations) > 0 {
			derived.TeamVals[metric+"_战略偏离度"] = deviations
		}
	}

	return derived
}

// mean 算术平均
func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// median 中位数
func median(values []float64) float64 {
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stddev 总体标准差
func stddev(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
