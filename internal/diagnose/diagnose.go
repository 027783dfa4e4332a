package diagnose

import (
	"fmt"
	"math"
	"sort"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
	"github.com/rhmoon-github/cesimAnalyze/internal/resolver"
)

// 会计恒等式误差容忍度（百分比）
const (
	identityTolerance = 10
	identityExtreme   = 50
)

// 现金极端值边界
const (
	cashUpperBound = 1500000
	cashLowerBound = 5000
)

// ValidateIntegrity 数据完整性验证
// 对每个队伍校验会计恒等式 总资产 = 权益合计 + 负债合计，
// 相对误差严格大于 10% 时记为问题；任一输入缺失的队伍静默跳过。
func ValidateIntegrity(r *resolver.Resolver, teams []string) []model.IntegrityIssue {
	issues := []model.IntegrityIssue{}

	for _, team := range teams {
		assets := r.Value(team, "总资产")
		equity := r.Value(team, "权益合计")
		liability := r.ValueAny(team, "负债合计", "负债总计")

		if assets == nil || *assets <= 0 || equity == nil || liability == nil {
			continue
		}

		calculated := *equity + *liability
		errorRate := math.Abs(*assets-calculated) / math.Abs(*assets) * 100
		if errorRate <= identityTolerance {
			continue
		}

		status := "数据异常"
		if errorRate < identityExtreme {
			status = "需要人工核查"
		}
		issues = append(issues, model.IntegrityIssue{
			Team:       team,
			ErrorRate:  errorRate,
			Calculated: calculated,
			Actual:     *assets,
			Status:     status,
		})
	}

	return issues
}

// DetectAnomalies 异常值检测
// 现金超出 [5k, 1.5M] 记为现金极端值，负权益单独记录。
// 检测结果只上报，从不自动修正。
func DetectAnomalies(r *resolver.Resolver, teams []string) map[string][]model.Anomaly {
	anomalies := map[string][]model.Anomaly{}

	for _, team := range teams {
		cash := r.Concept(team, "现金")
		if cash != nil && *cash != 0 && (*cash > cashUpperBound || *cash < cashLowerBound) {
			anomalies[team] = append(anomalies[team], model.Anomaly{
				Type:  "现金极端值",
				Value: *cash,
				Rule:  ">$1.5M或<$5k",
			})
		}

		equity := r.Value(team, "权益合计")
		if equity != nil && *equity < 0 {
			anomalies[team] = append(anomalies[team], model.Anomaly{
				Type:  "负权益",
				Value: *equity,
				Rule:  "权益合计<0",
			})
		}
	}

	return anomalies
}

// ValidateLogic 逻辑一致性校验
// 用原始输入独立重算健康度指标并与存储值比对，
// 同时校验各回合销售额排名是从 1 开始且无重复的序列。
func ValidateLogic(r *resolver.Resolver, teams []string, health map[string]*model.HealthRecord, derivedByRound map[string]*model.DerivedMetrics, rounds []string) []model.LogicIssue {
	issues := []model.LogicIssue{}

	for _, team := range teams {
		record := health[team]
		if record == nil {
			continue
		}

		// 现金提取一致性
		cashStored := record.Indicators[model.IndicatorCash].Value
		cashDirect := r.ConceptOr(team, "现金", 0)
		if cashStored != nil && *cashStored != 0 && math.Abs(*cashStored-cashDirect) > 0.01 {
			issues = append(issues, model.LogicIssue{
				Type:        "数据不一致",
				Team:        team,
				Metric:      "现金",
				Description: fmt.Sprintf("健康度计算中的现金值(%v)与直接提取值(%v)不一致", *cashStored, cashDirect),
			})
		}

		// 净债务/权益比重算一致性
		equity := r.ValueOr(team, "权益合计", 0)
		shortDebt := r.ConceptOr(team, "短期贷款", 0)
		longDebt := r.ConceptOr(team, "长期贷款", 0)
		if equity > 0 {
			calculated := (shortDebt + longDebt - cashDirect) / equity * 100
			stored := record.Indicators[model.IndicatorDebtEquity].Value
			if stored != nil && math.Abs(calculated-*stored) > 0.1 {
				issues = append(issues, model.LogicIssue{
					Type:        "计算不一致",
					Team:        team,
					Metric:      model.IndicatorDebtEquity,
					Description: fmt.Sprintf("计算值(%.2f%%)与存储值(%.2f%%)不一致", calculated, *stored),
				})
			}
		}
	}

	// 排名必须是从 1 开始、无重复的序列
	for _, round := range rounds {
		derived := derivedByRound[round]
		if derived == nil {
			continue
		}
		rankings := derived.Ranking("销售额")
		if len(rankings) == 0 {
			continue
		}

		ranks := []int{}
		for _, rank := range rankings {
			ranks = append(ranks, rank)
		}
		sort.Ints(ranks)

		valid := ranks[0] == 1
		for i := 1; i < len(ranks); i++ {
			if ranks[i] == ranks[i-1] {
				valid = false
			}
		}
		if !valid {
			issues = append(issues, model.LogicIssue{
				Type:        "排名逻辑错误",
				Round:       round,
				Description: "销售额排名不连续或重复",
			})
		}
	}

	return issues
}
