package model

// Status 红绿灯状态
type Status string

const (
	StatusGreen  Status = "green"
	StatusYellow Status = "yellow"
	StatusRed    Status = "red"
)

// Symbol 报告中使用的状态符号
func (s Status) Symbol() string {
	switch s {
	case StatusGreen:
		return "🟢"
	case StatusYellow:
		return "🟡"
	case StatusRed:
		return "🔴"
	default:
		return "N/A"
	}
}

// 五项健康指标名称
const (
	IndicatorCash       = "现金储备"
	IndicatorDebtEquity = "净债务权益比"
	IndicatorEBITDARate = "EBITDA率"
	IndicatorEquityRate = "权益比率"
	IndicatorRDReturn   = "研发回报率"
)

// IndicatorOrder 健康指标的固定展示顺序
var IndicatorOrder = []string{
	IndicatorCash,
	IndicatorDebtEquity,
	IndicatorEBITDARate,
	IndicatorEquityRate,
	IndicatorRDReturn,
}

// HealthIndicator 单项健康指标
// Value 为 nil 表示比率无法计算（输入缺失或分母非正）。
type HealthIndicator struct {
	Value  *float64 `json:"value"`
	Status Status   `json:"status"`
}

// HealthRecord 队伍财务健康度记录
type HealthRecord struct {
	Team        string                     `json:"team"`
	Indicators  map[string]HealthIndicator `json:"indicators"`
	Actions     []string                   `json:"actions"`
	RedCount    int                        `json:"redCount"`
	YellowCount int                        `json:"yellowCount"`
}

// IntegrityIssue 会计恒等式校验问题
type IntegrityIssue struct {
	Team       string  `json:"team"`
	ErrorRate  float64 `json:"errorRate"` // 相对误差（百分比）
	Calculated float64 `json:"calculated"`
	Actual     float64 `json:"actual"`
	Status     string  `json:"status"` // 需要人工核查 / 数据异常
}

// Anomaly 异常值记录
type Anomaly struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Rule  string  `json:"rule"`
}

// LogicIssue 逻辑一致性校验问题
type LogicIssue struct {
	Type        string `json:"type"`
	Team        string `json:"team,omitempty"`
	Metric      string `json:"metric,omitempty"`
	Round       string `json:"round,omitempty"`
	Description string `json:"description"`
}

// CashFlowInfo 现金流源头分析结果
type CashFlowInfo struct {
	Team        string  `json:"team"`
	CashChange  float64 `json:"cashChange"`
	EBITDA      float64 `json:"ebitda"`
	Class       string  `json:"class"`
	Description string  `json:"description"`
}

// Aggressiveness 财务激进度
// 权益非正时比率无定义，用 Undefined 标记而不是魔法数值。
type Aggressiveness struct {
	Value     float64 `json:"value"`
	Undefined bool    `json:"undefined"`
}

// Exceeds 判断激进度是否超过阈值；无定义视为超过任意阈值
func (a Aggressiveness) Exceeds(threshold float64) bool {
	return a.Undefined || a.Value > threshold
}

// CompetitivePosition 三维度竞争定位
type CompetitivePosition struct {
	Team      string         `json:"team"`
	Financial Aggressiveness `json:"financial"` // 财务激进度
	Market    float64        `json:"market"`    // 市场侵略性
	Tech      float64        `json:"tech"`      // 技术投入度
	Strategy  string         `json:"strategy"`  // 策略类型
}

// StrategyAlert 策略突变警报
type StrategyAlert struct {
	Type           string  `json:"type"`
	FromRound      string  `json:"fromRound"`
	ToRound        string  `json:"toRound"`
	Value          float64 `json:"value"`
	Interpretation string  `json:"interpretation"`
}

// Signal 下回合意图预测信号
type Signal struct {
	Action      string `json:"action"`
	Probability int    `json:"probability"` // 百分比
	Reason      string `json:"reason"`
}

// Recommendation 下回合策略建议（资源分配决策树输出）
type Recommendation struct {
	Mode       string         `json:"mode"`
	Actions    []string       `json:"actions"`
	Allocation map[string]int `json:"allocation"` // 百分比，总和恒为 100
	RiskLevel  string         `json:"riskLevel"`
}

// RegionalPerformance 单队伍在单区域的市场表现
type RegionalPerformance struct {
	Sales       float64  `json:"sales"`
	MarketShare *float64 `json:"marketShare"` // 销售额为 0 时不计算
	Rank        int      `json:"rank"`        // 0 表示未参与排名
	Trend       string   `json:"trend"`       // 增长 / 下降 / 稳定 / 新进入
	Suggestions []string `json:"suggestions"`
}

// RegionEntry 区域市场进入警报
type RegionEntry struct {
	Region string  `json:"region"`
	Round  string  `json:"round"`
	Sales  float64 `json:"sales"`
}
