package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server     ServerConfig     `toml:"server"`
	Data       DataConfig       `toml:"data"`
	Analysis   AnalysisConfig   `toml:"analysis"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据目录配置
type DataConfig struct {
	InputDir  string `toml:"input_dir"`  // 结果文件目录
	OutputDir string `toml:"output_dir"` // 报告输出目录
	DataDir   string `toml:"data_dir"`   // 运行历史数据库目录
}

// AnalysisConfig 分析配置：回合序列、表格布局与指标解析规则
type AnalysisConfig struct {
	Rounds       int                 `toml:"rounds"`        // 比赛回合数（不含初始回合）
	FilePattern  string              `toml:"file_pattern"`  // 结果文件名模板，%s 为回合标识
	SheetName    string              `toml:"sheet_name"`    // 结果工作表名
	TeamRow      int                 `toml:"team_row"`      // 队伍名称所在行（0 基）
	DataStartRow int                 `toml:"data_start_row"` // 数据起始行（0 基）
	TeamNames    map[string]string   `toml:"team_names"`    // 原始队名 -> 标准队名
	Priorities   map[string][]string `toml:"priorities"`    // 标准指标 -> 候选标签优先级列表
	Regions      []string            `toml:"regions"`       // 区域市场列表
}

// ThresholdsConfig 红绿灯阈值（来自方法论第七章）
// 每项给出 绿/黄 两档边界，判定方向由指标语义决定。
type ThresholdsConfig struct {
	CashGreen    float64 `toml:"cash_green"`    // 现金储备 > 绿
	CashYellow   float64 `toml:"cash_yellow"`   // 现金储备 >= 黄
	DebtGreen    float64 `toml:"debt_green"`    // 净债务权益比 < 绿
	DebtYellow   float64 `toml:"debt_yellow"`   // 净债务权益比 <= 黄
	EBITDAGreen  float64 `toml:"ebitda_green"`  // EBITDA率 > 绿
	EBITDAYellow float64 `toml:"ebitda_yellow"` // EBITDA率 >= 黄
	EquityGreen  float64 `toml:"equity_green"`  // 权益比率 > 绿
	EquityYellow float64 `toml:"equity_yellow"` // 权益比率 >= 黄
	RDGreen      float64 `toml:"rd_green"`      // 研发回报率 > 绿
	RDYellow     float64 `toml:"rd_yellow"`     // 研发回报率 >= 黄
}

// RoundIDs 按时间顺序返回全部回合标识：初始回合 ir00 加 pr01..prNN
func (a AnalysisConfig) RoundIDs() []string {
	ids := []string{"ir00"}
	for i := 1; i <= a.Rounds; i++ {
		ids = append(ids, fmt.Sprintf("pr%02d", i))
	}
	return ids
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			InputDir:  "结果",
			OutputDir: "分析",
			DataDir:   "data",
		},
		Analysis: AnalysisConfig{
			Rounds:       3,
			FilePattern:  "results-%s.xlsx",
			SheetName:    "Results",
			TeamRow:      4,
			DataStartRow: 5,
			TeamNames: map[string]string{
				"创世纪的大富翁": "Blue",
				"星野四喜":    "Black",
			},
			Priorities: map[string][]string{
				"销售额":  {"销售额合计", "本地销售额", "当地销售额", "销售额"},
				"净利润":  {"本回合利润", "税后利润", "净利润"},
				"现金":   {"现金及等价物", "现金 31.12.", "现金 1.1.", "现金"},
				"短期贷款": {"短期贷款（无计划）", "短期贷款"},
				"长期贷款": {"长期贷款"},
			},
			Regions: []string{"美国", "亚洲", "欧洲"},
		},
		Thresholds: ThresholdsConfig{
			CashGreen:    300000,
			CashYellow:   100000,
			DebtGreen:    30,
			DebtYellow:   70,
			EBITDAGreen:  20,
			EBITDAYellow: 5,
			EquityGreen:  100,
			EquityYellow: 50,
			RDGreen:      15,
			RDYellow:     0,
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 从可执行文件同目录的 config.toml 加载配置
// 文件不存在时使用默认配置；环境变量可覆盖数据目录。
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("CESIM_INPUT_DIR"); v != "" {
		config.Data.InputDir = v
	}
	if v := os.Getenv("CESIM_OUTPUT_DIR"); v != "" {
		config.Data.OutputDir = v
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureOutputDir 确保报告输出目录存在
func EnsureOutputDir(config *AppConfig) (string, error) {
	if err := os.MkdirAll(config.Data.OutputDir, 0755); err != nil {
		return "", err
	}
	return config.Data.OutputDir, nil
}

// EnsureDataDir 确保运行历史数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	if err := os.MkdirAll(config.Data.DataDir, 0755); err != nil {
		return "", err
	}
	return config.Data.DataDir, nil
}
