package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rhmoon-github/cesimAnalyze/internal/model"
)

// SheetLayout 结果表的固定布局
type SheetLayout struct {
	SheetName    string // 工作表名
	TeamRow      int    // 队伍名称所在行（0 基）
	DataStartRow int    // 数据起始行（0 基）
}

// ReadResultsFile 读取单回合结果文件并解析为指标存储
// 唯一的失败模式是工作簿本身不可读；单元格级别的坏数据一律降级为缺失值。
func ReadResultsFile(path string, layout SheetLayout) (*model.MetricStore, []string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("打开结果文件失败 %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(layout.SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("读取工作表 %s 失败: %w", layout.SheetName, err)
	}

	store, teams := ParseGrid(rows, layout)
	return store, teams, nil
}

// ParseGrid 将二维表格解析为指标存储与队伍列表
// 队伍列表取自队伍行第 1 列起的全部非空单元格，左到右顺序即全局队伍顺序；
// 数据行第 0 列为指标标签，之后各列按队伍行的列序对齐。
func ParseGrid(rows [][]string, layout SheetLayout) (*model.MetricStore, []string) {
	store := model.NewMetricStore()

	teams := parseTeamRow(rows, layout.TeamRow)
	if len(teams) == 0 {
		return store, teams
	}

	for r := layout.DataStartRow; r < len(rows); r++ {
		row := rows[r]

		label := strings.TrimSpace(cellAt(row, 0))
		// 防御字符串化的空值标签
		if label == "" || label == "nan" {
			continue
		}

		vals := make(model.TeamValues, len(teams))
		hasValue := false
		for i := range teams {
			col := i + 1
			if col >= len(row) {
				// 该队伍没有对应列：不建键
				continue
			}
			v := parseCell(row[col])
			vals[teams[i]] = v
			if v != nil {
				hasValue = true
			}
		}

		// 全队伍均无有效值的指标行整行丢弃
		if hasValue {
			store.Add(label, vals)
		}
	}

	return store, teams
}

// parseTeamRow 提取队伍名称行
func parseTeamRow(rows [][]string, teamRow int) []string {
	if teamRow >= len(rows) {
		return nil
	}

	row := rows[teamRow]
	teams := []string{}
	for c := 1; c < len(row); c++ {
		name := strings.TrimSpace(row[c])
		if name != "" {
			teams = append(teams, name)
		}
	}
	return teams
}

// parseCell 把单元格内容转换为数值
// 去掉千分位、货币符号、百分号与空白后按浮点数解析；解析失败返回 nil，绝不报错。
func parseCell(cell string) *float64 {
	cleaned := strings.NewReplacer(",", "", "$", "", "%", "", " ", "", "\u00a0", "").Replace(cell)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return model.Float(f)
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
