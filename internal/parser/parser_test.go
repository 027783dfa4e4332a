package parser

import (
	"testing"
)

var testLayout = SheetLayout{SheetName: "Results", TeamRow: 1, DataStartRow: 2}

// TestParseGrid_Basic 基本解析：队伍行、标签列与数值对齐
func TestParseGrid_Basic(t *testing.T) {
	rows := [][]string{
		{"标题行"},
		{"", "Alpha", "Beta"},
		{"销售额合计", "1,200,000", "$800,000"},
		{"净利润", "150000", "-20000"},
	}

	store, teams := ParseGrid(rows, testLayout)

	if len(teams) != 2 || teams[0] != "Alpha" || teams[1] != "Beta" {
		t.Fatalf("队伍解析错误: %v", teams)
	}
	if store.Len() != 2 {
		t.Fatalf("指标数量错误: got %d", store.Len())
	}

	vals, ok := store.Get("销售额合计")
	if !ok {
		t.Fatal("未找到指标 销售额合计")
	}
	if v := vals["Alpha"]; v == nil || *v != 1200000 {
		t.Errorf("千分位解析错误: %v", v)
	}
	if v := vals["Beta"]; v == nil || *v != 800000 {
		t.Errorf("货币符号解析错误: %v", v)
	}

	profit, _ := store.Get("净利润")
	if v := profit["Beta"]; v == nil || *v != -20000 {
		t.Errorf("负数解析错误: %v", v)
	}
}

// TestParseGrid_BadCells 坏单元格降级为缺失值，不报错
func TestParseGrid_BadCells(t *testing.T) {
	rows := [][]string{
		{},
		{"", "Alpha", "Beta"},
		{"现金", "N/A", "50000"},
		{"权益合计", "abc", "xyz"},
	}

	store, _ := ParseGrid(rows, testLayout)

	cash, ok := store.Get("现金")
	if !ok {
		t.Fatal("存在有效值的行不应被丢弃")
	}
	if cash["Alpha"] != nil {
		t.Errorf("无法解析的单元格应为 nil: %v", *cash["Alpha"])
	}
	if v := cash["Beta"]; v == nil || *v != 50000 {
		t.Errorf("有效值解析错误: %v", v)
	}

	// 全队伍均无有效值的行整行丢弃
	if _, ok := store.Get("权益合计"); ok {
		t.Error("全空行不应入库")
	}
}

// TestParseGrid_ShortRow 行短于队伍列时不为缺列队伍建键
func TestParseGrid_ShortRow(t *testing.T) {
	rows := [][]string{
		{},
		{"", "Alpha", "Beta"},
		{"销售额", "100"},
	}

	store, _ := ParseGrid(rows, testLayout)

	vals, ok := store.Get("销售额")
	if !ok {
		t.Fatal("未找到指标 销售额")
	}
	if _, exists := vals["Beta"]; exists {
		t.Error("缺列的队伍不应建键")
	}
	if v := vals["Alpha"]; v == nil || *v != 100 {
		t.Errorf("短行解析错误: %v", v)
	}
}

// TestParseGrid_SkipLabels 空标签与字符串化空值标签跳过
func TestParseGrid_SkipLabels(t *testing.T) {
	rows := [][]string{
		{},
		{"", "Alpha"},
		{"", "100"},
		{"nan", "200"},
		{"  销售额  ", "300"},
	}

	store, _ := ParseGrid(rows, testLayout)

	if store.Len() != 1 {
		t.Fatalf("应只保留一个指标: got %d", store.Len())
	}
	if _, ok := store.Get("销售额"); !ok {
		t.Error("标签应去除首尾空白后入库")
	}
}

// TestParseGrid_DuplicateLabel 重复标签覆盖取值并保留首次位置
func TestParseGrid_DuplicateLabel(t *testing.T) {
	rows := [][]string{
		{},
		{"", "Alpha"},
		{"现金", "100"},
		{"销售额", "500"},
		{"现金", "200"},
	}

	store, _ := ParseGrid(rows, testLayout)

	names := store.Names()
	if len(names) != 2 || names[0] != "现金" || names[1] != "销售额" {
		t.Fatalf("指标顺序错误: %v", names)
	}
	vals, _ := store.Get("现金")
	if v := vals["Alpha"]; v == nil || *v != 200 {
		t.Errorf("重复标签应覆盖为后出现的取值: %v", v)
	}
}

// TestParseGrid_NoTeams 队伍行缺失时返回空存储
func TestParseGrid_NoTeams(t *testing.T) {
	store, teams := ParseGrid([][]string{{"只有一行"}}, SheetLayout{TeamRow: 4, DataStartRow: 5})
	if len(teams) != 0 || store.Len() != 0 {
		t.Errorf("无队伍行时应返回空结果: teams=%v len=%d", teams, store.Len())
	}
}

// TestParseCell_Formats 各种数值格式解析
func TestParseCell_Formats(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"1,234.5", fptr(1234.5)},
		{"$1,000", fptr(1000)},
		{"85%", fptr(85)},
		{" 42 ", fptr(42)},
		{"-3.14", fptr(-3.14)},
		{"", nil},
		{"N/A", nil},
		{"-", nil},
	}

	for _, tc := range cases {
		got := parseCell(tc.in)
		switch {
		case tc.want == nil && got != nil:
			t.Errorf("parseCell(%q) = %v, want nil", tc.in, *got)
		case tc.want != nil && got == nil:
			t.Errorf("parseCell(%q) = nil, want %v", tc.in, *tc.want)
		case tc.want != nil && got != nil && *got != *tc.want:
			t.Errorf("parseCell(%q) = %v, want %v", tc.in, *got, *tc.want)
		}
	}
}

func fptr(v float64) *float64 { return &v }
