package util

import "fmt"

// FormatK 按千元格式化金额，如 $123k
func FormatK(value float64) string {
	return fmt.Sprintf("$%.0fk", value/1000)
}

// FormatPercent 格式化百分比（一位小数）
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatSignedPercent 带符号百分比，如 +12.3%
func FormatSignedPercent(value float64) string {
	return fmt.Sprintf("%+.1f%%", value)
}

// FormatRate 比率展示
// 值很小时加大小数位数，避免 EBITDA 率这类指标显示成 0.0%。
func FormatRate(value float64) string {
	if value < 0.1 && value >= 0 {
		return fmt.Sprintf("%.4f%%", value)
	}
	return fmt.Sprintf("%.1f%%", value)
}
