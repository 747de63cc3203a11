package workflow

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// 目標份量的允許範圍，範圍外的請求直接拒絕、不改動任何狀態
const (
	MinServings = 1
	MaxServings = 20
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ValidServings 檢查目標份量是否在允許範圍內
func ValidServings(s int) bool {
	return s >= MinServings && s <= MaxServings
}

// ScaleLine 依 target/canonical 的比例縮放一行食材文字中的每個數字。
// 整數結果不帶小數點，非整數四捨五入到一位小數。
// target == canonical 時原文返回，避免常見情況下的浮點噪音。
// 只在渲染時套用，食譜實體的食材文字永遠不被改寫。
func ScaleLine(line string, target, canonical int) string {
	if target == canonical || canonical <= 0 {
		return line
	}

	ratio := float64(target) / float64(canonical)
	return numberPattern.ReplaceAllStringFunc(line, func(match string) string {
		v, err := strconv.ParseFloat(match, 64)
		if err != nil {
			return match
		}
		return formatQuantity(v * ratio)
	})
}

// ScaleLines 縮放整份食材清單
func ScaleLines(lines []string, target, canonical int) []string {
	if target == canonical || canonical <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ScaleLine(line, target, canonical)
	}
	return out
}

// formatQuantity 整數不帶小數點，其餘一位小數
func formatQuantity(v float64) string {
	rounded := math.Round(v*10) / 10
	if rounded == math.Trunc(rounded) {
		return strconv.FormatInt(int64(rounded), 10)
	}
	return fmt.Sprintf("%.1f", rounded)
}
