package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDurationLabel 将 mm:ss 格式的时长标签解析为秒
// 非法输入一律返回 0，不报错
func ParseDurationLabel(label string) float64 {
	parts := strings.Split(strings.TrimSpace(label), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return float64(total)
}

// FormatDurationLabel 将秒格式化为 mm:ss 标签
func FormatDurationLabel(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Round(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
