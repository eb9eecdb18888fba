package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDurationLabel(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  float64
	}{
		{"分秒", "8:45", 525},
		{"带前导零", "06:10", 370},
		{"时分秒", "1:02:03", 3723},
		{"零时长", "0:00", 0},
		{"首尾空白", " 12:30 ", 750},
		{"纯数字非法", "525", 0},
		{"非数字非法", "abc", 0},
		{"空串非法", "", 0},
		{"负数段非法", "-1:30", 0},
		{"段数过多非法", "1:2:3:4", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDurationLabel(tt.label))
		})
	}
}

func TestFormatDurationLabel(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    string
	}{
		{"分秒", 525, "08:45"},
		{"四舍五入", 369.6, "06:10"},
		{"零", 0, "00:00"},
		{"负数按零", -5, "00:00"},
		{"NaN 按零", math.NaN(), "00:00"},
		{"超过一小时", 3723, "62:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDurationLabel(tt.seconds))
		})
	}
}

func TestDurationLabelRoundTrip(t *testing.T) {
	for _, label := range []string{"00:30", "08:45", "12:30", "59:59"} {
		assert.Equal(t, label, FormatDurationLabel(ParseDurationLabel(label)))
	}
}
