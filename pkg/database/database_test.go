package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldMigrate(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		force bool
		want  bool
	}{
		{"debug 模式默认迁移", "debug", false, true},
		{"release 模式默认跳过", "release", false, false},
		{"release 模式显式开启", "release", true, true},
		{"debug 模式显式开启", "debug", true, true},
		{"模式未设置按非生产处理", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldMigrate(tt.mode, tt.force))
		})
	}
}
