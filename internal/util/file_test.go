package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsVideo(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     bool
	}{
		{"mp4", "video/mp4", true},
		{"webm", "video/webm", true},
		{"HLS 播放列表", "application/x-mpegURL", true},
		{"图片", "image/jpeg", false},
		{"八位字节流", "application/octet-stream", false},
		{"空串", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVideo(tt.mimeType))
		})
	}
}

func TestValidateMimeType(t *testing.T) {
	// PNG 魔数，http.DetectContentType 识别为 image/png
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	mime, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{"image/"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	// 前缀不匹配时返回嗅探结果和错误
	mime, err = ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeVideo, MimeOctetStream})
	require.Error(t, err)
	assert.Equal(t, "image/png", mime)

	// 纯文本既不是视频也不是八位字节流
	_, err = ValidateMimeType(strings.NewReader("hello world"), []string{MimeVideo})
	assert.Error(t, err)
}
