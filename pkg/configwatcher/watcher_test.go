package configwatcher

import (
	"examprep_backend/internal/config"
	"examprep_backend/pkg/logger"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func writeConfigFile(t *testing.T, path string, flushSeconds string) {
	t.Helper()
	content := `server:
  mode: debug
  port: "8080"
progress:
  flush_interval_seconds: ` + flushSeconds + `
  catalog_cache_seconds: 300
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, path, "30")

	reloaded := make(chan *config.Config, 1)
	go WatchConfig(path, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	// 等 watcher 注册完成
	time.Sleep(300 * time.Millisecond)

	writeConfigFile(t, path, "5")

	select {
	case cfg := <-reloaded:
		require.Equal(t, 5, cfg.Progress.FlushIntervalSeconds)
	case <-time.After(5 * time.Second):
		t.Fatal("配置写入后未触发重载")
	}
}

func TestWatchConfig_DebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfigFile(t, path, "30")

	reloads := make(chan int, 16)
	go WatchConfig(path, func(cfg *config.Config) {
		reloads <- cfg.Progress.FlushIntervalSeconds
	})

	time.Sleep(300 * time.Millisecond)

	// 连续写入在防抖窗口内合并，只按最终内容重载一次
	for _, v := range []string{"10", "15", "20"} {
		writeConfigFile(t, path, v)
		time.Sleep(100 * time.Millisecond)
	}

	select {
	case got := <-reloads:
		require.Equal(t, 20, got)
	case <-time.After(5 * time.Second):
		t.Fatal("连续写入后未触发重载")
	}

	select {
	case got := <-reloads:
		t.Fatalf("防抖窗口内的写入触发了多次重载: %d", got)
	case <-time.After(1500 * time.Millisecond):
	}
}
