package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileLogger(t *testing.T, level LogLevel) (*Logger, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.log")
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.Output = "file"
	cfg.FilePath = path

	l, err := New("test", cfg)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })

	return l, path
}

func TestLoggerWritesToFile(t *testing.T) {
	l, path := newFileLogger(t, InfoLevel)

	l.Info("连接成功: %s", "127.0.0.1")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "连接成功: 127.0.0.1")
	assert.Contains(t, content, "[INFO]")
	assert.Contains(t, content, "[test]")
	// 文件输出不带ANSI颜色
	assert.NotContains(t, content, "\033[")
}

func TestLoggerLevelFilter(t *testing.T) {
	l, path := newFileLogger(t, WarningLevel)

	l.Debug("debug message")
	l.Info("info message")
	l.Warning("warning message")
	l.Error("error message")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "debug message")
	assert.NotContains(t, content, "info message")
	assert.Contains(t, content, "warning message")
	assert.Contains(t, content, "error message")
}

func TestLoggerSetLevel(t *testing.T) {
	l, path := newFileLogger(t, ErrorLevel)

	l.Info("before")
	l.SetLogLevel(DebugLevel)
	l.Info("after")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "before")
	assert.Contains(t, string(data), "after")
}

func TestLoggerMissingFilePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "file"

	_, err := New("test", cfg)
	assert.Error(t, err)
}

func TestLevelNames(t *testing.T) {
	assert.Equal(t, "DEBUG", levelNames[DebugLevel])
	assert.Equal(t, "INFO", levelNames[InfoLevel])
	assert.Equal(t, "WARNING", levelNames[WarningLevel])
	assert.Equal(t, "ERROR", levelNames[ErrorLevel])
	assert.Equal(t, "FATAL", levelNames[FatalLevel])
}
