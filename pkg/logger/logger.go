// pkg/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// LogLevel 日志级别类型
type LogLevel int

// 日志级别常量
const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarningLevel
	ErrorLevel
	FatalLevel
)

// 日志级别名称映射
var levelNames = map[LogLevel]string{
	DebugLevel:   "DEBUG",
	InfoLevel:    "INFO",
	WarningLevel: "WARNING",
	ErrorLevel:   "ERROR",
	FatalLevel:   "FATAL",
}

// 不同级别的ANSI颜色
var levelColors = map[LogLevel]string{
	DebugLevel:   "\033[36m", // 青色
	InfoLevel:    "\033[32m", // 绿色
	WarningLevel: "\033[33m", // 黄色
	ErrorLevel:   "\033[31m", // 红色
	FatalLevel:   "\033[41m", // 红底
}

// 重置ANSI颜色
const colorReset = "\033[0m"

// 默认日志格式
var defaultFormat = "[%{time}] [%{level}] [%{module}] %{file}:%{line} %{message}"

// LogConfig 日志配置
type LogConfig struct {
	Level        LogLevel // 日志级别
	Format       string   // 日志格式模板
	Output       string   // 输出位置: "console", "file", "both"
	FilePath     string   // 日志文件路径
	EnableCaller bool     // 是否记录调用位置
	EnableColor  bool     // 是否启用颜色输出
}

// DefaultConfig 默认日志配置
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:        InfoLevel,
		Format:       defaultFormat,
		Output:       "console",
		EnableCaller: true,
		EnableColor:  true,
	}
}

// Logger 日志器
type Logger struct {
	name   string
	mu     sync.Mutex
	out    *log.Logger
	file   *os.File
	config LogConfig
}

// New 创建日志器
func New(name string, config LogConfig) (*Logger, error) {
	if config.Format == "" {
		config.Format = defaultFormat
	}

	var writer io.Writer
	var file *os.File

	switch config.Output {
	case "file", "both":
		if config.FilePath == "" {
			return nil, fmt.Errorf("日志文件路径未指定")
		}
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("无法创建日志目录: %v", err)
		}
		f, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("无法打开日志文件: %v", err)
		}
		file = f
		if config.Output == "both" {
			writer = io.MultiWriter(os.Stderr, f)
		} else {
			writer = f
			config.EnableColor = false
		}
	default:
		writer = os.Stderr
	}

	return &Logger{
		name:   name,
		out:    log.New(writer, "", 0),
		file:   file,
		config: config,
	}, nil
}

// SetLogLevel 设置日志级别
func (l *Logger) SetLogLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.config.Level = level
}

// Close 关闭日志器
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// 格式化并记录日志
func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.config.Level {
		return
	}

	// 获取调用者信息
	file, line := "???", 0
	if l.config.EnableCaller {
		if _, f, n, ok := runtime.Caller(2); ok {
			file, line = filepath.Base(f), n
		}
	}

	var message string
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	} else {
		message = format
	}

	// 应用格式化模板
	replacer := strings.NewReplacer(
		"%{time}", time.Now().Format("2006-01-02 15:04:05.000"),
		"%{level}", levelNames[level],
		"%{module}", l.name,
		"%{file}", file,
		"%{line}", fmt.Sprintf("%d", line),
		"%{message}", message,
	)
	output := replacer.Replace(l.config.Format)

	// 添加颜色（如果启用）
	if l.config.EnableColor {
		if color, ok := levelColors[level]; ok {
			output = color + output + colorReset
		}
	}

	l.out.Output(0, output)

	// fatal级别终止程序
	if level == FatalLevel {
		os.Exit(1)
	}
}

// Debug 记录调试级别日志
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DebugLevel, format, args...)
}

// Info 记录信息级别日志
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(InfoLevel, format, args...)
}

// Warning 记录警告级别日志
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(WarningLevel, format, args...)
}

// Warn 警告级别别名
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WarningLevel, format, args...)
}

// Error 记录错误级别日志
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ErrorLevel, format, args...)
}

// Fatal 记录致命错误并终止程序
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FatalLevel, format, args...)
}

// 全局默认logger实例
var (
	defaultLogger *Logger
	loggerMu      sync.Mutex
)

// Init 使用默认配置初始化日志系统
func Init(name string) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if defaultLogger != nil {
		return
	}

	l, err := New(name, DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("初始化日志系统失败: %v", err))
	}
	defaultLogger = l
}

// InitWithConfig 使用配置初始化日志系统
func InitWithConfig(name string, config LogConfig) error {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	l, err := New(name, config)
	if err != nil {
		return err
	}

	if defaultLogger != nil && defaultLogger.file != nil {
		defaultLogger.file.Close()
	}
	defaultLogger = l

	return nil
}

// GetLogger 获取默认日志器
func GetLogger() *Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if defaultLogger == nil {
		l, err := New("default", DefaultConfig())
		if err != nil {
			panic(fmt.Sprintf("初始化日志系统失败: %v", err))
		}
		defaultLogger = l
	}

	return defaultLogger
}

// SetLevel 设置全局日志级别
func SetLevel(level LogLevel) {
	GetLogger().SetLogLevel(level)
}

// Debug 全局调试日志
func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

// Info 全局信息日志
func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

// Warning 全局警告日志
func Warning(format string, args ...interface{}) {
	GetLogger().Warning(format, args...)
}

// Warn 全局警告日志别名
func Warn(format string, args ...interface{}) {
	GetLogger().Warning(format, args...)
}

// Error 全局错误日志
func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

// Fatal 全局致命错误日志
func Fatal(format string, args ...interface{}) {
	GetLogger().Fatal(format, args...)
}
