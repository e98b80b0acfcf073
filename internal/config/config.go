// internal/config/config.go  系统配置
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"smpc/internal/client"
	"smpc/internal/database"
	"smpc/internal/performance"
	"smpc/pkg/logger"
)

// Config 系统配置
type Config struct {
	Version     string                     `yaml:"version"`
	Log         LogConfig                  `yaml:"log"`
	SMSC        *client.Config             `yaml:"smsc"`
	Database    *database.Config           `yaml:"database"`
	Dispatcher  DispatcherConfig           `yaml:"dispatcher"`
	Web         WebConfig                  `yaml:"web"`
	Performance *performance.MonitorConfig `yaml:"performance"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string `yaml:"level"`    // debug/info/warning/error
	Output  string `yaml:"output"`   // console/file/both
	LogFile string `yaml:"log_file"` // 日志文件路径
}

// DispatcherConfig 消息分发器配置
type DispatcherConfig struct {
	QueueSize int           `yaml:"queue_size"`
	Workers   int           `yaml:"workers"`
	Timeout   time.Duration `yaml:"timeout"`
}

// WebConfig Web管理界面配置
type WebConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	JWTSecret  string `yaml:"jwt_secret"`
	Debug      bool   `yaml:"debug"`
}

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}

	if config.SMSC == nil {
		return nil, fmt.Errorf("配置缺少smsc节")
	}

	// 将时间单位从秒转换为time.Duration
	config.SMSC.EnquireInterval = time.Duration(config.SMSC.EnquireInterval) * time.Second
	config.SMSC.ResponseTimeout = time.Duration(config.SMSC.ResponseTimeout) * time.Second
	config.SMSC.ReconnectInterval = time.Duration(config.SMSC.ReconnectInterval) * time.Second
	config.Dispatcher.Timeout = time.Duration(config.Dispatcher.Timeout) * time.Second

	if config.Database != nil {
		config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Second
	}

	if config.Performance != nil {
		config.Performance.CheckInterval = time.Duration(config.Performance.CheckInterval) * time.Second
	}

	return &config, nil
}

// LogLevelFromString 将配置的级别字符串转换为日志级别
func LogLevelFromString(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.DebugLevel
	case "info":
		return logger.InfoLevel
	case "warning", "warn":
		return logger.WarningLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}
