// internal/database/config.go
package database

import (
	"fmt"
	"time"
)

// Config 数据库配置
type Config struct {
	Driver          string        `yaml:"driver"`            // 数据库驱动
	Host            string        `yaml:"host"`              // 主机地址
	Port            int           `yaml:"port"`              // 端口
	Username        string        `yaml:"username"`          // 用户名
	Password        string        `yaml:"password"`          // 密码
	Database        string        `yaml:"database"`          // 数据库名
	Parameters      string        `yaml:"parameters"`        // 连接参数
	MaxOpenConns    int           `yaml:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `yaml:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"` // 连接最大生存时间
}

// NewConfig 创建数据库配置
func NewConfig() *Config {
	return &Config{
		Driver:          "mysql",
		Host:            "localhost",
		Port:            3306,
		Username:        "root",
		Password:        "",
		Database:        "smpc",
		Parameters:      "parseTime=true&charset=utf8mb4&loc=Local",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 1 * time.Hour,
	}
}

// DSN 获取数据源名称
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Parameters)
}
