package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "smpc", cfg.Database)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		Username:   "user",
		Password:   "pass",
		Host:       "db.local",
		Port:       3307,
		Database:   "messages",
		Parameters: "parseTime=true",
	}

	assert.Equal(t, "user:pass@tcp(db.local:3307)/messages?parseTime=true", cfg.DSN())
}
