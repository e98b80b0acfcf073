// internal/database/schema.go
package database

import (
	"database/sql"
	"fmt"

	"smpc/pkg/logger"
)

// CreateTables 创建所有表
func CreateTables(db *sql.DB) error {
	// 创建协议日志表
	if err := createMessageLogTable(db); err != nil {
		return err
	}

	// 创建投递短信表
	if err := createDeliveredMessagesTable(db); err != nil {
		return err
	}

	return nil
}

// createMessageLogTable 创建协议日志表
func createMessageLogTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS message_log (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			direction VARCHAR(10) NOT NULL,
			command VARCHAR(32) NOT NULL,
			sequence_number INT UNSIGNED NOT NULL,
			command_status INT UNSIGNED NOT NULL,
			command_length INT UNSIGNED NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_sequence (sequence_number),
			INDEX idx_created (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("创建message_log表失败: %v", err)
	}

	logger.Debug("message_log表已就绪")
	return nil
}

// createDeliveredMessagesTable 创建投递短信表
func createDeliveredMessagesTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS delivered_messages (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			sequence_number INT UNSIGNED NOT NULL,
			source_addr VARCHAR(32) NOT NULL,
			dest_addr VARCHAR(32) NOT NULL,
			data_coding TINYINT UNSIGNED NOT NULL,
			content TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_source (source_addr),
			INDEX idx_dest (dest_addr),
			INDEX idx_created (created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("创建delivered_messages表失败: %v", err)
	}

	logger.Debug("delivered_messages表已就绪")
	return nil
}
