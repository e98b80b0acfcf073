// internal/database/store.go  消息持久化
package database

import (
	"database/sql"
	"fmt"

	"smpc/internal/protocol"
)

// MessageStore 消息持久化存储
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore 创建消息存储
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

// SaveMessageLog 保存一条协议日志
func (s *MessageStore) SaveMessageLog(direction, command string, sequence, status, length uint32) error {
	query := `
		INSERT INTO message_log (direction, command, sequence_number, command_status, command_length)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := s.db.Exec(query, direction, command, sequence, status, length); err != nil {
		return fmt.Errorf("保存协议日志失败: %v", err)
	}

	return nil
}

// SaveDeliveredMessage 保存一条投递短信
func (s *MessageStore) SaveDeliveredMessage(sequence uint32, content *protocol.DeliverContent) error {
	query := `
		INSERT INTO delivered_messages (sequence_number, source_addr, dest_addr, data_coding, content)
		VALUES (?, ?, ?, ?, ?)
	`

	decoded := protocol.DecodeContent(content.ShortMessage, content.DataCoding)
	if _, err := s.db.Exec(query, sequence, content.SourceAddr, content.DestAddr, content.DataCoding, decoded); err != nil {
		return fmt.Errorf("保存投递短信失败: %v", err)
	}

	return nil
}

// RecentDeliveredMessages 查询最近的投递短信
func (s *MessageStore) RecentDeliveredMessages(limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, sequence_number, source_addr, dest_addr, content, created_at
		FROM delivered_messages
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("查询投递短信失败: %v", err)
	}
	defer rows.Close()

	var result []map[string]interface{}
	for rows.Next() {
		var (
			id        int64
			sequence  uint32
			source    string
			dest      string
			content   sql.NullString
			createdAt string
		)

		if err := rows.Scan(&id, &sequence, &source, &dest, &content, &createdAt); err != nil {
			return nil, err
		}

		result = append(result, map[string]interface{}{
			"id":              id,
			"sequence_number": sequence,
			"source_addr":     source,
			"dest_addr":       dest,
			"content":         content.String,
			"created_at":      createdAt,
		})
	}

	return result, rows.Err()
}
