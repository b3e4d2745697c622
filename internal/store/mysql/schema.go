package mysql

import (
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS notifications (
		id CHAR(36) NOT NULL PRIMARY KEY,
		recipient_id VARCHAR(64) NOT NULL,
		kind VARCHAR(32) NOT NULL,
		payload JSON NOT NULL,
		is_read TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_notifications_recipient (recipient_id, created_at DESC, id DESC),
		INDEX idx_notifications_unread (recipient_id, is_read)
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		group_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		PRIMARY KEY (group_id, user_id),
		INDEX idx_group_members_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS thread_subscribers (
		thread_id VARCHAR(64) NOT NULL,
		user_id VARCHAR(64) NOT NULL,
		PRIMARY KEY (thread_id, user_id)
	)`,
}

func InitSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
