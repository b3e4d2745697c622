package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

const defaultPageLimit = 20

func (s *Store) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return model.Notification{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (id, recipient_id, kind, payload, is_read, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		n.ID, n.RecipientID, n.Kind, payload, n.Read, n.CreatedAt,
	); err != nil {
		s.log.Error("sql create notification failed",
			zap.String("recipient_id", n.RecipientID),
			zap.String("kind", n.Kind),
			zap.Error(err),
		)
		return model.Notification{}, err
	}
	return n, nil
}

// CreateForUsers inserts one record per recipient. A failed insert for one
// recipient is logged and skipped; the created subset is returned.
func (s *Store) CreateForUsers(ctx context.Context, userIDs []string, n model.Notification) ([]model.Notification, error) {
	created := make([]model.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		record := n
		record.ID = ""
		record.RecipientID = userID
		inserted, err := s.Create(ctx, record)
		if err != nil {
			s.log.Warn("batch create skipped recipient",
				zap.String("recipient_id", userID),
				zap.String("kind", n.Kind),
				zap.Error(err),
			)
			continue
		}
		created = append(created, inserted)
	}
	return created, nil
}

func (s *Store) MarkAsRead(ctx context.Context, id, ownerID string) (model.Notification, error) {
	record, err := s.get(ctx, id, ownerID)
	if err != nil {
		return model.Notification{}, err
	}
	if record.Read {
		return record, nil
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND recipient_id = ?`,
		id, ownerID,
	); err != nil {
		s.log.Error("sql mark read failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}
	record.Read = true
	return record, nil
}

func (s *Store) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE recipient_id = ? AND is_read = 0`,
		userID,
	)
	if err != nil {
		s.log.Error("sql mark all read failed", zap.String("recipient_id", userID), zap.Error(err))
		return 0, err
	}
	return result.RowsAffected()
}

func (s *Store) Find(ctx context.Context, userID string, page, limit int) ([]model.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = ?`, userID,
	).Scan(&total); err != nil {
		s.log.Error("sql count notifications failed", zap.String("recipient_id", userID), zap.Error(err))
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient_id, kind, payload, is_read, created_at
		 FROM notifications
		 WHERE recipient_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, (page-1)*limit,
	)
	if err != nil {
		s.log.Error("sql list notifications failed", zap.String("recipient_id", userID), zap.Error(err))
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.Notification
	for rows.Next() {
		record, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, record)
	}
	return result, total, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = 0`, userID,
	).Scan(&count); err != nil {
		s.log.Error("sql count unread failed", zap.String("recipient_id", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (s *Store) Delete(ctx context.Context, id, ownerID string) (model.Notification, error) {
	record, err := s.get(ctx, id, ownerID)
	if err != nil {
		return model.Notification{}, err
	}
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = ? AND recipient_id = ?`,
		id, ownerID,
	)
	if err != nil {
		s.log.Error("sql delete notification failed", zap.String("id", id), zap.Error(err))
		return model.Notification{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return model.Notification{}, err
	}
	if affected == 0 {
		return model.Notification{}, domain.ErrNotFound
	}
	return record, nil
}

func (s *Store) get(ctx context.Context, id, ownerID string) (model.Notification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, recipient_id, kind, payload, is_read, created_at
		 FROM notifications WHERE id = ? AND recipient_id = ?`,
		id, ownerID,
	)
	record, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Notification{}, domain.ErrNotFound
	}
	if err != nil {
		return model.Notification{}, err
	}
	return record, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(row scanner) (model.Notification, error) {
	var (
		record  model.Notification
		payload []byte
	)
	if err := row.Scan(&record.ID, &record.RecipientID, &record.Kind, &payload, &record.Read, &record.CreatedAt); err != nil {
		return model.Notification{}, err
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &record.Payload); err != nil {
			return model.Notification{}, err
		}
	}
	return record, nil
}
