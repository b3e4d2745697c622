package mysql

import (
	"context"

	"go.uber.org/zap"
)

func (s *Store) GetGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id`,
		groupID, "group member lookup failed",
	)
}

func (s *Store) GetGroupsForUser(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT group_id FROM group_members WHERE user_id = ? ORDER BY group_id`,
		userID, "group lookup failed",
	)
}

func (s *Store) GetSubscribersForThread(ctx context.Context, threadID string) ([]string, error) {
	return s.queryIDs(ctx,
		`SELECT user_id FROM thread_subscribers WHERE thread_id = ? ORDER BY user_id`,
		threadID, "thread subscriber lookup failed",
	)
}

func (s *Store) queryIDs(ctx context.Context, query, arg, logMsg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		s.log.Error(logMsg, zap.String("arg", arg), zap.Error(err))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
