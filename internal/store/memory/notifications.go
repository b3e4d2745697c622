package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/domain"
	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

const defaultPageLimit = 20

func (s *Store) Create(_ context.Context, n model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.create(n), nil
}

func (s *Store) CreateForUsers(_ context.Context, userIDs []string, n model.Notification) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]model.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		record := n
		record.ID = ""
		record.RecipientID = userID
		created = append(created, s.create(record))
	}
	return created, nil
}

// create assigns the store-owned identity: a fresh uuid (when the caller did
// not carry one) and the creation time.
func (s *Store) create(n model.Notification) model.Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	s.records = append(s.records, n)
	return n
}

func (s *Store) MarkAsRead(_ context.Context, id, ownerID string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id || s.records[i].RecipientID != ownerID {
			continue
		}
		s.records[i].Read = true
		return s.records[i], nil
	}
	return model.Notification{}, domain.ErrNotFound
}

func (s *Store) MarkAllAsRead(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for i := range s.records {
		if s.records[i].RecipientID == userID && !s.records[i].Read {
			s.records[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (s *Store) Find(_ context.Context, userID string, page, limit int) ([]model.Notification, int, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []model.Notification
	for _, record := range s.records {
		if record.RecipientID == userID {
			matched = append(matched, record)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	out := make([]model.Notification, end-start)
	copy(out, matched[start:end])
	return out, total, nil
}

func (s *Store) CountUnread(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.RecipientID == userID && !record.Read {
			count++
		}
	}
	return count, nil
}

func (s *Store) Delete(_ context.Context, id, ownerID string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id || s.records[i].RecipientID != ownerID {
			continue
		}
		deleted := s.records[i]
		s.records = append(s.records[:i], s.records[i+1:]...)
		return deleted, nil
	}
	return model.Notification{}, domain.ErrNotFound
}
