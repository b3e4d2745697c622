package memory

import (
	"context"
	"sort"
)

// SeedGroup replaces the member list of a group.
func (s *Store) SeedGroup(groupID string, members ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[groupID] = append([]string(nil), members...)
}

// SeedThread replaces the subscriber list of a thread.
func (s *Store) SeedThread(threadID string, subscribers ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threads[threadID] = append([]string(nil), subscribers...)
}

func (s *Store) GetGroupMembers(_ context.Context, groupID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.groups[groupID]...), nil
}

func (s *Store) GetGroupsForUser(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var groups []string
	for groupID, members := range s.groups {
		for _, member := range members {
			if member == userID {
				groups = append(groups, groupID)
				break
			}
		}
	}
	sort.Strings(groups)
	return groups, nil
}

func (s *Store) GetSubscribersForThread(_ context.Context, threadID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.threads[threadID]...), nil
}
