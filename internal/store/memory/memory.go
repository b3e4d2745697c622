package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/sammy-dev-001/campusOS-backend-sub001/internal/model"
)

// Store keeps notifications and membership in memory. Used when no MySQL DSN
// is configured, and throughout the tests.
type Store struct {
	mu      sync.Mutex
	records []model.Notification
	groups  map[string][]string
	threads map[string][]string
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{
		groups:  make(map[string][]string),
		threads: make(map[string][]string),
		log:     logger,
	}
}
