package usercontext

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
)

// MemoryStore is a process-local user context store for local mode and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	contexts map[uuid.UUID]task.UserContext
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{contexts: make(map[uuid.UUID]task.UserContext)}
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID) (task.UserContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uc, ok := s.contexts[userID]
	if !ok {
		return task.UserContext{}, task.ErrUserContextNotFound
	}
	uc.ProductiveHours = append([]int(nil), uc.ProductiveHours...)
	return uc, nil
}

func (s *MemoryStore) Save(_ context.Context, userID uuid.UUID, uc task.UserContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	uc.ProductiveHours = append([]int(nil), uc.ProductiveHours...)
	s.contexts[userID] = uc
	return nil
}

var _ task.UserContextRepository = (*MemoryStore)(nil)
