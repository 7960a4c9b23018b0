package queries

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sharvarianand/tasktuner/internal/productivity/domain/task"
	"github.com/stretchr/testify/mock"
)

type mockTaskReader struct {
	mock.Mock
}

func (m *mockTaskReader) FindPending(ctx context.Context, userID uuid.UUID) ([]task.Task, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]task.Task), args.Error(1)
}

type mockUserContexts struct {
	mock.Mock
}

func (m *mockUserContexts) Get(ctx context.Context, userID uuid.UUID) (task.UserContext, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(task.UserContext), args.Error(1)
}

func (m *mockUserContexts) Save(ctx context.Context, userID uuid.UUID, uc task.UserContext) error {
	args := m.Called(ctx, userID, uc)
	return args.Error(0)
}

type mockAdjustments struct {
	mock.Mock
}

func (m *mockAdjustments) Adjustments(ctx context.Context, userID uuid.UUID, taskIDs []string) (map[string]float64, error) {
	args := m.Called(ctx, userID, taskIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

type published struct {
	routingKey string
	payload    []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{routingKey: routingKey, payload: payload})
	return nil
}

func (p *fakePublisher) Close() error { return nil }
