package assistant

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// MockAPI is a test double for API.
type MockAPI struct {
	CreateThreadFunc  func(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessageFunc func(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRunFunc     func(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRunFunc   func(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessageFunc   func(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

func (m *MockAPI) CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error) {
	if m.CreateThreadFunc != nil {
		return m.CreateThreadFunc(ctx, request)
	}
	return openai.Thread{ID: "thread_mock"}, nil
}

func (m *MockAPI) CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	if m.CreateMessageFunc != nil {
		return m.CreateMessageFunc(ctx, threadID, request)
	}
	return openai.Message{ID: "msg_mock"}, nil
}

func (m *MockAPI) CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	if m.CreateRunFunc != nil {
		return m.CreateRunFunc(ctx, threadID, request)
	}
	return openai.Run{ID: "run_mock", Status: openai.RunStatusQueued}, nil
}

func (m *MockAPI) RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error) {
	if m.RetrieveRunFunc != nil {
		return m.RetrieveRunFunc(ctx, threadID, runID)
	}
	return openai.Run{ID: runID, Status: openai.RunStatusCompleted}, nil
}

func (m *MockAPI) ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error) {
	if m.ListMessageFunc != nil {
		return m.ListMessageFunc(ctx, threadID, limit, order, after, before, runID)
	}
	return openai.MessagesList{}, nil
}
