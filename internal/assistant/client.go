// Package assistant drives the remote assistant service through its
// thread → message → run → poll → fetch lifecycle.
package assistant

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/jdelgato/chatgate/internal/config"
)

// API is the narrow slice of the remote assistant service the orchestrator
// depends on. *openai.Client satisfies it; tests substitute a mock.
type API interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

// NewClient builds the remote service client from config. A custom base URL
// supports self-hosted or proxied deployments.
func NewClient(cfg config.AssistantConfig) *openai.Client {
	if cfg.BaseURL != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		clientCfg.BaseURL = cfg.BaseURL
		return openai.NewClientWithConfig(clientCfg)
	}
	return openai.NewClient(cfg.APIKey)
}
