package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/jdelgato/chatgate/internal/logging"
)

// Orchestration failures. Handlers map all of these to a generic server
// error; the underlying cause stays in server-side logs.
var (
	ErrCreateThread  = errors.New("creating conversation thread failed")
	ErrSubmitMessage = errors.New("submitting user message failed")
	ErrStartRun      = errors.New("starting assistant run failed")
	ErrPoll          = errors.New("polling run status failed")
	ErrRunFailed     = errors.New("assistant run did not complete")
	ErrRunTimeout    = errors.New("assistant run timed out")
	ErrEmptyResponse = errors.New("assistant returned no response content")
)

// Config controls the orchestrator's run polling policy.
type Config struct {
	AssistantID  string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// Orchestrator turns one user message into one assistant response.
//
// Each invocation walks a fresh remote thread through
// create → submit → start run → poll → fetch, in that order; every step
// depends on the identifier the previous one produced. No step is retried:
// a failure is terminal for the current request. The poll loop is bounded
// by PollTimeout and cancellable through the caller's context; no cancel
// request is sent upstream for an abandoned run.
type Orchestrator struct {
	api API
	cfg Config
	log *logging.Logger
}

// NewOrchestrator creates an orchestrator bound to a preconfigured
// assistant identity.
func NewOrchestrator(api API, cfg Config, log *logging.Logger) *Orchestrator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 2 * time.Minute
	}
	return &Orchestrator{
		api: api,
		cfg: cfg,
		log: log.Sub("assistant"),
	}
}

// Run submits the user message and returns the assistant's reply text.
func (o *Orchestrator) Run(ctx context.Context, message string) (string, error) {
	start := time.Now()

	thread, err := o.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		o.log.Error().Err(err).Msg("thread creation failed")
		return "", fmt.Errorf("%w: %v", ErrCreateThread, err)
	}
	o.log.Debug().Str("threadId", thread.ID).Msg("thread created")

	_, err = o.api.CreateMessage(ctx, thread.ID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
	if err != nil {
		o.log.Error().Err(err).Str("threadId", thread.ID).Msg("message submission failed")
		return "", fmt.Errorf("%w: %v", ErrSubmitMessage, err)
	}

	run, err := o.api.CreateRun(ctx, thread.ID, openai.RunRequest{
		AssistantID: o.cfg.AssistantID,
	})
	if err != nil {
		o.log.Error().Err(err).Str("threadId", thread.ID).Msg("run start failed")
		return "", fmt.Errorf("%w: %v", ErrStartRun, err)
	}
	o.log.Debug().Str("threadId", thread.ID).Str("runId", run.ID).Msg("run started")

	if err := o.awaitRun(ctx, thread.ID, run.ID, run.Status); err != nil {
		return "", err
	}

	response, err := o.fetchResponse(ctx, thread.ID)
	if err != nil {
		return "", err
	}

	o.log.Info().
		Str("threadId", thread.ID).
		Str("runId", run.ID).
		Dur("duration", time.Since(start)).
		Msg("conversation completed")

	return response, nil
}

// awaitRun polls the run at the configured interval until it reaches a
// terminal status or the poll deadline expires. "completed" is the only
// success terminal; the remote status vocabulary is open-ended, so any
// other settled status is treated as failure rather than assumed known.
func (o *Orchestrator) awaitRun(ctx context.Context, threadID, runID string, status openai.RunStatus) error {
	pollCtx, cancel := context.WithTimeout(ctx, o.cfg.PollTimeout)
	defer cancel()

	for {
		switch status {
		case openai.RunStatusCompleted:
			return nil
		case openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCancelling:
			// still settling, keep polling
		default:
			o.log.Error().
				Str("threadId", threadID).
				Str("runId", runID).
				Str("status", string(status)).
				Msg("run settled without completing")
			return fmt.Errorf("%w: status %q", ErrRunFailed, status)
		}

		select {
		case <-pollCtx.Done():
			o.log.Error().
				Str("threadId", threadID).
				Str("runId", runID).
				Dur("timeout", o.cfg.PollTimeout).
				Msg("run polling aborted")
			return fmt.Errorf("%w: %v", ErrRunTimeout, pollCtx.Err())
		case <-time.After(o.cfg.PollInterval):
		}

		run, err := o.api.RetrieveRun(pollCtx, threadID, runID)
		if err != nil {
			if pollCtx.Err() != nil {
				return fmt.Errorf("%w: %v", ErrRunTimeout, pollCtx.Err())
			}
			o.log.Error().Err(err).Str("runId", runID).Msg("run status poll failed")
			return fmt.Errorf("%w: %v", ErrPoll, err)
		}
		status = run.Status
	}
}

// fetchResponse retrieves the newest message on the thread and extracts its
// first text block.
func (o *Orchestrator) fetchResponse(ctx context.Context, threadID string) (string, error) {
	limit := 1
	order := "desc"
	msgs, err := o.api.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		o.log.Error().Err(err).Str("threadId", threadID).Msg("message fetch failed")
		return "", fmt.Errorf("%w: %v", ErrPoll, err)
	}

	for _, msg := range msgs.Messages {
		for _, content := range msg.Content {
			if content.Text != nil && content.Text.Value != "" {
				return content.Text.Value, nil
			}
		}
		break // only the newest message counts
	}

	o.log.Error().Str("threadId", threadID).Msg("run completed but produced no text")
	return "", ErrEmptyResponse
}
