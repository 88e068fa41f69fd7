package docshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alnah/go-docshot/internal/contentapi"
)

// Compile-time interface implementation check.
var _ TaskService = (*contentapi.Client)(nil)

// DefaultPollInterval is the Wait interval when none is given.
const DefaultPollInterval = 2 * time.Second

// TaskService is the remote task table. *contentapi.Client implements it.
type TaskService interface {
	CreateTask(ctx context.Context, taskType contentapi.TaskType, payload any) (string, error)
	Task(ctx context.Context, id string) (*contentapi.Task, error)
}

// TaskPoller submits background work items and reports their lifecycle.
// It is a pure read-through: no retries, no caching.
type TaskPoller struct {
	svc    TaskService
	logger *slog.Logger
}

// NewTaskPoller creates a poller. A nil logger uses slog.Default().
func NewTaskPoller(svc TaskService, logger *slog.Logger) *TaskPoller {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskPoller{svc: svc, logger: logger}
}

// Submit creates a task of the given type and returns its identifier.
// Types outside the recognized set fail locally with ErrUnknownTaskType,
// which also matches ErrSubmitFailed. The payload is validated remotely.
func (p *TaskPoller) Submit(ctx context.Context, taskType string, payload any) (string, error) {
	tt, err := contentapi.ParseTaskType(taskType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	id, err := p.svc.CreateTask(ctx, tt, payload)
	if err != nil {
		p.logger.Info("task submission failed", "type", string(tt), "error", err)
		return "", err
	}

	p.logger.Info("task submitted", "type", string(tt), "task", id)
	return id, nil
}

// Poll returns the current state of a task. A task the service does not
// know is ErrNotFound.
func (p *TaskPoller) Poll(ctx context.Context, id string) (*contentapi.Task, error) {
	task, err := p.svc.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("task polled", "task", id, "status", task.Status.String())
	return task, nil
}

// Wait polls every interval until the task reaches a terminal status or ctx
// ends. Any poll error stops the wait. An interval <= 0 uses
// DefaultPollInterval.
func (p *TaskPoller) Wait(ctx context.Context, id string, interval time.Duration) (*contentapi.Task, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		task, err := p.Poll(ctx, id)
		if err != nil {
			return nil, err
		}
		if task.Status.Terminal() {
			return task, nil
		}

		select {
		case <-ctx.Done():
			return task, ctx.Err()
		case <-ticker.C:
		}
	}
}
