package contentapi

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind identifies which document collection a query targets.
type Kind string

// Document kinds served by the remote service.
const (
	KindArticle Kind = "article"
	KindPaste   Kind = "paste"
)

// ParseKind converts a user-supplied name to a Kind (case-insensitive).
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindArticle:
		return KindArticle, nil
	case KindPaste:
		return KindPaste, nil
	}
	return "", fmt.Errorf("%w: %q (must be article or paste)", ErrUnknownKind, s)
}

// Document is a normalized article or paste record.
// Values are immutable once fetched and are never persisted.
type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     int64     `json:"author"`
	Rendered     string    `json:"rendered,omitempty"` // pre-rendered HTML fallback
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Deleted      bool      `json:"deleted,omitempty"`
	DeleteReason string    `json:"deleteReason,omitempty"`
}

// Revision is one entry of a document's edit history.
type Revision struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RecentQuery filters the recent-articles listing.
// Zero values are omitted from the request.
type RecentQuery struct {
	Count          int
	UpdatedAfter   time.Time
	TruncatedCount int // truncate each content body to this many characters
}

// TaskType is one of the work kinds the remote service accepts.
type TaskType string

// Recognized task types.
const (
	TaskSave    TaskType = "save"
	TaskRefresh TaskType = "refresh"
)

// ParseTaskType validates a task type against the closed set.
func ParseTaskType(s string) (TaskType, error) {
	switch TaskType(strings.ToLower(strings.TrimSpace(s))) {
	case TaskSave:
		return TaskSave, nil
	case TaskRefresh:
		return TaskRefresh, nil
	}
	return "", fmt.Errorf("%w: %q (must be save or refresh)", ErrUnknownTaskType, s)
}

// TaskStatus is a step of the linear task lifecycle
// Queued -> Running -> {Succeeded | Failed}.
type TaskStatus int

// Task lifecycle states.
const (
	TaskQueued TaskStatus = iota
	TaskRunning
	TaskSucceeded
	TaskFailed
)

var taskStatusNames = [...]string{"queued", "running", "succeeded", "failed"}

// String returns the lowercase status name.
func (s TaskStatus) String() string {
	if s < 0 || int(s) >= len(taskStatusNames) {
		return fmt.Sprintf("TaskStatus(%d)", int(s))
	}
	return taskStatusNames[s]
}

// Terminal reports whether no further transitions are expected.
func (s TaskStatus) Terminal() bool {
	return s == TaskSucceeded || s == TaskFailed
}

// MarshalJSON encodes the status as its lowercase name.
func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts status names in any case.
func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("task status: %w", err)
	}
	for i, n := range taskStatusNames {
		if strings.EqualFold(n, name) {
			*s = TaskStatus(i)
			return nil
		}
	}
	return fmt.Errorf("task status: unknown value %q", name)
}

// Task is a background work item as reported by the remote service.
// Tasks are mutated only remotely; this package never changes them.
type Task struct {
	ID        string          `json:"id"`
	Status    TaskStatus      `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// envelope wraps every response body from the remote service.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// codeOK is the envelope code signaling success.
const codeOK = 200
