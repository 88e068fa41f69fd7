package contentapi

import "errors"

// Sentinel errors for remote service operations.
var (
	// ErrNotFound means the service answered with a non-success envelope code.
	// Absence and logical failure are deliberately the same outcome here.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable means the service could not be asked: dial failure,
	// timeout, or a response that is not a readable envelope.
	ErrUnavailable = errors.New("content service unavailable")

	// ErrSubmitFailed means task creation was rejected.
	ErrSubmitFailed = errors.New("task submission failed")

	ErrUnknownKind     = errors.New("unknown document kind")
	ErrUnknownTaskType = errors.New("unknown task type")

	// ErrEmptyID is reported wrapped in ErrNotFound: no record has an empty id.
	ErrEmptyID = errors.New("identifier cannot be empty")
)
