package docshot

import (
	"errors"

	"github.com/alnah/go-docshot/internal/assets"
	"github.com/alnah/go-docshot/internal/contentapi"
)

// Sentinel errors for library operations.
var (
	// ErrNotFound means the content service has no such record, or answered
	// with a non-success envelope code.
	ErrNotFound = contentapi.ErrNotFound

	// ErrUnavailable means the content service could not be reached.
	ErrUnavailable = contentapi.ErrUnavailable

	// ErrSubmitFailed means the content service rejected a task.
	ErrSubmitFailed = contentapi.ErrSubmitFailed

	ErrUnknownKind     = contentapi.ErrUnknownKind
	ErrUnknownTaskType = contentapi.ErrUnknownTaskType
	ErrEmptyID         = contentapi.ErrEmptyID

	// ErrRenderDegraded marks a readiness signal that timed out or failed.
	// It is logged, never returned: capture still happens.
	ErrRenderDegraded = errors.New("render degraded")

	ErrCaptureFailed  = errors.New("capture failed")
	ErrPoolExhausted  = errors.New("no render surface available")
	ErrPoolClosed     = errors.New("surface pool closed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")
)
