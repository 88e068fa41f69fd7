package main

import (
	"errors"
	"os"

	docshot "github.com/alnah/go-docshot"
	"github.com/alnah/go-docshot/internal/assets"
	"github.com/alnah/go-docshot/internal/config"
	"github.com/alnah/go-docshot/internal/dateutil"
	"github.com/alnah/go-docshot/internal/pipeline"
)

// Exit codes for the docshot CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Output file could not be written
	ExitBrowser = 4 // Browser, capture or pool errors
	ExitRemote  = 5 // Content service errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// An empty identifier is reported as not found but is a usage mistake.
	if errors.Is(err, docshot.ErrEmptyID) {
		return ExitUsage
	}

	// Remote errors (exit 5)
	if errors.Is(err, docshot.ErrNotFound) ||
		errors.Is(err, docshot.ErrUnavailable) ||
		errors.Is(err, ErrTaskFailed) ||
		(errors.Is(err, docshot.ErrSubmitFailed) && !errors.Is(err, docshot.ErrUnknownTaskType)) {
		return ExitRemote
	}

	// Browser errors (exit 4)
	if errors.Is(err, docshot.ErrBrowserConnect) ||
		errors.Is(err, docshot.ErrPageCreate) ||
		errors.Is(err, docshot.ErrPageLoad) ||
		errors.Is(err, docshot.ErrCaptureFailed) ||
		errors.Is(err, docshot.ErrPoolExhausted) ||
		errors.Is(err, docshot.ErrPoolClosed) ||
		errors.Is(err, pipeline.ErrTeXCommand) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoEndpoint) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, pipeline.ErrInvalidMathMode) ||
		errors.Is(err, docshot.ErrUnknownKind) ||
		errors.Is(err, docshot.ErrUnknownTaskType) ||
		errors.Is(err, docshot.ErrEmptyID) ||
		errors.Is(err, docshot.ErrInvalidAssetPath) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrTemplateNotFound) {
		return ExitUsage
	}

	return ExitGeneral
}
