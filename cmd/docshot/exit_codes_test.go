package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	docshot "github.com/alnah/go-docshot"
	"github.com/alnah/go-docshot/internal/config"
	"github.com/alnah/go-docshot/internal/dateutil"
	"github.com/alnah/go-docshot/internal/pipeline"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"unexpected", errors.New("boom"), ExitGeneral},
		{"deadline", context.DeadlineExceeded, ExitGeneral},

		{"not found", fmt.Errorf("fetch: %w", docshot.ErrNotFound), ExitRemote},
		{"unavailable", docshot.ErrUnavailable, ExitRemote},
		{"task failed", fmt.Errorf("%w: t-1", ErrTaskFailed), ExitRemote},
		{"submit rejected remotely", fmt.Errorf("%w: code 500", docshot.ErrSubmitFailed), ExitRemote},
		{"submit with unknown type", fmt.Errorf("%w: %w", docshot.ErrSubmitFailed, docshot.ErrUnknownTaskType), ExitUsage},

		{"browser connect", docshot.ErrBrowserConnect, ExitBrowser},
		{"page load", fmt.Errorf("wrap: %w", docshot.ErrPageLoad), ExitBrowser},
		{"capture", docshot.ErrCaptureFailed, ExitBrowser},
		{"pool exhausted", docshot.ErrPoolExhausted, ExitBrowser},
		{"tex command", pipeline.ErrTeXCommand, ExitBrowser},

		{"write output", fmt.Errorf("%w: disk full", ErrWriteOutput), ExitIO},
		{"permission", fmt.Errorf("open: %w", os.ErrPermission), ExitIO},

		{"usage", fmt.Errorf("%w: bad flag", ErrUsage), ExitUsage},
		{"no endpoint", ErrNoEndpoint, ExitUsage},
		{"payload", ErrInvalidPayload, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config value", fmt.Errorf("invalid configuration: %w", config.ErrInvalidValue), ExitUsage},
		{"date format", dateutil.ErrInvalidDateFormat, ExitUsage},
		{"math mode", pipeline.ErrInvalidMathMode, ExitUsage},
		{"kind", docshot.ErrUnknownKind, ExitUsage},
		{"empty id", docshot.ErrEmptyID, ExitUsage},
		{"empty id reported as not found", fmt.Errorf("%w: %w", docshot.ErrNotFound, docshot.ErrEmptyID), ExitUsage},
		{"asset path", docshot.ErrInvalidAssetPath, ExitUsage},
		{"style", docshot.ErrStyleNotFound, ExitUsage},
		{"template", docshot.ErrTemplateNotFound, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
