package docshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-docshot/internal/pipeline"
)

// Default per-stage ceilings.
const (
	DefaultNavigationTimeout = 15 * time.Second
	DefaultFontsTimeout      = 5 * time.Second
	DefaultImagesTimeout     = 5 * time.Second
	DefaultTypesetTimeout    = 20 * time.Second

	// captureTimeout bounds the screenshot itself.
	captureTimeout = 30 * time.Second
)

// Timeouts holds the independent ceiling of each stage. Zero fields use the
// defaults.
type Timeouts struct {
	Navigation time.Duration
	Fonts      time.Duration
	Images     time.Duration
	Typeset    time.Duration
}

// DefaultTimeouts returns the default ceilings.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Navigation: DefaultNavigationTimeout,
		Fonts:      DefaultFontsTimeout,
		Images:     DefaultImagesTimeout,
		Typeset:    DefaultTypesetTimeout,
	}
}

// withDefaults fills zero or negative fields.
func (t Timeouts) withDefaults() Timeouts {
	d := DefaultTimeouts()
	if t.Navigation <= 0 {
		t.Navigation = d.Navigation
	}
	if t.Fonts <= 0 {
		t.Fonts = d.Fonts
	}
	if t.Images <= 0 {
		t.Images = d.Images
	}
	if t.Typeset <= 0 {
		t.Typeset = d.Typeset
	}
	return t
}

// Ceiling is the longest Prepare can spend after acquiring a surface:
// navigation (viewport setup and page load together) plus the slowest
// readiness signal, which run concurrently.
func (t Timeouts) Ceiling() time.Duration {
	t = t.withDefaults()
	return t.Navigation + max(t.Fonts, t.Images, t.Typeset)
}

// Outcome is the final state of one readiness stage.
type Outcome int

// Readiness outcomes.
const (
	OutcomePending Outcome = iota
	OutcomeReady
	OutcomeTimedOut
	OutcomeFailed
	OutcomeSkipped
)

var outcomeNames = [...]string{"pending", "ready", "timed out", "failed", "skipped"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// degraded reports whether the stage gave up.
func (o Outcome) degraded() bool {
	return o == OutcomeTimedOut || o == OutcomeFailed
}

// ReadinessState records how each stage of one render session ended.
type ReadinessState struct {
	Navigation Outcome
	Fonts      Outcome
	Images     Outcome
	Typeset    Outcome
}

// Degraded reports whether any stage timed out or failed.
func (s ReadinessState) Degraded() bool {
	return s.Navigation.degraded() || s.Fonts.degraded() ||
		s.Images.degraded() || s.Typeset.degraded()
}

// LogValue implements slog.LogValuer.
func (s ReadinessState) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("navigation", s.Navigation.String()),
		slog.String("fonts", s.Fonts.String()),
		slog.String("images", s.Images.String()),
		slog.String("typeset", s.Typeset.String()),
	)
}

// awaitReadiness runs the font, image and typeset checks concurrently, each
// bounded by its own ceiling. It always returns: a check that times out or
// fails is logged as degraded and recorded in the state.
//
// Image readiness is skipped when the snapshot has no images so no listener
// waits on an event that can never fire. Typeset readiness only runs when the
// snapshot typesets math in the page.
func awaitReadiness(ctx context.Context, s Surface, snap *pipeline.Snapshot, t Timeouts, logger *slog.Logger) ReadinessState {
	state := ReadinessState{
		Fonts:   OutcomePending,
		Images:  OutcomeSkipped,
		Typeset: OutcomeSkipped,
	}

	var g errgroup.Group

	g.Go(func() error {
		state.Fonts = waitSignal(ctx, s, SignalFonts, t.Fonts, logger)
		return nil
	})

	if len(snap.Images) > 0 {
		state.Images = OutcomePending
		g.Go(func() error {
			state.Images = waitSignal(ctx, s, SignalImages, t.Images, logger)
			return nil
		})
	}

	if snap.NeedsTypeset {
		state.Typeset = OutcomePending
		g.Go(func() error {
			state.Typeset = waitSignal(ctx, s, SignalTypeset, t.Typeset, logger)
			return nil
		})
	}

	_ = g.Wait()
	return state
}

// waitSignal waits for one signal under its own timeout.
func waitSignal(ctx context.Context, s Surface, sig Signal, timeout time.Duration, logger *slog.Logger) Outcome {
	wctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := s.WaitSignal(wctx, sig)
	elapsed := time.Since(start)

	if err == nil {
		logger.Debug("readiness signal fired", "signal", sig, "elapsed", elapsed)
		return OutcomeReady
	}

	outcome := OutcomeFailed
	if errors.Is(err, context.DeadlineExceeded) || wctx.Err() != nil {
		outcome = OutcomeTimedOut
	}
	logger.Warn("readiness signal degraded",
		"signal", sig,
		"outcome", outcome.String(),
		"elapsed", elapsed,
		"error", fmt.Errorf("%w: %s: %v", ErrRenderDegraded, sig, err))
	return outcome
}
