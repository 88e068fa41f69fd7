package docshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one browser is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// DefaultAcquireTimeout bounds how long Acquire waits for a free browser.
const DefaultAcquireTimeout = 30 * time.Second

// BackendFactory creates one pooled backend. It is called lazily, at most
// once per pool slot.
type BackendFactory func() Backend

// PoolOption configures a SurfacePool.
type PoolOption func(*SurfacePool)

// WithAcquireTimeout sets how long Acquire waits for a free browser.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithAcquireTimeout(d time.Duration) PoolOption {
	if d <= 0 {
		panic("docshot: WithAcquireTimeout duration must be positive")
	}
	return func(p *SurfacePool) {
		p.acquireTimeout = d
	}
}

// WithBackendFactory replaces the go-rod backend, typically in tests.
func WithBackendFactory(f BackendFactory) PoolOption {
	return func(p *SurfacePool) {
		if f != nil {
			p.factory = f
		}
	}
}

// WithPoolLogger sets the logger used by the pool and its default backends.
func WithPoolLogger(l *slog.Logger) PoolOption {
	return func(p *SurfacePool) {
		if l != nil {
			p.logger = l
		}
	}
}

// SurfacePool bounds concurrent rendering to a fixed number of browsers.
// Each browser serves one surface at a time. Browsers are created lazily on
// first acquire to avoid startup delay. Waiters are served first come,
// first served.
type SurfacePool struct {
	size           int
	acquireTimeout time.Duration
	factory        BackendFactory
	logger         *slog.Logger

	backends []Backend
	idle     chan Backend
	mu       sync.Mutex
	created  int
	closed   bool
	done     chan struct{}
}

// NewSurfacePool creates a pool with capacity for n browsers.
// Browsers are launched when first needed, not at pool creation.
func NewSurfacePool(n int, opts ...PoolOption) *SurfacePool {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	p := &SurfacePool{
		size:           n,
		acquireTimeout: DefaultAcquireTimeout,
		logger:         slog.Default(),
		backends:       make([]Backend, 0, n),
		idle:           make(chan Backend, n),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.factory == nil {
		logger := p.logger
		p.factory = func() Backend { return NewRodBackend(logger) }
	}
	return p
}

// Acquire leases a surface on a free browser, launching one if the pool has
// not reached its size. It waits up to the acquire timeout, then fails with
// ErrPoolExhausted. The returned surface must be released exactly once.
func (p *SurfacePool) Acquire(ctx context.Context) (*RenderSurface, error) {
	backend, err := p.take(ctx)
	if err != nil {
		return nil, err
	}

	surface, err := backend.NewSurface(ctx)
	if err != nil {
		p.put(backend)
		return nil, err
	}

	return &RenderSurface{
		ID:      uuid.NewString(),
		surface: surface,
		backend: backend,
		pool:    p,
	}, nil
}

// take returns an idle backend, a newly created one, or waits for a release.
func (p *SurfacePool) take(ctx context.Context) (Backend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}

	// Try to get an existing backend (non-blocking)
	select {
	case b := <-p.idle:
		p.mu.Unlock()
		return b, nil
	default:
	}

	if p.created < p.size {
		p.created++
		b := p.factory()
		p.backends = append(p.backends, b)
		p.mu.Unlock()
		return b, nil
	}
	p.mu.Unlock()

	// All backends created, wait for one to be released
	timer := time.NewTimer(p.acquireTimeout)
	defer timer.Stop()

	select {
	case b, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return b, nil
	case <-p.done:
		return nil, ErrPoolClosed
	case <-timer.C:
		return nil, fmt.Errorf("%w: waited %s for one of %d browsers", ErrPoolExhausted, p.acquireTimeout, p.size)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// put returns a backend to the idle set. The channel holds every backend the
// pool can create, so the send never blocks.
func (p *SurfacePool) put(b Backend) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.idle <- b
}

// Close releases all browser resources. Surfaces still leased become
// unusable. Returns an aggregated error if multiple backends fail to close.
func (p *SurfacePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	close(p.idle)
	backends := p.backends
	p.mu.Unlock()

	var errs []error
	for _, b := range backends {
		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *SurfacePool) Size() int {
	return p.size
}

// Available returns how many surfaces could be acquired right now without
// waiting: idle browsers plus browsers not launched yet.
func (p *SurfacePool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0
	}
	return len(p.idle) + p.size - p.created
}

// RenderSurface is a leased, single-use page on one pooled browser.
type RenderSurface struct {
	ID string

	surface   Surface
	backend   Backend
	pool      *SurfacePool
	readiness ReadinessState // set by Renderer.Prepare
	once      sync.Once
}

// Release closes the page and hands the browser back to the pool.
// Safe to call more than once; only the first call has an effect.
func (rs *RenderSurface) Release() {
	rs.once.Do(func() {
		if err := rs.surface.Close(); err != nil {
			rs.pool.logger.Debug("closing surface", "surface", rs.ID, "error", err)
		}
		rs.pool.put(rs.backend)
	})
}

// ResolvePoolSize determines the pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
