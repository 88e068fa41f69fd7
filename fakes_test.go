package docshot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alnah/go-docshot/internal/contentapi"
)

// ---------------------------------------------------------------------------
// Fake backend and surface
// ---------------------------------------------------------------------------

// signalMode scripts how a fake surface answers one readiness signal.
type signalMode int

const (
	signalReady signalMode = iota // fires immediately
	signalNever                   // blocks until ctx ends
	signalError                   // fails immediately
)

// pngBytes is a minimal stand-in for captured image data.
var pngBytes = []byte("\x89PNG\r\n\x1a\nfake")

type fakeSurface struct {
	mu            sync.Mutex
	viewport      Viewport
	viewportErr   error
	viewportDelay time.Duration
	html          string
	loadErr       error
	loadBlocks    bool
	signals       map[Signal]signalMode
	waited        []Signal
	captureData   []byte
	captureErr    error
	closed        int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{signals: map[Signal]signalMode{}, captureData: pngBytes}
}

func (s *fakeSurface) SetViewport(ctx context.Context, vp Viewport) error {
	s.mu.Lock()
	s.viewport = vp
	delay, err := s.viewportDelay, s.viewportErr
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (s *fakeSurface) Load(ctx context.Context, html string) error {
	s.mu.Lock()
	s.html = html
	blocks, err := s.loadBlocks, s.loadErr
	s.mu.Unlock()

	if blocks {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (s *fakeSurface) WaitSignal(ctx context.Context, sig Signal) error {
	s.mu.Lock()
	s.waited = append(s.waited, sig)
	mode := s.signals[sig]
	s.mu.Unlock()

	switch mode {
	case signalNever:
		<-ctx.Done()
		return ctx.Err()
	case signalError:
		return errors.New("page crashed")
	}
	return nil
}

func (s *fakeSurface) Capture(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.captureErr != nil {
		return nil, s.captureErr
	}
	return s.captureData, nil
}

func (s *fakeSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

func (s *fakeSurface) waitedFor() []Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Signal(nil), s.waited...)
}

func (s *fakeSurface) loadedHTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html
}

func (s *fakeSurface) closeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeBackend hands out surfaces built by configure.
type fakeBackend struct {
	mu         sync.Mutex
	configure  func(*fakeSurface)
	surfaceErr error
	surfaces   []*fakeSurface
	closed     int
}

func (b *fakeBackend) NewSurface(ctx context.Context) (Surface, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surfaceErr != nil {
		return nil, b.surfaceErr
	}
	s := newFakeSurface()
	if b.configure != nil {
		b.configure(s)
	}
	b.surfaces = append(b.surfaces, s)
	return s, nil
}

func (b *fakeBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed++
	return nil
}

func (b *fakeBackend) lastSurface() *fakeSurface {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.surfaces) == 0 {
		return nil
	}
	return b.surfaces[len(b.surfaces)-1]
}

// fakeFactory builds fakeBackends sharing one surface configuration and
// counts how many were created.
type fakeFactory struct {
	configure func(*fakeSurface)
	created   atomic.Int32
	mu        sync.Mutex
	backends  []*fakeBackend
}

func (f *fakeFactory) New() Backend {
	f.created.Add(1)
	b := &fakeBackend{configure: f.configure}
	f.mu.Lock()
	f.backends = append(f.backends, b)
	f.mu.Unlock()
	return b
}

func (f *fakeFactory) lastSurface() *fakeSurface {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.backends) - 1; i >= 0; i-- {
		if s := f.backends[i].lastSurface(); s != nil {
			return s
		}
	}
	return nil
}

// newFakePool creates a pool whose browsers are fakeBackends.
func newFakePool(size int, configure func(*fakeSurface), opts ...PoolOption) (*SurfacePool, *fakeFactory) {
	f := &fakeFactory{configure: configure}
	opts = append([]PoolOption{WithBackendFactory(f.New)}, opts...)
	return NewSurfacePool(size, opts...), f
}

// ---------------------------------------------------------------------------
// Fake content service
// ---------------------------------------------------------------------------

type fakeSource struct {
	mu    sync.Mutex
	docs  map[string]*contentapi.Document
	err   error
	calls int
}

func (s *fakeSource) Document(ctx context.Context, kind contentapi.Kind, id string) (*contentapi.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	doc, ok := s.docs[string(kind)+"/"+id]
	if !ok {
		return nil, contentapi.ErrNotFound
	}
	return doc, nil
}

// fakeTasks simulates the remote task table: each poll advances a task one
// step along its lifecycle, ending in final.
type fakeTasks struct {
	mu        sync.Mutex
	next      int
	tasks     map[string]*contentapi.Task
	final     contentapi.TaskStatus
	createErr error
	creates   int
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{tasks: map[string]*contentapi.Task{}, final: contentapi.TaskSucceeded}
}

func (f *fakeTasks) CreateTask(ctx context.Context, taskType contentapi.TaskType, payload any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.next++
	id := "task-" + string(rune('0'+f.next))
	f.tasks[id] = &contentapi.Task{ID: id, Status: contentapi.TaskQueued}
	return id, nil
}

func (f *fakeTasks) Task(ctx context.Context, id string) (*contentapi.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok {
		return nil, contentapi.ErrNotFound
	}
	snapshot := *task
	switch task.Status {
	case contentapi.TaskQueued:
		task.Status = contentapi.TaskRunning
	case contentapi.TaskRunning:
		task.Status = f.final
	}
	return &snapshot, nil
}
