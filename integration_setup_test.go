//go:build integration

package docshot

// Notes:
// - Integration test setup: one shared SurfacePool backed by real Chrome
// - testPool is initialized in TestMain and closed after all tests complete
// - Pool size is capped at 4 for CI environments to avoid resource exhaustion

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-docshot/internal/contentapi"
)

// ---------------------------------------------------------------------------
// Test Configuration
// ---------------------------------------------------------------------------

// testTimeout is the standard timeout for integration test operations.
const testTimeout = 60 * time.Second

// testPool is the shared SurfacePool for all integration tests.
// Safe for concurrent use: tests only acquire and release surfaces.
var testPool *SurfacePool

// ---------------------------------------------------------------------------
// TestMain - Integration Test Setup and Teardown
// ---------------------------------------------------------------------------

func TestMain(m *testing.M) {
	poolSize := min(ResolvePoolSize(0), 4)
	testPool = NewSurfacePool(poolSize)

	code := m.Run()

	// Cleanup all browser instances
	_ = testPool.Close()
	os.Exit(code)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newContentServer serves documents under /{kind}/query/{id} using the
// service's response envelope. Other paths are passed to extra when set.
func newContentServer(t *testing.T, docs map[string]contentapi.Document, extra http.Handler) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for key, doc := range docs {
			kind, id, _ := strings.Cut(key, "/")
			if r.URL.Path == "/"+kind+"/query/"+id {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "message": "ok", "data": doc})
				return
			}
		}
		if extra != nil {
			extra.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 404, "message": "not found"})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newIntegrationRenderer returns a renderer bound to the shared pool.
func newIntegrationRenderer(t *testing.T, endpoint string, opts ...Option) *Renderer {
	t.Helper()

	client := contentapi.New(endpoint)
	r, err := NewRenderer(client, testPool, opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}
