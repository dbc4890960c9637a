package hitcount

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ryhazerus/hitcount/store"
)

// brokenStore fails every backend operation, simulating an unreachable
// datastore while the service is in Ready state.
type brokenStore struct{}

func (brokenStore) Increment(_ context.Context, _ string) (int64, error) {
	return 0, errors.New("connection reset by peer")
}

func (brokenStore) Get(_ context.Context, _ string) (int64, error) {
	return 0, errors.New("connection reset by peer")
}

func (brokenStore) Ping(_ context.Context) error {
	return errors.New("connection refused")
}

func (brokenStore) Close() error { return nil }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServiceWelcome(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	rec := get(t, svc.Handler(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "Welcome to my Flask app" {
		t.Errorf("body = %q, want %q", got, "Welcome to my Flask app")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q, want text/plain", ct)
	}
}

func TestServiceWelcomeUnknownPath(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	rec := get(t, svc.Handler(), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestServiceCountSequence(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	h := svc.Handler()

	for i := 1; i <= 5; i++ {
		rec := get(t, h, "/count")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
		want := fmt.Sprintf("This page has been visited %d times.", i)
		if got := rec.Body.String(); got != want {
			t.Errorf("request %d: body = %q, want %q", i, got, want)
		}
	}
}

func TestServiceCountBackendDown(t *testing.T) {
	svc := NewService(brokenStore{})
	h := svc.Handler()

	rec := get(t, h, "/count")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	// The greeting never touches the backend, so it keeps working.
	rec = get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Errorf("welcome status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "Welcome to my Flask app" {
		t.Errorf("welcome body = %q, want fixed greeting", got)
	}
}

func TestServiceCustomKey(t *testing.T) {
	ms := store.NewMemoryStore()
	svc := NewService(ms, WithKey("hits"))

	get(t, svc.Handler(), "/count")

	got, _ := ms.Get(context.Background(), "hits")
	if got != 1 {
		t.Errorf("counter %q = %d, want 1", "hits", got)
	}
}

func TestServiceCount(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	ctx := context.Background()

	got, err := svc.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("fresh counter = %d, want 0", got)
	}

	h := svc.Handler()
	get(t, h, "/count")
	get(t, h, "/count")

	got, err = svc.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("counter = %d, want 2", got)
	}
}

func TestServiceCountBackendError(t *testing.T) {
	svc := NewService(brokenStore{})

	_, err := svc.Count(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got: %v", err)
	}

	var berr *BackendError
	if !errors.As(err, &berr) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if berr.Op != "get" {
		t.Errorf("op = %q, want %q", berr.Op, "get")
	}
}

func TestServiceDefaultStore(t *testing.T) {
	// A nil store falls back to the in-memory implementation.
	svc := NewService(nil)

	rec := get(t, svc.Handler(), "/count")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "This page has been visited 1 times." {
		t.Errorf("body = %q, want first visit", got)
	}
}

func TestServiceLifecycle(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	if svc.State() != Starting {
		t.Fatalf("initial state = %v, want Starting", svc.State())
	}

	if err := svc.WaitReady(context.Background(), Gate{MaxAttempts: 1}); err != nil {
		t.Fatal(err)
	}
	if svc.State() != Ready {
		t.Errorf("state after WaitReady = %v, want Ready", svc.State())
	}
}

func TestServiceWaitReadyUnreachable(t *testing.T) {
	svc := NewService(brokenStore{})
	g := Gate{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
	}

	err := svc.WaitReady(context.Background(), g)
	if !errors.Is(err, ErrDependencyUnreachable) {
		t.Fatalf("expected ErrDependencyUnreachable, got: %v", err)
	}
	if svc.State() != Starting {
		t.Errorf("state = %v, want Starting after failed gate", svc.State())
	}
}
