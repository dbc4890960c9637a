package hitcount

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryhazerus/hitcount/store"
)

// ErrBackendUnavailable is returned when the counter backend cannot serve a
// request: connection refused, auth failure, timeout, or a protocol-level
// rejection from the datastore.
var ErrBackendUnavailable = errors.New("hitcount: backend unavailable")

// BackendError provides details about which backend operation failed.
// It is produced at the service boundary for every store failure and
// converted to an HTTP 503; a failed request never terminates the process.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("hitcount: backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return ErrBackendUnavailable
}

// DefaultKey is the counter key incremented by the /count route.
const DefaultKey = "visits"

// DefaultRequestTimeout bounds each backend call made on behalf of a request.
const DefaultRequestTimeout = 5 * time.Second

const welcomeBody = "Welcome to my Flask app"

// Service is the HTTP-facing visit counter. It serves a fixed greeting on
// "/" and an atomically incremented counter on "/count", delegating
// persistence to the injected [store.Store].
type Service struct {
	store   store.Store
	logger  zerolog.Logger
	key     string
	timeout time.Duration
	state   atomic.Int32
}

// NewService creates a Service backed by the given store.
// If the store is nil, an in-memory store is used.
func NewService(s store.Store, opts ...Option) *Service {
	svc := &Service{
		store:   s,
		logger:  zerolog.Nop(),
		key:     DefaultKey,
		timeout: DefaultRequestTimeout,
	}
	for _, o := range opts {
		o(svc)
	}
	if svc.store == nil {
		svc.store = store.NewMemoryStore()
	}
	return svc
}

// WaitReady blocks until the counter backend answers the gate's readiness
// probe, then transitions the service from Starting to Ready. Daemons must
// not bind their listener before WaitReady returns nil: container
// orchestration only orders process launch, not logical readiness.
func (s *Service) WaitReady(ctx context.Context, g Gate) error {
	if err := g.Wait(ctx, s.store); err != nil {
		return err
	}
	s.state.Store(int32(Ready))
	return nil
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	return State(s.state.Load())
}

// Handler returns the HTTP surface of the service.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleWelcome)
	mux.HandleFunc("GET /count", s.handleCount)
	return mux
}

// handleWelcome serves the fixed greeting. It never touches the backend, so
// it succeeds regardless of datastore health.
func (s *Service) handleWelcome(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, welcomeBody)
}

func (s *Service) handleCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	count, err := s.store.Increment(ctx, s.key)
	if err != nil {
		berr := &BackendError{Op: "increment", Err: err}
		s.logger.Error().Err(berr).Str("key", s.key).Msg("visit count failed")
		http.Error(w, "visit counter unavailable", http.StatusServiceUnavailable)
		return
	}

	s.logger.Debug().Str("key", s.key).Int64("count", count).Msg("visit counted")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "This page has been visited %d times.", count)
}

// Count returns the counter's current value without incrementing it.
func (s *Service) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	count, err := s.store.Get(ctx, s.key)
	if err != nil {
		return 0, &BackendError{Op: "get", Err: err}
	}
	return count, nil
}

// Close releases the underlying store.
func (s *Service) Close() error {
	return s.store.Close()
}
