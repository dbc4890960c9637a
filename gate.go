package hitcount

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// ErrDependencyUnreachable is returned when the startup gate exhausts its
// attempt budget without the datastore ever accepting a connection.
var ErrDependencyUnreachable = errors.New("hitcount: dependency unreachable")

// UnreachableError reports how many attempts the gate made and the last
// connection error it saw. It is fatal: the service must not transition to
// Ready after receiving it.
type UnreachableError struct {
	Attempts int
	Err      error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("hitcount: dependency unreachable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UnreachableError) Unwrap() error {
	return ErrDependencyUnreachable
}

// Pinger is the readiness probe the gate retries against. Every store
// implementation and [SQLVersionSource] satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Gate blocks startup until a datastore dependency is reachable, retrying
// with exponential backoff. The zero value retries forever with the default
// intervals.
type Gate struct {
	// MaxAttempts caps the number of connection attempts. Zero retries
	// forever, which is acceptable for a long-lived service.
	MaxAttempts uint

	// InitialInterval is the delay after the first failed attempt.
	// Defaults to 500ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Defaults to 5s.
	MaxInterval time.Duration

	// Logger receives a warn entry per failed attempt. The zero value
	// disables logging.
	Logger zerolog.Logger
}

// Wait probes p until it succeeds, the context is cancelled, or MaxAttempts
// is exhausted. On exhaustion or cancellation it returns an
// *UnreachableError wrapping the last probe error.
func (g Gate) Wait(ctx context.Context, p Pinger) error {
	if g.InitialInterval <= 0 {
		g.InitialInterval = 500 * time.Millisecond
	}
	if g.MaxInterval <= 0 {
		g.MaxInterval = 5 * time.Second
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.InitialInterval
	bo.MaxInterval = g.MaxInterval
	// The budget is attempt-count based, not wall-clock based.
	bo.MaxElapsedTime = 0

	var b backoff.BackOff = backoff.WithContext(bo, ctx)
	if g.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(g.MaxAttempts-1))
	}

	attempts := 0
	probe := func() error {
		attempts++
		return p.Ping(ctx)
	}
	notify := func(err error, wait time.Duration) {
		g.Logger.Warn().
			Err(err).
			Int("attempt", attempts).
			Dur("retry_in", wait).
			Msg("datastore not ready")
	}

	if err := backoff.RetryNotify(probe, b, notify); err != nil {
		return &UnreachableError{Attempts: attempts, Err: err}
	}
	return nil
}
