package hitcount

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// VersionSource answers the relational variant's fixed read-only query.
type VersionSource interface {
	Version(ctx context.Context) (string, error)
}

// Compile-time interface checks.
var (
	_ VersionSource = (*SQLVersionSource)(nil)
	_ Pinger        = (*SQLVersionSource)(nil)
)

// SQLVersionSource reads the server version string from a SQL database.
// No mutation occurs; the query exists to prove connectivity end to end:
// connect, execute a statement, fetch the first row's first column, return
// the connection to the pool.
type SQLVersionSource struct {
	db *sql.DB
}

// NewSQLVersionSource wraps an opened database handle.
func NewSQLVersionSource(db *sql.DB) *SQLVersionSource {
	return &SQLVersionSource{db: db}
}

// Version runs SELECT VERSION() and passes the result through unmodified.
func (s *SQLVersionSource) Version(ctx context.Context) (string, error) {
	var version string
	if err := s.db.QueryRowContext(ctx, `SELECT VERSION()`).Scan(&version); err != nil {
		return "", fmt.Errorf("hitcount: select version: %w", err)
	}
	return version, nil
}

// Ping verifies the database connection is alive.
func (s *SQLVersionSource) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (s *SQLVersionSource) Close() error {
	return s.db.Close()
}

// VersionService is the HTTP-facing half of the relational variant: a single
// route that greets the caller with the database server version.
type VersionService struct {
	source  VersionSource
	logger  zerolog.Logger
	timeout time.Duration
}

// NewVersionService creates a VersionService backed by the given source.
func NewVersionService(source VersionSource, opts ...VersionOption) *VersionService {
	svc := &VersionService{
		source:  source,
		logger:  zerolog.Nop(),
		timeout: DefaultRequestTimeout,
	}
	for _, o := range opts {
		o(svc)
	}
	return svc
}

// Handler returns the HTTP surface of the service.
func (v *VersionService) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", v.handleHello)
	return mux
}

func (v *VersionService) handleHello(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), v.timeout)
	defer cancel()

	version, err := v.source.Version(ctx)
	if err != nil {
		berr := &BackendError{Op: "version", Err: err}
		v.logger.Error().Err(berr).Msg("version query failed")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello, World! MySQL version: %s", version)
}
