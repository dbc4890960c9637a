package hitcount

import (
	"time"

	"github.com/rs/zerolog"
)

// Option configures the counter Service.
type Option func(*Service)

// WithLogger sets the logger used for request and backend-failure logging.
// If not provided, logging is disabled.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithKey sets the counter key incremented by the /count route.
// Defaults to [DefaultKey].
func WithKey(key string) Option {
	return func(s *Service) {
		s.key = key
	}
}

// WithRequestTimeout bounds each backend call made on behalf of a request.
// A timed-out call is treated as backend unavailability.
// Defaults to [DefaultRequestTimeout].
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// VersionOption configures the VersionService.
type VersionOption func(*VersionService)

// WithVersionLogger sets the logger for the relational variant.
func WithVersionLogger(l zerolog.Logger) VersionOption {
	return func(v *VersionService) {
		v.logger = l
	}
}

// WithVersionTimeout bounds the version query made on behalf of a request.
func WithVersionTimeout(d time.Duration) VersionOption {
	return func(v *VersionService) {
		v.timeout = d
	}
}
