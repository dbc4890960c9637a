package hitcount

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Lookup resolves a named environment value. os.LookupEnv satisfies it;
// tests can substitute a map-backed fake. All configuration is resolved
// exactly once at process start and never mutated afterwards.
type Lookup func(name string) (value string, ok bool)

// Backend names accepted by CounterConfig.Backend.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// RedisConfig describes the key-value backend connection.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port dial address.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// MySQLConfig describes the relational backend connection.
type MySQLConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Addr returns the host:port dial address.
func (c MySQLConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// GateConfig holds the startup gate tuning shared by both variants.
type GateConfig struct {
	MaxAttempts     uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// CounterConfig is the immutable startup configuration of the key-value
// variant (cmd/hitcountd).
type CounterConfig struct {
	ListenAddr     string
	Backend        string
	SQLitePath     string
	Redis          RedisConfig
	Gate           GateConfig
	RequestTimeout time.Duration
}

// VersionConfig is the immutable startup configuration of the relational
// variant (cmd/mysqlhellod).
type VersionConfig struct {
	ListenAddr     string
	MySQL          MySQLConfig
	Gate           GateConfig
	RequestTimeout time.Duration
}

// CounterConfigFromEnv resolves the counter service configuration from the
// given lookup. Unset values fall back to their documented defaults;
// malformed values are a startup error, reported before any connection is
// attempted.
//
// Keys and defaults: LISTEN_ADDR ":5001", BACKEND "redis", SQLITE_PATH
// "hitcount.db", REDIS_HOST "redis", REDIS_PORT 6379, REDIS_PASSWORD "",
// REDIS_DB 0, plus the shared gate and timeout keys.
func CounterConfigFromEnv(lookup Lookup) (CounterConfig, error) {
	cfg := CounterConfig{
		ListenAddr: envString(lookup, "LISTEN_ADDR", ":5001"),
		Backend:    envString(lookup, "BACKEND", BackendRedis),
		SQLitePath: envString(lookup, "SQLITE_PATH", "hitcount.db"),
	}

	switch cfg.Backend {
	case BackendRedis, BackendSQLite, BackendMemory:
	default:
		return CounterConfig{}, fmt.Errorf("hitcount: BACKEND: unknown backend %q", cfg.Backend)
	}

	var err error
	cfg.Redis.Host = envString(lookup, "REDIS_HOST", "redis")
	if cfg.Redis.Port, err = envInt(lookup, "REDIS_PORT", 6379); err != nil {
		return CounterConfig{}, err
	}
	cfg.Redis.Password = envString(lookup, "REDIS_PASSWORD", "")
	if cfg.Redis.DB, err = envInt(lookup, "REDIS_DB", 0); err != nil {
		return CounterConfig{}, err
	}

	if cfg.Gate, err = gateFromEnv(lookup); err != nil {
		return CounterConfig{}, err
	}
	if cfg.RequestTimeout, err = envDuration(lookup, "REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return CounterConfig{}, err
	}

	return cfg, nil
}

// VersionConfigFromEnv resolves the relational variant configuration from
// the given lookup.
//
// Keys and defaults: LISTEN_ADDR ":5002", MYSQL_HOST "mysql", MYSQL_PORT
// 3306, MYSQL_USER "root", MYSQL_PASSWORD "", MYSQL_DATABASE "", plus the
// shared gate and timeout keys.
func VersionConfigFromEnv(lookup Lookup) (VersionConfig, error) {
	cfg := VersionConfig{
		ListenAddr: envString(lookup, "LISTEN_ADDR", ":5002"),
	}

	var err error
	cfg.MySQL.Host = envString(lookup, "MYSQL_HOST", "mysql")
	if cfg.MySQL.Port, err = envInt(lookup, "MYSQL_PORT", 3306); err != nil {
		return VersionConfig{}, err
	}
	cfg.MySQL.User = envString(lookup, "MYSQL_USER", "root")
	cfg.MySQL.Password = envString(lookup, "MYSQL_PASSWORD", "")
	cfg.MySQL.Database = envString(lookup, "MYSQL_DATABASE", "")

	if cfg.Gate, err = gateFromEnv(lookup); err != nil {
		return VersionConfig{}, err
	}
	if cfg.RequestTimeout, err = envDuration(lookup, "REQUEST_TIMEOUT", DefaultRequestTimeout); err != nil {
		return VersionConfig{}, err
	}

	return cfg, nil
}

// Shared keys: STARTUP_MAX_ATTEMPTS 0 (retry forever),
// STARTUP_RETRY_INTERVAL 500ms, STARTUP_MAX_INTERVAL 5s.
func gateFromEnv(lookup Lookup) (GateConfig, error) {
	var (
		cfg GateConfig
		err error
	)

	attempts, err := envInt(lookup, "STARTUP_MAX_ATTEMPTS", 0)
	if err != nil {
		return GateConfig{}, err
	}
	if attempts < 0 {
		return GateConfig{}, fmt.Errorf("hitcount: STARTUP_MAX_ATTEMPTS: must not be negative, got %d", attempts)
	}
	cfg.MaxAttempts = uint(attempts)

	if cfg.InitialInterval, err = envDuration(lookup, "STARTUP_RETRY_INTERVAL", 500*time.Millisecond); err != nil {
		return GateConfig{}, err
	}
	if cfg.MaxInterval, err = envDuration(lookup, "STARTUP_MAX_INTERVAL", 5*time.Second); err != nil {
		return GateConfig{}, err
	}

	return cfg, nil
}

func envString(lookup Lookup, name, fallback string) string {
	if v, ok := lookup(name); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(lookup Lookup, name string, fallback int) (int, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("hitcount: %s: invalid integer %q", name, v)
	}
	return n, nil
}

func envDuration(lookup Lookup, name string, fallback time.Duration) (time.Duration, error) {
	v, ok := lookup(name)
	if !ok || v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("hitcount: %s: invalid duration %q", name, v)
	}
	return d, nil
}
