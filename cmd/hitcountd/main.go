// Command hitcountd serves the key-value variant: a greeting on "/" and a
// datastore-backed visit counter on "/count". The backend defaults to Redis
// and is selected with the BACKEND environment variable.
package main

import (
	"context"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ryhazerus/hitcount"
	"github.com/ryhazerus/hitcount/store"
	redisstore "github.com/ryhazerus/hitcount/store/redis"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("svc", "hitcountd").Logger()

	cfg, err := hitcount.CounterConfigFromEnv(os.LookupEnv)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open counter store")
	}

	svc := hitcount.NewService(st,
		hitcount.WithLogger(logger),
		hitcount.WithRequestTimeout(cfg.RequestTimeout),
	)
	defer svc.Close()

	gate := hitcount.Gate{
		MaxAttempts:     cfg.Gate.MaxAttempts,
		InitialInterval: cfg.Gate.InitialInterval,
		MaxInterval:     cfg.Gate.MaxInterval,
		Logger:          logger,
	}
	if err := svc.WaitReady(context.Background(), gate); err != nil {
		logger.Fatal().Err(err).Msg("datastore never became reachable")
	}

	logger.Info().
		Str("addr", cfg.ListenAddr).
		Str("backend", cfg.Backend).
		Stringer("state", svc.State()).
		Msg("serving")
	if err := http.ListenAndServe(cfg.ListenAddr, svc.Handler()); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
}

func openStore(cfg hitcount.CounterConfig) (store.Store, error) {
	switch cfg.Backend {
	case hitcount.BackendSQLite:
		return store.NewSQLiteStore(cfg.SQLitePath)
	case hitcount.BackendMemory:
		return store.NewMemoryStore(), nil
	default:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewRedisStore(client), nil
	}
}
