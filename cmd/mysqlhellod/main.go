// Command mysqlhellod serves the relational variant: a single route that
// proves MySQL connectivity by greeting the caller with the server version.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/ryhazerus/hitcount"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("svc", "mysqlhellod").Logger()

	cfg, err := hitcount.VersionConfigFromEnv(os.LookupEnv)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	dsn := mysql.NewConfig()
	dsn.Net = "tcp"
	dsn.Addr = cfg.MySQL.Addr()
	dsn.User = cfg.MySQL.User
	dsn.Passwd = cfg.MySQL.Password
	dsn.DBName = cfg.MySQL.Database

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database handle")
	}

	source := hitcount.NewSQLVersionSource(db)
	defer source.Close()

	gate := hitcount.Gate{
		MaxAttempts:     cfg.Gate.MaxAttempts,
		InitialInterval: cfg.Gate.InitialInterval,
		MaxInterval:     cfg.Gate.MaxInterval,
		Logger:          logger,
	}
	if err := gate.Wait(context.Background(), source); err != nil {
		logger.Fatal().Err(err).Msg("database never became reachable")
	}

	svc := hitcount.NewVersionService(source,
		hitcount.WithVersionLogger(logger),
		hitcount.WithVersionTimeout(cfg.RequestTimeout),
	)

	logger.Info().Str("addr", cfg.ListenAddr).Msg("serving")
	if err := http.ListenAndServe(cfg.ListenAddr, svc.Handler()); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
}
