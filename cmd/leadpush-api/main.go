// @title         Leadpush API
// @version       0.1.0
// @description   CSV lead ingest and rate-limited CRM delivery

package main

import (
	"context"

	"leadpush/internal/platform/config"
	"leadpush/internal/platform/logger"
	phttp "leadpush/internal/platform/net/http"
	"leadpush/internal/platform/store"

	"leadpush/internal/services/api"

	"github.com/joho/godotenv"
)

func main() {
	// local dev convenience; missing .env is fine
	_ = godotenv.Load()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	crmCfg := root.Prefix("LEADCONNECTOR_")
	authCfg := root.Prefix("AUTH_")

	// bring up logging early
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			API:            apiCfg,
			CRM:            crmCfg,
			Auth:           authCfg,
			Store:          st,
			Logger:         l,
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
