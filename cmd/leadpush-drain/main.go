// leadpush-drain pushes queued contacts for one zip from the command line,
// looping chunk calls until the queue is drained or a total cap is reached
package main

import (
	"context"
	"flag"

	"leadpush/internal/platform/config"
	"leadpush/internal/platform/logger"
	"leadpush/internal/platform/store"

	pushdom "leadpush/internal/services/push/domain"
	pushsvc "leadpush/internal/services/push/service"
	queuerepo "leadpush/internal/services/queue/repo"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	crmCfg := root.Prefix("LEADCONNECTOR_")

	l := logger.Get()

	var (
		fZip    = flag.String("zip", "", "zip code to drain (required)")
		fTag    = flag.String("tag", "", "single tag to attach to each contact")
		fTotal  = flag.Int("total", 0, "stop after this many attempted rows, 0 means drain until empty")
		fWindow = flag.Int("window", 0, "per-chunk window seconds (clamped 5..120, default 55)")
	)
	flag.Parse()

	if *fZip == "" {
		l.Panic().Msg("must provide -zip")
	}

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	queueRepo := queuerepo.NewPG().Bind(st.PG)

	rps := crmCfg.MayInt("RPS", 5)
	backoff := pushsvc.NewSharedBackoff()
	limiter := pushsvc.NewLimiter(rps, backoff)
	sender := pushsvc.NewSender(pushsvc.SenderConfig{
		BaseURL: crmCfg.MayString("BASE_URL", ""),
		Token:   crmCfg.MustString("TOKEN"),
		Version: crmCfg.MayString("VERSION", ""),
	}, limiter, backoff)
	pusher := pushsvc.New(queueRepo, sender, backoff, pushsvc.Config{
		RPS:     rps,
		CallCap: crmCfg.MayInt("CALL_CAP", 5),
	})

	ctx := context.Background()
	attempted := 0
	for {
		res, err := pusher.Run(ctx, pushdom.ChunkParams{
			Zip:           *fZip,
			Tag:           *fTag,
			WindowSeconds: *fWindow,
		})
		if err != nil {
			l.Fatal().Err(err).Msg("chunk run failed")
		}

		attempted += res.Attempted
		l.Info().
			Str("zip", res.Zip).
			Int("attempted", res.Attempted).
			Int("succeeded", res.Succeeded).
			Int("failed", res.Failed).
			Int("dedupe_skipped", res.DedupeSkipped).
			Int64("backoff_ms", res.RateLimitBackoffMs).
			Int64("duration_ms", res.DurationMs).
			Msg("chunk done")

		if res.Attempted == 0 {
			l.Info().Int("total_attempted", attempted).Msg("queue drained")
			return
		}
		if *fTotal > 0 && attempted >= *fTotal {
			l.Info().Int("total_attempted", attempted).Msg("total cap reached")
			return
		}
	}
}
