// Package api provides the HTTP API for the application
package api

import (
	stdhttp "net/http"
	"time"

	"leadpush/internal/platform/config"
	"leadpush/internal/platform/logger"
	phttp "leadpush/internal/platform/net/http"
	"leadpush/internal/platform/net/middleware"
	"leadpush/internal/platform/store"

	authhttp "leadpush/internal/services/auth/http"
	authsvc "leadpush/internal/services/auth/service"
	contactshttp "leadpush/internal/services/contacts/http"
	contactsrepo "leadpush/internal/services/contacts/repo"
	contactssvc "leadpush/internal/services/contacts/service"
	ingesthttp "leadpush/internal/services/ingest/http"
	ingestsvc "leadpush/internal/services/ingest/service"
	pushhttp "leadpush/internal/services/push/http"
	pushsvc "leadpush/internal/services/push/service"
	queuerepo "leadpush/internal/services/queue/repo"
)

// Options are the API options
type Options struct {
	// API holds CORE_API_* keys (port, cors, profiler)
	API config.Conf

	// CRM holds LEADCONNECTOR_* keys (token, base url, rate budget)
	CRM config.Conf

	// Auth holds AUTH_* keys (password, cookie flags)
	Auth config.Conf

	Store          *store.Store
	Logger         *logger.Logger
	EnableProfiler bool
}

// Mount wires services and mounts all routes onto the given router
func Mount(r phttp.Router, opt Options) {
	r.Use(middleware.Defaults()...)
	r.Use(middleware.RecoverJSON)
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: 2 * time.Second}))
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins:   []string{opt.API.MayString("CORS_ORIGIN", "*")},
		AllowCredentials: true,
	}))
	r.Use(middleware.Heartbeat("/healthz"))

	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// repos bound to the shared pg pool
	queueRepo := queuerepo.NewPG().Bind(opt.Store.PG)
	contactsRepo := contactsrepo.NewPG().Bind(opt.Store.PG)

	// delivery stack: one shared backoff gates both the limiter and the sender
	rps := opt.CRM.MayInt("RPS", 5)
	backoff := pushsvc.NewSharedBackoff()
	limiter := pushsvc.NewLimiter(rps, backoff)
	sender := pushsvc.NewSender(pushsvc.SenderConfig{
		BaseURL: opt.CRM.MayString("BASE_URL", ""),
		Token:   opt.CRM.MustString("TOKEN"),
		Version: opt.CRM.MayString("VERSION", ""),
	}, limiter, backoff)
	pusher := pushsvc.New(queueRepo, sender, backoff, pushsvc.Config{
		RPS:     rps,
		CallCap: opt.CRM.MayInt("CALL_CAP", 5),
	})

	contactsSvc := contactssvc.New(contactsRepo)
	ingestSvc := ingestsvc.New(queueRepo, contactsSvc)
	authSvc := authsvc.New(authsvc.Config{
		Password:      opt.Auth.MustString("PASSWORD"),
		SecureCookies: opt.Auth.MayBool("SECURE_COOKIES", false),
	})

	writeWire := func(w stdhttp.ResponseWriter, status int, body any) {
		phttp.JSON(w, status, body)
	}

	r.Route("/api", func(api phttp.Router) {
		authhttp.Register(api, authSvc)

		api.Group(func(protected phttp.Router) {
			protected.Use(middleware.RequireSession(authSvc, writeWire))

			ingesthttp.Register(protected, ingestSvc)
			contactshttp.Register(protected, contactsSvc, contactsSvc, contactshttp.Options{
				DefaultLocationID: opt.CRM.MayString("LOCATION_ID", ""),
			})
			protected.Route("/push", func(push phttp.Router) {
				pushhttp.Register(push, pusher)
			})
		})
	})
}
