package router

import (
	"math"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/itchan-dev/msgboard/backend/internal/selftest"
	"github.com/itchan-dev/msgboard/backend/internal/setup"
	mw "github.com/itchan-dev/msgboard/shared/middleware"
	"github.com/itchan-dev/msgboard/shared/middleware/metrics"
)

// JSON API only, nothing to load
const apiCSP = "default-src 'none'; frame-ancestors 'self'"

// the self-test sends a handful of writes from one address
const selfTestBurst = 50

// New creates the chi router with all the routes.
// IMPORTANT! the write limiter is shared by every write route of a client.
func New(deps *setup.Dependencies) http.Handler {
	return newRouter(deps, true)
}

// newRouter builds the route table. Without instrumented, requests are not
// counted in the process metrics.
func newRouter(deps *setup.Dependencies, instrumented bool) http.Handler {
	cfg := deps.Config
	h := deps.Handler

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if instrumented {
		r.Use(metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Public.CorsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(mw.SecurityHeaders(mw.SecurityOptions{HTTPS: cfg.Public.SecureCookies}))

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)

	writeLimit := mw.RateLimit(deps.WriteLimiter, mw.GetIP)

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.SecurityHeaders(mw.SecurityOptions{HTTPS: cfg.Public.SecureCookies, CSP: apiCSP}))

		r.Get("/threads/{board}", h.GetThreads)
		r.Get("/replies/{board}", h.GetReplies)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit)
			r.Post("/threads/{board}", h.CreateThread)
			r.Put("/threads/{board}", h.ReportThread)
			r.Delete("/threads/{board}", h.DeleteThread)

			r.Post("/replies/{board}", h.CreateReply)
			r.Put("/replies/{board}", h.ReportReply)
			r.Delete("/replies/{board}", h.DeleteReply)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.AdminOnly())
			r.Get("/reported/{board}", h.ReportedThreads)
		})
	})

	runner := selftest.New(func() (http.Handler, func(), error) {
		testCfg := *cfg
		testCfg.Public.WriteBurst = math.Max(testCfg.Public.WriteBurst, selfTestBurst)
		d := setup.InMemory(&testCfg)
		return newRouter(d, false), func() { d.Storage.Cleanup() }, nil
	})

	r.Route("/_api", func(r chi.Router) {
		r.Get("/ping", h.Ping)
		r.Get("/app-info", h.AppInfo)
		r.Get("/get-tests", h.GetTests(runner))
	})

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", metrics.Handler())

	static := http.FileServer(http.Dir(cfg.Public.StaticDir))
	r.Handle("/public/*", http.StripPrefix("/public/", static))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(cfg.Public.StaticDir, "index.html"))
	})

	return r
}
