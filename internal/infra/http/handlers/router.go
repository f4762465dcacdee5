package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/tvdoutor/contratos/internal/auth"
	"github.com/tvdoutor/contratos/internal/infra/http/middleware"
)

// Router agrupa tudo o que a API HTTP precisa.
type Router struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	LoginLimiter   func(http.Handler) http.Handler

	Auth      *auth.Manager
	Health    *HealthHandler
	Sessions  *AuthHandler
	Drafts    *DraftHandler
	Contracts *ContractHandler
	Users     *UserHandler
	Reports   *ReportHandler
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(rt.Logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	if rt.LoginLimiter != nil {
		r.With(rt.LoginLimiter).Post("/auth/login", rt.Sessions.Login)
	} else {
		r.Post("/auth/login", rt.Sessions.Login)
	}

	r.Group(func(r chi.Router) {
		r.Use(rt.Auth.Authenticate)

		r.Post("/auth/logout", rt.Sessions.Logout)
		r.Get("/auth/me", rt.Sessions.Me)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", rt.Drafts.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.Drafts.Get)
				r.Delete("/", rt.Drafts.Discard)
				r.Patch("/fields", rt.Drafts.UpdateField)
				r.Post("/contractors", rt.Drafts.AddContractor)
				r.Patch("/contractors/{index}", rt.Drafts.UpdateContractor)
				r.Delete("/contractors/{index}", rt.Drafts.RemoveContractor)
				r.Post("/submit", rt.Drafts.Submit)
			})
		})

		r.Route("/contracts", func(r chi.Router) {
			r.Post("/quote", rt.Contracts.Quote)
			r.Post("/preview", rt.Contracts.Preview)
			r.Post("/", rt.Contracts.Create)
			r.Get("/", rt.Contracts.Search)
			r.Get("/{id}", rt.Contracts.Get)
			r.Get("/{id}/processing", rt.Contracts.Processing)
			r.Patch("/{id}/status", rt.Contracts.UpdateStatus)
		})

		r.Get("/dashboard", rt.Reports.DashboardStats)
		r.Route("/reports", func(r chi.Router) {
			r.Get("/monthly-revenue", rt.Reports.MonthlyRevenue)
			r.Get("/contract-status", rt.Reports.ContractStatus)
			r.Get("/contracts-by-state", rt.Reports.ContractsByState)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/", rt.Users.Search)
			r.Post("/", rt.Users.Create)
			r.Patch("/{id}", rt.Users.Update)
			r.Delete("/{id}", rt.Users.Delete)
			r.Post("/{id}/password", rt.Users.ResetPassword)
		})
	})

	return r
}
