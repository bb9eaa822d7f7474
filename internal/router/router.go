package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/saulo-duarte/testbank-api/docs"
	"github.com/saulo-duarte/testbank-api/internal/account"
	"github.com/saulo-duarte/testbank-api/internal/attempt"
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"github.com/saulo-duarte/testbank-api/internal/config"
	"github.com/saulo-duarte/testbank-api/internal/middlewares"
	"github.com/saulo-duarte/testbank-api/internal/section"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
)

type RouterConfig struct {
	AuthHandler    *auth.Handler
	AccountHandler *account.Handler
	SectionHandler *section.Handler
	TestHandler    *testbank.Handler
	AttemptHandler *attempt.Handler
	// Health reports readiness of backing services; nil means always healthy.
	Health func(r *http.Request) error
}

func New(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/healthz", healthz(cfg.Health))

	r.Route("/auth", func(r chi.Router) {
		r.Use(middlewares.NoCache)
		r.Group(account.LoginRoutes(cfg.AccountHandler))

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthHandler.AuthMiddleware)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/me", cfg.AuthHandler.Me)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(cfg.AuthHandler.AuthMiddleware)
		r.Use(middlewares.NoCache)

		r.Mount("/dean/accounts", account.Routes(cfg.AccountHandler))
		r.Mount("/dean/sections", section.Routes(cfg.SectionHandler))
		r.Mount("/tests", testbank.Routes(cfg.TestHandler, attempt.ReportRoutes(cfg.AttemptHandler)))
		r.Mount("/student", attempt.StudentRoutes(cfg.AttemptHandler))
	})
	return r
}

func healthz(check func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				config.WithContext(r.Context()).WithError(err).Error("Health check failed")
				config.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
