package attempt

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/testbank-api/internal/rbac"
)

// StudentRoutes mounts the test taking endpoints under /student.
func StudentRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(rbac.Require(rbac.PermTestsTake))

	r.Get("/dashboard", h.Dashboard)
	r.Get("/attempts", h.History)
	r.Get("/tests/search", h.Search)
	r.Route("/tests/{id}", func(r chi.Router) {
		r.Get("/eligibility", h.Eligibility)
		r.Post("/start", h.Start)
		r.Post("/submit", h.Submit)
		r.Get("/result", h.Result)
	})
	return r
}

// ReportRoutes hangs the per-test report off the authoring router.
func ReportRoutes(h *Handler) func(r chi.Router) {
	return func(r chi.Router) {
		r.With(rbac.Require(rbac.PermTestsReport)).Get("/{id}/attempts", h.Report)
	}
}
