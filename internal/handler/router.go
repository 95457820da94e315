package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/exonizer/internal/handler/form"
	"github.com/zhouzirui/exonizer/internal/handler/live"
	"github.com/zhouzirui/exonizer/internal/handler/page"
	"github.com/zhouzirui/exonizer/internal/metrics"
	formService "github.com/zhouzirui/exonizer/internal/service/form"
	"github.com/zhouzirui/exonizer/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(formSvc *formService.Service, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	page.New(formSvc).RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": formSvc.Len(),
		})
	})

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		// Register form routes
		form.New(formSvc).RegisterRoutes(api)

		// Live event channel used by the page
		live.NewWebSocketHandler(formSvc).RegisterWebSocketRoutes(api)
	})

	return r
}
