package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router and all API routes.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/individuals/engagement", h.ListEngagement)
		r.Post("/individuals/{individualId}/profile-picture", h.UploadProfilePicture)

		r.Post("/scores/recalculate", h.RecalculateScores)

		r.Route("/segments", func(r chi.Router) {
			r.Get("/", h.ListSegments)
			r.Post("/", h.CreateSegment)
			r.Get("/analytics", h.SegmentAnalytics)
			r.Route("/{segmentId}", func(r chi.Router) {
				r.Get("/", h.GetSegment)
				r.Delete("/", h.DeleteSegment)
				r.Get("/members", h.SegmentMembers)
				r.Post("/recount", h.RecountSegment)
				r.Post("/content", h.SegmentContent)
			})
		})

		r.Post("/chat", h.Chat)
	})

	return r
}
