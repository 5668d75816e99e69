package httpserver

import (
	"net/http"
	"time"

	"community-app-go/internal/config"
	"community-app-go/internal/transport/httpserver/handler"
	authmw "community-app-go/internal/transport/httpserver/middleware"
	"community-app-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, users authmw.UserResolver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORS))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewIdentityAuth(cfg.Identity, users, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/profiles/me", handlers.GetSelf)
			r.Post("/profiles/me", handlers.Propose)
			r.Post("/profiles/me/tags", handlers.AddTags)
			r.Delete("/profiles/me/tags/{tagId}", handlers.RemoveTag)
			r.Post("/profiles/me/availability", handlers.AddAvailability)
			r.Delete("/profiles/me/availability/{weekDay}/{timeSlot}", handlers.RemoveAvailability)

			r.Get("/directory", handlers.Directory)
			r.Get("/profiles/{userId}", handlers.GetProfile)

			r.Get("/tags", handlers.ListTags)

			r.Get("/conversations", handlers.Conversations)
			r.Get("/conversations/{userId}", handlers.Thread)
			r.Post("/messages", handlers.SendMessage)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireAdmin)

				r.Get("/admin/profiles/pending", handlers.ListPendingProfiles)
				r.Post("/admin/profiles/decision", handlers.DecideProfile)

				r.Post("/admin/tags", handlers.CreateTag)
				r.Put("/admin/tags/{id}", handlers.UpdateTag)
				r.Delete("/admin/tags/{id}", handlers.DeleteTag)

				r.Get("/admin/medals", handlers.ListMedals)
				r.Post("/admin/medals", handlers.CreateMedal)
				r.Put("/admin/medals/{id}", handlers.UpdateMedal)
				r.Delete("/admin/medals/{id}", handlers.DeleteMedal)
				r.Post("/admin/medals/grant", handlers.GrantMedal)
			})
		})
	})

	return r
}
