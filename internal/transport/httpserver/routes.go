package httpserver

import (
	"net/http"
	"time"

	"campus-market-go/internal/config"
	"campus-market-go/internal/transport/httpserver/handler"
	authmw "campus-market-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.SessionAuth, campus authmw.CampusObserver) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(authmw.EchoRequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		r.Post("/auth/google", handlers.Auth.GoogleSignIn)
		r.Get("/auth/google/start", handlers.Auth.GoogleStart)
		r.Get("/auth/google/callback", handlers.Auth.GoogleCallback)
		if cfg.Auth.DebugSignIn {
			r.Post("/auth/debug", handlers.Auth.DebugSignIn)
		}
		r.Post("/auth/sign-out", handlers.Auth.SignOut)

		r.Group(func(r chi.Router) {
			r.Use(auth.Optional)
			r.Use(authmw.CampusDetection(campus))

			r.Post("/feedback", handlers.Feedback.Submit)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Required)
			r.Use(authmw.CampusDetection(campus))

			r.Get("/me", handlers.Auth.Me)
			r.Patch("/me", handlers.Auth.UpdateMe)

			r.Get("/feed", handlers.Listings.Feed)
			r.Get("/categories", handlers.Listings.Categories)
			r.Get("/hostels", handlers.Listings.Hostels)

			r.Post("/items", handlers.Listings.CreateItem)
			r.Get("/items/{id}", handlers.Listings.GetItem)
			r.Put("/items/{id}", handlers.Listings.UpdateItem)
			r.Delete("/items/{id}", handlers.Listings.DeleteItem)
			r.Post("/items/{id}/sold", handlers.Listings.MarkSold)
			r.Post("/items/{id}/repost", handlers.Listings.Repost)

			r.Get("/items/{id}/reactions", handlers.Reactions.List)
			r.Post("/items/{id}/reactions", handlers.Reactions.React)

			r.Get("/listings/mine", handlers.Listings.MyListings)
			r.Post("/listings/bulk/{action}", handlers.Listings.Bulk)
		})
	})

	return r
}
