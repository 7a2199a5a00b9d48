package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/weeliem/go-eatery-directory/internal/api/eatery"
	"github.com/weeliem/go-eatery-directory/internal/api/photo"
)

// Config contains dependencies needed for the router setup
type Config struct {
	EateryHandler  *eatery.EateryHandler
	PhotoHandler   *photo.PhotoHandler
	AllowedOrigins []string
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// Browser calls come only from the allow-listed frontend origins.
	// Requests without an Origin header never enter CORS processing, so
	// non-browser clients are unaffected.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(120, time.Minute))

		r.Get("/eateries", cfg.EateryHandler.ListEateries)
		r.Get("/eateries/{id}", cfg.EateryHandler.GetEatery)
		r.Get("/photo", cfg.PhotoHandler.RedirectPhoto)
		r.Get("/image", cfg.PhotoHandler.ProxyImage)
	})

	return r
}
