// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"

	"github.com/dvstream/catalog/internal/catalog"
	"github.com/dvstream/catalog/internal/core"
	"github.com/dvstream/catalog/internal/settings"
	"github.com/dvstream/catalog/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app       *core.App
	store     *store.Store
	catalog   *catalog.Service
	settings  *settings.Service
	homeStore HomeStore
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// SetHomeStore sets the home store for testing purposes
func (s *Server) SetHomeStore(homeStore HomeStore) {
	s.homeStore = homeStore
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:       app,
		store:     app.Store(),
		catalog:   app.Catalog(),
		settings:  app.Settings(),
		homeStore: app.Catalog(), // Use the catalog service by default
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	log := s.app.Logger()

	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.RemoteAddrHandler("ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	}))
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.app.Config().CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", adminHeader},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		// The admin event stream lives outside the request timeout.
		r.With(s.AdminSocketMiddleware).Get("/ws/admin", s.app.WsHub().ServeWs)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/health", s.handleHealth)
			r.Get("/version", s.handleGetVersion)

			// Public catalog routes
			r.Get("/home", s.handleGetHomePageData)
			r.Get("/filters/{type}", s.handleGetFilters)
			r.Get("/list/{type}", s.handleListContent)
			r.Get("/content", s.handleGetAllContent)
			r.Get("/content/{type}/{id}", s.handleGetContent)
			r.Get("/stats", s.handleGetStats)
			r.Get("/settings", s.handleGetSettings)
			r.Get("/go/{type}/{id}", s.handleRedirect)
			r.Get("/sitemap.xml", s.handleSitemap)

			r.Group(func(r chi.Router) {
				r.Use(s.AdminOnlyMiddleware)

				r.Post("/verify-admin", s.handleVerifyAdmin)

				r.Post("/upload", s.handleUploadImage)
				r.Delete("/upload", s.handleDeleteImage)

				r.Post("/content/{type}", s.handleCreateContent)
				r.Put("/content/{type}/{id}", s.handleUpdateContent)
				r.Delete("/content/{type}/{id}", s.handleDeleteContent)

				// Episode sub-resource
				r.Put("/content/series/{seriesID}/episode", s.handleAddEpisode)
				r.Put("/content/series/{seriesID}/episode/{episodeID}", s.handleUpdateEpisode)
				r.Delete("/content/series/{seriesID}/episode/{episodeID}", s.handleDeleteEpisode)

				r.Put("/settings", s.handleUpdateSettings)

				// Admin Job Triggers
				r.Get("/admin/jobs/status", s.handleGetAdminJobsStatus)
				r.Post("/admin/jobs/run", s.handleRunAdminJob)
			})
		})
	})

	return r
}
