package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hanbit-app/srs-api/internal/api"
	apiMiddleware "github.com/hanbit-app/srs-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	schedulerHandler := api.NewSchedulerHandler(app.schedulerService, app.config.Scheduler.DueLimit, app.logger)
	folderHandler := api.NewFolderHandler(app.folderService, app.logger)
	statsHandler := api.NewStatsHandler(app.statsService, app.streakTracker, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Every endpoint requires the gateway-forwarded identity header.
		r.Use(apiMiddleware.IdentityMiddleware)

		// Review loop
		r.Get("/reviews/due", schedulerHandler.GetDueReviews)
		r.Post("/cards/{id}/review", schedulerHandler.SubmitReview)

		// Folder management
		r.Post("/folders", folderHandler.CreateFolder)
		r.Get("/folders/dashboard", folderHandler.Dashboard)
		r.Post("/folders/{id}/items", folderHandler.AddItems)
		r.Post("/folders/{id}/restart", folderHandler.RestartFolder)
		r.Delete("/folders/{id}", folderHandler.DeleteFolder)

		// Progress
		r.Get("/stats", statsHandler.GetStats)
		r.Get("/streak", statsHandler.GetStreak)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
