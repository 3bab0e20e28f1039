package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/tournament-admin/docs"
	"github.com/Dosada05/tournament-admin/handlers"
	"github.com/Dosada05/tournament-admin/middleware"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	matchHandler *handlers.MatchHandler,
	filterHandler *handlers.FilterHandler,
	scoringHandler *handlers.ScoringHandler,
	notificationHandler *handlers.NotificationHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Logger)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/notifications", notificationHandler.List)
		r.Get("/ws/matches/{matchID}", webSocketHandler.ServeWs)

		r.Route("/filters", func(r chi.Router) {
			r.Get("/tournaments", filterHandler.ListTournaments)
			r.Get("/tournaments/{tournamentID}/categories", filterHandler.ListCategories)
			r.Get("/categories/{categoryID}/teams", filterHandler.ListTeams)
		})

		r.Route("/matches", func(r chi.Router) {
			r.Get("/", matchHandler.ListMatches)

			r.Route("/{matchID}", func(r chi.Router) {
				r.Get("/", matchHandler.GetMatch)
				r.Get("/scoresheet.xlsx", scoringHandler.DownloadScoresheet)

				r.Route("/session", func(r chi.Router) {
					r.Post("/", scoringHandler.StartSession)
					r.Get("/", scoringHandler.GetSession)
					r.Delete("/", scoringHandler.EndSession)

					r.Post("/sets/{setNumber}/open", scoringHandler.OpenSet)
					r.Put("/sets/{setNumber}", scoringHandler.SaveSet)
					r.Post("/sets/{setNumber}/delete-request", scoringHandler.RequestSetDeletion)
					r.Post("/points", scoringHandler.AdjustPoints)
					r.Patch("/selection", scoringHandler.UpdateSelection)

					r.Get("/actions", scoringHandler.ListActions)
					r.Post("/actions", scoringHandler.RecordAction)
					r.Post("/actions/{actionID}/delete-request", scoringHandler.RequestActionDeletion)

					r.Post("/finalize-request", scoringHandler.RequestFinalization)
					r.Post("/confirm", scoringHandler.Confirm)
				})
			})
		})
	})
}
