package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/swiss-tournament/docs"
	"github.com/Dosada05/swiss-tournament/handlers"
	"github.com/Dosada05/swiss-tournament/middleware"
	"github.com/Dosada05/swiss-tournament/services"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Player     *handlers.PlayerHandler
	Tournament *handlers.TournamentHandler
	Match      *handlers.MatchHandler
	Pairing    *handlers.PairingHandler
	Dashboard  *handlers.DashboardHandler
	WebSocket  *handlers.WebSocketHandler
	Metrics    http.Handler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(opts.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	organizerOnly := func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.JWTSecret))
		r.Use(middleware.Authorize(services.RoleOrganizer))
	}

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if h.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// WebSocket идет вне таймаута запросов
	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	router.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chiMiddleware.Timeout(opts.RequestTimeout))
		}

		r.Post("/auth/login", h.Auth.Login)
		r.Get("/stats", h.Dashboard.Stats)

		r.Route("/players", func(r chi.Router) {
			r.Get("/", h.Player.List)
			r.Get("/count", h.Player.Count)

			r.Group(func(r chi.Router) {
				organizerOnly(r)
				r.Post("/", h.Player.Create)
				r.Delete("/", h.Player.DeleteAll)
			})
		})

		r.Route("/tournaments", func(r chi.Router) {
			// Публичные маршруты для просмотра турниров
			r.Get("/", h.Tournament.List)
			r.Get("/{tournamentID}", h.Tournament.GetByID)
			r.Get("/{tournamentID}/players", h.Tournament.ListPlayers)
			r.Get("/{tournamentID}/standings", h.Tournament.Standings)
			r.Get("/{tournamentID}/round-status", h.Pairing.RoundStatus)
			r.Get("/{tournamentID}/matches", h.Match.List)

			// Защищенные маршруты только для организаторов
			r.Group(func(r chi.Router) {
				organizerOnly(r)

				r.Post("/", h.Tournament.Create)
				r.Delete("/{tournamentID}", h.Tournament.Delete)
				r.Post("/{tournamentID}/players", h.Tournament.EnrollPlayer)
				r.Post("/{tournamentID}/matches", h.Match.Report)
				r.Delete("/{tournamentID}/matches", h.Match.DeleteByTournament)
				r.Post("/{tournamentID}/pairings", h.Pairing.Pair)
			})
		})

		r.Group(func(r chi.Router) {
			organizerOnly(r)
			r.Delete("/matches", h.Match.DeleteAll)
		})
	})
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
