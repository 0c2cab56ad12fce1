package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"aibuddy-backend/internal/handlers"
	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/middleware"
	"aibuddy-backend/internal/websocket"
)

const RelayPath = "/functions/v1/ai-buddy-proxy"

type Deps struct {
	SessionAuth         *middleware.SessionAuth
	RegistrationHandler *handlers.RegistrationHandler
	ChatHandler         *handlers.ChatHandler
	RelayHandler        *handlers.RelayHandler
	Hub                 *websocket.Hub
	RateLimiter         *middleware.RateLimiter
	RelayLimiter        *middleware.RateLimiter
	Logger              *logger.Logger
	FrontendURL         string
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Relay (open CORS, any method) ────
	r.With(middleware.RelayHeaders, d.RelayLimiter.Middleware).Handle(RelayPath, d.RelayHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{d.FrontendURL},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// ──── Registration Routes ────
		r.Route("/registrations", func(r chi.Router) {
			r.Get("/options", d.RegistrationHandler.Options)
			r.With(d.RateLimiter.Middleware).Post("/", d.RegistrationHandler.Register)
		})

		// ──── Chat Routes ────
		r.Route("/chat/sessions", func(r chi.Router) {
			r.With(d.RateLimiter.Middleware).Post("/", d.ChatHandler.CreateSession)

			// Token is in the query string; browsers cannot set headers on websockets.
			r.Get("/{id}/ws", d.Hub.HandleWebSocket)

			r.Group(func(r chi.Router) {
				r.Use(d.SessionAuth.Middleware)
				r.Get("/{id}", d.ChatHandler.GetSession)
				r.Post("/{id}/messages", d.ChatHandler.SendMessage)
			})
		})
	})

	return r
}
