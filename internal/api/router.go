package api

import (
	"net/http"

	"github.com/dom/lightprompt/internal/api/handlers"
	"github.com/dom/lightprompt/internal/api/middleware"
	"github.com/dom/lightprompt/internal/config"
	"github.com/dom/lightprompt/internal/metrics"
	"github.com/dom/lightprompt/internal/service"
	"github.com/dom/lightprompt/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps is everything the router serves from
type Deps struct {
	Services  *service.Services
	Hub       *websocket.Hub
	Config    *config.Config
	Metrics   *metrics.Collector
	Gatherer  prometheus.Gatherer
	RateLimit *middleware.RateLimiter
}

func NewRouter(deps Deps) http.Handler {
	services := deps.Services
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(deps.Config.CORSOrigin))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	authHandler := handlers.NewAuthHandler(services.Auth)
	userHandler := handlers.NewUserHandler(services.Store, services.Usage)
	chatHandler := handlers.NewChatHandler(services.Chat)
	codeHandler := handlers.NewAccessCodeHandler(services.AccessCodes, services.Auth)
	wellnessHandler := handlers.NewWellnessHandler(services.Store, services.Wellness)
	healthHandler := handlers.NewHealthHandler(services.Store)
	insightHandler := handlers.NewInsightHandler(services.Store, services.Wellness)
	deviceHandler := handlers.NewDeviceHandler(services.Store)
	journeyHandler := handlers.NewJourneyHandler(services.Store)
	dashboardHandler := handlers.NewDashboardHandler(services.Dashboard)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, services.Auth, services.Chat)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/access-codes/redeem", codeHandler.Redeem)
		r.Get("/ws", wsHandler.Handle)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			if deps.RateLimit != nil {
				r.Use(deps.RateLimit.Middleware)
			}

			r.Get("/auth/me", authHandler.Me)

			r.Route("/me", func(r chi.Router) {
				r.Get("/", authHandler.Me)
				r.Patch("/", userHandler.UpdateMe)
				r.Get("/profile", userHandler.GetProfile)
				r.Patch("/profile", userHandler.UpdateProfile)
				r.Post("/tokens/consume", userHandler.ConsumeToken)
			})

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", chatHandler.ListSessions)
				r.Post("/", chatHandler.CreateSession)
				r.Get("/{id}", chatHandler.GetSession)
				r.Patch("/{id}", chatHandler.UpdateSession)
				r.Get("/{id}/messages", chatHandler.ListMessages)
				r.Post("/{id}/messages", chatHandler.PostMessage)
			})

			r.Route("/wellness/metrics", func(r chi.Router) {
				r.Get("/", wellnessHandler.ListMetrics)
				r.Post("/", wellnessHandler.CreateMetric)
				r.Patch("/{id}", wellnessHandler.UpdateMetric)
			})

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", wellnessHandler.ListHabits)
				r.Post("/", wellnessHandler.CreateHabit)
				r.Patch("/{id}", wellnessHandler.UpdateHabit)
				r.Delete("/{id}", wellnessHandler.DeleteHabit)
				r.Get("/{id}/entries", wellnessHandler.ListEntries)
				r.Post("/{id}/entries", wellnessHandler.CreateEntry)
			})
			r.Patch("/habit-entries/{id}", wellnessHandler.UpdateEntry)

			r.Get("/health/apple", healthHandler.ListAppleHealth)
			r.Post("/health/apple", healthHandler.SyncAppleHealth)
			r.Get("/health/homekit", healthHandler.ListHomeKit)
			r.Post("/health/homekit", healthHandler.SyncHomeKit)

			r.Route("/fitness", func(r chi.Router) {
				r.Get("/", healthHandler.ListFitness)
				r.Post("/", healthHandler.CreateFitness)
				r.Get("/latest", healthHandler.LatestFitness)
			})

			r.Get("/patterns", insightHandler.ListPatterns)
			r.Post("/patterns/detect", insightHandler.DetectPatterns)

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", insightHandler.ListRecommendations)
				r.Post("/", insightHandler.CreateRecommendation)
				r.Post("/generate", insightHandler.GenerateRecommendations)
				r.Patch("/{id}", insightHandler.UpdateRecommendation)
			})

			r.Route("/devices", func(r chi.Router) {
				r.Get("/", deviceHandler.List)
				r.Post("/", deviceHandler.Create)
				r.Patch("/{deviceType}", deviceHandler.Update)
				r.Post("/{deviceType}/sync", deviceHandler.Sync)
			})

			r.Get("/dashboard", dashboardHandler.Get)

			r.Get("/soul-map", journeyHandler.GetSoulMap)
			r.Post("/soul-map", journeyHandler.CreateSoulMap)
			r.Get("/vision-quest", journeyHandler.GetVisionQuest)
			r.Post("/vision-quest", journeyHandler.CreateVisionQuest)

			// Admin routes
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/access-codes", codeHandler.Create)
				r.Get("/access-codes/{code}", codeHandler.Get)
				r.Post("/users/{id}/tokens/reset", userHandler.ResetTokens)
				r.Put("/users/{id}/tier", userHandler.UpdateTier)
			})
		})
	})

	return r
}
