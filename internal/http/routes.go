package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"subspace_duel/internal/http/handlers"
	"subspace_duel/internal/http/middleware"
	"subspace_duel/internal/service"
	"subspace_duel/internal/ws"
)

// Deps is everything the router needs. DB and History may be nil.
type Deps struct {
	Engine        *service.Engine
	History       handlers.HistoryReader
	DB            handlers.Pinger
	Hub           *ws.Hub
	Version       string
	AllowedOrigin string

	APIRateLimit   int
	APIRateWindow  time.Duration
	DuelRateLimit  int
	DuelRateWindow time.Duration
	WSRateLimit    int
	WSRateWindow   time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := handlers.NewHandler(d.Engine, d.History)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Engine, d.Version)

	r.Use(middleware.Metrics())

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Spectator feed
	if d.Hub != nil {
		r.GET("/ws", middleware.SimpleRateLimit(d.WSRateLimit, d.WSRateWindow), ws.HandleWS(d.Hub, d.AllowedOrigin))
	}

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(d.APIRateLimit, d.APIRateWindow), middleware.JWT())

	// Players
	api.GET("/me", h.Me)
	api.GET("/me/duels", h.MyHistory)
	api.GET("/me/stats", h.MyStats)
	api.POST("/duel", middleware.DuelRateLimit(d.DuelRateLimit, d.DuelRateWindow), h.Duel)

	// Race simulation / operator
	op := api.Group("/operator")
	op.Use(middleware.RequireRole(service.RoleOperator))
	{
		op.GET("/session", h.Snapshot)
		op.POST("/session", h.StartSession)
		op.DELETE("/session", h.EndSession)
		op.POST("/balance/reload", h.ReloadBalance)
		op.POST("/duels", h.OperatorDuel)
		op.POST("/players/:id/drift", h.Drift)
		op.POST("/players/:id/cards", h.AddCard)
		op.POST("/players/:id/replace", h.ReplaceSlot)
	}
}
