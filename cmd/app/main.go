package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"subspace_duel/internal/config"
	"subspace_duel/internal/db"
	"subspace_duel/internal/events"
	"subspace_duel/internal/game"
	httpServer "subspace_duel/internal/http"
	"subspace_duel/internal/http/middleware"
	"subspace_duel/internal/logger"
	"subspace_duel/internal/metrics"
	"subspace_duel/internal/repository"
	"subspace_duel/internal/service"
	"subspace_duel/internal/workers"
	"subspace_duel/internal/ws"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	if err := cfg.Balance.Validate(); err != nil {
		logger.Fatal("invalid balance config", "error", err)
	}
	if err := service.InitJWT(cfg.JWTSecret); err != nil {
		logger.Fatal("jwt init failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus()
	svc := service.NewSessionService(service.SessionOptions{
		Balance: cfg.Balance,
		Rand:    game.NewRand(cfg.RNGSeed),
		Bus:     bus,
		Logger:  logger.Get(),
	})
	engine := service.NewEngine(svc)

	bus.Subscribe(metrics.NewEngine(prometheus.DefaultRegisterer))

	hub := ws.NewHub(logger.Get())
	go hub.Run(ctx)
	bus.Subscribe(hub)

	deps := httpServer.Deps{
		Engine:         engine,
		Hub:            hub,
		Version:        version,
		AllowedOrigin:  cfg.AllowedOrigin,
		APIRateLimit:   cfg.APIRateLimit,
		APIRateWindow:  cfg.APIRateWindow,
		DuelRateLimit:  cfg.DuelRateLimit,
		DuelRateWindow: cfg.DuelRateWindow,
		WSRateLimit:    cfg.WSRateLimit,
		WSRateWindow:   cfg.WSRateWindow,
	}

	historyCtx, stopHistory := context.WithCancel(context.Background())
	defer stopHistory()
	historyDone := make(chan struct{})
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database connect failed", "error", err)
		}
		defer pool.Close()

		store := repository.NewHistoryStore(pool)
		writer := workers.NewHistoryWriter(store, cfg.HistoryBuffer, logger.Get())
		bus.Subscribe(writer)
		go func() {
			writer.Run(historyCtx)
			close(historyDone)
		}()

		deps.DB = pool
		deps.History = store.Duels
	} else {
		logger.Warn("DATABASE_URL not set, duel history disabled")
		close(historyDone)
	}

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer middleware.CloseRedis()

	poller, err := workers.NewExpiryPoller(engine, cfg.ExpiryPollInterval, nil, logger.Get())
	if err != nil {
		logger.Fatal("expiry poller init failed", "error", err)
	}
	poller.Start()

	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for the race client
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version,
			"balance_version", cfg.Balance.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := poller.Stop(); err != nil {
		logger.Warn("expiry poller stop", "error", err)
	}

	// End the running session so its end time reaches history before exit.
	engine.Do(func(s *service.SessionService) {
		if s.Active() {
			s.EndSession()
		}
	})
	stopHistory()
	select {
	case <-historyDone:
	case <-shutdownCtx.Done():
		logger.Warn("history writer did not drain in time")
	}

	logger.Info("server exited")
}
