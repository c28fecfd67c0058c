package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/clubsantiago/sistema-billar/config"
	"github.com/clubsantiago/sistema-billar/database"
	"github.com/clubsantiago/sistema-billar/events"
	"github.com/clubsantiago/sistema-billar/middlewares"
	"github.com/clubsantiago/sistema-billar/router"
	"github.com/clubsantiago/sistema-billar/services"
	"github.com/clubsantiago/sistema-billar/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	hub := events.NewHub()
	defer hub.Close()
	publishers := events.Multi{hub}
	if cfg.Events.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.AMQPQueue)
		if err != nil {
			utils.ErrorLogger.WithError(err).Warn("AMQP publisher disabled")
		} else {
			defer amqpPub.Close()
			publishers = append(publishers, amqpPub)
			utils.InfoLogger.WithField("queue", cfg.Events.AMQPQueue).Info("publishing table events to AMQP")
		}
	}

	tableService := services.NewTableService(db, publishers)
	r := router.SetupRouter(cfg, tableService, hub, newLimiter(cfg.RateLimit))

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utils.InfoLogger.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.WithError(err).Error("graceful shutdown failed")
	}
}

// newLimiter returns nil when rate limiting is off. A configured but
// unreachable Redis falls back to the in-process limiter.
func newLimiter(cfg config.RateLimitConfig) middlewares.Limiter {
	if !cfg.Enabled {
		return nil
	}
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(cfg.RedisURL)
		if err == nil {
			utils.InfoLogger.Info("rate limiting through Redis")
			return middlewares.NewRedisLimiter(client, cfg.RPS, cfg.Burst)
		}
		utils.ErrorLogger.WithError(err).Warn("Redis unavailable, using in-memory rate limiter")
	}
	return middlewares.NewMemoryLimiter(cfg.RPS, cfg.Burst)
}
