package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"aibuddy-backend/internal/config"
	"aibuddy-backend/internal/handlers"
	"aibuddy-backend/internal/logger"
	"aibuddy-backend/internal/middleware"
	"aibuddy-backend/internal/router"
	"aibuddy-backend/internal/services"
	"aibuddy-backend/internal/session"
	"aibuddy-backend/internal/webhook"
	"aibuddy-backend/internal/websocket"
)

// Extra time a Redis turn lock outlives the webhook timeout.
const turnLockMargin = 15 * time.Second

func main() {
	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting AI Buddy backend", zap.String("env", cfg.Env))

	// ──── Step 2: Session Store (Redis if configured) ────
	var (
		store       session.Store
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		redisClient, err = session.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, cfg.SessionTTL, cfg.WebhookTimeout+turnLockMargin)
		log.Info("chat sessions stored in redis")
	} else {
		store = session.NewMemoryStore(cfg.SessionTTL)
		log.Info("chat sessions stored in memory")
	}

	// ──── Step 3: Initialize Services ────
	client := webhook.NewClient(cfg.WebhookTimeout)
	sessionAuth := middleware.NewSessionAuth(cfg.SessionSecret, cfg.SessionTTL)
	wsHub := websocket.NewHub(redisClient, sessionAuth, log)

	registrationService := services.NewRegistrationService(client, cfg.RegistrationWebhookURL)
	chatService := services.NewChatService(store, client, cfg.ChatWebhookURL, cfg.ChatUniqueID, wsHub, log)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
	defer limiter.Stop()
	relayLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
	defer relayLimiter.Stop()

	// ──── Step 4: Start HTTP Server ────
	r := router.New(router.Deps{
		SessionAuth:         sessionAuth,
		RegistrationHandler: handlers.NewRegistrationHandler(registrationService, log),
		ChatHandler:         handlers.NewChatHandler(chatService, sessionAuth, log),
		RelayHandler:        handlers.NewRelayHandler(client, cfg.RelayWebhookURL, cfg.RelayUniqueID, log),
		Hub:                 wsHub,
		RateLimiter:         limiter,
		RelayLimiter:        relayLimiter,
		Logger:              log,
		FrontendURL:         cfg.FrontendURL,
	})

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Chat turns wait on the webhook.
		WriteTimeout: cfg.WebhookTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server ready",
		zap.String("api", fmt.Sprintf("http://localhost:%s/api/v1", cfg.Port)),
		zap.String("relay", fmt.Sprintf("http://localhost:%s%s", cfg.Port, router.RelayPath)),
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal("server error", zap.Error(err))
	}
}
