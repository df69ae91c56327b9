// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aizen-ai/chat-platform/internal/config"
	"github.com/aizen-ai/chat-platform/internal/events"
	"github.com/aizen-ai/chat-platform/internal/handler"
	"github.com/aizen-ai/chat-platform/internal/llm"
	"github.com/aizen-ai/chat-platform/internal/middleware"
	"github.com/aizen-ai/chat-platform/internal/service"
	"github.com/aizen-ai/chat-platform/internal/store"
	"github.com/aizen-ai/chat-platform/pkg/logger"
	"github.com/aizen-ai/chat-platform/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "aizen-chat-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing")
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to the database and migrate the schema
	db, err := store.Open(store.Config{
		DatabaseURL:  cfg.DatabaseURL,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxOpenConns: cfg.DBMaxOpenConns,
		ConnLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		os.Exit(1)
	}

	// Connect to NATS for lifecycle events; the platform runs fine without it
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		natsClient, err := events.Connect(ctx, events.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		})
		if err != nil {
			log.Warn("failed to connect to NATS, events disabled")
		} else {
			defer natsClient.Close()
			publisher = events.NewPublisher(natsClient, log)
		}
	}

	// Initialize LLM client
	var llmClient llm.Client
	if cfg.AnthropicAPIKey != "" && cfg.DefaultLLM == string(llm.ProviderAnthropic) {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	} else if cfg.OpenAIAPIKey != "" {
		llmClient, err = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	} else if cfg.AnthropicAPIKey != "" {
		llmClient, err = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	} else {
		log.Error("no LLM API key configured")
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}

	// Initialize stores and services
	userStore := store.NewUserStore(db, cfg.OwnerOpenID)
	identitySvc := service.NewIdentityService(userStore)
	chatSvc := service.NewChatService(
		store.NewConversationStore(db),
		store.NewMessageStore(db),
		llmClient,
		publisher,
		log,
		cfg.LLMModel,
		cfg.LLMTimeout,
	)
	ratingSvc := service.NewRatingService(store.NewRatingStore(db), publisher)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(identitySvc, log, cfg.SessionSecret, cfg.SessionCookieName, cfg.SessionExpiration)
	chatHandler := handler.NewChatHandler(chatSvc, log)
	ratingHandler := handler.NewRatingHandler(ratingSvc, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Session(cfg.SessionSecret, cfg.SessionCookieName, identitySvc))
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Session routes (auth optional)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Get("/me", authHandler.Me)
		r.Post("/logout", authHandler.Logout)
	})

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		// Conversations
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", chatHandler.CreateConversation)
			r.Get("/", chatHandler.ListConversations)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", chatHandler.DeleteConversation)

				// Messages
				r.Get("/messages", chatHandler.ListMessages)
				r.Post("/messages", chatHandler.SendMessage)
			})
		})

		// Messages
		r.Route("/messages", func(r chi.Router) {
			r.Get("/search", chatHandler.SearchMessages)

			r.Route("/{id}/rating", func(r chi.Router) {
				r.Put("/", ratingHandler.Rate)
				r.Get("/", ratingHandler.UserRating)
				r.Delete("/", ratingHandler.Remove)
				r.Get("/stats", ratingHandler.Stats)
			})
		})

		// Personalities
		r.Get("/personalities", chatHandler.ListPersonalities)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
