package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardforge-backend/internal/config"
	"cardforge-backend/internal/database"
	"cardforge-backend/internal/handlers"
	"cardforge-backend/internal/middleware"
	"cardforge-backend/internal/repository"
	"cardforge-backend/internal/review"
	"cardforge-backend/internal/router"
	"cardforge-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting CardForge Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Client ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	flashcardRepo := repository.NewFlashcardRepo(pool)
	sessionRepo := repository.NewGenerationSessionRepo(pool)

	// ──── Step 5: Initialize AI Client ────
	aiClient := services.NewOpenRouterClient(services.OpenRouterConfig{
		APIKey:      cfg.OpenRouterAPIKey,
		BaseURL:     cfg.OpenRouterBaseURL,
		Model:       cfg.OpenRouterModel,
		Temperature: cfg.AITemperature,
		MaxTokens:   cfg.AIMaxTokens,
	})
	if cfg.OpenRouterAPIKey == "" {
		log.Println("⚠ OPENROUTER_API_KEY not set; generation requests will fail until configured")
	} else {
		log.Println("✓ OpenRouter client initialized")
	}

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	generationService := services.NewGenerationService(aiClient, sessionRepo)
	studyService := services.NewStudyService(flashcardRepo)
	reviewStore := review.NewStore(review.DefaultTTL)

	// ──── Initialize Handlers ────
	generationHandler := handlers.NewGenerationHandler(generationService, sessionRepo)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardRepo)
	studyHandler := handlers.NewStudyHandler(studyService)
	reviewHandler := handlers.NewReviewHandler(reviewStore, flashcardRepo)

	// Per-user limiter in front of the AI endpoint
	generateLimiter := middleware.NewRateLimiter(redisClient, "generate", cfg.GenerateRatePerMin, time.Minute)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		generateLimiter,
		generationHandler,
		flashcardHandler,
		studyHandler,
		reviewHandler,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation waits on the AI call
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ CardForge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
