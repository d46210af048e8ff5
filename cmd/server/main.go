package main // Entry point package

import (
	"context"
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"moviecatalog/internal/config"     // Internal config loader
	"moviecatalog/internal/database"   // MySQL connection
	"moviecatalog/internal/handler"    // HTTP handlers
	"moviecatalog/internal/logger"     // Structured application logger
	"moviecatalog/internal/middleware" // Cache and rate limit middleware
	"moviecatalog/internal/queue"      // Release event consumer
	"moviecatalog/internal/repository" // Data access layer
	"moviecatalog/internal/router"     // Route registration
	"moviecatalog/internal/service"    // Business services
	"moviecatalog/internal/storage"    // Poster upload collaborator
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	logger.Init()
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	genres := repository.NewGenreRepo(db)

	// Genres are global and pre-seeded; safe to repeat on every start.
	if err := genres.Seed(context.Background(), repository.DefaultGenres); err != nil {
		log.Fatalf("genre seed: %v", err)
	}

	// Services
	uploader := storage.NewDiskUploader(cfg.UploadDir, cfg.PublicBaseURL)
	authSvc := service.NewAuthService(users, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost)
	movieSvc := service.NewMovieService(movies, uploader)

	// Daily release sweep plus the consumer that logs its events.
	notifier := service.NewReleaseNotifier(movies)
	go notifier.Run(context.Background())
	go func() {
		if err := queue.StartReleaseConsumer(); err != nil {
			log.Printf("release consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance

	// Redis-backed response cache and rate limiting; both degrade to
	// pass-through middleware when Redis is unreachable.
	rdb := config.NewRedisClient()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	authHandler := handler.NewAuthHandler(authSvc, users)
	movieHandler := handler.NewMovieHandler(movieSvc)
	genreHandler := handler.NewGenreHandler(genres)

	router.RegisterRoutes(e, genreHandler)
	router.RegisterAuth(e, authHandler, movieHandler, cfg.JWTSecret, users)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
