package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tienda-gateway/cart"
	"tienda-gateway/catalog"
	"tienda-gateway/checkout"
	"tienda-gateway/config"
	"tienda-gateway/database"
	"tienda-gateway/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := log.With().Str("service", "tienda-gateway").Logger()

	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		logger.Fatal().Err(err).Msg("error loading .env file")
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		logger.Fatal().Err(err).Msg("environment validation failed")
	}

	// Upstream catalog client + display snapshot
	catalogClient := catalog.NewClient(os.Getenv("CATALOG_BASE_URL"))
	snapshot := catalog.NewSnapshot(catalogClient, logger)

	// Cart persistence backend
	persister, err := buildPersister()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cart persistence")
	}

	store := cart.NewStore(persister, logger, cart.WithStockResolver(snapshot))
	coordinator := checkout.NewCoordinator(store, catalogClient, logger)

	// Setup Gin router
	if config.GetEnv("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// CORS for the storefront origin
	origins := []string{config.GetEnv("FRONTEND_URL", "http://localhost:5173")}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, store, snapshot, coordinator)

	// Warm the catalog snapshot; a cold upstream is not fatal.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := snapshot.Refresh(warmCtx); err != nil {
		logger.Warn().Err(err).Msg("initial catalog fetch failed, starting with an empty snapshot")
	}
	warmCancel()

	// Start server with graceful shutdown
	port := config.GetEnv("PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		logger.Info().Str("port", port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	// Give outstanding requests 30 seconds to complete. In-flight checkouts
	// are allowed to finish: stock effects must not be abandoned half-applied.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited gracefully")
}

// buildPersister selects the cart persistence backend from CART_STORE.
func buildPersister() (cart.Persister, error) {
	switch config.GetEnv("CART_STORE", "memory") {
	case "db":
		db, err := database.Connect()
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		return cart.NewGormPersister(db), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.GetEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		return cart.NewRedisPersister(client), nil
	case "file":
		return cart.NewFilePersister(config.GetEnv("CART_DIR", "carts"))
	default:
		return cart.NewMemoryPersister(), nil
	}
}
