package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"catalog-service/internal/cache"
	"catalog-service/internal/config"
	"catalog-service/internal/handlers"
	"catalog-service/internal/logger"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/routes"
	"catalog-service/internal/seed"
)

func main() {
	// 1. Configuración
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Logger
	logger.Setup(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("store", cfg.Store).Msg("starting catalog service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Store
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("store connection failed")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("store close failed")
		}
	}()

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// 3a. Datos de ejemplo: siempre en memoria, opcional en MongoDB
	if cfg.Store == config.StoreMemory || cfg.SeedOnStart {
		if _, err := seed.Run(ctx, store); err != nil {
			log.Fatal().Err(err).Msg("seeding failed")
		}
	}

	// 4. Caché
	responseCache, err := cache.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("cache connection failed")
	}
	defer responseCache.Close()

	// 5. Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.LoggingMiddleware())
	routes.RegisterRoutes(router, handlers.NewProductHandler(store, responseCache, cfg.Cache.TTL))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}
