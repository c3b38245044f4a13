package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savegress/mobitrace/internal/api"
	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/internal/logger"
	"github.com/savegress/mobitrace/internal/scan"
)

func main() {
	log := logger.New()
	log.Info().Msg("starting mobitrace")

	cfg := loadConfig()

	engine, err := scan.NewEngine(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure scan engine")
	}
	store := scan.NewStore()

	server := api.NewServer(cfg, engine, store)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("profile", cfg.Scoring.Profile).Msg("mobitrace API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down mobitrace")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("mobitrace stopped")
}

func loadConfig() *config.Config {
	log := logger.New()

	configPath := os.Getenv("MOBITRACE_CONFIG")
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Warn().Err(err).Str("path", configPath).Msg("failed to load config file, using environment")
			return config.LoadFromEnv()
		}
		return cfg
	}
	return config.LoadFromEnv()
}
