package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/atmonu/cutopt/internal/config"
	"github.com/atmonu/cutopt/internal/results"
	"github.com/atmonu/cutopt/internal/server"
	"github.com/atmonu/cutopt/internal/utils/logger"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting results server...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	store, err := results.Open(cfg.ResultsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open results store")
	}
	defer store.Close()

	srv := server.New(store, server.Config{Host: cfg.ServerHost, Port: cfg.ServerPort})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutdown signal received, stopping server")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("results server stopped")
}
