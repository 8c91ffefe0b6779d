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

	"github.com/aristath/stock-advisor/internal/clients/news"
	"github.com/aristath/stock-advisor/internal/clients/sentiment"
	"github.com/aristath/stock-advisor/internal/clients/yahoo"
	"github.com/aristath/stock-advisor/internal/config"
	"github.com/aristath/stock-advisor/internal/evaluation"
	"github.com/aristath/stock-advisor/internal/marketdata"
	"github.com/aristath/stock-advisor/internal/scheduler"
	"github.com/aristath/stock-advisor/internal/server"
	"github.com/aristath/stock-advisor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Stock Advisor")

	// Acquisition layer: Yahoo Finance behind a retrying fetcher with an
	// in-memory cache.
	cache := marketdata.NewCache(time.Duration(cfg.CacheTTLMinutes) * time.Minute)
	provider := marketdata.NewYahooProvider(yahoo.NewClient(log))
	fetcher := marketdata.NewFetcher(provider, cache, cfg.FetchMaxRetries, log)

	var sentimentSource evaluation.SentimentSource
	if cfg.SentimentEnabled {
		sentimentSource = sentiment.NewClient(log)
	}

	evalService := evaluation.NewService(evaluation.Config{
		Fetcher:    fetcher,
		Sentiment:  sentimentSource,
		Period:     cfg.LookbackPeriod,
		Thresholds: cfg.Thresholds,
		Log:        log,
	})

	sched := scheduler.New(log)
	if cfg.CacheTTLMinutes > 0 {
		if err := sched.AddJob("@every 10m", marketdata.NewSweepJob(cache, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register cache sweep job")
		}
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Port:       cfg.Port,
		Log:        log,
		Evaluation: evalService,
		News:       news.NewClient(log),
		DevMode:    cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
