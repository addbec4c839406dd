package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"signedsubmit/internal/api"
	"signedsubmit/internal/api/handlers"
	"signedsubmit/internal/api/middleware"
	"signedsubmit/internal/platform/config"
	"signedsubmit/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to optional config file")
	flag.Parse()

	_ = godotenv.Load()

	loader, err := config.NewLoader(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(loader.Logging())

	cfg, err := loader.LoadReceiver()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid receiver configuration")
	}

	var limiter *middleware.RateLimiter
	if cfg.Receiver.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.Receiver.RateLimitPerMinute)
	}

	router := api.NewRouter(&api.Dependencies{
		SubmissionPath:    cfg.Receiver.Path,
		SubmissionHandler: handlers.NewSubmissionHandler([]byte(cfg.Submission.SigningSecret)),
		HealthHandler:     handlers.NewHealthHandler(),
		RateLimiter:       limiter,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Receiver.Host, cfg.Receiver.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if limiter != nil {
		go sweepLimiter(ctx, limiter)
	}

	go func() {
		log.Info().Str("addr", addr).Str("path", cfg.Receiver.Path).Msg("receiver starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("receiver failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func sweepLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep(10 * time.Minute)
		}
	}
}
