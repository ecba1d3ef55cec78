package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"grana/internal/backend"
	"grana/internal/config"
	"grana/internal/events"
	"grana/internal/extract"
	apphttp "grana/internal/http"
	applog "grana/internal/log"
	"grana/internal/session"
	"grana/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize ledger backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Ledger cleanup failed", "error", err)
			}
		}()
	}

	// Event sink is optional; the store works without one.
	var sink store.EventSink
	if cfg.AMQPURL != "" {
		amqpClient, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer amqpClient.Close()
			sink = amqpClient
			logger.Info("Initialized AMQP event sink",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	var provider session.Provider
	if cfg.AuthURL != "" {
		provider, err = session.NewGoTrue(cfg.AuthURL, cfg.AuthAPIKey)
		if err != nil {
			logger.Error("Failed to initialize auth provider", "error", err)
			os.Exit(1)
		}
		logger.Info("Initialized remote auth provider", "url", cfg.AuthURL)
	} else {
		provider = session.NewStatic()
		logger.Info("Initialized static auth provider")
	}

	var extractor extract.Extractor
	if cfg.ExtractAPIKey != "" {
		extractor, err = extract.NewOpenAI(cfg.ExtractAPIKey, cfg.ExtractBaseURL, cfg.ExtractModel)
		if err != nil {
			logger.Error("Failed to initialize receipt extractor", "error", err)
			os.Exit(1)
		}
		logger.Info("Initialized receipt extractor")
	} else {
		logger.Info("Receipt extraction disabled - no EXTRACT_API_KEY provided")
	}

	st := store.New(result.Ledger, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	unsubscribe := st.Watch(ctx, provider)
	defer unsubscribe()

	srv := apphttp.NewServer(":"+cfg.Port, st, provider, extractor)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting grana server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
