package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/loghound-systems/loghound-stack/common/logging"
	"github.com/loghound-systems/loghound-stack/common/messaging"
	natsclient "github.com/loghound-systems/loghound-stack/common/messaging/nats"
	"github.com/loghound-systems/loghound-stack/common/tfidf"
	"github.com/loghound-systems/loghound-stack/miner/internal/artifacts"
	"github.com/loghound-systems/loghound-stack/miner/internal/config"
	"github.com/loghound-systems/loghound-stack/miner/internal/handlers"
	"github.com/loghound-systems/loghound-stack/miner/internal/server"
	"github.com/loghound-systems/loghound-stack/miner/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	// Connect to NATS for build notifications (optional)
	var publisher messaging.Publisher
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.Name = "loghound-miner"
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			logger.Warn("NATS unavailable, build notifications disabled", logging.Error(err))
		} else {
			publisher = client
			defer client.Close()
		}
	}

	// Initialize artifact set, vectorizer store, service
	set := artifacts.NewSet(cfg.Output.Dir)
	store := tfidf.NewStore(cfg.Output.Dir, cfg.TFIDF)
	svc := service.New(set, store, cfg.Dataset.Path, publisher, logger)

	// Initialize handlers and router
	handler := handlers.NewHandler(svc, cfg.Dataset.BatchSize, logger)
	router := server.NewRouter(handler)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Miner service listening", logging.Service("miner"),
			"addr", srv.Addr, "dataset", cfg.Dataset.Path, "out", cfg.Output.Dir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server stopped gracefully")
}
