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
	"github.com/loghound-systems/loghound-stack/ml/internal/config"
	"github.com/loghound-systems/loghound-stack/ml/internal/handlers"
	"github.com/loghound-systems/loghound-stack/ml/internal/model"
	"github.com/loghound-systems/loghound-stack/ml/internal/notify"
	"github.com/loghound-systems/loghound-stack/ml/internal/server"
	"github.com/loghound-systems/loghound-stack/ml/internal/service"
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

	// Connect to NATS for model registry notifications (optional)
	var publisher messaging.Publisher
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.Name = "loghound-ml"
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			logger.Warn("NATS unavailable, model notifications disabled", logging.Error(err))
		} else {
			publisher = client
			defer client.Close()
		}
	}
	notifier := notify.New(publisher, logger)

	// Initialize model handles and restore persisted artifacts
	vector := model.NewHandle(cfg.Models.Dir, cfg.Models.VectorName, cfg.OCSVM)
	text := model.NewTextModel(cfg.Models.Dir, cfg.Models.TextName, cfg.OCSVM, cfg.TFIDF)

	svc := service.New(vector, text, notifier, logger)
	if err := svc.Restore(context.Background()); err != nil {
		log.Fatalf("Failed to restore model artifacts: %v", err)
	}

	// Initialize handlers and router
	handler := handlers.NewHandler(svc, logger)
	router := server.NewRouter(handler, cfg.Server.AllowedOrigins)

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
		logger.Info("ML service listening", logging.Service("ml"), "addr", srv.Addr)
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
