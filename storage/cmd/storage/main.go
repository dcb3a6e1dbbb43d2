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

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/loghound-systems/loghound-stack/common/logging"
	natsclient "github.com/loghound-systems/loghound-stack/common/messaging/nats"
	"github.com/loghound-systems/loghound-stack/storage/internal/config"
	"github.com/loghound-systems/loghound-stack/storage/internal/handlers"
	"github.com/loghound-systems/loghound-stack/storage/internal/registry"
	"github.com/loghound-systems/loghound-stack/storage/internal/repository"
	"github.com/loghound-systems/loghound-stack/storage/internal/server"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "path to config file")
	migrationsPath := flag.String("migrations", "file://migrations", "migrations source URL")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(logger)

	connString := cfg.Database.ConnString()

	// Run database migrations
	logger.Info("Running database migrations...")
	m, err := migrate.New(*migrationsPath, connString)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	// Initialize repository
	repo, err := repository.NewPostgresRepository(context.Background(), connString)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer repo.Close()

	handler := handlers.NewHandler(repo, logger)

	// Start the model registry consumer (optional)
	if cfg.NATS.Enabled {
		natsCfg := natsclient.DefaultConfig()
		natsCfg.URL = cfg.NATS.URL
		natsCfg.Name = "loghound-storage"
		client, err := natsclient.NewClient(natsCfg)
		if err != nil {
			logger.Warn("NATS unavailable, registry consumer disabled", logging.Error(err))
		} else {
			defer client.Close()
			consumer := registry.NewConsumer(repo, logger)
			if err := consumer.Start(client); err != nil {
				log.Fatalf("Failed to start registry consumer: %v", err)
			}
			defer consumer.Stop()
			handler.SetMessagingClient(client)
			logger.Info("Registry consumer started")
		}
	}

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
		logger.Info("Storage service listening", logging.Service("storage"), "addr", srv.Addr)
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
