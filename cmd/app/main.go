package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/knowledge-base-server/internal/api"
	"github.com/knowledge-base-server/internal/config"
	"github.com/knowledge-base-server/internal/kbclient"
	"github.com/knowledge-base-server/internal/mcpserver"
	"github.com/knowledge-base-server/internal/repository"
	"github.com/knowledge-base-server/internal/seed"
	"github.com/knowledge-base-server/internal/service"
	"github.com/knowledge-base-server/internal/validation"
	"github.com/knowledge-base-server/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log := logger.New(cfg.Log, os.Stderr)
	log.Info().Msg("Starting Knowledge Base App...")

	// Initialize repositories and seed data
	repos := repository.New()
	if err := seed.Apply(context.Background(), repos.Article, cfg.Store, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed knowledge base")
	}

	// Initialize services and the MCP server the app talks to
	services := service.NewServices(repos, log)
	mcpServer := mcpserver.New(services, validation.NewValidator(), log)

	gateway, err := kbclient.NewInProcess(context.Background(), mcpServer, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to knowledge base server")
	}
	defer gateway.Close()

	// Initialize router
	router := api.NewRouter(gateway, services.Article, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Knowledge Base App listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
