package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/knowledge-base-server/internal/config"
	"github.com/knowledge-base-server/internal/mcpserver"
	"github.com/knowledge-base-server/internal/repository"
	"github.com/knowledge-base-server/internal/seed"
	"github.com/knowledge-base-server/internal/service"
	"github.com/knowledge-base-server/internal/validation"
	"github.com/knowledge-base-server/pkg/logger"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger; stdout belongs to the stdio transport
	log := logger.New(cfg.Log, os.Stderr)
	log.Info().Str("transport", cfg.MCP.Transport).Msg("Starting MCP Knowledge Base Server...")

	// Initialize repositories and seed data
	repos := repository.New()
	if err := seed.Apply(context.Background(), repos.Article, cfg.Store, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed knowledge base")
	}

	// Initialize services
	services := service.NewServices(repos, log)

	s := mcpserver.New(services, validation.NewValidator(), log)

	if cfg.MCP.Transport == config.TransportStdio {
		log.Info().Msg("MCP Knowledge Base Server running on stdio")
		if err := server.ServeStdio(s, server.WithErrorLogger(stdlog.New(log, "", 0))); err != nil {
			log.Fatal().Err(err).Msg("Stdio server failed")
		}
		return
	}

	httpServer := server.NewStreamableHTTPServer(s, server.WithEndpointPath(cfg.MCP.Endpoint))

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", cfg.MCP.Addr).
			Str("endpoint", cfg.MCP.Endpoint).
			Msg("MCP Knowledge Base Server listening")
		if err := httpServer.Start(cfg.MCP.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
