package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/voicecal/internal/config"
	"github.com/teemow/voicecal/internal/instrumentation"
	"github.com/teemow/voicecal/internal/logging"
	"github.com/teemow/voicecal/internal/mcptools"
	"github.com/teemow/voicecal/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server over stdio, exposing the
calendar tools to MCP clients.

Requires a cached Google Calendar token (run 'voicecal auth' first).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup()
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(ctx context.Context) error {
	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	instrConfig := instrumentation.LoadConfigFromEnv(version)
	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize instrumentation: %w", err)
	}

	serverContext, err := server.NewServerContext(shutdownCtx, cfg.Location())
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	if provider.Enabled() {
		serverContext.SetInstrumentation(provider, instrumentation.NewAuditLogger(nil))
	}

	var metricsServer *server.MetricsServer
	if provider.PrometheusHandler() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    instrConfig.MetricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server stopped: %v", err)
			}
		}()
	}

	defer func() {
		if metricsServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("Error during metrics server shutdown: %v", err)
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			log.Printf("Error during server context shutdown: %v", err)
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("voicecal", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := mcptools.RegisterCalendarTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register calendar tools: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	case <-shutdownCtx.Done():
		return nil
	}
}
