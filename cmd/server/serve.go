package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"jira_gateway/internal/app"
	"jira_gateway/internal/config"
	"jira_gateway/internal/logger"
	mcpserver "jira_gateway/internal/service/mcp-server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var transport, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Jira tools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configPath)
			if err != nil {
				logger.GetLogger().Error("invalid configuration", zap.Error(err))
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport = config.Transport(transport)
			}
			if cmd.Flags().Changed("addr") {
				cfg.HTTPAddr = addr
			}

			if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()
			log := logger.GetLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&transport, "transport", string(config.TransportStdio), "transport to serve: stdio or http")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address for the http transport")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	gateway, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start gateway", zap.Error(err))
		return err
	}

	switch cfg.Transport {
	case config.TransportStdio:
		log.Info("serving MCP over stdio")
		return mcpserver.Serve(gateway.MCPServer)
	case config.TransportHTTP:
		engine := mcpserver.NewEngine(gateway.MCPServer, log.Named("http"))
		return mcpserver.ServeHTTP(ctx, cfg.HTTPAddr, engine, log)
	default:
		return &config.ConfigurationError{Reason: fmt.Sprintf("unknown transport %q", cfg.Transport)}
	}
}
