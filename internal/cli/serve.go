package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolhost/toolhost/internal/config"
	"github.com/toolhost/toolhost/internal/logger"
	"github.com/toolhost/toolhost/pkg/server"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tools over stdio or a WebSocket gateway",
	Long: `Serve the registered tools. By default the server speaks
newline-delimited JSON-RPC on stdin/stdout. With --listen it additionally
accepts WebSocket clients on the given address.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "WebSocket gateway address (host:port), empty for stdio only")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()

	svc, err := server.New(server.Config{
		Name:         cfg.Server.Name,
		Version:      cfg.Server.Version,
		FetchTimeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		Logger:       lg.Zerolog(),
	})
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Listen != "" {
		gw := server.NewGateway(svc, cfg.Server.Listen, lg.Zerolog())
		return gw.Start(ctx)
	}

	stdio := server.NewStdioServer(svc, os.Stdin, os.Stdout, lg.Zerolog())
	return stdio.Run(ctx)
}
