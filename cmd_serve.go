package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/insightdelivered/poi-coverage-report/internal/api"
	"github.com/insightdelivered/poi-coverage-report/internal/store"
)

var (
	serveAddr   string
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report upload API",
	Long: `Starts an HTTP server. POST a CSV export to /api/report as form field
"file"; the last upload is kept and served as JSON, CSV, XLSX, per-zone charts
and printable zone reports until the next upload replaces it.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config server.addr)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "Directory with the browser page (overrides config server.static_dir)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveStatic != "" {
		cfg.Server.StaticDir = serveStatic
	}

	st := store.New(cfg.Zones, logger)
	app := api.NewApp(api.NewHandler(st, cfg, logger, version))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("static", cfg.Server.StaticDir),
			zap.String("version", version))
		errCh <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
