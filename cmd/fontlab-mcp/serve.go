package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/typebridge/fontlab-mcp/internal/audit"
	"github.com/typebridge/fontlab-mcp/internal/bridge"
	"github.com/typebridge/fontlab-mcp/internal/config"
	"github.com/typebridge/fontlab-mcp/internal/hostapp"
	"github.com/typebridge/fontlab-mcp/internal/observability"
	"github.com/typebridge/fontlab-mcp/internal/server"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdin/stdout",
	RunE:  runServe,
}

func init() {
	// Register the flag on both root and serve so that
	// `fontlab-mcp --config path` and `fontlab-mcp serve --config path` both work.
	for _, cmd := range []*cobra.Command{rootCmd, serveCmd} {
		cmd.Flags().StringVar(&serveConfigPath, "config", config.DefaultConfigPath(), "path to config file")
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	configPath := serveConfigPath
	if env := os.Getenv("FONTLAB_MCP_CONFIG"); env != "" {
		configPath = env
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Logs go to stderr: stdout belongs to the MCP transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	hostPath, err := hostapp.Locate(cfg.HostPath, logger)
	if err != nil {
		if errors.Is(err, hostapp.ErrHostNotFound) {
			return fmt.Errorf("%w (set host_path in %s or FONTLAB_PATH)", err, configPath)
		}
		return err
	}
	logger.Info("host application located", slog.String("path", hostPath))

	metrics := observability.NewMetrics()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics listener started", slog.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics listener failed", slog.String("error", err.Error()))
			}
		}()
	}

	var auditStore *audit.Store
	if cfg.AuditEnabled() {
		auditStore, err = audit.Open(cfg.AuditDB, logger)
		if err != nil {
			// Audit is best-effort: a broken store must not block serving.
			logger.Error("audit store unavailable", slog.String("error", err.Error()))
		} else {
			defer func() {
				if err := auditStore.Close(); err != nil {
					logger.Error("closing audit store", slog.String("error", err.Error()))
				}
			}()
			logger.Info("audit store opened", slog.String("path", cfg.AuditDB))
		}
	}

	b, err := bridge.New(bridge.Config{
		HostPath:       hostPath,
		Capacity:       int64(cfg.MaxConcurrent),
		MaxTimeout:     cfg.MaxTimeout(),
		DefaultTimeout: cfg.DefaultTimeout(),
		WorkDir:        cfg.WorkDir,
	}, logger, metrics, auditStore)
	if err != nil {
		return err
	}

	s := server.New(version, b, metrics, logger)

	logger.Info("serving MCP on stdio",
		slog.Int("max_concurrent", cfg.MaxConcurrent),
		slog.String("max_timeout", cfg.MaxTimeout().String()),
	)
	return server.ServeStdio(s)
}
