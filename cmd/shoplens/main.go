// Command shoplens runs the brand-insights API and its crawl-audit tooling.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FranksOps/shoplens/internal/config"
	"github.com/FranksOps/shoplens/internal/fetchlog"
	"github.com/FranksOps/shoplens/internal/fetchlog/csvlog"
	"github.com/FranksOps/shoplens/internal/fetchlog/jsonlog"
	"github.com/FranksOps/shoplens/internal/fetchlog/postgreslog"
	"github.com/FranksOps/shoplens/internal/fetchlog/sqlitelog"
	"github.com/FranksOps/shoplens/internal/report"
	"github.com/FranksOps/shoplens/internal/server"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shoplens",
	Short: "shoplens crawls storefronts into brand profiles and discovers competitors",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the brand-insights HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel)

		log, err := openFetchLog(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if log != nil {
			defer log.Close()
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           server.New(cfg, log, logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.Server.Addr)
			errCh <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

var auditFormat string

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Summarize the fetch audit log",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log, err := openFetchLog(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if log == nil {
			return errors.New("audit requires a fetch_log backend (set SHOPLENS_FETCH_LOG_BACKEND)")
		}
		defer log.Close()

		records, err := log.Query(cmd.Context(), fetchlog.Filter{})
		if err != nil {
			return err
		}

		summary := report.GenerateSummary(records)
		if auditFormat == "json" {
			return report.WriteJSON(cmd.OutOrStdout(), summary)
		}
		return report.WriteText(cmd.OutOrStdout(), summary)
	},
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

func openFetchLog(ctx context.Context, cfg *config.Config) (fetchlog.Backend, error) {
	switch cfg.FetchLog.Backend {
	case "", "none":
		return nil, nil
	case "sqlite":
		return sqlitelog.New(cfg.FetchLog.DSN)
	case "postgres":
		return postgreslog.New(ctx, cfg.FetchLog.DSN)
	case "json":
		return jsonlog.New(cfg.FetchLog.DSN)
	case "csv":
		return csvlog.New(cfg.FetchLog.DSN)
	default:
		return nil, fmt.Errorf("unknown fetch_log backend %q", cfg.FetchLog.Backend)
	}
}

func main() {
	auditCmd.Flags().StringVar(&auditFormat, "format", "text", "output format: text or json")
	rootCmd.AddCommand(serveCmd, auditCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
