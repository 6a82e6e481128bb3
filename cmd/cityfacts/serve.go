package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/cityfacts/internal/backend"
	"github.com/kalambet/cityfacts/internal/config"
	"github.com/kalambet/cityfacts/internal/facts"
	"github.com/kalambet/cityfacts/internal/form"
	"github.com/kalambet/cityfacts/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the city-facts form UI (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "cityfacts version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire the form over the backend client. Startup does not require the
	// service to be up; a dead backend only surfaces as submit errors.
	client := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	if !client.Ping(ctx) {
		printWarning("city-facts service not reachable at %s", cfg.Backend.BaseURL)
	}
	cityForm := form.New(facts.New(client, client))
	handler := web.NewHandler(web.Deps{Form: cityForm})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("cityfacts listening", "addr", addr, "backend", cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")

		// Graceful shutdown with timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
