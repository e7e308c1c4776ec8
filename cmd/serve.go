/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

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

	"github.com/spf13/cobra"

	"github.com/socraticchat/socratic/internal/config"
	"github.com/socraticchat/socratic/internal/dialogue"
	"github.com/socraticchat/socratic/internal/normalize"
	"github.com/socraticchat/socratic/internal/openai"
	"github.com/socraticchat/socratic/internal/persona"
	"github.com/socraticchat/socratic/internal/server"
)

// shutdownTimeout is the maximum time to wait for in-flight requests to
// drain after a termination signal.
const shutdownTimeout = 30 * time.Second

var listenAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat relay HTTP server",
	Long: `Start the HTTP server exposing the chat API.

Endpoints:
  POST   /chat            send a message, get the Socratic reply
  GET    /sessions/{id}   inspect a session's full stored history
  DELETE /sessions/{id}   remove a session
  GET    /health          liveness probe

The server refuses to start without a provider credential. Set it in the
config file (token) or the OPENAI_API_KEY environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if cmd.Flags().Changed("listen") {
			cfg.ListenAddr = listenAddr
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		personaText := persona.Default
		if cfg.PersonaFile != "" {
			personaText, err = persona.Load(cfg.PersonaFile)
			if err != nil {
				return fmt.Errorf("loading persona: %w", err)
			}
		}

		var normalizer normalize.Normalizer
		switch cfg.Normalizer {
		case "builtin":
			normalizer = normalize.Rules{}
		case "service":
			normalizer = normalize.NewService(cfg.NormalizerURL, cfg.RequestTimeout())
		case "none":
			normalizer = nil
		}

		completer := openai.NewClient(cfg.BaseURL, cfg.Token, cfg.Model, cfg.RequestTimeout())
		store := dialogue.NewStore()
		orch := dialogue.NewOrchestrator(store, completer, normalizer, personaText, logger)

		httpServer := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           server.New(orch, store, logger).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if retention := cfg.SessionRetention(); retention > 0 {
			go runEviction(ctx, store, retention, logger)
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening",
				slog.String("addr", cfg.ListenAddr),
				slog.String("model", cfg.Model))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

// runEviction periodically drops sessions idle for longer than retention.
func runEviction(ctx context.Context, store *dialogue.Store, retention time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(retention)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := store.Evict(retention); removed > 0 {
				logger.Info("evicted idle sessions", slog.Int("removed", removed))
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", ":8000", "Address to listen on (host:port)")
}
