package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/comixd/comixd"
	"github.com/comixd/comixd/archive"
	"github.com/comixd/comixd/config"
	"github.com/comixd/comixd/filesystem"
	comixhttp "github.com/comixd/comixd/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the comixd HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "HTTP server bind address")
	serveCmd.Flags().Int("port", 31257, "HTTP server port")
	serveCmd.Flags().String("password", "", "enable HTTP Basic auth with this password (env: COMIX_AUTH_PASSWORD)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}
	rules := cfg.Rules()

	root, err := os.OpenRoot(cfg.Library.Root)
	if err != nil {
		return fmt.Errorf("open collection root: %w", err)
	}
	defer func() { _ = root.Close() }()

	catalog := filesystem.NewCatalog(root, rules)

	norm, err := archive.NewNormalizer(cfg.Encoding.Candidates)
	if err != nil {
		return fmt.Errorf("build encoding normalizer: %w", err)
	}
	opener := archive.NewOpener(norm, rules)

	service, err := comixd.NewService(catalog, opener, rules)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	absRoot, err := filepath.Abs(cfg.Library.Root)
	if err != nil {
		return fmt.Errorf("resolve collection root: %w", err)
	}

	handlerConfig := comixhttp.HandlerConfig{
		RootName:  filepath.Base(absRoot),
		Banner:    cfg.Library.Banner,
		ChunkSize: cfg.Server.ChunkSize,
		Debug:     cfg.Server.Debug,
		Auth: comixhttp.AuthConfig{
			Enabled:  cfg.Auth.Password != "",
			Password: cfg.Auth.Password,
		},
		Health: func(ctx context.Context) error {
			_, err := catalog.Stat(ctx, "")
			return err
		},
	}

	handler := comixhttp.NewHandler(service, handlerConfig)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))

	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// Large archives stream for a while; no write deadline.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "root", absRoot)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
