package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"image-gallery/pkg/config"
	"image-gallery/pkg/handlers"
	"image-gallery/pkg/services"
)

// newServeCmd creates a new command for serving the manifest preview
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start a web server exposing the manifest (/feed) and a rendered index page
(/index) built from the current image directory. The manifest is cached for
CACHE_TTL; POST /refresh rebuilds it. Image files themselves are not served.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initService()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return serveWebsite(cmd.Context(), cfg)
		},
	}
}

// serveWebsite runs the preview server until ctx is cancelled
func serveWebsite(ctx context.Context, cfg *config.Config) error {
	mux := http.NewServeMux()
	handlers.New(services.Default()).Routes(mux)

	server := &http.Server{
		Addr:    cfg.ServerAddress(),
		Handler: mux,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		cfg.PrintServerStartMessage()
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation (Ctrl+C) or server error
	select {
	case <-ctx.Done():
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Info("Server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
