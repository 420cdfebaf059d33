package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"image-gallery/pkg/config"
	"image-gallery/pkg/handlers"
	"image-gallery/pkg/services"
)

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(os.Getenv("GALLERY_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize services
	services.InitService(cfg)

	// Set up HTTP handlers
	mux := http.NewServeMux()
	handlers.New(services.Default()).Routes(mux)
	server := &http.Server{Addr: cfg.ServerAddress(), Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown failed: %v", err)
		}
	}()

	// Start server
	cfg.PrintServerStartMessage()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}
