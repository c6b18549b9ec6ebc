/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the rental back-office server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from environment
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

CONFIGURATION (environment, prefix RENTAL_):
  RENTAL_ADDR              Listen address (default: :8080)
  RENTAL_DB_PATH           SQLite database path (default: rental.db)
                           Use ":memory:" for an in-memory database
  RENTAL_ALLOWED_ORIGINS   CORS origins, comma separated
  RENTAL_RATE_LIMIT        Requests per minute per IP (0 disables)
  RENTAL_SHUTDOWN_TIMEOUT  Grace period for in-flight requests

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (RENTAL_SHUTDOWN_TIMEOUT)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  RENTAL_DB_PATH=./data/rental.db ./server

  # Run on a different port
  RENTAL_ADDR=:3000 ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/hostfolio/rental-engine/api"
	"github.com/hostfolio/rental-engine/store/sqlite"
)

type config struct {
	Addr            string        `default:":8080"`
	DBPath          string        `split_words:"true" default:"rental.db"`
	AllowedOrigins  []string      `split_words:"true" default:"http://localhost:5173"`
	RateLimit       int           `split_words:"true" default:"300"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

func main() {
	var cfg config
	if err := envconfig.Process("rental", &cfg); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler and router
	handler := api.NewHandler(store)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RequestsPerMin: cfg.RateLimit,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on %s (db: %s)", cfg.Addr, cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
