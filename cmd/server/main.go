package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Felici4no/RedeSentinela/api"
	dbfs "github.com/Felici4no/RedeSentinela/db"
	"github.com/Felici4no/RedeSentinela/internal/config"
	"github.com/Felici4no/RedeSentinela/internal/db"
	"github.com/Felici4no/RedeSentinela/internal/jobs"
	"github.com/Felici4no/RedeSentinela/internal/observability"
	"github.com/Felici4no/RedeSentinela/internal/repository/sqlite"
	"github.com/Felici4no/RedeSentinela/pkg/models"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	log.Printf("Starting Sentinela server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and apply migrations
	database, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqlite.New(database, logger)
	if err := seedAdmin(ctx, repo, cfg); err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	metrics := observability.NewMetrics()

	// Background refresh of hot zones and certificate unlocks
	worker := jobs.NewWorker(repo, repo, repo, nil, metrics, logger, cfg.RefreshInterval)
	workerCtx, workerCancel := context.WithCancel(ctx)
	worker.Start(workerCtx)

	handler := api.SetupRoutes(cfg, version, buildTime, database, worker, metrics)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	workerCancel()
	worker.Stop()

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := database.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}

// seedAdmin provisions the configured administrator account once. A profile
// already registered under the email is left untouched.
func seedAdmin(ctx context.Context, repo *sqlite.SQLiteRepo, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}
	existing, err := repo.GetProfileByEmail(ctx, cfg.Admin.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC().UnixMilli()
	return repo.CreateProfile(ctx, &models.Profile{
		ID:           uuid.NewString(),
		Name:         "Administrador",
		Email:        cfg.Admin.Email,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
		Created:      now,
		Updated:      now,
	})
}
