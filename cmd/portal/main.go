// Package main runs the documentation portal server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/docuforge/doc_portal/internal/config"
	"github.com/docuforge/doc_portal/internal/httpapi"
	"github.com/docuforge/doc_portal/internal/logging"
	"github.com/docuforge/doc_portal/internal/metrics"
	"github.com/docuforge/doc_portal/internal/middleware"
	"github.com/docuforge/doc_portal/internal/service/accounts"
	"github.com/docuforge/doc_portal/internal/service/appconfig"
	"github.com/docuforge/doc_portal/internal/service/catalog"
	"github.com/docuforge/doc_portal/internal/session"
	"github.com/docuforge/doc_portal/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	// Optional .env for local development, ignored when absent.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewDefault("portal").Fatalf("Failed to load config: %v", err)
	}

	log := logging.New("portal", cfg.Logging.Level, cfg.Logging.Format)

	store, err := openStore(cfg.Storage, log)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}

	sessions := session.NewManager([]byte(cfg.Session.Secret), cfg.Session.TTL)
	loginLimiter := middleware.NewRateLimiter(cfg.Server.LoginRatePerSec, cfg.Server.LoginRateBurst, log)

	handler := httpapi.New(
		catalog.New(store, log),
		accounts.New(store, log),
		appconfig.New(store, log),
		sessions,
		log,
		loginLimiter,
	)

	var root http.Handler = handler.Router()
	root = metrics.InstrumentHandler(root)
	root = middleware.CORS(cfg.Server.AllowedOrigins)(root)
	root = middleware.Logging(log)(root)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("portal listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("Shutdown failed: %v", err)
	}
}

func openStore(cfg config.StorageConfig, log *logging.Logger) (storage.Provider, error) {
	var (
		inner storage.Provider
		err   error
	)
	switch cfg.Driver {
	case "file":
		inner = storage.NewFile(cfg.FilePath)
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		inner, err = storage.NewPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
	case "memory":
		inner = storage.NewMemory()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	log.WithField("driver", cfg.Driver).Info("storage ready")
	return storage.NewInstrumented(inner), nil
}
