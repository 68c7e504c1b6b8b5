package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/package-manager/backend/internal/config"
	"github.com/package-manager/backend/internal/handlers"
	"github.com/package-manager/backend/internal/middleware"
	"github.com/package-manager/backend/internal/repository"
	"github.com/package-manager/backend/internal/search"
	"github.com/package-manager/backend/internal/service"
	"github.com/package-manager/backend/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting package manager api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"storage", cfg.Database.Storage,
		"log_level", cfg.LogLevel,
	)

	// Load the search-alias table; built-in defaults unless a file overrides
	aliases, err := cfg.SearchAliases()
	if err != nil {
		log.Error("failed to load search aliases", "error", err)
		os.Exit(1)
	}
	if aliases == nil {
		aliases = search.DefaultAliases()
	}
	log.Info("search aliases loaded", "alias_count", len(aliases))

	// Initialize the store
	var (
		itemRepo    repository.ItemRepository
		packageRepo repository.PackageRepository
	)
	switch cfg.Database.Storage {
	case config.StoragePostgres:
		store, err := repository.OpenPostgres(cfg.Database.URL)
		if err != nil {
			log.Error("failed to open postgres store", "error", err)
			os.Exit(1)
		}
		itemRepo, packageRepo = store, store
		log.Info("connected to postgres")
	default:
		store := repository.NewMemoryStore()
		itemRepo, packageRepo = store, store
		log.Info("using in-memory store")
	}

	// Initialize services
	catalogService := service.NewCatalogService(itemRepo)
	packageService := service.NewPackageService(packageRepo, itemRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	itemHandler := handlers.NewItemHandler(catalogService, log)
	packageHandler := handlers.NewPackageHandler(packageService, log)
	searchHandler := handlers.NewSearchHandler(aliases, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Effective search-alias table, consumed by filtering clients
		r.Get("/search-aliases", searchHandler.ListAliases)

		// Item catalog endpoints
		r.Route("/items", func(r chi.Router) {
			r.Get("/", itemHandler.ListItems)
			r.Post("/", itemHandler.CreateItem)
			r.Get("/{itemId}", itemHandler.GetItem)
			r.Put("/{itemId}", itemHandler.UpdateItem)
			r.Delete("/{itemId}", itemHandler.DeleteItem)
		})

		// Package endpoints
		r.Route("/packages", func(r chi.Router) {
			r.Get("/", packageHandler.ListPackages)
			r.Post("/", packageHandler.CreatePackage)
			r.Get("/{packageId}", packageHandler.GetPackage)
			r.Delete("/{packageId}", packageHandler.DeletePackage)
			r.Post("/{packageId}/items", packageHandler.AddItem)
			r.Delete("/{packageId}/items/{itemId}", packageHandler.RemoveItem)
			r.Put("/{packageId}/weight", packageHandler.UpdateWeight)
			r.Put("/{packageId}/boxsize", packageHandler.UpdateBoxSize)
			r.Put("/{packageId}/complete", packageHandler.Complete)
			r.Put("/{packageId}/uncomplete", packageHandler.Uncomplete)
		})
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
