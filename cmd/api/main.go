package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/dungeonforge/crawl-engine/internal/config"
	"github.com/dungeonforge/crawl-engine/internal/handlers"
	"github.com/dungeonforge/crawl-engine/internal/logger"
	"github.com/dungeonforge/crawl-engine/internal/mcp"
	"github.com/dungeonforge/crawl-engine/internal/middleware"
	"github.com/dungeonforge/crawl-engine/internal/storage"
	"github.com/dungeonforge/crawl-engine/pkg/dungeon"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Crawl Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"redis_addr", cfg.RedisAddr)

	var content *dungeon.Content
	if cfg.ContentPath != "" {
		var err error
		content, err = dungeon.LoadContent(cfg.ContentPath)
		if err != nil {
			log.Error("Failed to load content pack", "error", err, "path", cfg.ContentPath)
			os.Exit(1)
		}
		log.Info("Content pack loaded", "path", cfg.ContentPath)
	}

	store := storage.NewRedisStorage(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	server := mcp.NewServer(store, log, content)

	router := mux.NewRouter()
	router.Handle("/health", handlers.NewHealthHandler(store, log)).Methods(http.MethodGet)
	router.Handle("/mcp/tools", handlers.NewToolsHandler(log)).Methods(http.MethodGet)
	router.Handle("/mcp/call", handlers.NewCallHandler(server, log)).Methods(http.MethodPost, http.MethodOptions)
	router.Handle("/v1/sessions/{id}/map.pdf", handlers.NewMapExportHandler(store, log)).Methods(http.MethodGet)

	handler := middleware.Logging(log)(middleware.CORS(cfg.CORSOrigins)(router))
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
