package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"memberpass.app/cloud/handlers"
	"memberpass.app/cloud/internal/config"
	"memberpass.app/cloud/internal/logger"
	"memberpass.app/cloud/internal/metrics"
	"memberpass.app/cloud/storage"
)

func main() {
	if versionBytes, err := os.ReadFile("VERSION"); err == nil {
		handlers.Version = strings.TrimSpace(string(versionBytes))
	}

	godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		logger.Error("Invalid configuration", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	logger.SetLevel(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open membership store", map[string]interface{}{
			"error":  err.Error(),
			"driver": cfg.StorageDriver,
		})
		os.Exit(1)
	}
	defer store.Close()

	metrics.Init()

	server := handlers.NewHTTPServer(store, cfg)
	server.Router.Handle("/metrics", promhttp.Handler())

	logger.Info("Memberpass cloud API starting", map[string]interface{}{
		"version": handlers.Version,
		"port":    cfg.Port,
		"driver":  cfg.StorageDriver,
	})

	if err := http.ListenAndServe(":"+cfg.Port, server.Router); err != nil {
		logger.Error("Server stopped", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverRedis:
		return storage.NewRedisStore(context.Background(), cfg.RedisURL, cfg.StoreNamespace)
	case config.DriverMemory:
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewSQLiteStore(cfg.SQLitePath, cfg.StoreNamespace)
	}
}
