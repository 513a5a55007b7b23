package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/feeledger/feeledger/internal/api"
	"github.com/feeledger/feeledger/internal/auth"
	"github.com/feeledger/feeledger/internal/storage/sqlite"
	"github.com/feeledger/feeledger/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/feeledger.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	tokenLifetime := 24 * time.Hour
	if raw := os.Getenv("TOKEN_DURATION"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			slog.Error("invalid TOKEN_DURATION", "value", raw, "error", err)
			os.Exit(1)
		}
		tokenLifetime = d
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", dbPath)

	server := api.New(store, auth.NewJWTManager(jwtSecret, tokenLifetime))

	addr := ":" + port
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
