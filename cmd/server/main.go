package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/adaptiq/backend/internal/api"
	"github.com/adaptiq/backend/internal/infrastructure/config"
	"github.com/adaptiq/backend/internal/questionbank"
	"github.com/adaptiq/backend/internal/quiz"
	"github.com/adaptiq/backend/internal/session"
	"github.com/adaptiq/backend/internal/store"

	_ "github.com/adaptiq/backend/docs" // swagger docs
)

// @title           AdaptIQ API
// @version         1.0
// @description     Adaptive quiz backend — accounts, adaptive question delivery, weak-area video recommendations, and leaderboards.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bank, err := questionbank.Load(cfg.DatasetPath)
	if err != nil {
		logger.Error("failed to load question bank", "error", err, "path", cfg.DatasetPath)
		os.Exit(1)
	}
	logger.Info("question bank loaded", "questions", bank.Len())

	if cfg.VideosPath != "" {
		if err := seedVideos(db, cfg.VideosPath, logger); err != nil {
			logger.Error("failed to seed video resources", "error", err)
			os.Exit(1)
		}
	}

	sessions := newSessionStore(cfg, logger)

	handler := api.NewHandler(db, bank, sessions, quiz.NewNearestDifficulty(), logger, cfg.AdminToken)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// newSessionStore picks Redis when an address is configured, otherwise
// the in-memory store.
func newSessionStore(cfg *config.Config, logger *slog.Logger) session.Store {
	if cfg.RedisAddr == "" {
		logger.Info("using in-memory session store", "ttl", cfg.SessionTTL)
		return session.NewMemoryStore(cfg.SessionTTL)
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return session.NewRedisStore(client, cfg.SessionTTL)
}

// seedVideos loads video resources from a JSON file on first run. An
// already-populated table is left alone.
func seedVideos(db *store.SQLiteStore, path string, logger *slog.Logger) error {
	ctx := context.Background()

	count, err := db.CountVideoResources(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var videos []store.VideoResource
	if err := json.Unmarshal(data, &videos); err != nil {
		return err
	}

	for _, v := range videos {
		if _, err := db.SaveVideoResource(ctx, v); err != nil {
			return err
		}
	}
	logger.Info("video resources seeded", "count", len(videos))
	return nil
}
