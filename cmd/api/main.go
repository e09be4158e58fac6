package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"retrocodex_backend/internal/covers"
	"retrocodex_backend/internal/events"
	"retrocodex_backend/internal/favorites"
	"retrocodex_backend/internal/games"
	"retrocodex_backend/internal/games/gemini"
	"retrocodex_backend/internal/games/service"
	apphttp "retrocodex_backend/internal/http"
	"retrocodex_backend/internal/http/router"
	"retrocodex_backend/platform/config"
	"retrocodex_backend/platform/db"
	"retrocodex_backend/platform/logger"
	"retrocodex_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var rdb *redis.Client
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		client, err := db.NewRedis(ctx, cfg)
		if err != nil {
			return err
		}
		rdb = client
		return nil
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	defer rdb.Close()
	log.Info("redis connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	geminiClient, err := gemini.NewClient(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize gemini client", "error", err)
		panic("failed to initialize gemini client: " + err.Error())
	}
	log.Info("gemini client initialized", "model", cfg.GeminiModel)

	// Cover resolution runs only when IGDB credentials are configured.
	// Searches work without it; results just keep their model-supplied covers.
	var coverResolver service.CoverResolver
	if cfg.CoversEnabled {
		coverResolver = covers.NewClient(cfg, covers.NewTokenCache(), log)
		log.Info("cover resolution enabled", "api", cfg.IGDBAPIURL)
	} else {
		log.Warn("IGDB credentials not configured; cover resolution disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	gamesModule := games.NewModule(geminiClient, coverResolver, eventBus, val, log)
	gamesModule.RegisterHandlers(eventBus)

	favoritesModule := favorites.NewModule(rdb, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewHealth(rdb),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			gamesModule,
			favoritesModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", "error", err)
		}

		// Drain in-flight cover lookups, then drop the SSE subscribers.
		gamesModule.Service().WaitForEnrichment()
		gamesModule.Stream().Close()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
