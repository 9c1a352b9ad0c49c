// cmd/api/main.go
// Main entry point for the roommate finder API.
// Bootstraps storage, the match engine and both HTTP servers.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imadgeboyega/roommate-finder/internal/auth"
	"github.com/imadgeboyega/roommate-finder/internal/common/database"
	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
	"github.com/imadgeboyega/roommate-finder/internal/common/utils"
	"github.com/imadgeboyega/roommate-finder/internal/config"
	"github.com/imadgeboyega/roommate-finder/internal/geo"
	"github.com/imadgeboyega/roommate-finder/internal/listing"
	"github.com/imadgeboyega/roommate-finder/internal/matching"
	"github.com/imadgeboyega/roommate-finder/internal/profile"
	"github.com/imadgeboyega/roommate-finder/internal/store"
)

var startTime = time.Now()

func main() {
	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// 3. Logger
	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer appLog.Sync()
	appLog.Info("starting roommate finder API", "environment", cfg.Environment, "storage", cfg.Storage.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Storage
	st, err := store.Open(ctx, cfg.Storage, cfg.Storage.RunMigrations, appLog)
	if err != nil {
		appLog.Fatal("failed to open storage", "error", err)
	}
	defer st.Close()

	// 5. Redis (optional): station overrides and like rate limiting
	var stations geo.StationLookup = geo.DefaultStations()
	var limiter matching.Limiter
	if cfg.Redis.URL != "" {
		redisClient, err := database.NewRedisClientFromURL(ctx, cfg.Redis.URL)
		if err != nil {
			appLog.Warn("redis unavailable, continuing without it", "error", err)
		} else {
			defer redisClient.Close()
			stations = geo.ChainLookup{geo.NewRedisStations(redisClient, appLog), geo.DefaultStations()}
			limiter = matching.NewRedisLimiter(redisClient, cfg.Matching.LikesPerWindow, cfg.Matching.LikeWindow)
			appLog.Info("redis connected")
		}
	}

	// 6. Services
	hub := matching.NewHub(appLog)
	go hub.Run(ctx)

	profileService := profile.NewService(st.Profiles, appLog)
	engine := matching.NewEngine(st.Likes, st.Profiles, st.Listings, hub, limiter, appLog)
	listingService := listing.NewService(st.Listings, profileService, engine, stations, appLog)

	authService := auth.NewService(&auth.Config{
		JWTSecret:         cfg.Auth.JWTSecret,
		AccessTokenExpiry: cfg.Auth.AccessTokenExpiry,
		BotToken:          cfg.Auth.TelegramBotToken,
		InitDataMaxAge:    cfg.Auth.InitDataMaxAge,
		AllowDevLogin:     !cfg.IsProduction(),
	}, appLog)
	authMiddleware := auth.NewMiddleware(authService)

	matching.NewScheduler(matching.NewReconciler(st.Likes, appLog), cfg.Matching.ReconcileInterval, appLog).Start(ctx)

	// 7. Routes
	router := mux.NewRouter()
	router.Use(loggingMiddleware(appLog))
	router.HandleFunc("/health", healthCheck).Methods("GET")

	auth.NewHandler(authService, appLog).RegisterRoutes(router)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)
	profile.RegisterRoutes(api, profile.NewHandler(profileService, appLog))
	listing.RegisterRoutes(api, listing.NewHandler(listingService, appLog))

	matchingHandler := matching.NewHandler(engine, profileService, stations, hub, appLog)
	matching.RegisterRoutes(api, matchingHandler)
	matching.RegisterWebSocket(router, matchingHandler, authMiddleware.Authenticate)

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      corsMiddleware(cfg.HTTP.AllowedOrigin)(router),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// 8. Ops server: liveness, readiness and metrics
	var ready int32
	opsSrv := &http.Server{
		Addr:              cfg.HTTP.OpsAddr(),
		Handler:           opsRouter(&ready, st.Ping),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		appLog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		appLog.Info("ops server listening", "addr", opsSrv.Addr)
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("ops server: %w", err)
		}
	}()
	atomic.StoreInt32(&ready, 1)

	select {
	case <-ctx.Done():
		appLog.Info("shutdown signal received")
	case err := <-errCh:
		appLog.Error("server failed", "error", err)
	}
	atomic.StoreInt32(&ready, 0)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("API server forced to shutdown", "error", err)
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("ops server forced to shutdown", "error", err)
	}
	appLog.Info("server exited gracefully")
}

func opsRouter(ready *int32, ping func(ctx context.Context) error) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", promhttp.Handler())
	return r
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	utils.SuccessResponse(w, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}, http.StatusOK)
}
