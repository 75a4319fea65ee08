// Package main is the entry point for the trip planner API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/localstore"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/persist"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/session"
	"github.com/pkordes/trip-planner/internal/store"
	"github.com/pkordes/trip-planner/internal/weather"
	"github.com/pkordes/trip-planner/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Remote store -----------------------------------------------------
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := migrateRemote(ctx, pool); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// --- Local store ------------------------------------------------------
	localDB, err := localstore.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		slog.Error("failed to open local store", "path", cfg.LocalDBPath, "error", err)
		os.Exit(1)
	}
	defer localDB.Close()

	kv := localstore.NewKV(localDB)
	snapshots := localstore.NewSnapshotStore(kv, logger)
	blobs := localstore.NewBlobStore(localDB)

	// --- Session and persistence -----------------------------------------
	sess := session.New(session.NewTokenProvider(cfg.JWTSecret, kv), logger)
	trips := store.New()

	tripRepo := repo.NewTripRepo(pool)
	activityRepo := repo.NewActivityRepo(pool)
	memberRepo := repo.NewMemberRepo(pool)
	profileRepo := repo.NewProfileRepo(pool)

	backends := persist.NewSelector(sess, persist.RemoteRepos{
		Trips:      tripRepo,
		Activities: activityRepo,
		Members:    memberRepo,
	}, persist.NewLocal(snapshots, trips), logger)

	// --- Services ---------------------------------------------------------
	forecasts := weather.NewClient(cfg.WeatherBaseURL, cfg.GeocodingBaseURL,
		weather.WithHTTPClient(&http.Client{Timeout: cfg.WeatherTimeout}))

	tripSvc := service.NewTripService(trips, backends, sess, blobs, logger)
	syncSvc := service.NewSyncService(sess, snapshots, tripRepo, activityRepo, memberRepo, tripSvc, logger)
	planner := service.NewPlanner(trips, tripSvc, syncSvc, profileRepo, logger)

	srv := handler.NewServer(handler.Deps{
		Trips:          tripSvc,
		Activities:     service.NewActivityService(trips, backends, logger),
		Tasks:          service.NewTaskService(trips, backends, logger),
		Budget:         service.NewBudgetService(trips, backends, logger),
		Packing:        service.NewPackingService(trips, backends, nil, logger),
		Photos:         service.NewPhotoService(trips, backends, blobs, logger),
		Members:        service.NewMemberService(trips, sess, memberRepo, profileRepo, logger),
		Sync:           syncSvc,
		Weather:        service.NewWeatherService(trips, backends, weather.NewMemoGeocoder(forecasts.Geocode), forecasts, cfg.WeatherFreshness, logger),
		Session:        sess,
		Events:         trips,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})

	// --- Background -------------------------------------------------------
	unsubscribe := planner.Start(ctx, sess)
	defer unsubscribe()

	feed := repo.NewChangeFeed(pool, logger)
	go func() {
		if err := feed.Run(ctx, func(tripID string) { planner.HandleTripChanged(ctx, tripID) }); err != nil {
			slog.Error("change feed stopped", "error", err)
		}
	}()

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// Photo uploads get a megabyte of slack for the multipart envelope.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxUploadBytes + 1<<20))
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// No WriteTimeout: /events holds its response open.
	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// migrateRemote applies the embedded Postgres migrations through a
// database/sql view of the pool.
func migrateRemote(ctx context.Context, pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	if len(results) > 0 {
		slog.Info("database migrated", "applied", len(results))
	}
	return nil
}
